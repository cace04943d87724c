// Package watch re-resolves playlists on an interval and reports how
// their song lists change.
package watch

import (
	"context"
	"errors"
	"time"

	"github.com/jfmyers9/tracklist/internal/library"
	"github.com/jfmyers9/tracklist/internal/metrics"
	"github.com/jfmyers9/tracklist/internal/playlist"
	"github.com/jfmyers9/tracklist/pkg/podcastindex"
	"github.com/rs/zerolog"
)

// Resolver resolves a playlist feed guid.
type Resolver interface {
	Resolve(ctx context.Context, guid string) (*playlist.Result, error)
}

// Store persists snapshots between checks and across restarts.
type Store interface {
	Get(ctx context.Context, guid string) (*library.Snapshot, error)
	Save(ctx context.Context, result *playlist.Result, resolvedAt time.Time) error
}

// Change is the outcome of one check of one playlist.
type Change struct {
	GUID    string
	Result  *playlist.Result    // Nil when Err is set
	Added   []podcastindex.Song // Songs present now but not in the previous snapshot
	Removed []podcastindex.Song // Songs present in the previous snapshot but not now
	First   bool                // No previous snapshot existed
	Err     error
	At      time.Time
}

// Changed reports whether the song list differs from the previous
// snapshot.
func (c Change) Changed() bool {
	return len(c.Added) > 0 || len(c.Removed) > 0
}

// Config holds watcher configuration.
type Config struct {
	GUIDs    []string      // Playlist feed guids to watch
	Interval time.Duration // Time between checks
	Store    Store         // Optional: snapshots are kept in memory only when nil
	Now      func() time.Time
}

// Watcher periodically re-resolves a set of playlists. It is not safe
// for concurrent use.
type Watcher struct {
	resolver Resolver
	store    Store
	guids    []string
	interval time.Duration
	now      func() time.Time
	logger   zerolog.Logger

	last map[string][]podcastindex.Song
}

// NewWatcher creates a new Watcher instance
func NewWatcher(resolver Resolver, cfg Config, logger zerolog.Logger) *Watcher {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Watcher{
		resolver: resolver,
		store:    cfg.Store,
		guids:    cfg.GUIDs,
		interval: cfg.Interval,
		now:      now,
		logger:   logger.With().Str("component", "watcher").Logger(),
		last:     make(map[string][]podcastindex.Song),
	}
}

// Run checks every playlist immediately and then once per interval,
// sending one Change per playlist per check.
// Blocks until context is cancelled
func (w *Watcher) Run(ctx context.Context, changes chan<- Change) error {
	w.logger.Info().
		Dur("interval", w.interval).
		Int("playlists", len(w.guids)).
		Msg("Starting watcher")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.checkAll(ctx, changes)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Watcher stopped")
			return ctx.Err()
		case <-ticker.C:
			w.checkAll(ctx, changes)
		}
	}
}

func (w *Watcher) checkAll(ctx context.Context, changes chan<- Change) {
	for _, guid := range w.guids {
		if ctx.Err() != nil {
			return
		}

		change := w.Check(ctx, guid)

		select {
		case changes <- change:
		case <-ctx.Done():
			return
		}
	}
}

// Check resolves one playlist, compares it with the previous snapshot and
// saves the new snapshot when the song list changed.
func (w *Watcher) Check(ctx context.Context, guid string) Change {
	logger := w.logger.With().Str("playlist", guid).Logger()
	change := Change{GUID: guid, At: w.now()}

	start := time.Now()
	result, err := w.resolver.Resolve(ctx, guid)
	metrics.ObserveResolution(result, err, time.Since(start))
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to resolve playlist")
		change.Err = err
		return change
	}
	change.Result = result

	previous, ok := w.previous(ctx, guid)
	change.First = !ok
	change.Added, change.Removed = Diff(previous, result.Playlist.Songs)

	w.last[guid] = result.Playlist.Songs

	if !change.First && !change.Changed() {
		logger.Debug().Int("songs", len(result.Playlist.Songs)).Msg("Playlist unchanged")
		return change
	}

	logger.Info().
		Int("songs", len(result.Playlist.Songs)).
		Int("added", len(change.Added)).
		Int("removed", len(change.Removed)).
		Int("unresolved", len(result.Unresolved())).
		Bool("first", change.First).
		Msg("Playlist changed")

	if w.store != nil {
		if err := w.store.Save(ctx, result, change.At); err != nil {
			logger.Error().Err(err).Msg("Failed to save playlist snapshot")
		}
	}

	return change
}

// previous returns the last known songs of a playlist, from memory or
// from the store.
func (w *Watcher) previous(ctx context.Context, guid string) ([]podcastindex.Song, bool) {
	if songs, ok := w.last[guid]; ok {
		return songs, true
	}
	if w.store == nil {
		return nil, false
	}

	snap, err := w.store.Get(ctx, guid)
	if err != nil {
		if !errors.Is(err, library.ErrNotFound) {
			w.logger.Warn().Err(err).Str("playlist", guid).Msg("Failed to load playlist snapshot")
		}
		return nil, false
	}
	return snap.Playlist.Songs, true
}

// Diff compares two song lists by feed and item guid. Repeated songs are
// counted, so a song that appears twice before and once after is reported
// as removed once. Order changes alone produce no difference.
func Diff(before, after []podcastindex.Song) (added, removed []podcastindex.Song) {
	counts := make(map[string]int, len(before))
	for _, s := range before {
		counts[songKey(s)]++
	}

	for _, s := range after {
		k := songKey(s)
		if counts[k] > 0 {
			counts[k]--
			continue
		}
		added = append(added, s)
	}

	for _, s := range before {
		k := songKey(s)
		if counts[k] > 0 {
			counts[k]--
			removed = append(removed, s)
		}
	}

	return added, removed
}

func songKey(s podcastindex.Song) string {
	return s.FeedGUID + ":" + s.ItemGUID
}
