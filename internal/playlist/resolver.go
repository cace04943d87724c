// Package playlist resolves playlist feeds into ordered song lists.
//
// A playlist feed (medium musicL) has no songs of its own. Its RSS
// document lists remoteItem pointers, each naming a feed guid and an item
// guid; the resolver looks every pointer up in the referenced feed.
package playlist

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/jfmyers9/tracklist/internal/rss"
	"github.com/jfmyers9/tracklist/pkg/podcastindex"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultConcurrency is the number of feeds fetched in parallel.
const DefaultConcurrency = 4

// ErrSongNotFound marks a pointer whose item guid is not among the songs
// of its feed.
var ErrSongNotFound = errors.New("playlist: song not found in feed")

// Playlist is an album-shaped container whose songs come from other
// feeds. Medium is always podcastindex.MediumPlaylist.
type Playlist struct {
	podcastindex.Album
}

// Status is the outcome of resolving one pointer.
type Status int

const (
	StatusResolved Status = iota
	StatusUnresolved
)

func (s Status) String() string {
	switch s {
	case StatusResolved:
		return "resolved"
	case StatusUnresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Outcome records what happened to one pointer.
type Outcome struct {
	Index   int                // Position of the pointer in the RSS document
	Pointer rss.Pointer        // The pointer itself
	Status  Status             // Resolved or unresolved
	Song    *podcastindex.Song // The resolved song, nil if unresolved
	Err     error              // Why the pointer is unresolved
}

// Result is a resolved playlist together with the per-pointer outcomes.
type Result struct {
	Playlist *Playlist
	Outcomes []Outcome
}

// Unresolved returns the outcomes of pointers that did not resolve.
func (r *Result) Unresolved() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusUnresolved {
			out = append(out, o)
		}
	}
	return out
}

// Config holds resolver configuration.
type Config struct {
	Concurrency int        // Optional: feeds fetched in parallel (defaults to 4)
	Cache       *SongCache // Optional: songs shared across Resolve calls
}

// Resolver turns playlist feeds into Playlists.
//
// Resolver is safe for concurrent use. Concurrent Resolve calls that need
// the same feed share a single in-flight fetch.
type Resolver struct {
	dir         Directory
	concurrency int
	cache       *SongCache
	inflight    singleflight.Group
}

// New creates a Resolver.
func New(dir Directory, cfg Config) *Resolver {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Resolver{
		dir:         dir,
		concurrency: concurrency,
		cache:       cfg.Cache,
	}
}

// feedSongs is the outcome of fetching one referenced feed.
type feedSongs struct {
	byItem map[string]podcastindex.Song
	err    error
}

// Resolve fetches the playlist feed, reads its remoteItem pointers and
// resolves each one.
//
// Resolve fails only when the playlist feed or its RSS document cannot be
// fetched, or the feed has no RSS URL (ErrMissingData). A pointer whose
// feed fails to load or whose song is missing is reported as unresolved
// in Result.Outcomes and left out of the playlist. Repeated pointers
// produce repeated songs. Every song's artist is the playlist's artist.
func (r *Resolver) Resolve(ctx context.Context, guid string) (*Result, error) {
	feed, err := r.dir.Feed(ctx, guid)
	if err != nil {
		return nil, err
	}

	rssURL := feed.RSSURL()
	if rssURL == "" {
		return nil, &podcastindex.Error{
			Kind:    podcastindex.ErrMissingData,
			Op:      "playlist",
			GUID:    feed.GUID,
			Message: "no RSS URL found for playlist",
		}
	}

	body, err := r.dir.FetchRSS(ctx, rssURL)
	if err != nil {
		return nil, err
	}

	doc, err := rss.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &podcastindex.Error{
			Kind:    podcastindex.ErrUpstream,
			Op:      "rss",
			GUID:    rssURL,
			Message: "failed to parse playlist RSS",
			Err:     err,
		}
	}

	pointers := rss.ExtractPointers(doc)
	feeds := r.fetchFeeds(ctx, rss.FeedGUIDs(pointers))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	playlist := &Playlist{Album: podcastindex.Album{
		FeedGUID:    feed.GUID,
		Medium:      podcastindex.MediumPlaylist,
		RSSURL:      rssURL,
		Link:        feed.Link,
		Artist:      feed.Artist(),
		Title:       feed.Title,
		Description: feed.Description,
		Image:       feed.ImageURL(),
		Value:       feed.Value,
		Songs:       make([]podcastindex.Song, 0, len(pointers)),
	}}

	outcomes := make([]Outcome, len(pointers))
	for i, p := range pointers {
		outcome := Outcome{Index: i, Pointer: p, Status: StatusUnresolved}

		fs := feeds[p.FeedGUID]
		if fs.err != nil {
			outcome.Err = fs.err
			outcomes[i] = outcome
			continue
		}

		song, ok := fs.byItem[p.ItemGUID]
		if !ok {
			outcome.Err = ErrSongNotFound
			outcomes[i] = outcome
			continue
		}

		song.Artist = playlist.Artist
		playlist.Songs = append(playlist.Songs, song)

		outcome.Status = StatusResolved
		outcome.Song = &song
		outcomes[i] = outcome
	}

	return &Result{Playlist: playlist, Outcomes: outcomes}, nil
}

// fetchFeeds loads the songs of every distinct feed guid, at most
// r.concurrency at a time. Each guid appears once in guids, so each feed
// is fetched at most once per call.
func (r *Resolver) fetchFeeds(ctx context.Context, guids []string) map[string]*feedSongs {
	results := make(map[string]*feedSongs, len(guids))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for _, guid := range guids {
		g.Go(func() error {
			songs, err := r.songs(ctx, guid)

			fs := &feedSongs{err: err}
			if err == nil {
				fs.byItem = indexSongs(songs)
			}

			mu.Lock()
			results[guid] = fs
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// songs returns the songs of a feed from the shared cache, an in-flight
// fetch, or a new fetch.
//
// A shared fetch outlives the caller that started it: it runs detached
// from that caller's cancellation, bounded by the directory's own request
// timeout. Each caller stops waiting when its own ctx is done.
func (r *Resolver) songs(ctx context.Context, feedGUID string) ([]podcastindex.Song, error) {
	if r.cache != nil {
		if songs, ok := r.cache.Get(feedGUID); ok {
			return songs, nil
		}
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := r.inflight.DoChan(feedGUID, func() (interface{}, error) {
		songs, err := r.dir.Songs(fetchCtx, feedGUID)
		if err != nil {
			return nil, err
		}
		if r.cache != nil {
			r.cache.Add(feedGUID, songs)
		}
		return songs, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]podcastindex.Song), nil
	}
}

// indexSongs maps item guid to song. The first song wins when a feed
// repeats an item guid.
func indexSongs(songs []podcastindex.Song) map[string]podcastindex.Song {
	index := make(map[string]podcastindex.Song, len(songs))
	for _, s := range songs {
		if _, ok := index[s.ItemGUID]; !ok {
			index[s.ItemGUID] = s
		}
	}
	return index
}
