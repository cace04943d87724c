// Package library keeps snapshots of resolved playlists in SQLite.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jfmyers9/tracklist/internal/playlist"
	"github.com/jfmyers9/tracklist/internal/rss"
	"github.com/jfmyers9/tracklist/pkg/podcastindex"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no snapshot exists for a playlist guid.
var ErrNotFound = errors.New("library: playlist not found")

// Store manages saved playlist snapshots backed by SQLite
type Store struct {
	db *sql.DB
}

// Snapshot is a saved playlist as of ResolvedAt.
type Snapshot struct {
	Playlist   *playlist.Playlist  `json:"playlist"`
	Unresolved []UnresolvedPointer `json:"unresolved"`
	ResolvedAt time.Time           `json:"resolvedAt"`
}

// Summary describes a saved playlist without its songs.
type Summary struct {
	FeedGUID        string    `json:"feedGuid"`
	Title           string    `json:"title"`
	Artist          string    `json:"artist"`
	SongCount       int       `json:"songCount"`
	UnresolvedCount int       `json:"unresolvedCount"`
	ResolvedAt      time.Time `json:"resolvedAt"`
}

// UnresolvedPointer is a pointer that did not resolve when the snapshot
// was taken.
type UnresolvedPointer struct {
	Index   int         `json:"index"`
	Pointer rss.Pointer `json:"pointer"`
	Error   string      `json:"error,omitempty"`
}

// Open opens (creating if needed) the library database at dbPath.
// ":memory:" opens a private in-memory database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps in-memory databases consistent
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS playlists (
			feed_guid TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			rss_url TEXT NOT NULL,
			link TEXT,
			description TEXT,
			image TEXT,
			value TEXT,
			resolved_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS playlist_songs (
			playlist_guid TEXT NOT NULL REFERENCES playlists(feed_guid) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			feed_guid TEXT NOT NULL,
			item_guid TEXT NOT NULL,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			image TEXT,
			link TEXT,
			description TEXT,
			enclosure_url TEXT,
			duration INTEGER NOT NULL DEFAULT 0,
			value TEXT,
			PRIMARY KEY (playlist_guid, position)
		);

		CREATE TABLE IF NOT EXISTS unresolved_pointers (
			playlist_guid TEXT NOT NULL REFERENCES playlists(feed_guid) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			feed_guid TEXT NOT NULL,
			item_guid TEXT NOT NULL,
			error TEXT,
			PRIMARY KEY (playlist_guid, position)
		);

		CREATE INDEX IF NOT EXISTS idx_resolved_at ON playlists(resolved_at);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	// Libraries written before these columns existed
	columns := []struct{ table, column string }{
		{"playlists", "value"},
		{"playlist_songs", "description"},
		{"playlist_songs", "value"},
	}
	for _, c := range columns {
		if err := addColumn(db, c.table, c.column); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Store{db: db}, nil
}

// addColumn adds a nullable TEXT column to table unless it already exists.
func addColumn(db *sql.DB, table, column string) error {
	var n int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column,
	).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	if n > 0 {
		return nil
	}
	if _, err := db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", table, column)); err != nil {
		return fmt.Errorf("failed to add %s.%s: %w", table, column, err)
	}
	return nil
}

// encodeValue stores a value block as JSON; nil stays NULL.
func encodeValue(v *podcastindex.Value) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode value: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeValue(s sql.NullString) (*podcastindex.Value, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var v podcastindex.Value
	if err := json.Unmarshal([]byte(s.String), &v); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}
	return &v, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save replaces the snapshot of result's playlist.
func (s *Store) Save(ctx context.Context, result *playlist.Result, resolvedAt time.Time) error {
	if result == nil || result.Playlist == nil {
		return errors.New("library: nothing to save")
	}
	p := result.Playlist

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Deleting the parent row cascades to songs and pointers.
	if _, err := tx.ExecContext(ctx, "DELETE FROM playlists WHERE feed_guid = ?", p.FeedGUID); err != nil {
		return fmt.Errorf("failed to clear playlist %s: %w", p.FeedGUID, err)
	}

	value, err := encodeValue(p.Value)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO playlists (feed_guid, title, artist, rss_url, link, description, image, value, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.FeedGUID, p.Title, p.Artist, p.RSSURL, p.Link, p.Description, p.Image, value, resolvedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	songStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO playlist_songs (playlist_guid, position, feed_guid, item_guid, title, artist, image, link, description, enclosure_url, duration, value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer songStmt.Close()

	for i, song := range p.Songs {
		songValue, err := encodeValue(song.Value)
		if err != nil {
			return fmt.Errorf("song %d: %w", i, err)
		}

		_, err = songStmt.ExecContext(ctx,
			p.FeedGUID,
			i,
			song.FeedGUID,
			song.ItemGUID,
			song.Title,
			song.Artist,
			song.Image,
			song.Link,
			song.Description,
			song.EnclosureURL,
			int64(song.Duration.Seconds()),
			songValue,
		)
		if err != nil {
			return fmt.Errorf("failed to insert song %d: %w", i, err)
		}
	}

	pointerStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO unresolved_pointers (playlist_guid, position, feed_guid, item_guid, error)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer pointerStmt.Close()

	for _, o := range result.Unresolved() {
		var errMsg sql.NullString
		if o.Err != nil {
			errMsg = sql.NullString{String: o.Err.Error(), Valid: true}
		}
		_, err := pointerStmt.ExecContext(ctx, p.FeedGUID, o.Index, o.Pointer.FeedGUID, o.Pointer.ItemGUID, errMsg)
		if err != nil {
			return fmt.Errorf("failed to insert unresolved pointer %d: %w", o.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Get loads the snapshot of the playlist with the given guid.
func (s *Store) Get(ctx context.Context, guid string) (*Snapshot, error) {
	var (
		p          = &playlist.Playlist{}
		link       sql.NullString
		desc       sql.NullString
		image      sql.NullString
		value      sql.NullString
		resolvedAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT feed_guid, title, artist, rss_url, link, description, image, value, resolved_at
		FROM playlists
		WHERE feed_guid = ?
	`, guid).Scan(&p.FeedGUID, &p.Title, &p.Artist, &p.RSSURL, &link, &desc, &image, &value, &resolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, guid)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist: %w", err)
	}

	p.Medium = podcastindex.MediumPlaylist
	p.Link = link.String
	p.Description = desc.String
	p.Image = image.String
	if p.Value, err = decodeValue(value); err != nil {
		return nil, err
	}

	songs, err := s.songs(ctx, guid)
	if err != nil {
		return nil, err
	}
	p.Songs = songs

	unresolved, err := s.Unresolved(ctx, guid)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Playlist:   p,
		Unresolved: unresolved,
		ResolvedAt: time.Unix(resolvedAt, 0),
	}, nil
}

func (s *Store) songs(ctx context.Context, guid string) ([]podcastindex.Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT feed_guid, item_guid, title, artist, COALESCE(image, ''), COALESCE(link, ''),
			COALESCE(description, ''), COALESCE(enclosure_url, ''), duration, value
		FROM playlist_songs
		WHERE playlist_guid = ?
		ORDER BY position ASC
	`, guid)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	songs := []podcastindex.Song{}
	for rows.Next() {
		var song podcastindex.Song
		var durationSecs int64
		var value sql.NullString

		err := rows.Scan(
			&song.FeedGUID,
			&song.ItemGUID,
			&song.Title,
			&song.Artist,
			&song.Image,
			&song.Link,
			&song.Description,
			&song.EnclosureURL,
			&durationSecs,
			&value,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		if song.Value, err = decodeValue(value); err != nil {
			return nil, err
		}

		song.Duration = time.Duration(durationSecs) * time.Second
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating songs: %w", err)
	}

	return songs, nil
}

// Unresolved returns the pointers of a saved playlist that did not
// resolve, in document order.
func (s *Store) Unresolved(ctx context.Context, guid string) ([]UnresolvedPointer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, feed_guid, item_guid, COALESCE(error, '')
		FROM unresolved_pointers
		WHERE playlist_guid = ?
		ORDER BY position ASC
	`, guid)
	if err != nil {
		return nil, fmt.Errorf("failed to query unresolved pointers: %w", err)
	}
	defer rows.Close()

	var pointers []UnresolvedPointer
	for rows.Next() {
		var u UnresolvedPointer
		if err := rows.Scan(&u.Index, &u.Pointer.FeedGUID, &u.Pointer.ItemGUID, &u.Error); err != nil {
			return nil, fmt.Errorf("failed to scan unresolved pointer: %w", err)
		}
		pointers = append(pointers, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unresolved pointers: %w", err)
	}

	return pointers, nil
}

// List returns a summary of every saved playlist, most recently resolved
// first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.feed_guid, p.title, p.artist, p.resolved_at,
			(SELECT COUNT(*) FROM playlist_songs s WHERE s.playlist_guid = p.feed_guid),
			(SELECT COUNT(*) FROM unresolved_pointers u WHERE u.playlist_guid = p.feed_guid)
		FROM playlists p
		ORDER BY p.resolved_at DESC, p.feed_guid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		var resolvedAt int64

		if err := rows.Scan(&sum.FeedGUID, &sum.Title, &sum.Artist, &resolvedAt, &sum.SongCount, &sum.UnresolvedCount); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}

		sum.ResolvedAt = time.Unix(resolvedAt, 0)
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating playlists: %w", err)
	}

	return summaries, nil
}

// Delete removes the snapshot of a playlist.
func (s *Store) Delete(ctx context.Context, guid string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM playlists WHERE feed_guid = ?", guid)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, guid)
	}

	return nil
}

// Cleanup removes snapshots resolved longer than maxAge ago.
func (s *Store) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).Unix()

	result, err := s.db.ExecContext(ctx, "DELETE FROM playlists WHERE resolved_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old playlists: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}
