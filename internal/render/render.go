// Package render formats albums, playlists and songs for terminal output.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/jfmyers9/tracklist/internal/playlist"
	"github.com/jfmyers9/tracklist/pkg/podcastindex"
	"github.com/mattn/go-runewidth"
)

// DefaultSongFormat is the template used for each song line.
// Available fields: .Position, .Title, .Artist, .Duration, .FeedGUID, .ItemGUID
const DefaultSongFormat = "{{.Position}}. {{.Title}} - {{.Artist}}"

// SongLine is the data passed to the song template.
type SongLine struct {
	Position int
	Title    string
	Artist   string
	Duration string
	FeedGUID string
	ItemGUID string
}

// Options controls text output.
type Options struct {
	Format string // Song template, DefaultSongFormat when empty
	Width  int    // Fixed display width per line, 0 disables padding
}

// Album writes a header line followed by one line per song.
func Album(w io.Writer, album *podcastindex.Album, opts Options) error {
	header := fmt.Sprintf("%s by %s (%d songs)", album.Title, album.Artist, len(album.Songs))
	if _, err := fmt.Fprintln(w, padToWidth(header, opts.Width)); err != nil {
		return err
	}
	return Songs(w, album.Songs, opts)
}

// Playlist writes the playlist like an album, then lists unresolved
// pointers.
func Playlist(w io.Writer, result *playlist.Result, opts Options) error {
	if err := Album(w, &result.Playlist.Album, opts); err != nil {
		return err
	}

	unresolved := result.Unresolved()
	if len(unresolved) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "\n%d unresolved:\n", len(unresolved)); err != nil {
		return err
	}
	for _, o := range unresolved {
		line := fmt.Sprintf("  #%d %s (%v)", o.Index+1, o.Pointer.Key(), o.Err)
		if _, err := fmt.Fprintln(w, padToWidth(line, opts.Width)); err != nil {
			return err
		}
	}
	return nil
}

// Songs writes one templated line per song.
func Songs(w io.Writer, songs []podcastindex.Song, opts Options) error {
	format := opts.Format
	if format == "" {
		format = DefaultSongFormat
	}

	tmpl, err := template.New("song").Parse(format)
	if err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	for i, song := range songs {
		line, err := formatSong(tmpl, newSongLine(i+1, song))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, padToWidth(line, opts.Width)); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSongLine(position int, song podcastindex.Song) SongLine {
	return SongLine{
		Position: position,
		Title:    song.Title,
		Artist:   song.Artist,
		Duration: formatDuration(song.Duration),
		FeedGUID: song.FeedGUID,
		ItemGUID: song.ItemGUID,
	}
}

// formatSong applies the template to one song line
func formatSong(tmpl *template.Template, line SongLine) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, line); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return buf.String(), nil
}

// formatDuration renders m:ss, or h:mm:ss from one hour up.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-:--"
	}
	secs := int(d.Round(time.Second).Seconds())
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// padToWidth pads or truncates text to a fixed display width.
// Width is measured in display columns, so wide runes count twice.
// Text longer than width is cut and suffixed with "...".
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}

	currentWidth := runewidth.StringWidth(text)
	if currentWidth == width {
		return text
	}
	if currentWidth < width {
		return text + strings.Repeat(" ", width-currentWidth)
	}

	const ellipsis = "..."
	ellipsisWidth := runewidth.StringWidth(ellipsis)
	if width <= ellipsisWidth {
		return runewidth.Truncate(ellipsis, width, "")
	}

	result := runewidth.Truncate(text, width-ellipsisWidth, "") + ellipsis

	// A wide rune at the cut point leaves one column short.
	if resultWidth := runewidth.StringWidth(result); resultWidth < width {
		result += strings.Repeat(" ", width-resultWidth)
	}
	return result
}
