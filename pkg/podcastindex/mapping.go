package podcastindex

import (
	"bytes"
	"encoding/json"
	"time"
)

// decodeObject decodes raw into v. The API answers a lookup that matches
// nothing with null or an empty array instead of an object; in that case
// decodeObject returns false and leaves v untouched.
func decodeObject(raw json.RawMessage, v interface{}) (bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || trimmed[0] == '[' {
		return false, nil
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return false, err
	}
	return true, nil
}

// newFeed normalizes a feed record. requestedGUID is used when the record
// carries no podcastGuid of its own.
func newFeed(f apiFeed, requestedGUID string) Feed {
	feed := Feed{
		ID:           f.ID,
		GUID:         firstNonEmpty(f.PodcastGUID, requestedGUID),
		Medium:       f.Medium,
		Title:        f.Title,
		URL:          f.URL,
		OriginalURL:  f.OriginalURL,
		Link:         f.Link,
		Description:  f.Description,
		Author:       f.Author,
		OwnerName:    f.OwnerName,
		Image:        f.Image,
		Artwork:      f.Artwork,
		Language:     f.Language,
		Explicit:     f.Explicit,
		EpisodeCount: f.EpisodeCount,
		Value:        f.Value,
	}
	if f.LastUpdateTime > 0 {
		feed.LastUpdate = time.Unix(f.LastUpdateTime, 0).UTC()
	}

	var categories map[string]string
	if ok, err := decodeObject(f.Categories, &categories); ok && err == nil {
		feed.Categories = categories
	}

	return feed
}

func newEpisode(e apiEpisode) Episode {
	ep := Episode{
		ID:              e.ID,
		GUID:            e.GUID,
		FeedGUID:        e.PodcastGUID,
		FeedID:          e.FeedID,
		Title:           e.Title,
		Link:            e.Link,
		Description:     e.Description,
		EnclosureURL:    e.EnclosureURL,
		EnclosureType:   e.EnclosureType,
		EnclosureLength: e.EnclosureLength,
		Explicit:        e.Explicit != 0,
		Season:          e.Season,
		Image:           e.Image,
		FeedImage:       e.FeedImage,
		Value:           e.Value,
	}
	if e.DatePublished > 0 {
		ep.Published = time.Unix(e.DatePublished, 0).UTC()
	}
	if e.Duration != nil {
		ep.Duration = time.Duration(*e.Duration) * time.Second
	}
	if e.Episode != nil {
		ep.Episode = *e.Episode
	}
	if e.ChaptersURL != nil {
		ep.ChaptersURL = *e.ChaptersURL
	}
	if e.TranscriptURL != nil {
		ep.TranscriptURL = *e.TranscriptURL
	}
	return ep
}

// newAlbum builds an album from a feed record and its episodes.
//
// Defaults: medium "music", artist from author then owner name, image
// from image then artwork. Every song gets the album artist and, when it
// has no image of its own, the album image.
func newAlbum(feed *Feed, episodes []Episode) *Album {
	album := &Album{
		FeedGUID:    feed.GUID,
		Medium:      firstNonEmpty(feed.Medium, MediumMusic),
		RSSURL:      feed.RSSURL(),
		Link:        feed.Link,
		Artist:      feed.Artist(),
		Title:       feed.Title,
		Description: feed.Description,
		Image:       feed.ImageURL(),
		Value:       feed.Value,
		Songs:       make([]Song, 0, len(episodes)),
	}

	for _, ep := range episodes {
		album.Songs = append(album.Songs, newSong(ep, album))
	}

	return album
}

func newSong(ep Episode, album *Album) Song {
	return Song{
		FeedGUID:     firstNonEmpty(ep.FeedGUID, album.FeedGUID),
		ItemGUID:     ep.GUID,
		Title:        ep.Title,
		Artist:       album.Artist,
		Image:        firstNonEmpty(ep.Image, album.Image),
		Link:         ep.Link,
		Description:  ep.Description,
		EnclosureURL: ep.EnclosureURL,
		Duration:     ep.Duration,
		Value:        ep.Value,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
