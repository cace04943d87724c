package podcastindex

import (
	"encoding/json"
	"time"
)

// Medium values used by music feeds.
const (
	MediumMusic    = "music"
	MediumPlaylist = "musicL"
)

// Value describes the value-for-value payment model of a feed or item.
type Value struct {
	Model        ValueModel    `json:"model"`
	Destinations []Destination `json:"destinations"`
}

// ValueModel names the payment type and method.
type ValueModel struct {
	Type      string `json:"type"`
	Method    string `json:"method"`
	Suggested string `json:"suggested,omitempty"`
}

// Destination is one recipient of a value split.
type Destination struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Address     string `json:"address"`
	Split       int    `json:"split"`
	Fee         bool   `json:"fee,omitempty"`
	CustomKey   string `json:"customKey,omitempty"`
	CustomValue string `json:"customValue,omitempty"`
}

// Feed is the directory record of one podcast or music feed.
type Feed struct {
	ID           int64             `json:"id"`
	GUID         string            `json:"guid"`
	Medium       string            `json:"medium"`
	Title        string            `json:"title"`
	URL          string            `json:"url"`
	OriginalURL  string            `json:"originalUrl"`
	Link         string            `json:"link"`
	Description  string            `json:"description"`
	Author       string            `json:"author"`
	OwnerName    string            `json:"ownerName"`
	Image        string            `json:"image"`
	Artwork      string            `json:"artwork"`
	Language     string            `json:"language"`
	Explicit     bool              `json:"explicit"`
	EpisodeCount int               `json:"episodeCount"`
	LastUpdate   time.Time         `json:"lastUpdate"`
	Categories   map[string]string `json:"categories,omitempty"`
	Value        *Value            `json:"value,omitempty"`
}

// RSSURL returns the canonical RSS URL of the feed, preferring the
// original URL over the redirect-resolved one.
func (f *Feed) RSSURL() string {
	if f.OriginalURL != "" {
		return f.OriginalURL
	}
	return f.URL
}

// Artist returns the feed author, falling back to the owner name.
func (f *Feed) Artist() string {
	if f.Author != "" {
		return f.Author
	}
	return f.OwnerName
}

// ImageURL returns the feed image, falling back to the artwork.
func (f *Feed) ImageURL() string {
	if f.Image != "" {
		return f.Image
	}
	return f.Artwork
}

// Episode is one item of a feed as reported by the directory.
type Episode struct {
	ID              int64         `json:"id"`
	GUID            string        `json:"guid"`
	FeedGUID        string        `json:"feedGuid"`
	FeedID          int64         `json:"feedId"`
	Title           string        `json:"title"`
	Link            string        `json:"link"`
	Description     string        `json:"description"`
	Published       time.Time     `json:"published"`
	EnclosureURL    string        `json:"enclosureUrl"`
	EnclosureType   string        `json:"enclosureType"`
	EnclosureLength int64         `json:"enclosureLength"`
	Duration        time.Duration `json:"duration"`
	Explicit        bool          `json:"explicit"`
	Episode         int           `json:"episode,omitempty"`
	Season          int           `json:"season,omitempty"`
	Image           string        `json:"image"`
	FeedImage       string        `json:"feedImage"`
	ChaptersURL     string        `json:"chaptersUrl,omitempty"`
	TranscriptURL   string        `json:"transcriptUrl,omitempty"`
	Value           *Value        `json:"value,omitempty"`
}

// Song is one track of a music feed.
//
// A song is identified by its (FeedGUID, ItemGUID) pair.
type Song struct {
	FeedGUID     string        `json:"feedGuid"`
	ItemGUID     string        `json:"itemGuid"`
	Title        string        `json:"title"`
	Artist       string        `json:"artist"`
	Image        string        `json:"image,omitempty"`
	Link         string        `json:"link,omitempty"`
	Description  string        `json:"description,omitempty"`
	EnclosureURL string        `json:"enclosureUrl,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	Value        *Value        `json:"value,omitempty"`
}

// Album is a music feed together with its songs.
type Album struct {
	FeedGUID    string `json:"feedGuid"`
	Medium      string `json:"medium"`
	RSSURL      string `json:"rssUrl"`
	Link        string `json:"link"`
	Artist      string `json:"artist"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Value       *Value `json:"value,omitempty"`
	Songs       []Song `json:"songs"`
}

// SearchResult is the response of a search request.
type SearchResult struct {
	Count       int    `json:"count"`
	Query       string `json:"query"`
	Description string `json:"description"`
	Feeds       []Feed `json:"feeds"`

	// Raw is the undecoded response body.
	Raw json.RawMessage `json:"-"`
}

// Wire formats. These mirror the JSON returned by the API and are only
// used inside this package; mapping.go turns them into the types above.

type feedResponse struct {
	Status      string          `json:"status"`
	Feed        json.RawMessage `json:"feed"`
	Description string          `json:"description"`
}

type episodesResponse struct {
	Status      string       `json:"status"`
	Items       []apiEpisode `json:"items"`
	Count       int          `json:"count"`
	Description string       `json:"description"`
}

type episodeResponse struct {
	Status      string          `json:"status"`
	Episode     json.RawMessage `json:"episode"`
	Description string          `json:"description"`
}

type searchResponse struct {
	Status      string          `json:"status"`
	Feeds       []apiFeed       `json:"feeds"`
	Count       int             `json:"count"`
	Query       json.RawMessage `json:"query"`
	Description string          `json:"description"`
}

type apiFeed struct {
	ID             int64           `json:"id"`
	PodcastGUID    string          `json:"podcastGuid"`
	Medium         string          `json:"medium"`
	Title          string          `json:"title"`
	URL            string          `json:"url"`
	OriginalURL    string          `json:"originalUrl"`
	Link           string          `json:"link"`
	Description    string          `json:"description"`
	Author         string          `json:"author"`
	OwnerName      string          `json:"ownerName"`
	Image          string          `json:"image"`
	Artwork        string          `json:"artwork"`
	Language       string          `json:"language"`
	Explicit       bool            `json:"explicit"`
	EpisodeCount   int             `json:"episodeCount"`
	LastUpdateTime int64           `json:"lastUpdateTime"`
	Categories     json.RawMessage `json:"categories"`
	Value          *Value          `json:"value"`
}

type apiEpisode struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Link            string  `json:"link"`
	Description     string  `json:"description"`
	GUID            string  `json:"guid"`
	DatePublished   int64   `json:"datePublished"`
	EnclosureURL    string  `json:"enclosureUrl"`
	EnclosureType   string  `json:"enclosureType"`
	EnclosureLength int64   `json:"enclosureLength"`
	Duration        *int64  `json:"duration"`
	Explicit        int     `json:"explicit"`
	Episode         *int    `json:"episode"`
	Season          int     `json:"season"`
	Image           string  `json:"image"`
	FeedImage       string  `json:"feedImage"`
	FeedID          int64   `json:"feedId"`
	PodcastGUID     string  `json:"podcastGuid"`
	ChaptersURL     *string `json:"chaptersUrl"`
	TranscriptURL   *string `json:"transcriptUrl"`
	Value           *Value  `json:"value"`
}
