// Package podcastindex provides a client for the Podcast Index API 1.0.
//
// This package implements the read-only subset of the Podcast Index
// API needed to look up feeds, episodes and music albums, and to search
// the music directory. It is designed to be used as a standalone SDK.
//
// Example usage:
//
//	import "github.com/jfmyers9/tracklist/pkg/podcastindex"
//
//	client := podcastindex.NewClient(podcastindex.Config{
//	    APIKey:    "your-api-key",
//	    APISecret: "your-api-secret",
//	    UserAgent: "tracklist/1.0",
//	    BaseURL:   podcastindex.DefaultBaseURL,
//	})
//
//	feed, err := client.Feeds().ByGUID(ctx, "99d74aa0-2f55-5b2c-9c7a-47a3f31357f3")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(feed.Title, "by", feed.Author)
package podcastindex

import (
	"net/http"
	"strings"
	"time"
)

// Config holds client configuration.
type Config struct {
	APIKey     string        // Required: Podcast Index API key
	APISecret  string        // Required: Podcast Index API secret
	UserAgent  string        // Required: User-Agent sent with every request
	BaseURL    string        // Required: Base URL for API, usually DefaultBaseURL
	Timeout    time.Duration // Optional: Per-request timeout (defaults to 10s)
	HTTPClient *http.Client  // Optional: HTTP client (defaults to http.DefaultClient)
	Logger     Logger        // Optional: Logger interface for debug logging

	// Now and Signer override the header cache clock and signature
	// function. Both are optional and exist for tests.
	Now    func() time.Time
	Signer Signer
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the main entry point for Podcast Index API operations.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	headers    *HeaderCache
	logger     Logger

	feeds    *FeedService
	episodes *EpisodeService
	music    *MusicService
	search   *SearchService
}

const (
	// DefaultBaseURL is the default Podcast Index API endpoint.
	DefaultBaseURL = "https://api.podcastindex.org/api/1.0/"

	// DefaultTimeout bounds every outbound request.
	DefaultTimeout = 10 * time.Second
)

// NewClient creates a new Podcast Index API client.
//
// Credentials are not validated here. The first request fails with
// ErrConfiguration if any of APIKey, APISecret, UserAgent or BaseURL
// is missing.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := cfg.BaseURL
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: httpClient,
		logger:     cfg.Logger,
		headers: NewHeaderCache(HeaderCacheConfig{
			APIKey:    cfg.APIKey,
			APISecret: cfg.APISecret,
			UserAgent: cfg.UserAgent,
			BaseURL:   baseURL,
			Now:       cfg.Now,
			Signer:    cfg.Signer,
		}),
	}

	c.feeds = &FeedService{client: c}
	c.episodes = &EpisodeService{client: c}
	c.music = &MusicService{client: c}
	c.search = &SearchService{client: c}

	return c
}

// Feeds returns the feed lookup service.
func (c *Client) Feeds() *FeedService {
	return c.feeds
}

// Episodes returns the episode lookup service.
func (c *Client) Episodes() *EpisodeService {
	return c.episodes
}

// Music returns the album and song service.
func (c *Client) Music() *MusicService {
	return c.music
}

// Search returns the search service.
func (c *Client) Search() *SearchService {
	return c.search
}

// Headers returns the header cache shared by every request.
func (c *Client) Headers() *HeaderCache {
	return c.headers
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
