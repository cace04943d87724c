package playlist

import (
	"context"

	"github.com/jfmyers9/tracklist/pkg/podcastindex"
)

// Directory is the subset of the directory API the resolver needs.
type Directory interface {
	// Feed returns the directory record of a feed.
	Feed(ctx context.Context, guid string) (*podcastindex.Feed, error)
	// Songs returns the songs of a music feed.
	Songs(ctx context.Context, feedGUID string) ([]podcastindex.Song, error)
	// FetchRSS downloads an RSS document.
	FetchRSS(ctx context.Context, rawURL string) ([]byte, error)
}

// ClientDirectory implements Directory on top of a Podcast Index client.
type ClientDirectory struct {
	client *podcastindex.Client
}

// NewDirectory wraps client.
func NewDirectory(client *podcastindex.Client) *ClientDirectory {
	return &ClientDirectory{client: client}
}

func (d *ClientDirectory) Feed(ctx context.Context, guid string) (*podcastindex.Feed, error) {
	return d.client.Feeds().ByGUID(ctx, guid)
}

func (d *ClientDirectory) Songs(ctx context.Context, feedGUID string) ([]podcastindex.Song, error) {
	return d.client.Music().Songs(ctx, feedGUID)
}

func (d *ClientDirectory) FetchRSS(ctx context.Context, rawURL string) ([]byte, error) {
	return d.client.FetchRSS(ctx, rawURL)
}
