package server

import (
	"context"

	"github.com/jfmyers9/tracklist/pkg/podcastindex"
)

// ClientCatalog implements Catalog on top of a Podcast Index client.
type ClientCatalog struct {
	client *podcastindex.Client
}

// NewCatalog wraps client.
func NewCatalog(client *podcastindex.Client) *ClientCatalog {
	return &ClientCatalog{client: client}
}

func (c *ClientCatalog) Feed(ctx context.Context, guid string) (*podcastindex.Feed, error) {
	return c.client.Feeds().ByGUID(ctx, guid)
}

func (c *ClientCatalog) Album(ctx context.Context, guid string) (*podcastindex.Album, error) {
	return c.client.Music().Album(ctx, guid)
}

func (c *ClientCatalog) SearchMusic(ctx context.Context, term string) (*podcastindex.SearchResult, error) {
	return c.client.Search().Music(ctx, term)
}
