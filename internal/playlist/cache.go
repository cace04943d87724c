package playlist

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jfmyers9/tracklist/pkg/podcastindex"
)

// SongCache keeps the songs of recently resolved feeds across Resolve
// calls. It is safe for concurrent use.
type SongCache struct {
	lru *expirable.LRU[string, []podcastindex.Song]
}

// NewSongCache creates a cache holding up to size feeds for ttl each.
func NewSongCache(size int, ttl time.Duration) *SongCache {
	return &SongCache{
		lru: expirable.NewLRU[string, []podcastindex.Song](size, nil, ttl),
	}
}

// Get returns the cached songs of a feed.
func (c *SongCache) Get(feedGUID string) ([]podcastindex.Song, bool) {
	return c.lru.Get(feedGUID)
}

// Add stores the songs of a feed.
func (c *SongCache) Add(feedGUID string, songs []podcastindex.Song) {
	c.lru.Add(feedGUID, songs)
}

// Len returns the number of cached feeds.
func (c *SongCache) Len() int {
	return c.lru.Len()
}

// Purge empties the cache.
func (c *SongCache) Purge() {
	c.lru.Purge()
}
