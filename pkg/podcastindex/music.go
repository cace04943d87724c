package podcastindex

import (
	"context"
)

// MusicService assembles albums and songs from feed and episode lookups.
type MusicService struct {
	client *Client
}

// Album returns the music feed with the given guid together with all of
// its songs.
//
// The feed record is fetched first, then its episodes. Each episode
// becomes a Song whose artist is the album artist and whose image falls
// back to the album image.
func (s *MusicService) Album(ctx context.Context, guid string) (*Album, error) {
	feed, err := s.client.Feeds().ByGUID(ctx, guid)
	if err != nil {
		return nil, err
	}

	episodes, err := s.client.Episodes().ByFeedGUID(ctx, feed.GUID)
	if err != nil {
		return nil, err
	}

	return newAlbum(feed, episodes), nil
}

// Songs returns the songs of the music feed with the given guid.
func (s *MusicService) Songs(ctx context.Context, feedGUID string) ([]Song, error) {
	album, err := s.Album(ctx, feedGUID)
	if err != nil {
		return nil, err
	}
	return album.Songs, nil
}
