package podcastindex

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// EpisodeService provides episode lookups.
type EpisodeService struct {
	client *Client
}

const (
	opEpisodesByFeedGUID = "episodes/bypodcastguid"
	opEpisodeByGUIDs     = "episodes/byguid"

	// MaxEpisodes is the largest page the API serves. Albums are fetched
	// in a single page.
	MaxEpisodes = 1000
)

// ByFeedGUID returns the episodes of the feed with the given guid, newest
// first, as reported by the directory.
func (s *EpisodeService) ByFeedGUID(ctx context.Context, feedGUID string) ([]Episode, error) {
	feedGUID = strings.TrimSpace(feedGUID)
	if feedGUID == "" {
		return nil, invalidInput(opEpisodesByFeedGUID, "feedGuid must not be empty")
	}

	query := url.Values{
		"guid": {feedGUID},
		"max":  {strconv.Itoa(MaxEpisodes)},
	}

	var resp episodesResponse
	if _, err := s.client.get(ctx, opEpisodesByFeedGUID, feedGUID, query, &resp); err != nil {
		return nil, err
	}

	if noMatch(resp.Description) {
		return nil, notFound(opEpisodesByFeedGUID, feedGUID, resp.Description)
	}

	episodes := make([]Episode, 0, len(resp.Items))
	for _, item := range resp.Items {
		episodes = append(episodes, newEpisode(item))
	}
	return episodes, nil
}

// ByGUIDs returns a single episode identified by its feed guid and item
// guid.
//
// Returns ErrNotFound if the directory knows no such episode.
func (s *EpisodeService) ByGUIDs(ctx context.Context, feedGUID, itemGUID string) (*Episode, error) {
	feedGUID = strings.TrimSpace(feedGUID)
	itemGUID = strings.TrimSpace(itemGUID)
	if feedGUID == "" || itemGUID == "" {
		return nil, invalidInput(opEpisodeByGUIDs, "feedGuid and itemGuid must not be empty")
	}

	query := url.Values{
		"guid":        {itemGUID},
		"podcastguid": {feedGUID},
	}
	key := feedGUID + ":" + itemGUID

	var resp episodeResponse
	if _, err := s.client.get(ctx, opEpisodeByGUIDs, key, query, &resp); err != nil {
		return nil, err
	}

	if noMatch(resp.Description) {
		return nil, notFound(opEpisodeByGUIDs, key, resp.Description)
	}

	var raw apiEpisode
	ok, err := decodeObject(resp.Episode, &raw)
	if err != nil {
		return nil, &Error{Kind: ErrUpstream, Op: opEpisodeByGUIDs, GUID: key, Message: "failed to decode episode", Err: err}
	}
	if !ok {
		return nil, notFound(opEpisodeByGUIDs, key, "no episode in response")
	}

	ep := newEpisode(raw)
	if ep.FeedGUID == "" {
		ep.FeedGUID = feedGUID
	}
	return &ep, nil
}
