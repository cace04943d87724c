package podcastindex

import (
	"context"
	"net/url"
	"strings"
)

// FeedService provides feed lookups.
type FeedService struct {
	client *Client
}

const opFeedByGUID = "podcasts/byguid"

// ByGUID returns the directory record of the feed with the given guid.
//
// Returns ErrInvalidInput for an empty guid, ErrNotFound when no feed
// matches, ErrNetwork on timeouts and ErrUpstream on non-200 responses.
//
// Example:
//
//	feed, err := client.Feeds().ByGUID(ctx, guid)
//	if errors.Is(err, podcastindex.ErrNotFound) {
//	    fmt.Println("no such feed")
//	}
func (s *FeedService) ByGUID(ctx context.Context, guid string) (*Feed, error) {
	guid = strings.TrimSpace(guid)
	if guid == "" {
		return nil, invalidInput(opFeedByGUID, "guid must not be empty")
	}

	var resp feedResponse
	if _, err := s.client.get(ctx, opFeedByGUID, guid, url.Values{"guid": {guid}}, &resp); err != nil {
		return nil, err
	}

	if noMatch(resp.Description) {
		return nil, notFound(opFeedByGUID, guid, resp.Description)
	}

	var raw apiFeed
	ok, err := decodeObject(resp.Feed, &raw)
	if err != nil {
		return nil, &Error{Kind: ErrUpstream, Op: opFeedByGUID, GUID: guid, Message: "failed to decode feed", Err: err}
	}
	if !ok {
		return nil, notFound(opFeedByGUID, guid, "no feed in response")
	}

	feed := newFeed(raw, guid)
	return &feed, nil
}

// RSSURL returns the RSS URL of the feed with the given guid.
//
// Returns ErrMissingData if the feed record has neither an original nor
// a resolved URL.
func (s *FeedService) RSSURL(ctx context.Context, guid string) (string, error) {
	feed, err := s.ByGUID(ctx, guid)
	if err != nil {
		return "", err
	}

	rssURL := feed.RSSURL()
	if rssURL == "" {
		return "", &Error{Kind: ErrMissingData, Op: opFeedByGUID, GUID: feed.GUID, Message: "feed has no RSS URL"}
	}
	return rssURL, nil
}

// noMatch reports whether an API description is the "No feeds match"
// sentinel.
func noMatch(description string) bool {
	d := strings.ToLower(description)
	return strings.HasPrefix(d, "no feeds match") || strings.HasPrefix(d, "no episodes match")
}
