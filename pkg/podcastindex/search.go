package podcastindex

import (
	"context"
	"net/url"
	"strings"
)

// SearchService provides directory search.
type SearchService struct {
	client *Client
}

const (
	opSearchMusic  = "search/music/byterm"
	opSearchByTerm = "search/byterm"
)

// Music searches music feeds by term.
//
// Returns ErrInvalidInput if term is empty or only whitespace.
func (s *SearchService) Music(ctx context.Context, term string) (*SearchResult, error) {
	return s.byTerm(ctx, opSearchMusic, term)
}

// Podcasts searches all feeds by term.
func (s *SearchService) Podcasts(ctx context.Context, term string) (*SearchResult, error) {
	return s.byTerm(ctx, opSearchByTerm, term)
}

func (s *SearchService) byTerm(ctx context.Context, op, term string) (*SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, invalidInput(op, "search term must not be empty")
	}

	var resp searchResponse
	body, err := s.client.get(ctx, op, term, url.Values{"q": {term}}, &resp)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{
		Count:       resp.Count,
		Query:       term,
		Description: resp.Description,
		Feeds:       make([]Feed, 0, len(resp.Feeds)),
		Raw:         body,
	}
	for _, f := range resp.Feeds {
		result.Feeds = append(result.Feeds, newFeed(f, ""))
	}
	return result, nil
}
