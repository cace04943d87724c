// Package podcastindex provides a client library for the Podcast Index
// API 1.0.
//
// # Overview
//
// This package implements a read-only Go client for the Podcast Index
// directory, focusing on the lookups needed to play music feeds: feeds by
// guid, episodes by feed guid, single episodes and music search. It
// provides a type-safe API with context support and typed errors.
//
// # Installation
//
//	go get github.com/jfmyers9/tracklist/pkg/podcastindex
//
// # Quick Start
//
// Create a client with your API credentials:
//
//	client := podcastindex.NewClient(podcastindex.Config{
//	    APIKey:    "your-api-key",
//	    APISecret: "your-api-secret",
//	    UserAgent: "tracklist/1.0",
//	    BaseURL:   podcastindex.DefaultBaseURL,
//	})
//
// # Authentication
//
// Every request carries four headers: X-Auth-Date (unix seconds),
// X-Auth-Key, Authorization (SHA-1 of key, secret and date) and
// User-Agent. The client signs once and reuses the headers for
// HeaderValidity (three minutes), so a burst of requests shares one
// signature.
//
// # Albums and Songs
//
// Music feeds are albums; their episodes are songs:
//
//	album, err := client.Music().Album(ctx, "99d74aa0-2f55-5b2c-9c7a-47a3f31357f3")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, song := range album.Songs {
//	    fmt.Println(song.Artist, "-", song.Title)
//	}
//
// # Error Handling
//
// Every error wraps one kind: ErrConfiguration, ErrInvalidInput,
// ErrNotFound, ErrNetwork, ErrUpstream or ErrMissingData.
//
//	feed, err := client.Feeds().ByGUID(ctx, guid)
//	switch {
//	case errors.Is(err, podcastindex.ErrNotFound):
//	    // unknown guid
//	case podcastindex.IsTemporary(err):
//	    // retry later
//	}
//
// Use errors.As with *Error to read the operation, guid and HTTP status.
// The client never retries; that is left to the caller.
//
// # Context Support
//
// All API methods accept a context.Context. Each request is additionally
// bounded by Config.Timeout (10 seconds by default).
//
// # API Coverage
//
// Currently implemented:
//   - podcasts/byguid
//   - episodes/bypodcastguid, episodes/byguid
//   - search/music/byterm, search/byterm
//
// # Podcast Index API Documentation
//
// https://podcastindex-org.github.io/docs-api/
package podcastindex
