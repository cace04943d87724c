// Package server exposes albums, playlists and search over a JSON HTTP
// API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jfmyers9/tracklist/internal/library"
	"github.com/jfmyers9/tracklist/internal/metrics"
	"github.com/jfmyers9/tracklist/internal/playlist"
	"github.com/jfmyers9/tracklist/pkg/podcastindex"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// Catalog is the directory lookups the server needs.
type Catalog interface {
	Feed(ctx context.Context, guid string) (*podcastindex.Feed, error)
	Album(ctx context.Context, guid string) (*podcastindex.Album, error)
	SearchMusic(ctx context.Context, term string) (*podcastindex.SearchResult, error)
}

// Resolver resolves playlist feeds.
type Resolver interface {
	Resolve(ctx context.Context, guid string) (*playlist.Result, error)
}

// Library stores playlist snapshots.
type Library interface {
	Save(ctx context.Context, result *playlist.Result, resolvedAt time.Time) error
	Get(ctx context.Context, guid string) (*library.Snapshot, error)
	List(ctx context.Context) ([]library.Summary, error)
}

// Config holds server configuration.
type Config struct {
	Addr           string        // Listen address
	RequestTimeout time.Duration // Per-request deadline (defaults to 30s)
	Library        Library       // Optional: library routes return 404 when nil
}

// Server serves the HTTP API.
type Server struct {
	catalog  Catalog
	resolver Resolver
	library  Library
	logger   zerolog.Logger
	server   *http.Server
}

// New creates a Server.
func New(catalog Catalog, resolver Resolver, cfg Config, logger zerolog.Logger) *Server {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	s := &Server{
		catalog:  catalog,
		resolver: resolver,
		library:  cfg.Library,
		logger:   logger.With().Str("component", "server").Logger(),
	}

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(timeout),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) routes(timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.RequestIDHandler("request_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))

		r.Get("/feeds/{guid}", s.handleFeed)
		r.Get("/albums/{guid}", s.handleAlbum)
		r.Get("/playlists/{guid}", s.handlePlaylist)
		r.Get("/search", s.handleSearch)
		r.Get("/library", s.handleLibraryList)
		r.Get("/library/{guid}", s.handleLibraryGet)
	})

	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")

	go func() {
		<-ctx.Done()
		s.logger.Info().Msg("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("Failed to shutdown HTTP server gracefully")
		}
	}()

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}
