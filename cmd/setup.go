package cmd

import (
	"fmt"
	"net/http"

	"github.com/jfmyers9/tracklist/internal/config"
	"github.com/jfmyers9/tracklist/internal/metrics"
	"github.com/jfmyers9/tracklist/internal/playlist"
	"github.com/jfmyers9/tracklist/internal/render"
	"github.com/jfmyers9/tracklist/pkg/podcastindex"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// env is what every command needs: configuration, a logger and a client.
type env struct {
	cfg      *config.Config
	logger   zerolog.Logger
	client   *podcastindex.Client
	closeLog func() error
}

// setup loads and validates configuration, then builds the logger and
// the Podcast Index client.
func setup() (*env, error) {
	return loadEnv(true)
}

func loadEnv(requireCredentials bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if requireCredentials {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logger, closeLog := setupLogger(logFile, level)

	client := podcastindex.NewClient(podcastindex.Config{
		APIKey:     cfg.PodcastIndex.APIKey,
		APISecret:  cfg.PodcastIndex.APISecret,
		UserAgent:  cfg.PodcastIndex.UserAgent,
		BaseURL:    cfg.PodcastIndex.BaseURL,
		Timeout:    cfg.PodcastIndex.Timeout,
		HTTPClient: &http.Client{Transport: metrics.InstrumentRoundTripper(nil)},
		Logger:     sdkLogger{logger: logger.With().Str("component", "podcastindex").Logger()},
	})

	return &env{cfg: cfg, logger: logger, client: client, closeLog: closeLog}, nil
}

// Close releases the log file, if one was opened.
func (e *env) Close() error {
	if e.closeLog == nil {
		return nil
	}
	return e.closeLog()
}

// resolver builds a playlist resolver with the configured concurrency.
// When cached is set, songs are shared across calls through a cache of
// cache.size feeds kept for cache.ttl.
func (e *env) resolver(cached bool) *playlist.Resolver {
	var cache *playlist.SongCache
	if cached && e.cfg.Cache.Size > 0 {
		cache = playlist.NewSongCache(e.cfg.Cache.Size, e.cfg.Cache.TTL)
	}
	return playlist.New(playlist.NewDirectory(e.client), playlist.Config{
		Concurrency: e.cfg.Concurrency,
		Cache:       cache,
	})
}

// renderOptions merges the --format and --width flags with config.
func (e *env) renderOptions(cmd *cobra.Command) render.Options {
	opts := render.Options{Format: e.cfg.OutputFormat, Width: e.cfg.OutputWidth}
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		opts.Format = f.Value.String()
	}
	if cmd.Flags().Changed("width") {
		opts.Width, _ = cmd.Flags().GetInt("width")
	}
	return opts
}

// addRenderFlags registers --format and --width on cmd.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", "Song line template (overrides config)")
	cmd.Flags().IntP("width", "w", 0, "Fixed output width (0=disabled, overrides config)")
}
