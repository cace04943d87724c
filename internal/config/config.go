package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jfmyers9/tracklist/pkg/podcastindex"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Podcast Index API access
	PodcastIndex PodcastIndexConfig

	// Number of referenced feeds fetched in parallel per playlist
	// Default: 4
	Concurrency int

	// Cross-request song cache
	Cache CacheConfig

	// Path to the SQLite library of saved playlists
	// Default: ~/.config/tracklist/library.db
	LibraryPath string

	// Interval between checks for the watch command
	// Default: 15m
	WatchInterval time.Duration

	// Listen address for the serve command
	// Default: "127.0.0.1:8080"
	ServeAddr string

	// Song line template for text output
	OutputFormat string

	// Fixed output width (0 disables padding)
	OutputWidth int

	// Log level: debug, info, warn, error
	LogLevel string
}

// PodcastIndexConfig holds Podcast Index specific configuration
type PodcastIndexConfig struct {
	APIKey    string
	APISecret string
	UserAgent string
	BaseURL   string
	Timeout   time.Duration
}

// CacheConfig sizes the song cache. Size 0 disables it.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// Load reads configuration from file and environment.
// Environment variables use the TRACKLIST_ prefix with dots replaced by
// underscores, e.g. TRACKLIST_PODCASTINDEX_API_KEY.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	configDir := getConfigDir()
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	v.SetDefault("podcastindex.user_agent", "tracklist/1.0")
	v.SetDefault("podcastindex.base_url", podcastindex.DefaultBaseURL)
	v.SetDefault("podcastindex.timeout", podcastindex.DefaultTimeout)
	v.SetDefault("resolver.concurrency", 4)
	v.SetDefault("cache.size", 256)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("library.path", filepath.Join(configDir, "library.db"))
	v.SetDefault("watch.interval", 15*time.Minute)
	v.SetDefault("serve.addr", "127.0.0.1:8080")
	v.SetDefault("output.format", "{{.Position}}. {{.Title}} - {{.Artist}}")
	v.SetDefault("output.width", 0)
	v.SetDefault("log_level", "info")

	// Read config file (optional - don't fail if missing)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.SetEnvPrefix("TRACKLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		PodcastIndex: PodcastIndexConfig{
			APIKey:    v.GetString("podcastindex.api_key"),
			APISecret: v.GetString("podcastindex.api_secret"),
			UserAgent: v.GetString("podcastindex.user_agent"),
			BaseURL:   v.GetString("podcastindex.base_url"),
			Timeout:   v.GetDuration("podcastindex.timeout"),
		},
		Concurrency: v.GetInt("resolver.concurrency"),
		Cache: CacheConfig{
			Size: v.GetInt("cache.size"),
			TTL:  v.GetDuration("cache.ttl"),
		},
		LibraryPath:   v.GetString("library.path"),
		WatchInterval: v.GetDuration("watch.interval"),
		ServeAddr:     v.GetString("serve.addr"),
		OutputFormat:  v.GetString("output.format"),
		OutputWidth:   v.GetInt("output.width"),
		LogLevel:      v.GetString("log_level"),
	}

	return cfg, nil
}

// Validate reports missing settings needed to call the directory API.
func (c *Config) Validate() error {
	var missing []string
	if c.PodcastIndex.APIKey == "" {
		missing = append(missing, "podcastindex.api_key")
	}
	if c.PodcastIndex.APISecret == "" {
		missing = append(missing, "podcastindex.api_secret")
	}
	if c.PodcastIndex.UserAgent == "" {
		missing = append(missing, "podcastindex.user_agent")
	}
	if c.PodcastIndex.BaseURL == "" {
		missing = append(missing, "podcastindex.base_url")
	}
	if len(missing) > 0 {
		return errors.New("missing configuration: " + strings.Join(missing, ", ") + " (run 'tracklist configure')")
	}
	if c.WatchInterval <= 0 {
		return errors.New("watch.interval must be positive")
	}
	return nil
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "tracklist")

	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// Save writes configuration to file
func (c *Config) Save() error {
	v := viper.New()

	configFile := filepath.Join(getConfigDir(), "config.yaml")

	v.Set("podcastindex.api_key", c.PodcastIndex.APIKey)
	v.Set("podcastindex.api_secret", c.PodcastIndex.APISecret)
	v.Set("podcastindex.user_agent", c.PodcastIndex.UserAgent)
	v.Set("podcastindex.base_url", c.PodcastIndex.BaseURL)
	v.Set("podcastindex.timeout", c.PodcastIndex.Timeout.String())
	v.Set("resolver.concurrency", c.Concurrency)
	v.Set("cache.size", c.Cache.Size)
	v.Set("cache.ttl", c.Cache.TTL.String())
	v.Set("library.path", c.LibraryPath)
	v.Set("watch.interval", c.WatchInterval.String())
	v.Set("serve.addr", c.ServeAddr)
	v.Set("output.format", c.OutputFormat)
	v.Set("output.width", c.OutputWidth)
	v.Set("log_level", c.LogLevel)

	return v.WriteConfigAs(configFile)
}
