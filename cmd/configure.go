package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jfmyers9/tracklist/internal/config"
	"github.com/jfmyers9/tracklist/pkg/podcastindex"
	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Set up Podcast Index API credentials",
	Long: `Prompt for Podcast Index API credentials and save them to
~/.config/tracklist/config.yaml.

The credentials are checked with a test lookup before they are saved.
You can get API credentials from: https://api.podcastindex.org`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
	configureCmd.Flags().Bool("skip-check", false, "Save without a test lookup")
}

func runConfigure(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("Podcast Index Configuration")
	fmt.Println("===========================")
	fmt.Println()
	fmt.Println("You can get API credentials from: https://api.podcastindex.org")
	fmt.Println()

	if cfg.PodcastIndex.APIKey != "" && cfg.PodcastIndex.APISecret != "" {
		fmt.Printf("Found existing API credentials.\n")
		fmt.Printf("API Key: %s\n", cfg.PodcastIndex.APIKey)
		fmt.Print("\nUse existing credentials? [Y/n]: ")
		response, err := reader.ReadString('\n')
		if err != nil {
			response = "y"
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "" && response != "y" && response != "yes" {
			cfg.PodcastIndex.APIKey = ""
			cfg.PodcastIndex.APISecret = ""
		}
	}

	if cfg.PodcastIndex.APIKey == "" {
		fmt.Print("Enter your Podcast Index API Key: ")
		apiKey, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		cfg.PodcastIndex.APIKey = strings.TrimSpace(apiKey)
	}

	if cfg.PodcastIndex.APISecret == "" {
		fmt.Print("Enter your Podcast Index API Secret: ")
		apiSecret, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read API secret: %w", err)
		}
		cfg.PodcastIndex.APISecret = strings.TrimSpace(apiSecret)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if skip, _ := cmd.Flags().GetBool("skip-check"); !skip {
		fmt.Println("\nChecking credentials...")
		if err := checkCredentials(cfg); err != nil {
			return fmt.Errorf("credential check failed: %w", err)
		}
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("\n✓ Configuration saved to %s/config.yaml\n", config.GetConfigDir())
	fmt.Println("\nTry 'tracklist search <artist>' to find a music feed.")

	return nil
}

// checkCredentials makes one search request. Only authentication and
// transport failures count; an empty result is fine.
func checkCredentials(cfg *config.Config) error {
	client := podcastindex.NewClient(podcastindex.Config{
		APIKey:    cfg.PodcastIndex.APIKey,
		APISecret: cfg.PodcastIndex.APISecret,
		UserAgent: cfg.PodcastIndex.UserAgent,
		BaseURL:   cfg.PodcastIndex.BaseURL,
		Timeout:   cfg.PodcastIndex.Timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	_, err := client.Search().Music(ctx, "test")
	return err
}
