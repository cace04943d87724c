/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var (
	logFile  string
	logLevel string
	jsonOut  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tracklist",
	Short: "Podcast Index music and playlist client",
	Long: `tracklist looks up music feeds in the Podcast Index and resolves
playlist feeds (podcast:medium musicL) into ordered song lists.

A playlist feed carries no audio of its own. Its RSS lists
podcast:remoteItem pointers to songs in other feeds; tracklist follows
each pointer and prints the songs it finds.

Credentials are read from ~/.config/tracklist/config.yaml or from
TRACKLIST_PODCASTINDEX_API_KEY and TRACKLIST_PODCASTINDEX_API_SECRET.
Run 'tracklist configure' to create the config file.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error; overrides config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print JSON instead of text")
}
