package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jfmyers9/tracklist/internal/render"
	"github.com/spf13/cobra"
)

var episodeCmd = &cobra.Command{
	Use:   "episode <feed-guid> <item-guid>",
	Short: "Show one episode of a feed",
	Args:  cobra.ExactArgs(2),
	RunE:  runEpisode,
}

func init() {
	rootCmd.AddCommand(episodeCmd)
}

func runEpisode(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	ep, err := e.client.Episodes().ByGUIDs(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	if jsonOut {
		return render.JSON(os.Stdout, ep)
	}

	fmt.Printf("Title:     %s\n", ep.Title)
	fmt.Printf("GUID:      %s\n", ep.GUID)
	fmt.Printf("Feed:      %s\n", ep.FeedGUID)
	if !ep.Published.IsZero() {
		fmt.Printf("Published: %s\n", ep.Published.Format("2006-01-02"))
	}
	if ep.Duration > 0 {
		fmt.Printf("Duration:  %s\n", ep.Duration)
	}
	if ep.EnclosureURL != "" {
		fmt.Printf("Audio:     %s\n", ep.EnclosureURL)
	}
	return nil
}
