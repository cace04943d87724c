package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jfmyers9/tracklist/internal/render"
	"github.com/spf13/cobra"
)

// lookupTimeout bounds one-shot commands.
const lookupTimeout = 60 * time.Second

var feedCmd = &cobra.Command{
	Use:   "feed <guid>",
	Short: "Show the directory record of a feed",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeed,
}

func init() {
	rootCmd.AddCommand(feedCmd)
	feedCmd.Flags().Bool("rss-url", false, "Print only the feed's RSS URL")
}

func runFeed(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	if rssOnly, _ := cmd.Flags().GetBool("rss-url"); rssOnly {
		rssURL, err := e.client.Feeds().RSSURL(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Println(rssURL)
		return nil
	}

	feed, err := e.client.Feeds().ByGUID(ctx, args[0])
	if err != nil {
		return err
	}

	if jsonOut {
		return render.JSON(os.Stdout, feed)
	}

	fmt.Printf("Title:    %s\n", feed.Title)
	fmt.Printf("Artist:   %s\n", feed.Artist())
	fmt.Printf("GUID:     %s\n", feed.GUID)
	fmt.Printf("Medium:   %s\n", feed.Medium)
	fmt.Printf("RSS:      %s\n", feed.RSSURL())
	fmt.Printf("Episodes: %d\n", feed.EpisodeCount)
	if feed.Link != "" {
		fmt.Printf("Link:     %s\n", feed.Link)
	}
	return nil
}
