package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jfmyers9/tracklist/internal/render"
	"github.com/jfmyers9/tracklist/pkg/podcastindex"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <term>...",
	Short: "Search the directory for music feeds",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().Bool("podcasts", false, "Search all feeds instead of music only")
}

func runSearch(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	term := strings.Join(args, " ")

	var result *podcastindex.SearchResult
	if all, _ := cmd.Flags().GetBool("podcasts"); all {
		result, err = e.client.Search().Podcasts(ctx, term)
	} else {
		result, err = e.client.Search().Music(ctx, term)
	}
	if err != nil {
		return err
	}

	if jsonOut {
		return render.JSON(os.Stdout, result)
	}

	if len(result.Feeds) == 0 {
		fmt.Printf("No feeds match %q\n", term)
		return nil
	}
	for _, f := range result.Feeds {
		fmt.Printf("%s  %-8s %s - %s\n", f.GUID, f.Medium, f.Title, f.Artist())
	}
	return nil
}
