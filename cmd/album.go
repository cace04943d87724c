package cmd

import (
	"context"
	"os"

	"github.com/jfmyers9/tracklist/internal/render"
	"github.com/spf13/cobra"
)

var albumCmd = &cobra.Command{
	Use:   "album <guid>",
	Short: "Show a music feed and its songs",
	Long: `Fetch a music feed and list its songs.

Song lines use a Go template, set with --format or output.format in the
config file. Available fields: .Position, .Title, .Artist, .Duration,
.FeedGUID, .ItemGUID`,
	Args: cobra.ExactArgs(1),
	RunE: runAlbum,
}

var songsCmd = &cobra.Command{
	Use:   "songs <guid>",
	Short: "List the songs of a music feed",
	Args:  cobra.ExactArgs(1),
	RunE:  runSongs,
}

func init() {
	rootCmd.AddCommand(albumCmd)
	rootCmd.AddCommand(songsCmd)
	addRenderFlags(albumCmd)
	addRenderFlags(songsCmd)
}

func runAlbum(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	album, err := e.client.Music().Album(ctx, args[0])
	if err != nil {
		return err
	}

	if jsonOut {
		return render.JSON(os.Stdout, album)
	}
	return render.Album(os.Stdout, album, e.renderOptions(cmd))
}

func runSongs(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	songs, err := e.client.Music().Songs(ctx, args[0])
	if err != nil {
		return err
	}

	if jsonOut {
		return render.JSON(os.Stdout, songs)
	}
	return render.Songs(os.Stdout, songs, e.renderOptions(cmd))
}
