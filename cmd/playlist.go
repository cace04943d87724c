package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jfmyers9/tracklist/internal/library"
	"github.com/jfmyers9/tracklist/internal/render"
	"github.com/spf13/cobra"
)

var playlistCmd = &cobra.Command{
	Use:   "playlist <guid>",
	Short: "Resolve a playlist feed into its songs",
	Long: `Resolve a playlist feed (podcast:medium musicL) into its songs.

The playlist's RSS is downloaded and every podcast:remoteItem pointer is
looked up in the feed it names. Pointers that cannot be resolved are
listed after the songs and left out of the playlist. Every song is
credited to the playlist's author.

With --save the result is stored in the local library.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlaylist,
}

func init() {
	rootCmd.AddCommand(playlistCmd)
	addRenderFlags(playlistCmd)
	playlistCmd.Flags().Bool("save", false, "Save the resolved playlist to the library")
}

func runPlaylist(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	start := time.Now()
	result, err := e.resolver(true).Resolve(ctx, args[0])
	if err != nil {
		return err
	}

	e.logger.Debug().
		Str("playlist", args[0]).
		Int("songs", len(result.Playlist.Songs)).
		Int("unresolved", len(result.Unresolved())).
		Dur("elapsed", time.Since(start)).
		Msg("Resolved playlist")

	if save, _ := cmd.Flags().GetBool("save"); save {
		store, err := library.Open(e.cfg.LibraryPath)
		if err != nil {
			return fmt.Errorf("failed to open library: %w", err)
		}
		defer store.Close()

		if err := store.Save(ctx, result, time.Now()); err != nil {
			return fmt.Errorf("failed to save playlist: %w", err)
		}
		e.logger.Info().Str("playlist", args[0]).Str("library", e.cfg.LibraryPath).Msg("Saved playlist")
	}

	if jsonOut {
		return render.JSON(os.Stdout, result.Playlist)
	}
	return render.Playlist(os.Stdout, result, e.renderOptions(cmd))
}
