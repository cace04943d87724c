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

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage saved playlists",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved playlists",
	Args:  cobra.NoArgs,
	RunE:  runLibraryList,
}

var libraryShowCmd = &cobra.Command{
	Use:   "show <guid>",
	Short: "Show a saved playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryShow,
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete <guid>",
	Short: "Remove a saved playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryDelete,
}

var libraryCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove playlists not resolved recently",
	Args:  cobra.NoArgs,
	RunE:  runLibraryCleanup,
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryListCmd, libraryShowCmd, libraryDeleteCmd, libraryCleanupCmd)
	addRenderFlags(libraryShowCmd)
	libraryCleanupCmd.Flags().Duration("older-than", 30*24*time.Hour, "Remove playlists resolved before this long ago")
}

// openLibrary opens the configured library. The library needs no
// credentials, so configuration is loaded without validation.
func openLibrary() (*library.Store, *env, error) {
	e, err := loadEnv(false)
	if err != nil {
		return nil, nil, err
	}
	store, err := library.Open(e.cfg.LibraryPath)
	if err != nil {
		_ = e.Close()
		return nil, nil, fmt.Errorf("failed to open library: %w", err)
	}
	return store, e, nil
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	store, e, err := openLibrary()
	if err != nil {
		return err
	}
	defer e.Close()
	defer store.Close()

	summaries, err := store.List(context.Background())
	if err != nil {
		return err
	}

	if jsonOut {
		return render.JSON(os.Stdout, summaries)
	}
	if len(summaries) == 0 {
		fmt.Println("No saved playlists")
		return nil
	}
	for _, s := range summaries {
		fmt.Printf("%s  %s by %s (%d songs, %d unresolved) %s\n",
			s.FeedGUID, s.Title, s.Artist, s.SongCount, s.UnresolvedCount,
			s.ResolvedAt.Format(time.RFC3339))
	}
	return nil
}

func runLibraryShow(cmd *cobra.Command, args []string) error {
	store, e, err := openLibrary()
	if err != nil {
		return err
	}
	defer e.Close()
	defer store.Close()

	snap, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	if jsonOut {
		return render.JSON(os.Stdout, snap)
	}

	if err := render.Album(os.Stdout, &snap.Playlist.Album, e.renderOptions(cmd)); err != nil {
		return err
	}
	if len(snap.Unresolved) > 0 {
		fmt.Printf("\n%d unresolved:\n", len(snap.Unresolved))
		for _, u := range snap.Unresolved {
			fmt.Printf("  #%d %s (%s)\n", u.Index+1, u.Pointer.Key(), u.Error)
		}
	}
	fmt.Printf("\nResolved %s\n", snap.ResolvedAt.Format(time.RFC3339))
	return nil
}

func runLibraryDelete(cmd *cobra.Command, args []string) error {
	store, e, err := openLibrary()
	if err != nil {
		return err
	}
	defer e.Close()
	defer store.Close()

	if err := store.Delete(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed %s\n", args[0])
	return nil
}

func runLibraryCleanup(cmd *cobra.Command, args []string) error {
	store, e, err := openLibrary()
	if err != nil {
		return err
	}
	defer e.Close()
	defer store.Close()

	maxAge, _ := cmd.Flags().GetDuration("older-than")
	deleted, err := store.Cleanup(context.Background(), maxAge)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d playlists\n", deleted)
	return nil
}
