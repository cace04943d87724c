package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jfmyers9/tracklist/internal/library"
	"github.com/jfmyers9/tracklist/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <guid>...",
	Short: "Re-resolve playlists periodically and report changes",
	Long: `Resolve the given playlists now and then once per interval.

Each time a playlist's song list changes the new snapshot is saved to
the library and the added and removed songs are printed. Every check
fetches the referenced albums again, bypassing the song cache. The
command runs in the foreground until SIGINT or SIGTERM.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Duration("interval", 0, "Time between checks (overrides config)")
	watchCmd.Flags().Bool("no-save", false, "Keep snapshots in memory instead of the library")
}

func runWatch(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	interval := e.cfg.WatchInterval
	if cmd.Flags().Changed("interval") {
		interval, _ = cmd.Flags().GetDuration("interval")
	}
	if interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	watchCfg := watch.Config{GUIDs: args, Interval: interval}
	if noSave, _ := cmd.Flags().GetBool("no-save"); !noSave {
		store, err := library.Open(e.cfg.LibraryPath)
		if err != nil {
			return fmt.Errorf("failed to open library: %w", err)
		}
		defer store.Close()
		watchCfg.Store = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watch.NewWatcher(e.resolver(false), watchCfg, e.logger)
	changes := make(chan watch.Change)

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, changes)
	}()

	for {
		select {
		case change := <-changes:
			printChange(change)
		case err := <-done:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

func printChange(c watch.Change) {
	switch {
	case c.Err != nil:
		fmt.Printf("%s  %s: %v\n", c.At.Format("15:04:05"), c.GUID, c.Err)
	case c.First:
		fmt.Printf("%s  %s: %d songs\n", c.At.Format("15:04:05"), c.Result.Playlist.Title, len(c.Result.Playlist.Songs))
	case c.Changed():
		fmt.Printf("%s  %s: %d added, %d removed\n", c.At.Format("15:04:05"), c.Result.Playlist.Title, len(c.Added), len(c.Removed))
		for _, s := range c.Added {
			fmt.Printf("  + %s\n", s.Title)
		}
		for _, s := range c.Removed {
			fmt.Printf("  - %s\n", s.Title)
		}
	}
}
