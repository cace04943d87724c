package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jfmyers9/tracklist/internal/library"
	"github.com/jfmyers9/tracklist/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve albums and playlists over HTTP",
	Long: `Start a JSON HTTP API.

Routes:
  GET /health
  GET /feeds/{guid}
  GET /albums/{guid}
  GET /playlists/{guid}[?save=true]
  GET /search?q=term
  GET /library
  GET /library/{guid}
  GET /metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
	serveCmd.Flags().Bool("no-library", false, "Disable the library routes")
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	srvCfg := server.Config{Addr: e.cfg.ServeAddr}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		srvCfg.Addr = addr
	}

	if noLibrary, _ := cmd.Flags().GetBool("no-library"); !noLibrary {
		store, err := library.Open(e.cfg.LibraryPath)
		if err != nil {
			return fmt.Errorf("failed to open library: %w", err)
		}
		defer store.Close()
		srvCfg.Library = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.NewCatalog(e.client), e.resolver(true), srvCfg, e.logger)
	return srv.Start(ctx)
}
