package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jrodal98/brunnylol/internal/web"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the redirector web server",
		Long: `Start the HTTP server. On an empty database the built-in bookmark set is
seeded first; with --seeds-file the file is imported instead and re-imported
whenever it changes.`,
		Example: `  # Serve on the default port with the built-in bookmarks
  brunnylol serve

  # Custom port and bookmark set
  brunnylol serve --port 9000 --seeds-file bookmarks.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := newCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Seed globals so a fresh database is usable out of the box.
	if cmdCtx.Config.SeedsFile != "" {
		result, err := cmdCtx.Store.SeedGlobalsFromFile(ctx, cmdCtx.Config.SeedsFile)
		if err != nil {
			return fmt.Errorf("failed to import seeds: %w", err)
		}
		cmdCtx.Logger.Info("imported seeds", "file", cmdCtx.Config.SeedsFile,
			"imported", result.Imported, "skipped", result.Skipped)
	} else {
		seeded, err := cmdCtx.Store.SeedGlobals(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed bookmarks: %w", err)
		}
		if seeded > 0 {
			cmdCtx.Logger.Info("seeded built-in bookmarks", "count", seeded)
		}
	}
	if err := cmdCtx.Cache.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load global bookmarks: %w", err)
	}

	srv, err := web.NewServer(web.Config{
		Addr:          cmdCtx.Config.Addr(),
		SessionSecret: cmdCtx.Config.SessionSecret,
		SeedsFile:     cmdCtx.Config.SeedsFile,
		Store:         cmdCtx.Store,
		Cache:         cmdCtx.Cache,
		Redirect:      cmdCtx.Service,
		Logger:        cmdCtx.Logger,
	})
	if err != nil {
		return err
	}

	return srv.Serve(ctx)
}
