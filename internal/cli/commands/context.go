// Package commands implements the brunnylol subcommands.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jrodal98/brunnylol/internal/config"
	"github.com/jrodal98/brunnylol/internal/redirect"
	"github.com/jrodal98/brunnylol/internal/store"
)

// commandContext bundles the opened store and services a subcommand works
// with.
type commandContext struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   *store.Store
	Cache   *store.Cache
	Service *redirect.Service
}

// newCommandContext opens the database, runs migrations and loads the global
// command cache. The cleanup closes the store.
func newCommandContext(cmd *cobra.Command) (*commandContext, func(), error) {
	cfg := config.FromContext(cmd.Context())
	logger := cfg.Logger(cmd.ErrOrStderr())

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = st.Close() }

	if err := st.Migrate(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	cache := store.NewCache(st)
	if err := cache.Reload(cmd.Context()); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to load global bookmarks: %w", err)
	}

	return &commandContext{
		Config:  cfg,
		Logger:  logger,
		Store:   st,
		Cache:   cache,
		Service: redirect.NewService(st, cache, cfg.DefaultAlias, logger),
	}, cleanup, nil
}
