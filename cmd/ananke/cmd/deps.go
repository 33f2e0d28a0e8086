package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barysiuk/ananke/internal/core"
	"github.com/barysiuk/ananke/internal/engine"
	"github.com/barysiuk/ananke/internal/env"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	config   *core.ConfigManager
	settings core.Settings
	store    *core.Store
	runner   *engine.Runner
}

// newDeps creates shared dependencies. Called lazily by commands that need them.
func newDeps(cmd *cobra.Command) (*deps, error) {
	config := core.NewConfigManager()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	home, _ := cmd.Flags().GetString("home")
	store, err := core.NewStoreFromSettings(home, &env.OSReader{}, cfg.Settings)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}

	return &deps{
		config:   config,
		settings: cfg.Settings,
		store:    store,
		runner:   engine.NewRunner(store),
	}, nil
}
