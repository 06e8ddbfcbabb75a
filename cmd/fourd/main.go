package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fourd/internal/config"
	"fourd/internal/lifecycle"
	"fourd/internal/logging"
	"fourd/internal/storage"
	"fourd/internal/ui"
)

var Version = "dev"

// app bundles what every subcommand needs once the config is loaded.
type app struct {
	cfg   config.Config
	l     *zap.Logger
	store *storage.Store
	coord *lifecycle.Coordinator
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.l != nil {
		_ = a.l.Sync()
	}
}

func openApp(configPath string) (*app, error) {
	if configPath == "" {
		configPath = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	store, err := storage.Open(cfg.DBPath, storage.WithLogger(l), storage.ReadOnly(cfg.ReadOnly))
	if err != nil {
		_ = l.Sync()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &app{
		cfg:   cfg,
		l:     l,
		store: store,
		coord: lifecycle.New(store, lifecycle.NewSession(store)),
	}, nil
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "fourd",
		Short:   "Capture tasks and triage them into Do, Defer, Delegate and Drop",
		Version: Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			return ui.RunCapture(a.coord, a.cfg, a.l)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $FOURD_CONFIG or the user config dir)")

	rootCmd.AddCommand(dashboardCmd(&configPath))
	rootCmd.AddCommand(addCmd(&configPath))
	rootCmd.AddCommand(listCmd(&configPath))
	rootCmd.AddCommand(statsCmd(&configPath))
	rootCmd.AddCommand(doneCmd(&configPath))
	rootCmd.AddCommand(undoneCmd(&configPath))
	rootCmd.AddCommand(deferCmd(&configPath))
	rootCmd.AddCommand(moveCmd(&configPath))
	rootCmd.AddCommand(rmCmd(&configPath))
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
