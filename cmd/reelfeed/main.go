package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nickpending/reelfeed/internal/config"
	"github.com/nickpending/reelfeed/internal/logging"
	"github.com/nickpending/reelfeed/internal/service"
	"github.com/nickpending/reelfeed/internal/ui"
)

// flags shared by every subcommand; zero values leave the config untouched
type rootFlags struct {
	configPath string
	backend    string
	url        string
	folder     string
	seed       uint64
	pageSize   int
	logLevel   string
}

func main() {
	if err := newRootCmd(&rootFlags{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(flags *rootFlags) *cobra.Command {
	root := &cobra.Command{
		Use:          "reelfeed",
		Short:        "Browse a shuffled feed of videos from your content store",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runTUI(cfg)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/reelfeed/config.toml)")
	pf.StringVar(&flags.backend, "backend", "", "content store backend: remote or local")
	pf.StringVar(&flags.url, "url", "", "remote content store URL")
	pf.StringVar(&flags.folder, "folder", "", "folder to list")
	pf.Uint64Var(&flags.seed, "seed", 0, "shuffle seed for a reproducible order (0 = random)")
	pf.IntVar(&flags.pageSize, "page-size", 0, "items revealed per page")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, disabled")

	root.AddCommand(
		newCatalogCmd(flags),
		newIndexCmd(flags),
		newProbeCmd(flags),
	)
	return root
}

// loadConfig reads the config file and applies flags the user set
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFrom(flags.configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("backend") {
		cfg.Store.Backend = flags.backend
	}
	if changed("url") {
		cfg.Store.URL = flags.url
		if !changed("backend") {
			cfg.Store.Backend = "remote"
		}
	}
	if changed("folder") {
		cfg.Store.Folder = flags.folder
	}
	if changed("seed") {
		cfg.Feed.Seed = flags.seed
	}
	if changed("page-size") {
		cfg.Feed.PageSize = flags.pageSize
	}
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initCLILogging sends logs to stderr for the non-interactive subcommands
func initCLILogging(cfg *config.Config) {
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: "console", Output: os.Stderr})
}

func runTUI(cfg *config.Config) error {
	// The TUI owns the terminal; logs go to a file
	logPath, err := cfg.LogPath()
	if err != nil {
		return err
	}
	logFile, err := logging.OpenFile(logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: logFile})

	logger := logging.Logger()
	svc, err := service.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer svc.Close()

	logger.Info().
		Str("backend", cfg.Store.Backend).
		Str("folder", cfg.Store.Folder).
		Int("page_size", cfg.Feed.PageSize).
		Msg("starting reelfeed")

	model := ui.NewModel(ui.Deps{
		Controller: svc.Controller,
		Trigger:    svc.Trigger,
		Recovery:   svc.Recovery,
		Session:    svc.Session,
		Player:     svc.Launcher,
		Logger:     logger,
		Theme:      cfg.UI.Theme,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Error().Err(err).Msg("TUI exited with error")
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
