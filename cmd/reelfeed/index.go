package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nickpending/reelfeed/internal/db"
	"github.com/nickpending/reelfeed/internal/logging"
)

func newIndexCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "index <dir>",
		Short: "Scan a directory of videos into the local catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			initCLILogging(cfg)

			dbPath, err := cfg.DatabasePath()
			if err != nil {
				return err
			}
			store, err := db.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.IndexDir(cmd.Context(), cfg.Store.Folder, args[0])
			if err != nil {
				return err
			}
			total, err := store.CountFolder(cmd.Context(), cfg.Store.Folder)
			if err != nil {
				return err
			}

			logging.Info().
				Str("dir", args[0]).
				Str("folder", cfg.Store.Folder).
				Int("indexed", n).
				Msg("index complete")
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d videos into %q (%d total)\n", n, cfg.Store.Folder, total)
			return nil
		},
	}
}
