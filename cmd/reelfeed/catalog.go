package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/nickpending/reelfeed/internal/catalog"
	"github.com/nickpending/reelfeed/internal/logging"
	"github.com/nickpending/reelfeed/internal/media"
	"github.com/nickpending/reelfeed/internal/service"
)

func newCatalogCmd(flags *rootFlags) *cobra.Command {
	var (
		sortBy string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List every video in the configured folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := catalog.ParseSortOrder(sortBy)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			initCLILogging(cfg)
			logger := logging.Logger()

			store, closer, err := service.NewStore(cfg, logger)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout()*3)
			defer cancel()

			items, err := service.NewClient(cfg, store, logger).FetchCatalog(ctx)
			if err != nil {
				return err
			}
			items = catalog.Sorted(items, order)

			if asJSON {
				return writeCatalogJSON(cmd.OutOrStdout(), items)
			}
			writeCatalogTable(cmd.OutOrStdout(), cfg.Store.Folder, items)
			return nil
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", "recent", "sort order: recent, biggest, smallest, title")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	return cmd
}

func writeCatalogJSON(w io.Writer, items media.Catalog) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeCatalogTable(w io.Writer, folder string, items media.Catalog) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("%s (%d videos)", folder, len(items))
	t.AppendHeader(table.Row{"#", "Title", "Size (MB)", "Added", "ID"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: 48},
		{Name: "Size (MB)", Align: text.AlignRight},
		{Name: "ID", WidthMax: 40},
	})

	for i, item := range items {
		added := "-"
		if !item.CreatedAt.IsZero() {
			added = item.CreatedAt.Local().Format(time.DateOnly)
		}
		t.AppendRow(table.Row{i + 1, item.Title, fmt.Sprintf("%.1f", item.SizeMB()), added, item.ID})
	}

	t.AppendFooter(table.Row{"", "Total", fmt.Sprintf("%.1f", catalog.TotalSizeMB(items)), "", ""})
	t.Render()
}
