package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nickpending/reelfeed/internal/api"
	"github.com/nickpending/reelfeed/internal/catalog"
	"github.com/nickpending/reelfeed/internal/logging"
	"github.com/nickpending/reelfeed/internal/media"
	"github.com/nickpending/reelfeed/internal/service"
)

// newProbeCmd checks the content store step by step: list, then resolve
// the first few objects. Useful when the feed shows a load error.
func newProbeCmd(flags *rootFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check connectivity to the content store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			initCLILogging(cfg)

			store, closer, err := service.NewStore(cfg, logging.Logger())
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "=== reelfeed probe (%s backend) ===\n\n", cfg.Store.Backend)

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
			defer cancel()
			err = probe(ctx, out, store, cfg.Store.Folder, limit)

			if client, ok := store.(*api.Client); ok {
				fmt.Fprintf(out, "\nCircuit breaker: %s\n", client.BreakerState())
			}
			return err
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 3, "number of objects to resolve")
	return cmd
}

func probe(ctx context.Context, out io.Writer, store catalog.Store, folder string, limit int) error {
	fmt.Fprintf(out, "1. Listing %q...\n", folder)
	start := time.Now()
	refs, err := store.ListFolder(ctx, folder)
	if err != nil {
		fmt.Fprintf(out, "   ✗ %s\n", describeStoreError(err))
		return fmt.Errorf("failed to list folder: %w", err)
	}
	fmt.Fprintf(out, "   ✓ %d objects in %s\n\n", len(refs), time.Since(start).Round(time.Millisecond))

	if len(refs) == 0 {
		return nil
	}

	n := min(max(limit, 0), len(refs))
	fmt.Fprintln(out, "2. Resolving objects...")
	var failed int
	for _, ref := range refs[:n] {
		start := time.Now()
		u, err := store.ResolvePlaybackURL(ctx, ref)
		if err != nil {
			failed++
			fmt.Fprintf(out, "   ✗ %s: %s\n", ref.Path, describeStoreError(err))
			continue
		}
		meta, err := store.ResolveMetadata(ctx, ref)
		if err != nil {
			failed++
			fmt.Fprintf(out, "   ✗ %s: %s\n", ref.Path, describeStoreError(err))
			continue
		}
		title := meta.Title
		if title == "" {
			title = media.DefaultTitle
		}
		fmt.Fprintf(out, "   ✓ %s (%s) %s\n", title, time.Since(start).Round(time.Millisecond), u)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d objects failed to resolve", failed, n)
	}
	return nil
}

func describeStoreError(err error) string {
	var se *api.StatusError
	switch {
	case errors.Is(err, api.ErrPermission):
		return "permission denied (check [store].key)"
	case errors.Is(err, api.ErrNotFound):
		return "not found"
	case errors.As(err, &se):
		return fmt.Sprintf("server returned %d: %s", se.Code, se.Message)
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	default:
		return err.Error()
	}
}
