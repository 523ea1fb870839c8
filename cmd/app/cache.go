package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/osse101/MarketCrafter_Go/internal/bootstrap"
	"github.com/osse101/MarketCrafter_Go/internal/persist"
	"github.com/osse101/MarketCrafter_Go/internal/snapshot"
)

func newCacheCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage persisted snapshots",
		Long: `Inspect and manage the snapshots kept by the configured backend
(SNAPSHOT_BACKEND). Stop the server before purging: a running server
rewrites its caches on shutdown.`,
	}

	cmd.AddCommand(newCacheListCommand(opts))
	cmd.AddCommand(newCacheInspectCommand(opts))
	cmd.AddCommand(newCachePurgeCommand(opts))

	return cmd
}

func newCacheListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), opts, func(ctx context.Context, store snapshot.Store) error {
				infos, err := store.List(ctx)
				if err != nil {
					return err
				}
				return printList(cmd.OutOrStdout(), opts.Format, infos)
			})
		},
	}
}

func newCacheInspectCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <name>",
		Short: "Show the entries of a cache snapshot",
		Long: `Show the keys of a memoized cache snapshot and when each was fetched.
Snapshots that are not caches (such as the job configuration) are
printed as stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), opts, func(ctx context.Context, store snapshot.Store) error {
				data, err := store.Load(ctx, args[0])
				if err != nil {
					return err
				}
				entries, err := persist.InspectSnapshot(data)
				if err != nil {
					_, werr := cmd.OutOrStdout().Write(data)
					return werr
				}
				return printEntries(cmd.OutOrStdout(), opts.Format, entries)
			})
		},
	}
}

func newCachePurgeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <name>...",
		Short: "Delete snapshots so they are refetched on next start",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), opts, func(ctx context.Context, store snapshot.Store) error {
				for _, name := range args {
					if err := store.Delete(ctx, name); err != nil {
						return fmt.Errorf("purge %s: %w", name, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "purged %s\n", name)
				}
				return nil
			})
		},
	}
}

func withStore(ctx context.Context, opts *rootOptions, fn func(context.Context, snapshot.Store) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := bootstrap.OpenStore(ctx, opts.cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store)
}

func printList(w io.Writer, format string, infos []snapshot.Info) error {
	if format == "json" {
		return writeJSON(w, infos)
	}
	if len(infos) == 0 {
		_, err := fmt.Fprintln(w, "no snapshots")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tSAVED")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			info.Name,
			humanize.Bytes(uint64(info.Size)),
			humanize.Time(time.Unix(info.SavedAt, 0)))
	}
	return tw.Flush()
}

func printEntries(w io.Writer, format string, entries []persist.EntryInfo) error {
	if format == "json" {
		return writeJSON(w, entries)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tFETCHED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\n", e.Key, humanize.Time(e.FetchedAt))
	}
	fmt.Fprintf(tw, "%s entries\n", humanize.Comma(int64(len(entries))))
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
