package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/MarketCrafter_Go/internal/config"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Format string // "json" | "text"

	cfg *config.Config
}

var validFormats = []string{"text", "json"}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "marketcrafter",
		Short: "Crafting profit planner for the in-game marketplace",
		Long: `MarketCrafter resolves crafting recipes against live marketplace
listings and reports, per recipe, whether buying or crafting each
ingredient is cheaper and what the finished item earns.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newCacheCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range validFormats {
		if f == format {
			return true
		}
	}
	return false
}
