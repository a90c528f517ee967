package main

import (
	"context"

	"cardtrack/internal/app"

	"github.com/spf13/cobra"
)

// configPath is the optional JSON config file given with --config.
var configPath string

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// setup builds the pricing pipeline for a single command run.
var setup = func(ctx context.Context) (*app.App, error) {
	return app.Setup(ctx, configPath)
}

var rootCmd = &cobra.Command{
	Use:   "cardtrack",
	Short: "Quote trading card prices from recent eBay sales.",
	Long: `cardtrack prices trading cards using the same pipeline as the HTTP service.

Quotes come from the cache when fresh, otherwise from the median of recent
eBay sold listings, and fall back to a deterministic mock price.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a JSON config file (defaults to $CONFIG_FILE or ./cardtrack.json)")
	rootCmd.AddCommand(quoteCmd, batchCmd)
}
