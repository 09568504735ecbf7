// Package cmd defines and implements the CLI commands for the bestsellers
// executable.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bestsellers",
		Short: "Concurrent scraper for the weekly best-seller archive",
		Long: `bestsellers walks the public best-seller archive week by week:
it resolves the current publication date from the landing page, fans the
historical snapshot pages out over a fixed worker pool, and extracts every
category's ranked listing into one ordered result set.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./bestsellers.yaml)")
	cmd.AddCommand(newScrapeCmd(v))

	return cmd
}

// Execute is the main entry point. It installs signal handling so an
// interrupt aborts in-flight fetches cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(viper.New()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
