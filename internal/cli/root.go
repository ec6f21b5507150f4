// Package cli wires configuration, storage and services into the mockmatch
// commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/msomdec/mockmatch/internal/config"
)

// NewRootCmd builds the mockmatch command tree. Configuration is loaded once
// before any subcommand runs.
func NewRootCmd() *cobra.Command {
	cfg := &config.Config{}

	root := &cobra.Command{
		Use:           "mockmatch",
		Short:         "Peer mock-interview matching and scheduling API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			*cfg = *loaded
			slog.SetDefault(newLogger(cfg.SlogLevel()))
			return nil
		},
	}

	root.AddCommand(newServeCmd(cfg), newMigrateCmd(cfg), newSweepCmd(cfg))
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
