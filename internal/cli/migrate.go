package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msomdec/mockmatch/internal/config"
)

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.ValidateStorage(); err != nil {
				return err
			}

			db, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", cfg.StorageDriver)
			return nil
		},
	}
}
