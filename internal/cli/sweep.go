package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msomdec/mockmatch/internal/config"
	"github.com/msomdec/mockmatch/internal/service"
)

func newSweepCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Mark booked interviews that have ended as completed",
		Long: `Run one completion sweep against the configured store and print how many
interviews were completed. The server runs the same sweep periodically when
REDIS_URL is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.ValidateStorage(); err != nil {
				return err
			}

			db, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := service.NewSlotService(db.Slots()).CompleteEnded(cmd.Context())
			if err != nil {
				return fmt.Errorf("sweep: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "completed %d interview(s)\n", n)
			return nil
		},
	}
}
