package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/godilite/diagnostico/internal/app"
	"github.com/godilite/diagnostico/internal/config"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.load()
			logger, err := config.NewLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := app.OpenDatabase(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "schema applied to %s\n", cfg.DBPath)
			return nil
		},
	}
}
