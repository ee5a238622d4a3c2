package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/godilite/diagnostico/internal/app"
	"github.com/godilite/diagnostico/internal/config"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the gRPC server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.load()
			logger, err := config.NewLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			application, err := app.NewApp(cmd.Context(), cfg, logger)
			if err != nil {
				logger.Error("Failed to initialize application", zap.Error(err))
				return err
			}
			return application.Run(cmd.Context())
		},
	}
}
