package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/godilite/diagnostico/internal/config"
)

type rootOptions struct {
	envFile string
	port    int
	dbPath  string
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "diagnostico",
		Short:        "Business maturity diagnostics over gRPC",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	cmd.PersistentFlags().IntVar(&opts.port, "port", 0, "gRPC port, overrides GRPC_PORT")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path, overrides DB_PATH")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newSeedCmd(opts))
	cmd.AddCommand(newScoreCmd(opts))
	return cmd
}

// load reads the environment, then applies flag overrides.
func (o *rootOptions) load() *config.Config {
	if o.envFile != "" {
		_ = godotenv.Load(o.envFile)
	}
	cfg := config.LoadFromEnv()
	if o.port != 0 {
		cfg.GRPCPort = o.port
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	return cfg
}
