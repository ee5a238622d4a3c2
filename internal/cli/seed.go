package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/godilite/diagnostico/internal/app"
	"github.com/godilite/diagnostico/internal/config"
	"github.com/godilite/diagnostico/internal/service"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <questionnaire.yaml>",
		Short: "Import a questionnaire, replacing the stored one with the same id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := loadQuestionnaire(args[0])
			if err != nil {
				return err
			}

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

			diagnostics, err := app.NewDiagnosticService(cfg, db, logger)
			if err != nil {
				return err
			}
			n, err := diagnostics.ImportQuestionnaire(cmd.Context(), q)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d questions into %s\n", n, q.ID)
			return nil
		},
	}
}

func loadQuestionnaire(path string) (service.Questionnaire, error) {
	var q service.Questionnaire
	if err := readYAML(path, &q); err != nil {
		return q, err
	}
	if q.ID == "" {
		q.ID = service.DefaultQuestionnaire
	}
	return q, nil
}

func readYAML(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
