package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/godilite/diagnostico/internal/scoring"
)

type scoreOutput struct {
	Result  scoring.DiagnosticResult  `json:"result"`
	Columns scoring.FixedColumnScores `json:"columns"`
}

func newScoreCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "score <questionnaire.yaml> <answers.yaml>",
		Short: "Score answers offline and print the result as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := loadQuestionnaire(args[0])
			if err != nil {
				return err
			}
			var answers scoring.AnswerMap
			if err := readYAML(args[1], &answers); err != nil {
				return err
			}

			engine, err := opts.load().ScoringEngine()
			if err != nil {
				return err
			}
			result := engine.Calculate(answers, q.Questions)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(scoreOutput{
				Result:  result,
				Columns: scoring.MapDynamicScoresToFixedColumns(result.CategoryScores),
			})
		},
	}
}
