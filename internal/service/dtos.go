package service

import (
	"time"

	"github.com/godilite/diagnostico/internal/followup"
	"github.com/godilite/diagnostico/internal/repository/models"
	"github.com/godilite/diagnostico/internal/scoring"
)

// DefaultQuestionnaire is used when a submission names no questionnaire.
const DefaultQuestionnaire = "padrao"

type Submission struct {
	Company         string            `json:"company"`
	QuestionnaireID string            `json:"questionnaireId,omitempty"`
	Answers         scoring.AnswerMap `json:"answers"`
}

// Questionnaire is an importable question bank.
type Questionnaire struct {
	ID        string             `json:"id" yaml:"id"`
	Title     string             `json:"title,omitempty" yaml:"title"`
	Questions []scoring.Question `json:"questions" yaml:"questions"`
}

// Diagnostic is a scored submission as returned to callers. Reconstructed
// is set when the category scores were rebuilt from the four fixed
// columns because the stored row predates the per-category document.
type Diagnostic struct {
	ID              string                    `json:"id"`
	Company         string                    `json:"company"`
	QuestionnaireID string                    `json:"questionnaireId"`
	Result          scoring.DiagnosticResult  `json:"result"`
	Columns         scoring.FixedColumnScores `json:"columns"`
	Answers         []models.AnswerRecord     `json:"answers,omitempty"`
	Reconstructed   bool                      `json:"reconstructed,omitempty"`
	CreatedAt       time.Time                 `json:"createdAt"`
}

// FollowUpInput is a monthly follow-up as received from a client. Month
// accepts "2006-01" or "2006-01-02". Actions may be a JSON encoded string
// or a list.
type FollowUpInput struct {
	CompanyID  string                 `json:"companyId"`
	Month      string                 `json:"mes"`
	ScoreGeral int                    `json:"score_geral"`
	ROI        followup.OptionalFloat `json:"roi"`
	Revenue    followup.OptionalFloat `json:"faturamento"`
	Actions    any                    `json:"acoes"`
}
