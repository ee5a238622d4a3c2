package service

import (
	"context"

	"github.com/godilite/diagnostico/internal/repository/models"
	"github.com/godilite/diagnostico/internal/scoring"
	"github.com/godilite/diagnostico/internal/settings"
)

// QuestionRepository defines the questionnaire bank operations used by the service.
type QuestionRepository interface {
	GetQuestions(ctx context.Context, questionnaireID string) ([]scoring.Question, error)
	ReplaceQuestions(ctx context.Context, questionnaireID string, questions []scoring.Question) error
}

// DiagnosticRepository defines the diagnostic storage operations used by the service.
type DiagnosticRepository interface {
	SaveDiagnostic(ctx context.Context, d models.Diagnostic) error
	GetDiagnostic(ctx context.Context, id string) (models.Diagnostic, error)
	ListDiagnostics(ctx context.Context, companyName string) ([]models.Diagnostic, error)
}

// FollowUpRepository defines the follow-up storage operations used by the service.
type FollowUpRepository interface {
	InsertFollowUp(ctx context.Context, f models.FollowUp) (int64, error)
	ListFollowUps(ctx context.Context, companyID string) ([]models.FollowUp, error)
}

// SettingsManager is satisfied by *settings.Manager.
type SettingsManager interface {
	Load(ctx context.Context) (settings.Settings, error)
	Save(ctx context.Context, s settings.Settings) (settings.Settings, error)
	Reset(ctx context.Context) (settings.Settings, error)
}
