package grpc

import (
	"context"
	"time"

	"github.com/godilite/diagnostico/internal/followup"
	"github.com/godilite/diagnostico/internal/scoring"
	"github.com/godilite/diagnostico/internal/service"
	"github.com/godilite/diagnostico/internal/settings"
)

// Cacher defines the interface for cache operations. Get returns
// cache.ErrMiss for absent keys.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type DiagnosticService interface {
	Calculate(questions []scoring.Question, answers scoring.AnswerMap) scoring.DiagnosticResult
	Submit(ctx context.Context, sub service.Submission) (service.Diagnostic, error)
	Get(ctx context.Context, id string) (service.Diagnostic, error)
	History(ctx context.Context, company string) ([]service.Diagnostic, error)
	Questions(ctx context.Context, questionnaireID string) ([]scoring.Question, error)
	ImportQuestionnaire(ctx context.Context, q service.Questionnaire) (int, error)
}

type FollowUpService interface {
	Record(ctx context.Context, in service.FollowUpInput) (int64, error)
	Summary(ctx context.Context, companyID string, now time.Time) (followup.Summary, error)
}

type SettingsService interface {
	Get(ctx context.Context) (settings.Settings, error)
	Update(ctx context.Context, in settings.Settings) (settings.Settings, error)
	Reset(ctx context.Context) (settings.Settings, error)
}
