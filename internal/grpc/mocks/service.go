package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/godilite/diagnostico/internal/followup"
	"github.com/godilite/diagnostico/internal/scoring"
	"github.com/godilite/diagnostico/internal/service"
	"github.com/godilite/diagnostico/internal/settings"
)

// MockDiagnosticService is a mock implementation of the DiagnosticService
// interface for testing the handler layer. Unset Calculate falls back to
// the package-level engine.
type MockDiagnosticService struct {
	CalculateFunc           func(questions []scoring.Question, answers scoring.AnswerMap) scoring.DiagnosticResult
	SubmitFunc              func(ctx context.Context, sub service.Submission) (service.Diagnostic, error)
	GetFunc                 func(ctx context.Context, id string) (service.Diagnostic, error)
	HistoryFunc             func(ctx context.Context, company string) ([]service.Diagnostic, error)
	QuestionsFunc           func(ctx context.Context, questionnaireID string) ([]scoring.Question, error)
	ImportQuestionnaireFunc func(ctx context.Context, q service.Questionnaire) (int, error)
}

func (m *MockDiagnosticService) Calculate(questions []scoring.Question, answers scoring.AnswerMap) scoring.DiagnosticResult {
	if m.CalculateFunc != nil {
		return m.CalculateFunc(questions, answers)
	}
	return scoring.CalculateResults(answers, questions)
}

func (m *MockDiagnosticService) Submit(ctx context.Context, sub service.Submission) (service.Diagnostic, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, sub)
	}
	return service.Diagnostic{}, errors.New("SubmitFunc not implemented")
}

func (m *MockDiagnosticService) Get(ctx context.Context, id string) (service.Diagnostic, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return service.Diagnostic{}, errors.New("GetFunc not implemented")
}

func (m *MockDiagnosticService) History(ctx context.Context, company string) ([]service.Diagnostic, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, company)
	}
	return nil, errors.New("HistoryFunc not implemented")
}

func (m *MockDiagnosticService) Questions(ctx context.Context, questionnaireID string) ([]scoring.Question, error) {
	if m.QuestionsFunc != nil {
		return m.QuestionsFunc(ctx, questionnaireID)
	}
	return nil, errors.New("QuestionsFunc not implemented")
}

func (m *MockDiagnosticService) ImportQuestionnaire(ctx context.Context, q service.Questionnaire) (int, error) {
	if m.ImportQuestionnaireFunc != nil {
		return m.ImportQuestionnaireFunc(ctx, q)
	}
	return 0, errors.New("ImportQuestionnaireFunc not implemented")
}

// MockFollowUpService is a mock implementation of the FollowUpService interface.
type MockFollowUpService struct {
	RecordFunc  func(ctx context.Context, in service.FollowUpInput) (int64, error)
	SummaryFunc func(ctx context.Context, companyID string, now time.Time) (followup.Summary, error)
}

func (m *MockFollowUpService) Record(ctx context.Context, in service.FollowUpInput) (int64, error) {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, in)
	}
	return 0, errors.New("RecordFunc not implemented")
}

func (m *MockFollowUpService) Summary(ctx context.Context, companyID string, now time.Time) (followup.Summary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, companyID, now)
	}
	return followup.Summary{}, errors.New("SummaryFunc not implemented")
}

// MockSettingsService is a mock implementation of the SettingsService interface.
type MockSettingsService struct {
	GetFunc    func(ctx context.Context) (settings.Settings, error)
	UpdateFunc func(ctx context.Context, in settings.Settings) (settings.Settings, error)
	ResetFunc  func(ctx context.Context) (settings.Settings, error)
}

func (m *MockSettingsService) Get(ctx context.Context) (settings.Settings, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	return settings.Settings{}, errors.New("GetFunc not implemented")
}

func (m *MockSettingsService) Update(ctx context.Context, in settings.Settings) (settings.Settings, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, in)
	}
	return settings.Settings{}, errors.New("UpdateFunc not implemented")
}

func (m *MockSettingsService) Reset(ctx context.Context) (settings.Settings, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx)
	}
	return settings.Settings{}, errors.New("ResetFunc not implemented")
}
