package mocks

import (
	"context"
	"errors"

	"github.com/godilite/diagnostico/internal/repository/models"
	"github.com/godilite/diagnostico/internal/scoring"
	"github.com/godilite/diagnostico/internal/settings"
)

// MockQuestionRepository is a mock implementation of the QuestionRepository interface.
type MockQuestionRepository struct {
	GetQuestionsFunc     func(ctx context.Context, questionnaireID string) ([]scoring.Question, error)
	ReplaceQuestionsFunc func(ctx context.Context, questionnaireID string, questions []scoring.Question) error
}

func (m *MockQuestionRepository) GetQuestions(ctx context.Context, questionnaireID string) ([]scoring.Question, error) {
	if m.GetQuestionsFunc != nil {
		return m.GetQuestionsFunc(ctx, questionnaireID)
	}
	return nil, errors.New("GetQuestionsFunc not implemented")
}

func (m *MockQuestionRepository) ReplaceQuestions(ctx context.Context, questionnaireID string, questions []scoring.Question) error {
	if m.ReplaceQuestionsFunc != nil {
		return m.ReplaceQuestionsFunc(ctx, questionnaireID, questions)
	}
	return errors.New("ReplaceQuestionsFunc not implemented")
}

// MockDiagnosticRepository is a mock implementation of the DiagnosticRepository interface.
type MockDiagnosticRepository struct {
	SaveDiagnosticFunc  func(ctx context.Context, d models.Diagnostic) error
	GetDiagnosticFunc   func(ctx context.Context, id string) (models.Diagnostic, error)
	ListDiagnosticsFunc func(ctx context.Context, companyName string) ([]models.Diagnostic, error)
}

func (m *MockDiagnosticRepository) SaveDiagnostic(ctx context.Context, d models.Diagnostic) error {
	if m.SaveDiagnosticFunc != nil {
		return m.SaveDiagnosticFunc(ctx, d)
	}
	return errors.New("SaveDiagnosticFunc not implemented")
}

func (m *MockDiagnosticRepository) GetDiagnostic(ctx context.Context, id string) (models.Diagnostic, error) {
	if m.GetDiagnosticFunc != nil {
		return m.GetDiagnosticFunc(ctx, id)
	}
	return models.Diagnostic{}, errors.New("GetDiagnosticFunc not implemented")
}

func (m *MockDiagnosticRepository) ListDiagnostics(ctx context.Context, companyName string) ([]models.Diagnostic, error) {
	if m.ListDiagnosticsFunc != nil {
		return m.ListDiagnosticsFunc(ctx, companyName)
	}
	return nil, errors.New("ListDiagnosticsFunc not implemented")
}

// MockFollowUpRepository is a mock implementation of the FollowUpRepository interface.
type MockFollowUpRepository struct {
	InsertFollowUpFunc func(ctx context.Context, f models.FollowUp) (int64, error)
	ListFollowUpsFunc  func(ctx context.Context, companyID string) ([]models.FollowUp, error)
}

func (m *MockFollowUpRepository) InsertFollowUp(ctx context.Context, f models.FollowUp) (int64, error) {
	if m.InsertFollowUpFunc != nil {
		return m.InsertFollowUpFunc(ctx, f)
	}
	return 0, errors.New("InsertFollowUpFunc not implemented")
}

func (m *MockFollowUpRepository) ListFollowUps(ctx context.Context, companyID string) ([]models.FollowUp, error) {
	if m.ListFollowUpsFunc != nil {
		return m.ListFollowUpsFunc(ctx, companyID)
	}
	return nil, errors.New("ListFollowUpsFunc not implemented")
}

// MockSettingsManager is a mock implementation of the SettingsManager interface.
type MockSettingsManager struct {
	LoadFunc  func(ctx context.Context) (settings.Settings, error)
	SaveFunc  func(ctx context.Context, s settings.Settings) (settings.Settings, error)
	ResetFunc func(ctx context.Context) (settings.Settings, error)
}

func (m *MockSettingsManager) Load(ctx context.Context) (settings.Settings, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return settings.Settings{}, errors.New("LoadFunc not implemented")
}

func (m *MockSettingsManager) Save(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, s)
	}
	return settings.Settings{}, errors.New("SaveFunc not implemented")
}

func (m *MockSettingsManager) Reset(ctx context.Context) (settings.Settings, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx)
	}
	return settings.Settings{}, errors.New("ResetFunc not implemented")
}
