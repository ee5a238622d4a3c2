package grpc

import (
	"github.com/godilite/diagnostico/internal/scoring"
	"github.com/godilite/diagnostico/internal/service"
	"github.com/godilite/diagnostico/internal/settings"
)

// CalculateRequest scores answers against inline questions, or against a
// stored questionnaire when Questions is empty.
type CalculateRequest struct {
	QuestionnaireID string             `json:"questionnaireId,omitempty"`
	Questions       []scoring.Question `json:"questions,omitempty"`
	Answers         scoring.AnswerMap  `json:"answers"`
}

type CalculateResponse struct {
	Result  scoring.DiagnosticResult  `json:"result"`
	Columns scoring.FixedColumnScores `json:"columns"`
}

type GetDiagnosticRequest struct {
	ID string `json:"id"`
}

type ListDiagnosticsRequest struct {
	Company string `json:"company"`
}

type ListDiagnosticsResponse struct {
	Diagnostics []service.Diagnostic `json:"diagnostics"`
}

type ListQuestionsRequest struct {
	QuestionnaireID string `json:"questionnaireId,omitempty"`
}

type ListQuestionsResponse struct {
	QuestionnaireID string             `json:"questionnaireId"`
	Questions       []scoring.Question `json:"questions"`
}

type ImportQuestionnaireResponse struct {
	Imported int `json:"imported"`
}

type RecordFollowUpResponse struct {
	ID int64 `json:"id"`
}

// FollowUpSummaryRequest asks for a company's trend as of AsOf, or as of
// the server clock when AsOf is empty. AsOf is RFC 3339.
type FollowUpSummaryRequest struct {
	CompanyID string `json:"companyId"`
	AsOf      string `json:"asOf,omitempty"`
}

// UpdateSettingsRequest saves the embedded settings, or restores the
// defaults when Reset is set.
type UpdateSettingsRequest struct {
	Reset bool `json:"reset,omitempty"`
	settings.Settings
}
