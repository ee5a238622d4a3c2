package models

import (
	"time"

	"github.com/godilite/diagnostico/internal/followup"
	"github.com/godilite/diagnostico/internal/scoring"
)

// AnswerRecord is the persisted form of one answered question.
type AnswerRecord struct {
	QuestionID string `json:"questionId"`
	Question   string `json:"question"`
	Category   string `json:"category"`
	Answer     string `json:"answer"`
	Score      int    `json:"score"`
}

// Diagnostic is a stored diagnostic. Columns is the four-column projection;
// CategoryScores is the verbatim per-category document and is nil for rows
// written before it was persisted.
type Diagnostic struct {
	ID              string
	CompanyName     string
	QuestionnaireID string
	OverallScore    int
	Level           scoring.Level
	Columns         scoring.FixedColumnScores
	CategoryScores  map[string]int
	StrongPoints    []string
	AttentionPoints []string
	Recommendations map[string][]string
	Answers         []AnswerRecord
	CreatedAt       time.Time
}

// FollowUp is a stored monthly follow-up.
type FollowUp struct {
	ID        int64
	CompanyID string
	Record    followup.Record
	CreatedAt time.Time
}
