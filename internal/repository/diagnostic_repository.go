package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/godilite/diagnostico/internal/repository/models"
	"github.com/godilite/diagnostico/internal/scoring"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

type DiagnosticRepository struct {
	db *sql.DB
}

func NewDiagnosticRepository(db *sql.DB) *DiagnosticRepository {
	return &DiagnosticRepository{db: db}
}

type resultDoc struct {
	StrongPoints    []string            `json:"strongPoints"`
	AttentionPoints []string            `json:"attentionPoints"`
	Recommendations map[string][]string `json:"recommendations"`
}

// SaveDiagnostic writes the four fixed columns together with the verbatim
// category scores document. A nil CategoryScores is stored as NULL.
func (r *DiagnosticRepository) SaveDiagnostic(ctx context.Context, d models.Diagnostic) error {
	const query = `
		INSERT INTO diagnostics (
			id, company_name, questionnaire_id, overall_score, level,
			marketing, vendas, estrategia, gestao,
			category_scores, result, answers, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var categoryScores sql.NullString
	if d.CategoryScores != nil {
		data, err := json.Marshal(d.CategoryScores)
		if err != nil {
			return fmt.Errorf("encode category scores: %w", err)
		}
		categoryScores = sql.NullString{String: string(data), Valid: true}
	}

	result, err := json.Marshal(resultDoc{
		StrongPoints:    d.StrongPoints,
		AttentionPoints: d.AttentionPoints,
		Recommendations: d.Recommendations,
	})
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	answers, err := json.Marshal(d.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		d.ID, d.CompanyName, d.QuestionnaireID, d.OverallScore, string(d.Level),
		d.Columns.Marketing, d.Columns.Vendas, d.Columns.Estrategia, d.Columns.Gestao,
		categoryScores, string(result), string(answers), d.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert diagnostic %s: %w", d.ID, err)
	}
	return nil
}

// GetDiagnostic loads one diagnostic by ID.
func (r *DiagnosticRepository) GetDiagnostic(ctx context.Context, id string) (models.Diagnostic, error) {
	const query = `
		SELECT
			id, company_name, questionnaire_id, overall_score, level,
			marketing, vendas, estrategia, gestao,
			category_scores, result, answers, created_at
		FROM diagnostics
		WHERE id = ?
	`

	var (
		d              models.Diagnostic
		level          string
		categoryScores sql.NullString
		result         string
		answers        string
		createdAt      string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.CompanyName, &d.QuestionnaireID, &d.OverallScore, &level,
		&d.Columns.Marketing, &d.Columns.Vendas, &d.Columns.Estrategia, &d.Columns.Gestao,
		&categoryScores, &result, &answers, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Diagnostic{}, fmt.Errorf("diagnostic %s: %w", id, ErrNotFound)
		}
		return models.Diagnostic{}, fmt.Errorf("query GetDiagnostic: %w", err)
	}
	d.Level = scoring.Level(level)

	if categoryScores.Valid && categoryScores.String != "" {
		if err := json.Unmarshal([]byte(categoryScores.String), &d.CategoryScores); err != nil {
			return models.Diagnostic{}, fmt.Errorf("decode category scores of %s: %w", id, err)
		}
	}

	var doc resultDoc
	if err := json.Unmarshal([]byte(result), &doc); err != nil {
		return models.Diagnostic{}, fmt.Errorf("decode result of %s: %w", id, err)
	}
	d.StrongPoints = doc.StrongPoints
	d.AttentionPoints = doc.AttentionPoints
	d.Recommendations = doc.Recommendations

	if err := json.Unmarshal([]byte(answers), &d.Answers); err != nil {
		return models.Diagnostic{}, fmt.Errorf("decode answers of %s: %w", id, err)
	}

	d.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return models.Diagnostic{}, fmt.Errorf("parse created_at of %s: %w", id, err)
	}
	return d, nil
}

// ListDiagnostics returns a company's diagnostics, newest first, without
// answers.
func (r *DiagnosticRepository) ListDiagnostics(ctx context.Context, companyName string) ([]models.Diagnostic, error) {
	const query = `
		SELECT id, questionnaire_id, overall_score, level,
			marketing, vendas, estrategia, gestao, created_at
		FROM diagnostics
		WHERE company_name = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, companyName)
	if err != nil {
		return nil, fmt.Errorf("query ListDiagnostics: %w", err)
	}
	defer rows.Close()

	var results []models.Diagnostic
	for rows.Next() {
		d := models.Diagnostic{CompanyName: companyName}
		var level, createdAt string
		if err := rows.Scan(&d.ID, &d.QuestionnaireID, &d.OverallScore, &level,
			&d.Columns.Marketing, &d.Columns.Vendas, &d.Columns.Estrategia, &d.Columns.Gestao, &createdAt); err != nil {
			return nil, fmt.Errorf("scan ListDiagnostics row: %w", err)
		}
		d.Level = scoring.Level(level)
		if d.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at of %s: %w", d.ID, err)
		}
		results = append(results, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListDiagnostics: %w", err)
	}
	return results, nil
}
