package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/godilite/diagnostico/internal/scoring"
)

type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// GetQuestions returns the questionnaire's questions in display order.
func (r *QuestionRepository) GetQuestions(ctx context.Context, questionnaireID string) ([]scoring.Question, error) {
	const query = `
		SELECT id, text, category, required, options
		FROM questions
		WHERE questionnaire_id = ?
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, questionnaireID)
	if err != nil {
		return nil, fmt.Errorf("query GetQuestions: %w", err)
	}
	defer rows.Close()

	var results []scoring.Question
	for rows.Next() {
		var (
			q       scoring.Question
			options string
		)
		if err := rows.Scan(&q.ID, &q.Text, &q.Category, &q.Required, &options); err != nil {
			return nil, fmt.Errorf("scan GetQuestions row: %w", err)
		}
		if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
			return nil, fmt.Errorf("decode options of question %s: %w", q.ID, err)
		}
		results = append(results, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate GetQuestions: %w", err)
	}
	return results, nil
}

// ReplaceQuestions swaps the whole questionnaire atomically.
func (r *QuestionRepository) ReplaceQuestions(ctx context.Context, questionnaireID string, questions []scoring.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ReplaceQuestions: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE questionnaire_id = ?`, questionnaireID); err != nil {
		return fmt.Errorf("clear questionnaire %s: %w", questionnaireID, err)
	}

	const insert = `
		INSERT INTO questions (questionnaire_id, id, position, text, category, required, options)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for i, q := range questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("encode options of question %s: %w", q.ID, err)
		}
		if _, err := tx.ExecContext(ctx, insert, questionnaireID, q.ID, i, q.Text, q.Category, q.Required, string(options)); err != nil {
			return fmt.Errorf("insert question %s: %w", q.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ReplaceQuestions: %w", err)
	}
	return nil
}
