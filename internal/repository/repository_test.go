package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/diagnostico/internal/repository/models"
	"github.com/godilite/diagnostico/internal/scoring"
)

func TestDiagnosticRepository_GetDiagnostic_Errors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDiagnosticRepository(db)
	query := regexp.QuoteMeta("FROM diagnostics")
	columns := []string{
		"id", "company_name", "questionnaire_id", "overall_score", "level",
		"marketing", "vendas", "estrategia", "gestao",
		"category_scores", "result", "answers", "created_at",
	}

	t.Run("query failure is wrapped", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("d-1").WillReturnError(errors.New("disk I/O error"))

		_, err := repo.GetDiagnostic(context.Background(), "d-1")
		assert.ErrorContains(t, err, "disk I/O error")
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("corrupt category document", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("d-2").WillReturnRows(
			sqlmock.NewRows(columns).AddRow(
				"d-2", "ACME", "padrao", 50, "Emergente",
				50, 50, 50, 50,
				"{broken", "{}", "[]", "2025-10-18T10:00:00.000000000Z",
			),
		)

		_, err := repo.GetDiagnostic(context.Background(), "d-2")
		assert.ErrorContains(t, err, "decode category scores")
	})

	t.Run("empty category document is legacy", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("d-3").WillReturnRows(
			sqlmock.NewRows(columns).AddRow(
				"d-3", "ACME", "padrao", 50, "Emergente",
				10, 20, 30, 40,
				"", "{}", "[]", "2025-10-18T10:00:00.000000000Z",
			),
		)

		got, err := repo.GetDiagnostic(context.Background(), "d-3")
		require.NoError(t, err)
		assert.Nil(t, got.CategoryScores)
		assert.Equal(t, scoring.FixedColumnScores{Marketing: 10, Vendas: 20, Estrategia: 30, Gestao: 40}, got.Columns)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiagnosticRepository_SaveDiagnostic_NullDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 10, 18, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO diagnostics")).
		WithArgs("d-1", "ACME", "padrao", 0, "Iniciante",
			0, 0, 0, 0,
			nil, sqlmock.AnyArg(), "null", "2025-10-18T10:00:00.000000000Z").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = NewDiagnosticRepository(db).SaveDiagnostic(context.Background(), models.Diagnostic{
		ID:              "d-1",
		CompanyName:     "ACME",
		QuestionnaireID: "padrao",
		Level:           scoring.LevelIniciante,
		CreatedAt:       created,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_ReplaceQuestions_RollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM questions")).
		WithArgs("padrao").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO questions")).
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err = NewQuestionRepository(db).ReplaceQuestions(context.Background(), "padrao", []scoring.Question{
		{ID: "q1", Text: "?", Category: "Vendas"},
	})
	assert.ErrorContains(t, err, "insert question q1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowUpRepository_ListFollowUps_BadMonth(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM follow_ups")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "mes", "score_geral", "roi", "faturamento", "acoes", "created_at"}).
			AddRow(1, "março", 50, nil, nil, "[]", "2025-10-18T10:00:00.000000000Z"))

	_, err = NewFollowUpRepository(db).ListFollowUps(context.Background(), "c1")
	assert.ErrorContains(t, err, "parse mes of follow-up 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}
