package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/godilite/diagnostico/internal/followup"
	"github.com/godilite/diagnostico/internal/repository/models"
)

const monthLayout = "2006-01-02"

type FollowUpRepository struct {
	db *sql.DB
}

func NewFollowUpRepository(db *sql.DB) *FollowUpRepository {
	return &FollowUpRepository{db: db}
}

// InsertFollowUp stores a follow-up and returns its ID.
func (r *FollowUpRepository) InsertFollowUp(ctx context.Context, f models.FollowUp) (int64, error) {
	const query = `
		INSERT INTO follow_ups (company_id, mes, score_geral, roi, faturamento, acoes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	actions := f.Record.Actions
	if actions == nil {
		actions = followup.ActionList{}
	}
	acoes, err := json.Marshal(actions)
	if err != nil {
		return 0, fmt.Errorf("encode actions: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query,
		f.CompanyID,
		f.Record.Month.UTC().Format(monthLayout),
		f.Record.ScoreGeral,
		nullFloat(f.Record.ROI),
		nullFloat(f.Record.Revenue),
		string(acoes),
		f.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert follow-up for %s: %w", f.CompanyID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("follow-up id: %w", err)
	}
	return id, nil
}

// ListFollowUps returns a company's follow-ups ordered by month. Action
// lists that cannot be parsed are returned empty.
func (r *FollowUpRepository) ListFollowUps(ctx context.Context, companyID string) ([]models.FollowUp, error) {
	const query = `
		SELECT id, mes, score_geral, roi, faturamento, acoes, created_at
		FROM follow_ups
		WHERE company_id = ?
		ORDER BY mes, id
	`

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("query ListFollowUps: %w", err)
	}
	defer rows.Close()

	var results []models.FollowUp
	for rows.Next() {
		var (
			f           = models.FollowUp{CompanyID: companyID}
			mes         string
			roi         sql.NullFloat64
			faturamento sql.NullFloat64
			acoes       sql.NullString
			createdAt   string
		)
		if err := rows.Scan(&f.ID, &mes, &f.Record.ScoreGeral, &roi, &faturamento, &acoes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan ListFollowUps row: %w", err)
		}

		if f.Record.Month, err = time.Parse(monthLayout, mes); err != nil {
			return nil, fmt.Errorf("parse mes of follow-up %d: %w", f.ID, err)
		}
		if f.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at of follow-up %d: %w", f.ID, err)
		}
		if roi.Valid {
			f.Record.ROI = followup.Float(roi.Float64)
		}
		if faturamento.Valid {
			f.Record.Revenue = followup.Float(faturamento.Float64)
		}

		actions, perr := followup.ParseActionList(acoes.String)
		if perr != nil {
			actions = followup.ActionList{}
		}
		f.Record.Actions = actions

		results = append(results, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListFollowUps: %w", err)
	}
	return results, nil
}

func nullFloat(v followup.OptionalFloat) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v.Value, Valid: v.Valid}
}
