package repository

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS questions (
		questionnaire_id TEXT NOT NULL,
		id TEXT NOT NULL,
		position INTEGER NOT NULL,
		text TEXT NOT NULL,
		category TEXT NOT NULL,
		required INTEGER NOT NULL DEFAULT 0,
		options TEXT NOT NULL DEFAULT '[]',
		PRIMARY KEY (questionnaire_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS diagnostics (
		id TEXT PRIMARY KEY,
		company_name TEXT NOT NULL,
		questionnaire_id TEXT NOT NULL,
		overall_score INTEGER NOT NULL,
		level TEXT NOT NULL,
		marketing INTEGER NOT NULL DEFAULT 0,
		vendas INTEGER NOT NULL DEFAULT 0,
		estrategia INTEGER NOT NULL DEFAULT 0,
		gestao INTEGER NOT NULL DEFAULT 0,
		category_scores TEXT,
		result TEXT NOT NULL DEFAULT '{}',
		answers TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS follow_ups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		company_id TEXT NOT NULL,
		mes TEXT NOT NULL,
		score_geral INTEGER NOT NULL,
		roi REAL,
		faturamento REAL,
		acoes TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_follow_ups_company_mes ON follow_ups (company_id, mes)`,
}

// Migrate creates the tables when they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
