package service

import (
	"context"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/godilite/diagnostico/internal/repository"
	"github.com/godilite/diagnostico/internal/scoring"
	dbbuilder "github.com/godilite/diagnostico/pkg/database"
)

func setupRealService(tb testing.TB) *DiagnosticService {
	tb.Helper()

	db, err := dbbuilder.New(context.Background(),
		dbbuilder.WithDriver("sqlite3"),
		dbbuilder.WithDataSource(":memory:"),
		dbbuilder.WithMaxOpenConns(1),
		dbbuilder.WithInit(repository.Migrate),
	)
	if err != nil {
		tb.Fatalf("failed to create db pool via builder: %v", err)
	}
	tb.Cleanup(func() { db.Close() })

	s := NewDiagnosticService(repository.NewQuestionRepository(db), repository.NewDiagnosticRepository(db), nil, zap.NewNop())

	questions := make([]scoring.Question, 0, 40)
	for i := 0; i < 40; i++ {
		questions = append(questions, scoring.Question{
			ID:       fmt.Sprintf("q%d", i),
			Text:     fmt.Sprintf("Pergunta %d", i),
			Category: scoring.CanonicalCategories[i%len(scoring.CanonicalCategories)],
			Options:  yesNo(),
		})
	}
	if _, err := s.ImportQuestionnaire(context.Background(), Questionnaire{ID: DefaultQuestionnaire, Questions: questions}); err != nil {
		tb.Fatalf("failed to seed questionnaire: %v", err)
	}
	return s
}

func BenchmarkSubmit_RealDB(b *testing.B) {
	s := setupRealService(b)
	ctx := context.Background()
	answers := make(scoring.AnswerMap, 40)
	for i := 0; i < 40; i++ {
		answers[fmt.Sprintf("q%d", i)] = i % 4
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Submit(ctx, Submission{Company: "Bench", Answers: answers}); err != nil {
			b.Fatal(err)
		}
	}
}
