package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/godilite/diagnostico/internal/repository"
	"github.com/godilite/diagnostico/internal/repository/models"
	"github.com/godilite/diagnostico/internal/scoring"
)

const (
	dbTimeout = 1 * time.Second
)

var (
	ErrNotFound       = errors.New("not found")
	ErrNoQuestions    = errors.New("no questions found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrStorageFailure = errors.New("storage failure")
)

// DiagnosticService scores questionnaire submissions and stores them.
type DiagnosticService struct {
	questions   QuestionRepository
	diagnostics DiagnosticRepository
	engine      *scoring.Engine
	logger      *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewDiagnosticService creates a new DiagnosticService instance. A nil
// engine scores with the default ceiling.
func NewDiagnosticService(questions QuestionRepository, diagnostics DiagnosticRepository, engine *scoring.Engine, logger *zap.Logger) *DiagnosticService {
	if questions == nil || diagnostics == nil {
		panic("repositories must not be nil")
	}
	if engine == nil {
		engine = scoring.NewEngine()
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &DiagnosticService{
		questions:   questions,
		diagnostics: diagnostics,
		engine:      engine,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Calculate scores answers without persisting anything.
func (s *DiagnosticService) Calculate(questions []scoring.Question, answers scoring.AnswerMap) scoring.DiagnosticResult {
	result := s.engine.Calculate(answers, questions)
	if len(result.CeilingMismatches) > 0 {
		s.logger.Warn("question options disagree with scoring ceiling",
			zap.Strings("questions", result.CeilingMismatches))
	}
	return result
}

// Submit scores a company's answers against a stored questionnaire and
// persists the diagnostic.
func (s *DiagnosticService) Submit(ctx context.Context, sub Submission) (Diagnostic, error) {
	company := strings.TrimSpace(sub.Company)
	if company == "" {
		return Diagnostic{}, fmt.Errorf("%w: company is required", ErrInvalidInput)
	}
	questionnaireID := sub.QuestionnaireID
	if questionnaireID == "" {
		questionnaireID = DefaultQuestionnaire
	}

	questions, err := s.Questions(ctx, questionnaireID)
	if err != nil {
		return Diagnostic{}, err
	}

	for _, q := range questions {
		if _, ok := sub.Answers[q.ID]; q.Required && !ok {
			return Diagnostic{}, fmt.Errorf("%w: question %s is required", ErrInvalidInput, q.ID)
		}
	}

	result := s.Calculate(questions, sub.Answers)
	record := models.Diagnostic{
		ID:              s.newID(),
		CompanyName:     company,
		QuestionnaireID: questionnaireID,
		OverallScore:    result.OverallScore,
		Level:           result.Level,
		Columns:         scoring.MapDynamicScoresToFixedColumns(result.CategoryScores),
		CategoryScores:  result.CategoryScores,
		StrongPoints:    result.StrongPoints,
		AttentionPoints: result.AttentionPoints,
		Recommendations: result.Recommendations,
		Answers:         answerRecords(questions, sub.Answers),
		CreatedAt:       s.now().UTC(),
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.diagnostics.SaveDiagnostic(dbCtx, record); err != nil {
		return Diagnostic{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("diagnostic stored",
		zap.String("id", record.ID),
		zap.String("company", company),
		zap.Int("overall_score", result.OverallScore),
		zap.String("level", string(result.Level)))

	d := toDiagnostic(record)
	d.Result.CeilingMismatches = result.CeilingMismatches
	return d, nil
}

// Get loads a stored diagnostic.
func (s *DiagnosticService) Get(ctx context.Context, id string) (Diagnostic, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	record, err := s.diagnostics.GetDiagnostic(dbCtx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Diagnostic{}, fmt.Errorf("%w: diagnostic %s", ErrNotFound, id)
		}
		return Diagnostic{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	d := toDiagnostic(record)
	if d.Reconstructed {
		s.logger.Debug("category scores rebuilt from fixed columns", zap.String("id", id))
	}
	return d, nil
}

// History lists a company's diagnostics, newest first. Entries carry the
// overall score, level and fixed columns only.
func (s *DiagnosticService) History(ctx context.Context, company string) ([]Diagnostic, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.diagnostics.ListDiagnostics(dbCtx, strings.TrimSpace(company))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no diagnostics for %s", ErrNotFound, company)
	}

	out := make([]Diagnostic, 0, len(rows))
	for _, r := range rows {
		out = append(out, Diagnostic{
			ID:              r.ID,
			Company:         r.CompanyName,
			QuestionnaireID: r.QuestionnaireID,
			Result: scoring.DiagnosticResult{
				OverallScore: r.OverallScore,
				Level:        r.Level,
			},
			Columns:   r.Columns,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

// Questions returns a questionnaire in display order.
func (s *DiagnosticService) Questions(ctx context.Context, questionnaireID string) ([]scoring.Question, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	questions, err := s.questions.GetQuestions(dbCtx, questionnaireID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: questionnaire %s", ErrNoQuestions, questionnaireID)
	}
	return questions, nil
}

// ImportQuestionnaire validates q and replaces the stored questionnaire
// with the same ID.
func (s *DiagnosticService) ImportQuestionnaire(ctx context.Context, q Questionnaire) (int, error) {
	if err := validateQuestionnaire(q); err != nil {
		return 0, err
	}

	if mismatches := s.engine.Calculate(nil, q.Questions).CeilingMismatches; len(mismatches) > 0 {
		s.logger.Warn("imported questions disagree with scoring ceiling",
			zap.String("questionnaire", q.ID),
			zap.Strings("questions", mismatches))
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.questions.ReplaceQuestions(dbCtx, q.ID, q.Questions); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("questionnaire imported",
		zap.String("questionnaire", q.ID),
		zap.Int("questions", len(q.Questions)))
	return len(q.Questions), nil
}

func validateQuestionnaire(q Questionnaire) error {
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("%w: questionnaire id is required", ErrInvalidInput)
	}
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: questionnaire %s has no questions", ErrInvalidInput, q.ID)
	}
	seen := make(map[string]struct{}, len(q.Questions))
	for i, question := range q.Questions {
		if question.ID == "" {
			return fmt.Errorf("%w: question %d has no id", ErrInvalidInput, i+1)
		}
		if _, dup := seen[question.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %s", ErrInvalidInput, question.ID)
		}
		seen[question.ID] = struct{}{}
		if strings.TrimSpace(question.Category) == "" {
			return fmt.Errorf("%w: question %s has no category", ErrInvalidInput, question.ID)
		}
		if len(question.Options) == 0 {
			return fmt.Errorf("%w: question %s has no options", ErrInvalidInput, question.ID)
		}
	}
	return nil
}

// answerRecords keeps the chosen option text next to each answered score.
func answerRecords(questions []scoring.Question, answers scoring.AnswerMap) []models.AnswerRecord {
	out := make([]models.AnswerRecord, 0, len(answers))
	for _, q := range questions {
		score, ok := answers[q.ID]
		if !ok {
			continue
		}
		text, found := q.OptionText(score)
		if !found {
			text = strconv.Itoa(score)
		}
		out = append(out, models.AnswerRecord{
			QuestionID: q.ID,
			Question:   q.Text,
			Category:   q.Category,
			Answer:     text,
			Score:      score,
		})
	}
	return out
}

func toDiagnostic(r models.Diagnostic) Diagnostic {
	d := Diagnostic{
		ID:              r.ID,
		Company:         r.CompanyName,
		QuestionnaireID: r.QuestionnaireID,
		Result: scoring.DiagnosticResult{
			OverallScore:    r.OverallScore,
			Level:           r.Level,
			CategoryScores:  r.CategoryScores,
			StrongPoints:    r.StrongPoints,
			AttentionPoints: r.AttentionPoints,
			Recommendations: r.Recommendations,
		},
		Columns:   r.Columns,
		Answers:   r.Answers,
		CreatedAt: r.CreatedAt,
	}
	if d.Result.CategoryScores == nil {
		d.Result.CategoryScores = r.Columns.CategoryScores()
		d.Reconstructed = true
	}
	return d
}
