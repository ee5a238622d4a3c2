package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/godilite/diagnostico/internal/followup"
	"github.com/godilite/diagnostico/internal/repository/models"
)

var monthLayouts = []string{"2006-01", "2006-01-02"}

// FollowUpService records monthly follow-ups and summarizes a company's trend.
type FollowUpService struct {
	storage FollowUpRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewFollowUpService creates a new FollowUpService instance.
func NewFollowUpService(storage FollowUpRepository, logger *zap.Logger) *FollowUpService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &FollowUpService{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// Record validates and stores a follow-up, returning its ID. The action
// plan is normalized here; malformed plans are rejected.
func (s *FollowUpService) Record(ctx context.Context, in FollowUpInput) (int64, error) {
	companyID := strings.TrimSpace(in.CompanyID)
	if companyID == "" {
		return 0, fmt.Errorf("%w: companyId is required", ErrInvalidInput)
	}
	if in.ScoreGeral < 0 || in.ScoreGeral > 100 {
		return 0, fmt.Errorf("%w: score_geral %d out of range", ErrInvalidInput, in.ScoreGeral)
	}
	month, err := parseMonth(in.Month)
	if err != nil {
		return 0, err
	}
	if afterMonthOf(month, s.now()) {
		return 0, fmt.Errorf("%w: mes %s is in the future", ErrInvalidInput, month.Format("2006-01"))
	}
	actions, err := followup.ParseActionList(in.Actions)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	id, err := s.storage.InsertFollowUp(dbCtx, models.FollowUp{
		CompanyID: companyID,
		Record: followup.Record{
			Month:      month,
			ScoreGeral: in.ScoreGeral,
			ROI:        in.ROI,
			Revenue:    in.Revenue,
			Actions:    actions,
		},
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("follow-up recorded",
		zap.Int64("id", id),
		zap.String("company", companyID),
		zap.Time("month", month),
		zap.Int("actions", len(actions)))
	return id, nil
}

// Records returns a company's follow-ups in chronological order.
func (s *FollowUpService) Records(ctx context.Context, companyID string) ([]followup.Record, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return nil, fmt.Errorf("%w: companyId is required", ErrInvalidInput)
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.storage.ListFollowUps(dbCtx, companyID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no follow-ups for %s", ErrNotFound, companyID)
	}

	records := make([]followup.Record, len(rows))
	for i, r := range rows {
		records[i] = r.Record
	}
	return records, nil
}

// Summary computes the trend metrics of a company as of now.
func (s *FollowUpService) Summary(ctx context.Context, companyID string, now time.Time) (followup.Summary, error) {
	records, err := s.Records(ctx, companyID)
	if err != nil {
		return followup.Summary{}, err
	}
	return followup.Summarize(records, now), nil
}

func parseMonth(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: mes is required", ErrInvalidInput)
	}
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: mes %q is not a month", ErrInvalidInput, v)
}

// afterMonthOf reports whether t falls in a calendar month later than now's.
func afterMonthOf(t, now time.Time) bool {
	now = now.UTC()
	ty, tm, _ := t.UTC().Date()
	ny, nm, _ := now.Date()
	return ty > ny || (ty == ny && tm > nm)
}
