package grpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	pb "github.com/godilite/diagnostico/api/v1"
	"github.com/godilite/diagnostico/internal/followup"
	"github.com/godilite/diagnostico/internal/scoring"
	"github.com/godilite/diagnostico/internal/service"
	"github.com/godilite/diagnostico/internal/settings"
)

const (
	defaultCacheDuration = 10 * time.Minute
	defaultGRPCTimeout   = 10 * time.Second
)

type CacheKeyType string

const (
	cacheKeyDiagnostic      CacheKeyType = "grpc:diagnostic"
	cacheKeyQuestions       CacheKeyType = "grpc:questions"
	cacheKeyFollowUpSummary CacheKeyType = "grpc:followup_summary"
)

type GRPCHandlers struct {
	pb.UnimplementedDiagnosticServiceServer
	diagnostics DiagnosticService
	followUps   FollowUpService
	settings    SettingsService
	cache       Cacher
	logger      *zap.Logger
	sfGroup     singleflight.Group
	generations keyGenerations
	cacheTTL    time.Duration
	now         func() time.Time
}

// NewGRPCHandlers initializes the gRPC handlers.
func NewGRPCHandlers(diagnostics DiagnosticService, followUps FollowUpService, cfg SettingsService, cache Cacher, logger *zap.Logger, ttl time.Duration) *GRPCHandlers {
	if diagnostics == nil || followUps == nil || cfg == nil {
		panic("nil service provided to NewGRPCHandlers")
	}
	if cache == nil {
		panic("nil Cacher provided to NewGRPCHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &GRPCHandlers{
		diagnostics: diagnostics,
		followUps:   followUps,
		settings:    cfg,
		cache:       cache,
		logger:      logger.Named("grpc-handler"),
		cacheTTL:    ttl,
		now:         time.Now,
	}
}

func normalizeKey(prefix CacheKeyType, parts ...string) string {
	return fmt.Sprintf("%s:%s", prefix, strings.Join(parts, ":"))
}

func summaryKey(companyID string, day time.Time) string {
	return normalizeKey(cacheKeyFollowUpSummary, companyID, day.UTC().Format("2006-01-02"))
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNoQuestions):
		s.logger.Info("not found", zap.String("op", op), zap.Error(err))
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		s.logger.Info("invalid input", zap.String("op", op), zap.Error(err))
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

func decode(req *structpb.Struct, dest any) error {
	if err := pb.FromStruct(req, dest); err != nil {
		return status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
	}
	return nil
}

func (s *GRPCHandlers) encode(op string, v any) (*structpb.Struct, error) {
	out, err := pb.ToStruct(v)
	if err != nil {
		s.logger.Error("failed to encode response", zap.String("op", op), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "%s failed: encode response", op)
	}
	return out, nil
}

func (s *GRPCHandlers) CalculateResults(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in CalculateRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	questions := in.Questions
	if len(questions) == 0 {
		id := in.QuestionnaireID
		if id == "" {
			id = service.DefaultQuestionnaire
		}
		var err error
		questions, err = s.loadQuestions(ctx, id)
		if err != nil {
			return nil, s.handleError(ctx, "CalculateResults", err)
		}
	}

	result := s.diagnostics.Calculate(questions, in.Answers)
	return s.encode("CalculateResults", CalculateResponse{
		Result:  result,
		Columns: scoring.MapDynamicScoresToFixedColumns(result.CategoryScores),
	})
}

func (s *GRPCHandlers) SubmitDiagnostic(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in service.Submission
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	d, err := s.diagnostics.Submit(ctx, in)
	if err != nil {
		return nil, s.handleError(ctx, "SubmitDiagnostic", err)
	}
	return s.encode("SubmitDiagnostic", d)
}

func (s *GRPCHandlers) GetDiagnostic(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in GetDiagnosticRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if in.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	policy := cachePolicy{ttl: s.cacheTTL, gens: &s.generations}
	d, err := FindAndCache(ctx, s.cache, &s.sfGroup, normalizeKey(cacheKeyDiagnostic, in.ID), policy, s.logger, func(fetchCtx context.Context) (service.Diagnostic, error) {
		return s.diagnostics.Get(fetchCtx, in.ID)
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetDiagnostic", err)
	}
	return s.encode("GetDiagnostic", d)
}

func (s *GRPCHandlers) ListDiagnostics(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in ListDiagnosticsRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Company) == "" {
		return nil, status.Error(codes.InvalidArgument, "company is required")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	history, err := s.diagnostics.History(ctx, in.Company)
	if err != nil {
		return nil, s.handleError(ctx, "ListDiagnostics", err)
	}
	return s.encode("ListDiagnostics", ListDiagnosticsResponse{Diagnostics: history})
}

func (s *GRPCHandlers) ListQuestions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in ListQuestionsRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if in.QuestionnaireID == "" {
		in.QuestionnaireID = service.DefaultQuestionnaire
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	questions, err := s.loadQuestions(ctx, in.QuestionnaireID)
	if err != nil {
		return nil, s.handleError(ctx, "ListQuestions", err)
	}
	return s.encode("ListQuestions", ListQuestionsResponse{
		QuestionnaireID: in.QuestionnaireID,
		Questions:       questions,
	})
}

func (s *GRPCHandlers) ImportQuestionnaire(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in service.Questionnaire
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	n, err := s.diagnostics.ImportQuestionnaire(ctx, in)
	if err != nil {
		return nil, s.handleError(ctx, "ImportQuestionnaire", err)
	}
	invalidate(ctx, s.cache, &s.generations, s.logger, normalizeKey(cacheKeyQuestions, in.ID))
	return s.encode("ImportQuestionnaire", ImportQuestionnaireResponse{Imported: n})
}

func (s *GRPCHandlers) RecordFollowUp(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in service.FollowUpInput
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	id, err := s.followUps.Record(ctx, in)
	if err != nil {
		return nil, s.handleError(ctx, "RecordFollowUp", err)
	}
	invalidate(ctx, s.cache, &s.generations, s.logger, summaryKey(strings.TrimSpace(in.CompanyID), s.now()))
	return s.encode("RecordFollowUp", RecordFollowUpResponse{ID: id})
}

func (s *GRPCHandlers) GetFollowUpSummary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in FollowUpSummaryRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	in.CompanyID = strings.TrimSpace(in.CompanyID)
	if in.CompanyID == "" {
		return nil, status.Error(codes.InvalidArgument, "companyId is required")
	}

	asOf := s.now()
	cacheable := true
	if in.AsOf != "" {
		t, err := time.Parse(time.RFC3339, in.AsOf)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "asOf must be RFC 3339: %v", err)
		}
		asOf = t
		cacheable = false
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	fetch := func(fetchCtx context.Context) (followup.Summary, error) {
		return s.followUps.Summary(fetchCtx, in.CompanyID, asOf)
	}

	var (
		summary followup.Summary
		err     error
	)
	if cacheable {
		summary, err = FindAndCache(ctx, s.cache, &s.sfGroup, summaryKey(in.CompanyID, asOf), cachePolicy{ttl: s.cacheTTL, gens: &s.generations}, s.logger, fetch)
	} else {
		summary, err = fetch(ctx)
	}
	if err != nil {
		return nil, s.handleError(ctx, "GetFollowUpSummary", err)
	}
	return s.encode("GetFollowUpSummary", summary)
}

func (s *GRPCHandlers) GetSettings(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	out, err := s.settings.Get(ctx)
	if err != nil {
		return nil, s.handleError(ctx, "GetSettings", err)
	}
	return s.encode("GetSettings", out)
}

func (s *GRPCHandlers) UpdateSettings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in UpdateSettingsRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	var (
		out settings.Settings
		err error
	)
	if in.Reset {
		out, err = s.settings.Reset(ctx)
	} else {
		out, err = s.settings.Update(ctx, in.Settings)
	}
	if err != nil {
		return nil, s.handleError(ctx, "UpdateSettings", err)
	}
	return s.encode("UpdateSettings", out)
}

func (s *GRPCHandlers) loadQuestions(ctx context.Context, questionnaireID string) ([]scoring.Question, error) {
	policy := cachePolicy{ttl: s.cacheTTL, refreshAhead: true, gens: &s.generations}
	return FindAndCache(ctx, s.cache, &s.sfGroup, normalizeKey(cacheKeyQuestions, questionnaireID), policy, s.logger, func(fetchCtx context.Context) ([]scoring.Question, error) {
		return s.diagnostics.Questions(fetchCtx, questionnaireID)
	})
}
