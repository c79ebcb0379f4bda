package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/portaudit/checklist-scoring/internal/scoring"
	"github.com/portaudit/checklist-scoring/internal/service"
)

const (
	defaultCacheDuration = 2 * time.Minute
	defaultGRPCTimeout   = 10 * time.Second
)

type GRPCHandlers struct {
	scoring  ScoringService
	cache    Cacher
	logger   *zap.Logger
	sfGroup  singleflight.Group
	cacheTTL time.Duration
}

var _ ChecklistScoringServer = (*GRPCHandlers)(nil)

// NewGRPCHandlers initializes the gRPC handlers. cache may be nil, in which
// case every read goes to storage.
func NewGRPCHandlers(scoringSvc ScoringService, cache Cacher, logger *zap.Logger, ttl time.Duration) *GRPCHandlers {
	if scoringSvc == nil {
		panic("nil ScoringService provided to NewGRPCHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &GRPCHandlers{
		scoring:  scoringSvc,
		cache:    cache,
		logger:   logger.Named("grpc-handler"),
		cacheTTL: ttl,
	}
}

func (s *GRPCHandlers) projectID(req *structpb.Struct) (string, error) {
	id := strings.TrimSpace(stringField(req, "projectId"))
	if id == "" {
		return "", status.Error(codes.InvalidArgument, "projectId is required")
	}
	return id, nil
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
	case errors.Is(err, service.ErrInvalidArgument):
		s.logger.Info("invalid argument", zap.String("op", op), zap.Error(err))
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrProjectNotFound):
		s.logger.Info("project not found", zap.String("op", op))
		return status.Error(codes.NotFound, "project not found")
	case errors.Is(err, service.ErrNotFound):
		s.logger.Info("checklist entry not found", zap.String("op", op), zap.Error(err))
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

func (s *GRPCHandlers) respond(op string, m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		s.logger.Error("failed to encode response", zap.String("op", op), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "%s: encode response", op)
	}
	return out, nil
}

// ScoreChecklist scores the tree carried in the request's "modules" field.
func (s *GRPCHandlers) ScoreChecklist(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	modules, err := modulesField(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	breakdown, err := s.scoring.ScoreChecklist(ctx, modules)
	if err != nil {
		return nil, s.handleError(ctx, methodScoreChecklist, err)
	}
	return s.respond(methodScoreChecklist, breakdownMap(breakdown))
}

func (s *GRPCHandlers) GetProjectScore(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	projectID, err := s.projectID(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	score, err := findProject(ctx, s, cacheKeyProjectScore, projectID, func(fetchCtx context.Context) (scoring.ProjectScore, error) {
		return s.scoring.GetProjectScore(fetchCtx, projectID)
	})
	if err != nil {
		return nil, s.handleError(ctx, methodGetProjectScore, err)
	}
	return s.respond(methodGetProjectScore, projectScoreMap(score))
}

func (s *GRPCHandlers) GetProjectBreakdown(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	projectID, err := s.projectID(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	breakdown, err := findProject(ctx, s, cacheKeyProjectBreakdown, projectID, func(fetchCtx context.Context) (scoring.ProjectBreakdown, error) {
		return s.scoring.GetProjectBreakdown(fetchCtx, projectID)
	})
	if err != nil {
		return nil, s.handleError(ctx, methodGetProjectBreakdown, err)
	}
	return s.respond(methodGetProjectBreakdown, breakdownMap(breakdown))
}

func (s *GRPCHandlers) GetProjectProgress(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	projectID, err := s.projectID(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	progress, err := findProject(ctx, s, cacheKeyProjectProgress, projectID, func(fetchCtx context.Context) (scoring.Progress, error) {
		return s.scoring.GetProjectProgress(fetchCtx, projectID)
	})
	if err != nil {
		return nil, s.handleError(ctx, methodGetProjectProgress, err)
	}

	m, err := progressMap(progress)
	if err != nil {
		return nil, s.handleError(ctx, methodGetProjectProgress, err)
	}
	return s.respond(methodGetProjectProgress, m)
}

// RecordResponse stores a question's selected option. An empty
// selectedOption clears it.
func (s *GRPCHandlers) RecordResponse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	projectID, err := s.projectID(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	score, err := s.scoring.RecordResponse(ctx, projectID, stringField(req, "questionId"), stringField(req, "selectedOption"))
	if err != nil {
		return nil, s.handleError(ctx, methodRecordResponse, err)
	}

	invalidateProject(ctx, s.cache, projectID, s.logger)
	return s.respond(methodRecordResponse, projectScoreMap(score))
}

func (s *GRPCHandlers) UpdateNCStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	projectID, err := s.projectID(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	score, err := s.scoring.UpdateNCStatus(ctx, projectID, stringField(req, "ncId"), stringField(req, "status"))
	if err != nil {
		return nil, s.handleError(ctx, methodUpdateNCStatus, err)
	}

	invalidateProject(ctx, s.cache, projectID, s.logger)
	return s.respond(methodUpdateNCStatus, projectScoreMap(score))
}
