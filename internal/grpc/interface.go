package grpc

import (
	"context"
	"time"

	"github.com/portaudit/checklist-scoring/internal/scoring"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
}

type ScoringService interface {
	ScoreChecklist(ctx context.Context, modules []scoring.Module) (scoring.ProjectBreakdown, error)
	GetProjectScore(ctx context.Context, projectID string) (scoring.ProjectScore, error)
	GetProjectBreakdown(ctx context.Context, projectID string) (scoring.ProjectBreakdown, error)
	GetProjectProgress(ctx context.Context, projectID string) (scoring.Progress, error)
	RecordResponse(ctx context.Context, projectID, questionID, option string) (scoring.ProjectScore, error)
	UpdateNCStatus(ctx context.Context, projectID, ncID, status string) (scoring.ProjectScore, error)
}
