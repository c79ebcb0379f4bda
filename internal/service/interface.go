package service

import (
	"context"

	"github.com/portaudit/checklist-scoring/internal/repository/models"
	"github.com/portaudit/checklist-scoring/internal/scoring"
)

// ChecklistRepository defines the storage operations the service needs.
type ChecklistRepository interface {
	LoadModules(ctx context.Context, projectID string) ([]scoring.Module, error)
	SetQuestionResponse(ctx context.Context, projectID, questionID string, option *scoring.Option) error
	SetNCStatus(ctx context.Context, projectID, ncID string, status scoring.Status) error
	SaveProject(ctx context.Context, p models.Project) error
}
