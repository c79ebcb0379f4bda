package mocks

import (
	"context"
	"errors"

	"github.com/portaudit/checklist-scoring/internal/repository/models"
	"github.com/portaudit/checklist-scoring/internal/scoring"
)

// MockChecklistRepository is a mock implementation of the ChecklistRepository
// interface for testing the service layer.
type MockChecklistRepository struct {
	LoadModulesFunc         func(ctx context.Context, projectID string) ([]scoring.Module, error)
	SetQuestionResponseFunc func(ctx context.Context, projectID, questionID string, option *scoring.Option) error
	SetNCStatusFunc         func(ctx context.Context, projectID, ncID string, status scoring.Status) error
	SaveProjectFunc         func(ctx context.Context, p models.Project) error
}

// LoadModules implements the ChecklistRepository interface
func (m *MockChecklistRepository) LoadModules(ctx context.Context, projectID string) ([]scoring.Module, error) {
	if m.LoadModulesFunc != nil {
		return m.LoadModulesFunc(ctx, projectID)
	}
	return nil, errors.New("LoadModulesFunc not implemented")
}

// SetQuestionResponse implements the ChecklistRepository interface
func (m *MockChecklistRepository) SetQuestionResponse(ctx context.Context, projectID, questionID string, option *scoring.Option) error {
	if m.SetQuestionResponseFunc != nil {
		return m.SetQuestionResponseFunc(ctx, projectID, questionID, option)
	}
	return errors.New("SetQuestionResponseFunc not implemented")
}

// SetNCStatus implements the ChecklistRepository interface
func (m *MockChecklistRepository) SetNCStatus(ctx context.Context, projectID, ncID string, status scoring.Status) error {
	if m.SetNCStatusFunc != nil {
		return m.SetNCStatusFunc(ctx, projectID, ncID, status)
	}
	return errors.New("SetNCStatusFunc not implemented")
}

// SaveProject implements the ChecklistRepository interface
func (m *MockChecklistRepository) SaveProject(ctx context.Context, p models.Project) error {
	if m.SaveProjectFunc != nil {
		return m.SaveProjectFunc(ctx, p)
	}
	return errors.New("SaveProjectFunc not implemented")
}
