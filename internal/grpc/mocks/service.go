package mocks

import (
	"context"
	"errors"

	"github.com/portaudit/checklist-scoring/internal/scoring"
)

// MockScoringService is a mock implementation of the ScoringService interface
// for testing the handler layer. It uses function-based mocking for flexibility.
type MockScoringService struct {
	ScoreChecklistFunc      func(ctx context.Context, modules []scoring.Module) (scoring.ProjectBreakdown, error)
	GetProjectScoreFunc     func(ctx context.Context, projectID string) (scoring.ProjectScore, error)
	GetProjectBreakdownFunc func(ctx context.Context, projectID string) (scoring.ProjectBreakdown, error)
	GetProjectProgressFunc  func(ctx context.Context, projectID string) (scoring.Progress, error)
	RecordResponseFunc      func(ctx context.Context, projectID, questionID, option string) (scoring.ProjectScore, error)
	UpdateNCStatusFunc      func(ctx context.Context, projectID, ncID, status string) (scoring.ProjectScore, error)
}

// ScoreChecklist implements the ScoringService interface
func (m *MockScoringService) ScoreChecklist(ctx context.Context, modules []scoring.Module) (scoring.ProjectBreakdown, error) {
	if m.ScoreChecklistFunc != nil {
		return m.ScoreChecklistFunc(ctx, modules)
	}
	return scoring.ProjectBreakdown{}, errors.New("ScoreChecklistFunc not implemented")
}

// GetProjectScore implements the ScoringService interface
func (m *MockScoringService) GetProjectScore(ctx context.Context, projectID string) (scoring.ProjectScore, error) {
	if m.GetProjectScoreFunc != nil {
		return m.GetProjectScoreFunc(ctx, projectID)
	}
	return scoring.ProjectScore{}, errors.New("GetProjectScoreFunc not implemented")
}

// GetProjectBreakdown implements the ScoringService interface
func (m *MockScoringService) GetProjectBreakdown(ctx context.Context, projectID string) (scoring.ProjectBreakdown, error) {
	if m.GetProjectBreakdownFunc != nil {
		return m.GetProjectBreakdownFunc(ctx, projectID)
	}
	return scoring.ProjectBreakdown{}, errors.New("GetProjectBreakdownFunc not implemented")
}

// GetProjectProgress implements the ScoringService interface
func (m *MockScoringService) GetProjectProgress(ctx context.Context, projectID string) (scoring.Progress, error) {
	if m.GetProjectProgressFunc != nil {
		return m.GetProjectProgressFunc(ctx, projectID)
	}
	return scoring.Progress{}, errors.New("GetProjectProgressFunc not implemented")
}

// RecordResponse implements the ScoringService interface
func (m *MockScoringService) RecordResponse(ctx context.Context, projectID, questionID, option string) (scoring.ProjectScore, error) {
	if m.RecordResponseFunc != nil {
		return m.RecordResponseFunc(ctx, projectID, questionID, option)
	}
	return scoring.ProjectScore{}, errors.New("RecordResponseFunc not implemented")
}

// UpdateNCStatus implements the ScoringService interface
func (m *MockScoringService) UpdateNCStatus(ctx context.Context, projectID, ncID, status string) (scoring.ProjectScore, error) {
	if m.UpdateNCStatusFunc != nil {
		return m.UpdateNCStatusFunc(ctx, projectID, ncID, status)
	}
	return scoring.ProjectScore{}, errors.New("UpdateNCStatusFunc not implemented")
}
