package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/portaudit/checklist-scoring/internal/repository"
	"github.com/portaudit/checklist-scoring/internal/repository/models"
	"github.com/portaudit/checklist-scoring/internal/scoring"
)

const (
	dbTimeout = 1 * time.Second
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNotFound        = errors.New("checklist entry not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrStorageFailure  = errors.New("storage failure")
)

// ScoringService loads checklists and recomputes their scores on every read.
type ScoringService struct {
	storage ChecklistRepository
	logger  *zap.Logger
}

// NewScoringService creates a new ScoringService instance.
func NewScoringService(storage ChecklistRepository, logger *zap.Logger) *ScoringService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &ScoringService{
		storage: storage,
		logger:  logger,
	}
}

// ScoreChecklist scores a tree supplied by the caller. Nothing is stored.
func (s *ScoringService) ScoreChecklist(ctx context.Context, modules []scoring.Module) (scoring.ProjectBreakdown, error) {
	if err := ctx.Err(); err != nil {
		return scoring.ProjectBreakdown{}, err
	}
	return scoring.AggregateProjectDetailed(modules), nil
}

// GetProjectScore returns the summary for a stored project.
func (s *ScoringService) GetProjectScore(ctx context.Context, projectID string) (scoring.ProjectScore, error) {
	modules, err := s.load(ctx, projectID)
	if err != nil {
		return scoring.ProjectScore{}, err
	}

	score := scoring.AggregateProject(modules)

	s.logger.Info("computed project score",
		zap.String("project_id", projectID),
		zap.Float64("percent", score.Percent),
		zap.Int("ncs_completed", score.NCsCompleted),
		zap.Int("ncs_total", score.NCsTotal))

	return score, nil
}

// GetProjectBreakdown returns the summary plus the per-module tree.
func (s *ScoringService) GetProjectBreakdown(ctx context.Context, projectID string) (scoring.ProjectBreakdown, error) {
	modules, err := s.load(ctx, projectID)
	if err != nil {
		return scoring.ProjectBreakdown{}, err
	}
	return scoring.AggregateProjectDetailed(modules), nil
}

func (s *ScoringService) GetProjectProgress(ctx context.Context, projectID string) (scoring.Progress, error) {
	modules, err := s.load(ctx, projectID)
	if err != nil {
		return scoring.Progress{}, err
	}
	return scoring.ComputeProgress(modules), nil
}

// RecordResponse stores the option chosen for a question and returns the
// recomputed summary. An empty option clears the response.
func (s *ScoringService) RecordResponse(ctx context.Context, projectID, questionID, option string) (scoring.ProjectScore, error) {
	if err := requireIDs(projectID, questionID); err != nil {
		return scoring.ProjectScore{}, err
	}

	var selected *scoring.Option
	if strings.TrimSpace(option) != "" {
		opt, err := scoring.ParseOption(option)
		if err != nil {
			return scoring.ProjectScore{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		selected = &opt
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.storage.SetQuestionResponse(dbCtx, projectID, questionID, selected); err != nil {
		return scoring.ProjectScore{}, s.storageError("record response", err)
	}

	s.logger.Info("recorded response",
		zap.String("project_id", projectID),
		zap.String("question_id", questionID),
		zap.String("option", option))

	return s.GetProjectScore(ctx, projectID)
}

// UpdateNCStatus sets the operator-maintained status of an NC. The status is
// not checked against the NC's score.
func (s *ScoringService) UpdateNCStatus(ctx context.Context, projectID, ncID, status string) (scoring.ProjectScore, error) {
	if err := requireIDs(projectID, ncID); err != nil {
		return scoring.ProjectScore{}, err
	}

	st, err := scoring.ParseStatus(status)
	if err != nil {
		return scoring.ProjectScore{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.storage.SetNCStatus(dbCtx, projectID, ncID, st); err != nil {
		return scoring.ProjectScore{}, s.storageError("update nc status", err)
	}

	s.logger.Info("updated nc status",
		zap.String("project_id", projectID),
		zap.String("nc_id", ncID),
		zap.String("status", string(st)))

	return s.GetProjectScore(ctx, projectID)
}

// ImportProject stores a complete checklist. Missing IDs are generated and
// response options are validated before anything is written.
func (s *ScoringService) ImportProject(ctx context.Context, p models.Project) (models.Project, error) {
	if strings.TrimSpace(p.Name) == "" {
		return models.Project{}, fmt.Errorf("%w: project name is required", ErrInvalidArgument)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	ids := newIDSet()
	for mi := range p.Modules {
		m := &p.Modules[mi]
		fillID(&m.ID)
		if err := ids.claim("module", m.ID); err != nil {
			return models.Project{}, err
		}
		for ii := range m.Items {
			it := &m.Items[ii]
			fillID(&it.ID)
			if err := ids.claim("item", it.ID); err != nil {
				return models.Project{}, err
			}
			for ni := range it.NCs {
				nc := &it.NCs[ni]
				fillID(&nc.ID)
				if err := ids.claim("nc", nc.ID); err != nil {
					return models.Project{}, err
				}
				if nc.Status != "" {
					st, err := scoring.ParseStatus(string(nc.Status))
					if err != nil {
						return models.Project{}, fmt.Errorf("%w: nc %q: %v", ErrInvalidArgument, nc.ID, err)
					}
					nc.Status = st
				}
				for qi := range nc.Questions {
					q := &nc.Questions[qi]
					fillID(&q.ID)
					if err := ids.claim("question", q.ID); err != nil {
						return models.Project{}, err
					}
					if q.Weight < 0 {
						return models.Project{}, fmt.Errorf("%w: question %q has negative weight", ErrInvalidArgument, q.ID)
					}
					if q.Response != nil {
						opt, err := scoring.ParseOption(string(q.Response.SelectedOption))
						if err != nil {
							return models.Project{}, fmt.Errorf("%w: question %q: %v", ErrInvalidArgument, q.ID, err)
						}
						q.Response.SelectedOption = opt
					}
				}
			}
		}
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.storage.SaveProject(dbCtx, p); err != nil {
		return models.Project{}, s.storageError("import project", err)
	}

	s.logger.Info("imported project",
		zap.String("project_id", p.ID),
		zap.Int("modules", len(p.Modules)))

	return p, nil
}

func (s *ScoringService) load(ctx context.Context, projectID string) ([]scoring.Module, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidArgument)
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	modules, err := s.storage.LoadModules(dbCtx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
		s.logger.Error("failed to load checklist", zap.String("project_id", projectID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return modules, nil
}

func (s *ScoringService) storageError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	s.logger.Error("storage write failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %v", ErrStorageFailure, err)
}

func requireIDs(ids ...string) error {
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: ids are required", ErrInvalidArgument)
		}
	}
	return nil
}

// idSet tracks checklist IDs per kind; each kind must be unique within a
// project.
type idSet map[string]map[string]struct{}

func newIDSet() idSet {
	return make(idSet)
}

func (s idSet) claim(kind, id string) error {
	seen, ok := s[kind]
	if !ok {
		seen = make(map[string]struct{})
		s[kind] = seen
	}
	if _, dup := seen[id]; dup {
		return fmt.Errorf("%w: duplicate %s id %q", ErrInvalidArgument, kind, id)
	}
	seen[id] = struct{}{}
	return nil
}

func fillID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
