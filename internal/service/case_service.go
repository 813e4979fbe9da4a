package service

import (
	"context"
	"fmt"

	"github.com/casedesk/casedesk/internal/authz"
	"github.com/casedesk/casedesk/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CaseStore is the persistence surface the case service needs.
type CaseStore interface {
	Create(ctx context.Context, c *model.Case) error
	GetByID(ctx context.Context, id int64) (*model.Case, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*model.Case, error)
	Update(ctx context.Context, id int64, title string, status model.CaseStatus, category string) error
}

// CaseService handles case CRUD. All visibility scoping is delegated to
// the authorization engine; the service itself never re-implements access
// rules.
type CaseService struct {
	cases  CaseStore
	users  UserGetter
	engine *authz.Engine
	logger *zap.Logger
}

func NewCaseService(cases CaseStore, users UserGetter, engine *authz.Engine, logger *zap.Logger) *CaseService {
	return &CaseService{
		cases:  cases,
		users:  users,
		engine: engine,
		logger: logger,
	}
}

// Create opens a new case owned by ownerID. Only clients own cases.
func (s *CaseService) Create(ctx context.Context, ownerID int64, title, category string) (*model.Case, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get owner: %w", err)
	}
	if owner == nil {
		return nil, ErrUserNotFound
	}
	if owner.Role != model.RoleClient {
		return nil, ErrNotCaseOwner
	}

	c := &model.Case{
		Number:   uuid.New(),
		OwnerID:  ownerID,
		Title:    title,
		Status:   model.CaseStatusOpen,
		Category: category,
	}

	if err := s.cases.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create case: %w", err)
	}

	s.logger.Info("case created",
		zap.Int64("case_id", c.ID),
		zap.String("number", c.Number.String()),
		zap.Int64("owner_id", ownerID),
	)

	return c, nil
}

// Get fetches one case. Returns (nil, nil) when not found; the guard layer
// has already decided visibility before this is called.
func (s *CaseService) Get(ctx context.Context, id int64) (*model.Case, error) {
	c, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get case: %w", err)
	}
	return c, nil
}

// ListAccessible returns the cases the principal may see, scoped through
// the engine's accessible-id set.
func (s *CaseService) ListAccessible(ctx context.Context, p model.Principal) ([]*model.Case, error) {
	idSet := s.engine.AccessibleCaseIDs(ctx, p)
	if len(idSet) == 0 {
		return []*model.Case{}, nil
	}

	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	cases, err := s.cases.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get cases: %w", err)
	}
	return cases, nil
}

// Update changes a case's mutable fields. Ownership never changes.
func (s *CaseService) Update(ctx context.Context, id int64, title string, status model.CaseStatus, category string) (*model.Case, error) {
	existing, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get case: %w", err)
	}
	if existing == nil {
		return nil, ErrCaseNotFound
	}

	if title == "" {
		title = existing.Title
	}
	if status == "" {
		status = existing.Status
	}
	if category == "" {
		category = existing.Category
	}

	if err := s.cases.Update(ctx, id, title, status, category); err != nil {
		return nil, fmt.Errorf("update case: %w", err)
	}

	s.logger.Info("case updated",
		zap.Int64("case_id", id),
		zap.String("status", string(status)),
	)

	return s.cases.GetByID(ctx, id)
}
