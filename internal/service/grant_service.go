package service

import (
	"context"
	"fmt"

	"github.com/casedesk/casedesk/internal/model"
	"go.uber.org/zap"
)

// GrantStore is the persistence surface for case access grants.
type GrantStore interface {
	Insert(ctx context.Context, caseID, lawyerID int64) (bool, error)
	Delete(ctx context.Context, caseID, lawyerID int64) (bool, error)
	Exists(ctx context.Context, caseID, lawyerID int64) (bool, error)
	ListByCase(ctx context.Context, caseID int64) ([]*model.AccessGrant, error)
}

// UserGetter resolves users for grant precondition checks.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// CaseExistsChecker answers whether a case id references a real case.
type CaseExistsChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// GrantService manages the case↔lawyer grant relation: direct
// administrative grants, revocation, and existence checks.
type GrantService struct {
	grants GrantStore
	users  UserGetter
	cases  CaseExistsChecker
	logger *zap.Logger
}

func NewGrantService(grants GrantStore, users UserGetter, cases CaseExistsChecker, logger *zap.Logger) *GrantService {
	return &GrantService{
		grants: grants,
		users:  users,
		cases:  cases,
		logger: logger,
	}
}

// Grant gives lawyerID access to caseID. The target must exist, hold the
// LAWYER role and be active. The returned bool is false when the grant
// already existed; that is an idempotent no-op, not an error.
func (s *GrantService) Grant(ctx context.Context, caseID, lawyerID int64) (bool, error) {
	lawyer, err := s.users.GetByID(ctx, lawyerID)
	if err != nil {
		return false, fmt.Errorf("get lawyer: %w", err)
	}
	if lawyer == nil {
		return false, ErrUserNotFound
	}
	if lawyer.Role != model.RoleLawyer {
		return false, ErrNotALawyer
	}
	if !lawyer.IsActive {
		return false, ErrUserInactive
	}

	exists, err := s.cases.Exists(ctx, caseID)
	if err != nil {
		return false, fmt.Errorf("check case: %w", err)
	}
	if !exists {
		return false, ErrCaseNotFound
	}

	created, err := s.grants.Insert(ctx, caseID, lawyerID)
	if err != nil {
		return false, fmt.Errorf("insert grant: %w", err)
	}

	if created {
		s.logger.Info("access granted",
			zap.Int64("case_id", caseID),
			zap.Int64("lawyer_id", lawyerID),
		)
	}

	return created, nil
}

// Revoke removes the grant for (caseID, lawyerID). Revocation is immediate
// and final; ErrNotGranted is returned when no live grant exists.
func (s *GrantService) Revoke(ctx context.Context, caseID, lawyerID int64) error {
	deleted, err := s.grants.Delete(ctx, caseID, lawyerID)
	if err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}
	if !deleted {
		return ErrNotGranted
	}

	s.logger.Info("access revoked",
		zap.Int64("case_id", caseID),
		zap.Int64("lawyer_id", lawyerID),
	)

	return nil
}

// HasGrant reports whether a live grant exists for (caseID, lawyerID).
func (s *GrantService) HasGrant(ctx context.Context, caseID, lawyerID int64) (bool, error) {
	exists, err := s.grants.Exists(ctx, caseID, lawyerID)
	if err != nil {
		return false, fmt.Errorf("check grant: %w", err)
	}
	return exists, nil
}

// ListForCase returns the live grants for a case.
func (s *GrantService) ListForCase(ctx context.Context, caseID int64) ([]*model.AccessGrant, error) {
	grants, err := s.grants.ListByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	return grants, nil
}
