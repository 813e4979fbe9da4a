// Package authz is the decision point for every case-scoped operation.
// It composes role, ownership and access grants into allow/deny and is
// fail-secure: a storage error is logged and answered as a denial, never
// surfaced to the caller as a distinguishable state.
package authz

import (
	"context"

	"github.com/casedesk/casedesk/internal/model"
	"go.uber.org/zap"
)

// CaseReader is the single-query predicate surface over the cases table.
type CaseReader interface {
	Exists(ctx context.Context, id int64) (bool, error)
	OwnedBy(ctx context.Context, caseID, ownerID int64) (bool, error)
	AllIDs(ctx context.Context) ([]int64, error)
	IDsOwnedBy(ctx context.Context, ownerID int64) ([]int64, error)
	FilterExisting(ctx context.Context, ids []int64) ([]int64, error)
	FilterOwnedBy(ctx context.Context, ownerID int64, ids []int64) ([]int64, error)
}

// GrantReader is the single-query predicate surface over live grants.
type GrantReader interface {
	Exists(ctx context.Context, caseID, lawyerID int64) (bool, error)
	CaseIDsGrantedTo(ctx context.Context, lawyerID int64) ([]int64, error)
	FilterGrantedTo(ctx context.Context, lawyerID int64, caseIDs []int64) ([]int64, error)
}

type Engine struct {
	cases  CaseReader
	grants GrantReader
	logger *zap.Logger
}

func NewEngine(cases CaseReader, grants GrantReader, logger *zap.Logger) *Engine {
	return &Engine{
		cases:  cases,
		grants: grants,
		logger: logger,
	}
}

// CanAccess decides whether the principal may read or act on the case.
// Admins pass for any existing case, clients on ownership, lawyers on a
// live grant. A missing case and a denied case answer identically, so
// callers cannot probe which ids exist. Each decision is one store read.
func (e *Engine) CanAccess(ctx context.Context, p model.Principal, caseID int64) bool {
	if !p.IsActive {
		return false
	}

	switch p.Role {
	case model.RoleAdmin:
		exists, err := e.cases.Exists(ctx, caseID)
		if err != nil {
			return e.deny("check case exists", p, caseID, err)
		}
		return exists
	case model.RoleClient:
		owned, err := e.cases.OwnedBy(ctx, caseID, p.ID)
		if err != nil {
			return e.deny("check case ownership", p, caseID, err)
		}
		return owned
	case model.RoleLawyer:
		granted, err := e.grants.Exists(ctx, caseID, p.ID)
		if err != nil {
			return e.deny("check access grant", p, caseID, err)
		}
		return granted
	default:
		return false
	}
}

// IsOwner decides whether the principal is the owner of the case. Admins
// are owner-equivalent but still fail for a nonexistent case; lawyers can
// never own a case.
func (e *Engine) IsOwner(ctx context.Context, p model.Principal, caseID int64) bool {
	if !p.IsActive {
		return false
	}

	switch p.Role {
	case model.RoleAdmin:
		exists, err := e.cases.Exists(ctx, caseID)
		if err != nil {
			return e.deny("check case exists", p, caseID, err)
		}
		return exists
	case model.RoleClient:
		owned, err := e.cases.OwnedBy(ctx, caseID, p.ID)
		if err != nil {
			return e.deny("check case ownership", p, caseID, err)
		}
		return owned
	default:
		// Lawyers and unknown roles never own cases.
		return false
	}
}

// AccessibleCaseIDs returns the set of case ids the principal may access.
// Order is irrelevant; callers use it to scope listing queries.
func (e *Engine) AccessibleCaseIDs(ctx context.Context, p model.Principal) map[int64]struct{} {
	if !p.IsActive {
		return map[int64]struct{}{}
	}

	var (
		ids []int64
		err error
	)

	switch p.Role {
	case model.RoleAdmin:
		ids, err = e.cases.AllIDs(ctx)
	case model.RoleClient:
		ids, err = e.cases.IDsOwnedBy(ctx, p.ID)
	case model.RoleLawyer:
		ids, err = e.grants.CaseIDsGrantedTo(ctx, p.ID)
	default:
		return map[int64]struct{}{}
	}

	if err != nil {
		e.deny("list accessible cases", p, 0, err)
		return map[int64]struct{}{}
	}

	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// FilterAccessible narrows caseIDs to the subset the principal may access,
// in one batch query. The result is always a subset of the input and is
// equivalent to evaluating CanAccess per id.
func (e *Engine) FilterAccessible(ctx context.Context, p model.Principal, caseIDs []int64) []int64 {
	if !p.IsActive || len(caseIDs) == 0 {
		return nil
	}

	var (
		allowed []int64
		err     error
	)

	switch p.Role {
	case model.RoleAdmin:
		allowed, err = e.cases.FilterExisting(ctx, caseIDs)
	case model.RoleClient:
		allowed, err = e.cases.FilterOwnedBy(ctx, p.ID, caseIDs)
	case model.RoleLawyer:
		allowed, err = e.grants.FilterGrantedTo(ctx, p.ID, caseIDs)
	default:
		return nil
	}

	if err != nil {
		e.deny("filter accessible cases", p, 0, err)
		return nil
	}

	return allowed
}

// deny logs a store failure and resolves it as a denial.
func (e *Engine) deny(op string, p model.Principal, caseID int64, err error) bool {
	e.logger.Error("authorization check failed, denying",
		zap.String("op", op),
		zap.Int64("principal_id", p.ID),
		zap.String("role", string(p.Role)),
		zap.Int64("case_id", caseID),
		zap.Error(err),
	)
	return false
}
