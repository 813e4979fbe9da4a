package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/casedesk/casedesk/internal/authz"
	"github.com/casedesk/casedesk/internal/model"
	"github.com/casedesk/casedesk/internal/repository"
	"go.uber.org/zap"
)

// Decision is a reviewer's verdict on a pending access request.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// RequestStore is the persistence surface for access requests. Approve is
// transactional: the status transition and the grant insert commit or roll
// back together.
type RequestStore interface {
	Create(ctx context.Context, req *model.AccessRequest) error
	GetByID(ctx context.Context, id int64) (*model.AccessRequest, error)
	HasPending(ctx context.Context, caseID, lawyerID int64) (bool, error)
	Approve(ctx context.Context, id, reviewerID int64) error
	Reject(ctx context.Context, id, reviewerID int64) error
	PendingByCase(ctx context.Context, caseID int64) ([]*model.AccessRequest, error)
	ByLawyer(ctx context.Context, lawyerID int64) ([]*model.AccessRequest, error)
}

// GrantChecker answers whether a live grant already exists.
type GrantChecker interface {
	Exists(ctx context.Context, caseID, lawyerID int64) (bool, error)
}

// Reviewer authorization is delegated to the authorization engine.
type ownershipChecker interface {
	IsOwner(ctx context.Context, p model.Principal, caseID int64) bool
}

// AccessRequestService runs the request-for-access workflow: a lawyer
// submits, the case owner or an admin reviews, approval produces a grant.
type AccessRequestService struct {
	requests RequestStore
	grants   GrantChecker
	cases    CaseExistsChecker
	engine   ownershipChecker
	logger   *zap.Logger
}

func NewAccessRequestService(
	requests RequestStore,
	grants GrantChecker,
	cases CaseExistsChecker,
	engine *authz.Engine,
	logger *zap.Logger,
) *AccessRequestService {
	return &AccessRequestService{
		requests: requests,
		grants:   grants,
		cases:    cases,
		engine:   engine,
		logger:   logger,
	}
}

// Submit creates a PENDING request from lawyerID for caseID. A live grant
// or an existing pending request for the pair blocks submission; prior
// terminal requests do not.
func (s *AccessRequestService) Submit(ctx context.Context, caseID, lawyerID int64, message string) (*model.AccessRequest, error) {
	exists, err := s.cases.Exists(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("check case: %w", err)
	}
	if !exists {
		return nil, ErrCaseNotFound
	}

	granted, err := s.grants.Exists(ctx, caseID, lawyerID)
	if err != nil {
		return nil, fmt.Errorf("check grant: %w", err)
	}
	if granted {
		return nil, ErrAlreadyGranted
	}

	pending, err := s.requests.HasPending(ctx, caseID, lawyerID)
	if err != nil {
		return nil, fmt.Errorf("check pending request: %w", err)
	}
	if pending {
		return nil, ErrDuplicatePending
	}

	req := &model.AccessRequest{
		CaseID:   caseID,
		LawyerID: lawyerID,
		Status:   model.RequestStatusPending,
		Message:  message,
	}

	if err := s.requests.Create(ctx, req); err != nil {
		// The partial unique index closes the race between the check
		// above and the insert.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicatePending
		}
		return nil, fmt.Errorf("create request: %w", err)
	}

	s.logger.Info("access request submitted",
		zap.Int64("request_id", req.ID),
		zap.Int64("case_id", caseID),
		zap.Int64("lawyer_id", lawyerID),
	)

	return req, nil
}

// Review applies the reviewer's decision to a pending request. Only an
// admin or the case's owner may review. Approval transitions the request
// and inserts the grant as one atomic unit; rejection touches no grant.
// Terminal requests return ErrAlreadyReviewed and are never mutated.
func (s *AccessRequestService) Review(ctx context.Context, reviewer model.Principal, requestID int64, decision Decision) (*model.AccessRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}

	if !s.engine.IsOwner(ctx, reviewer, req.CaseID) {
		return nil, ErrReviewForbidden
	}

	if req.IsTerminal() {
		return nil, ErrAlreadyReviewed
	}

	switch decision {
	case DecisionApprove:
		err = s.requests.Approve(ctx, requestID, reviewer.ID)
	case DecisionReject:
		err = s.requests.Reject(ctx, requestID, reviewer.ID)
	default:
		return nil, fmt.Errorf("unknown decision %q", decision)
	}

	if err != nil {
		// Lost a review race: someone else reviewed it first.
		if errors.Is(err, repository.ErrNotPending) {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("apply decision: %w", err)
	}

	s.logger.Info("access request reviewed",
		zap.Int64("request_id", requestID),
		zap.Int64("case_id", req.CaseID),
		zap.Int64("lawyer_id", req.LawyerID),
		zap.Int64("reviewer_id", reviewer.ID),
		zap.String("decision", string(decision)),
	)

	return s.requests.GetByID(ctx, requestID)
}

// PendingForCase returns the pending requests for a case, oldest first.
func (s *AccessRequestService) PendingForCase(ctx context.Context, caseID int64) ([]*model.AccessRequest, error) {
	requests, err := s.requests.PendingByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("get pending requests: %w", err)
	}
	return requests, nil
}

// ByLawyer returns all requests submitted by a lawyer, newest first.
func (s *AccessRequestService) ByLawyer(ctx context.Context, lawyerID int64) ([]*model.AccessRequest, error) {
	requests, err := s.requests.ByLawyer(ctx, lawyerID)
	if err != nil {
		return nil, fmt.Errorf("get lawyer requests: %w", err)
	}
	return requests, nil
}
