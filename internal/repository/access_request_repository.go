package repository

import (
	"context"
	"fmt"

	"github.com/casedesk/casedesk/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccessRequestRepository struct {
	pool *pgxpool.Pool
}

func NewAccessRequestRepository(pool *pgxpool.Pool) *AccessRequestRepository {
	return &AccessRequestRepository{pool: pool}
}

// Create inserts a PENDING request. A partial unique index on
// (case_id, lawyer_id) WHERE status = 'PENDING' backs the one-pending-
// request-per-pair rule; a conflict surfaces as ErrDuplicate.
func (r *AccessRequestRepository) Create(ctx context.Context, req *model.AccessRequest) error {
	query := `
		INSERT INTO case_access_requests (case_id, lawyer_id, status, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, requested_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		req.CaseID,
		req.LawyerID,
		req.Status,
		req.Message,
	).Scan(&req.ID, &req.RequestedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create access request: %w", err)
	}

	return nil
}

// GetByID fetches a request by id. Returns (nil, nil) when not found.
func (r *AccessRequestRepository) GetByID(ctx context.Context, id int64) (*model.AccessRequest, error) {
	query := `
		SELECT id, case_id, lawyer_id, status, message, requested_at, reviewed_at, reviewed_by
		FROM case_access_requests
		WHERE id = $1
	`

	var req model.AccessRequest
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.CaseID,
		&req.LawyerID,
		&req.Status,
		&req.Message,
		&req.RequestedAt,
		&req.ReviewedAt,
		&req.ReviewedBy,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get access request: %w", err)
	}

	return &req, nil
}

// HasPending reports whether a PENDING request exists for the pair.
func (r *AccessRequestRepository) HasPending(ctx context.Context, caseID, lawyerID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM case_access_requests
			WHERE case_id = $1 AND lawyer_id = $2 AND status = $3
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, caseID, lawyerID, model.RequestStatusPending).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check pending request: %w", err)
	}

	return exists, nil
}

// Approve moves a PENDING request to APPROVED and inserts the matching
// grant inside one transaction. If the grant insert fails, the status
// change rolls back and the request stays PENDING. Returns ErrNotPending
// when the request is terminal or missing.
func (r *AccessRequestRepository) Approve(ctx context.Context, id, reviewerID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin approve tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE case_access_requests
		SET status = $1, reviewed_at = now(), reviewed_by = $2
		WHERE id = $3 AND status = $4
		RETURNING case_id, lawyer_id
	`

	var caseID, lawyerID int64
	err = tx.QueryRow(
		ctx, query,
		model.RequestStatusApproved,
		reviewerID,
		id,
		model.RequestStatusPending,
	).Scan(&caseID, &lawyerID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotPending
		}
		return fmt.Errorf("approve request: %w", err)
	}

	grantQuery := `
		INSERT INTO case_access_grants (case_id, lawyer_id)
		VALUES ($1, $2)
		ON CONFLICT (case_id, lawyer_id) DO NOTHING
	`

	if _, err := tx.Exec(ctx, grantQuery, caseID, lawyerID); err != nil {
		return fmt.Errorf("insert grant for approved request: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit approve tx: %w", err)
	}

	return nil
}

// Reject moves a PENDING request to REJECTED. No grant is created or
// touched. Returns ErrNotPending when the request is terminal or missing.
func (r *AccessRequestRepository) Reject(ctx context.Context, id, reviewerID int64) error {
	query := `
		UPDATE case_access_requests
		SET status = $1, reviewed_at = now(), reviewed_by = $2
		WHERE id = $3 AND status = $4
	`

	result, err := r.pool.Exec(
		ctx, query,
		model.RequestStatusRejected,
		reviewerID,
		id,
		model.RequestStatusPending,
	)
	if err != nil {
		return fmt.Errorf("reject request: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotPending
	}

	return nil
}

// PendingByCase returns the PENDING requests for a case, oldest first.
func (r *AccessRequestRepository) PendingByCase(ctx context.Context, caseID int64) ([]*model.AccessRequest, error) {
	query := `
		SELECT id, case_id, lawyer_id, status, message, requested_at, reviewed_at, reviewed_by
		FROM case_access_requests
		WHERE case_id = $1 AND status = $2
		ORDER BY requested_at ASC
	`

	rows, err := r.pool.Query(ctx, query, caseID, model.RequestStatusPending)
	if err != nil {
		return nil, fmt.Errorf("get pending requests: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

// ByLawyer returns all requests submitted by a lawyer, newest first.
func (r *AccessRequestRepository) ByLawyer(ctx context.Context, lawyerID int64) ([]*model.AccessRequest, error) {
	query := `
		SELECT id, case_id, lawyer_id, status, message, requested_at, reviewed_at, reviewed_by
		FROM case_access_requests
		WHERE lawyer_id = $1
		ORDER BY requested_at DESC
	`

	rows, err := r.pool.Query(ctx, query, lawyerID)
	if err != nil {
		return nil, fmt.Errorf("get lawyer requests: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

func scanRequests(rows pgx.Rows) ([]*model.AccessRequest, error) {
	var requests []*model.AccessRequest
	for rows.Next() {
		var req model.AccessRequest
		err := rows.Scan(
			&req.ID,
			&req.CaseID,
			&req.LawyerID,
			&req.Status,
			&req.Message,
			&req.RequestedAt,
			&req.ReviewedAt,
			&req.ReviewedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("scan access request: %w", err)
		}
		requests = append(requests, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}

	return requests, nil
}
