package repository

import (
	"context"
	"fmt"

	"github.com/casedesk/casedesk/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GrantRepository struct {
	pool *pgxpool.Pool
}

func NewGrantRepository(pool *pgxpool.Pool) *GrantRepository {
	return &GrantRepository{pool: pool}
}

// Insert creates a grant for (caseID, lawyerID). The insert is
// unique-constrained, so concurrent attempts collapse to one row; the
// returned bool is false when the grant already existed.
func (r *GrantRepository) Insert(ctx context.Context, caseID, lawyerID int64) (bool, error) {
	query := `
		INSERT INTO case_access_grants (case_id, lawyer_id)
		VALUES ($1, $2)
		ON CONFLICT (case_id, lawyer_id) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query, caseID, lawyerID)
	if err != nil {
		return false, fmt.Errorf("insert grant: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// Delete removes the grant for (caseID, lawyerID). The returned bool is
// false when no live grant existed.
func (r *GrantRepository) Delete(ctx context.Context, caseID, lawyerID int64) (bool, error) {
	query := `
		DELETE FROM case_access_grants
		WHERE case_id = $1 AND lawyer_id = $2
	`

	result, err := r.pool.Exec(ctx, query, caseID, lawyerID)
	if err != nil {
		return false, fmt.Errorf("delete grant: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// Exists reports whether a live grant exists for (caseID, lawyerID).
func (r *GrantRepository) Exists(ctx context.Context, caseID, lawyerID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM case_access_grants
			WHERE case_id = $1 AND lawyer_id = $2
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, caseID, lawyerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check grant: %w", err)
	}

	return exists, nil
}

// CaseIDsGrantedTo returns the ids of all cases the lawyer holds a grant for.
func (r *GrantRepository) CaseIDsGrantedTo(ctx context.Context, lawyerID int64) ([]int64, error) {
	query := `
		SELECT case_id
		FROM case_access_grants
		WHERE lawyer_id = $1
	`

	rows, err := r.pool.Query(ctx, query, lawyerID)
	if err != nil {
		return nil, fmt.Errorf("get granted case ids: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// FilterGrantedTo narrows caseIDs to those the lawyer holds a grant for.
func (r *GrantRepository) FilterGrantedTo(ctx context.Context, lawyerID int64, caseIDs []int64) ([]int64, error) {
	if len(caseIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT case_id
		FROM case_access_grants
		WHERE lawyer_id = $1 AND case_id = ANY($2)
	`

	rows, err := r.pool.Query(ctx, query, lawyerID, caseIDs)
	if err != nil {
		return nil, fmt.Errorf("filter granted cases: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// ListByCase returns all live grants for a case, newest first.
func (r *GrantRepository) ListByCase(ctx context.Context, caseID int64) ([]*model.AccessGrant, error) {
	query := `
		SELECT id, case_id, lawyer_id, granted_at
		FROM case_access_grants
		WHERE case_id = $1
		ORDER BY granted_at DESC
	`

	rows, err := r.pool.Query(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("list grants by case: %w", err)
	}
	defer rows.Close()

	return scanGrants(rows)
}

func scanGrants(rows pgx.Rows) ([]*model.AccessGrant, error) {
	var grants []*model.AccessGrant
	for rows.Next() {
		var g model.AccessGrant
		err := rows.Scan(
			&g.ID,
			&g.CaseID,
			&g.LawyerID,
			&g.GrantedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		grants = append(grants, &g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grants: %w", err)
	}

	return grants, nil
}
