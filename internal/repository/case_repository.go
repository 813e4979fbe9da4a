package repository

import (
	"context"
	"fmt"

	"github.com/casedesk/casedesk/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CaseRepository struct {
	pool *pgxpool.Pool
}

func NewCaseRepository(pool *pgxpool.Pool) *CaseRepository {
	return &CaseRepository{pool: pool}
}

// Create inserts a new case owned by case.OwnerID.
func (r *CaseRepository) Create(ctx context.Context, c *model.Case) error {
	query := `
		INSERT INTO cases (number, owner_id, title, status, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		c.Number,
		c.OwnerID,
		c.Title,
		c.Status,
		c.Category,
	).Scan(&c.ID, &c.CreatedAt)

	if err != nil {
		return fmt.Errorf("create case: %w", err)
	}

	return nil
}

// GetByID fetches a case by id. Returns (nil, nil) when not found.
func (r *CaseRepository) GetByID(ctx context.Context, id int64) (*model.Case, error) {
	query := `
		SELECT id, number, owner_id, title, status, category, created_at
		FROM cases
		WHERE id = $1
	`

	var c model.Case
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Number,
		&c.OwnerID,
		&c.Title,
		&c.Status,
		&c.Category,
		&c.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get case by id: %w", err)
	}

	return &c, nil
}

// GetByIDs fetches cases for a set of ids, skipping missing ones.
func (r *CaseRepository) GetByIDs(ctx context.Context, ids []int64) ([]*model.Case, error) {
	if len(ids) == 0 {
		return []*model.Case{}, nil
	}

	query := `
		SELECT id, number, owner_id, title, status, category, created_at
		FROM cases
		WHERE id = ANY($1)
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get cases by ids: %w", err)
	}
	defer rows.Close()

	return scanCases(rows)
}

// Exists reports whether a case with the given id exists.
func (r *CaseRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM cases
			WHERE id = $1
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check case exists: %w", err)
	}

	return exists, nil
}

// OwnedBy reports whether the case exists and is owned by ownerID.
// A missing case and a foreign case answer identically.
func (r *CaseRepository) OwnedBy(ctx context.Context, caseID, ownerID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM cases
			WHERE id = $1 AND owner_id = $2
		)
	`

	var owned bool
	err := r.pool.QueryRow(ctx, query, caseID, ownerID).Scan(&owned)
	if err != nil {
		return false, fmt.Errorf("check case ownership: %w", err)
	}

	return owned, nil
}

// AllIDs returns every case id.
func (r *CaseRepository) AllIDs(ctx context.Context) ([]int64, error) {
	query := `
		SELECT id
		FROM cases
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all case ids: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// IDsOwnedBy returns the ids of all cases owned by ownerID.
func (r *CaseRepository) IDsOwnedBy(ctx context.Context, ownerID int64) ([]int64, error) {
	query := `
		SELECT id
		FROM cases
		WHERE owner_id = $1
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get owned case ids: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// FilterExisting narrows ids to those that reference an existing case.
func (r *CaseRepository) FilterExisting(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id
		FROM cases
		WHERE id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("filter existing cases: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// FilterOwnedBy narrows ids to the cases owned by ownerID.
func (r *CaseRepository) FilterOwnedBy(ctx context.Context, ownerID int64, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id
		FROM cases
		WHERE owner_id = $1 AND id = ANY($2)
	`

	rows, err := r.pool.Query(ctx, query, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("filter owned cases: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// Update changes the mutable fields of a case. OwnerID is never touched.
func (r *CaseRepository) Update(ctx context.Context, id int64, title string, status model.CaseStatus, category string) error {
	query := `
		UPDATE cases
		SET title = $1, status = $2, category = $3
		WHERE id = $4
	`

	result, err := r.pool.Exec(ctx, query, title, status, category, id)
	if err != nil {
		return fmt.Errorf("update case: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("case not found")
	}

	return nil
}

func scanCases(rows pgx.Rows) ([]*model.Case, error) {
	var cases []*model.Case
	for rows.Next() {
		var c model.Case
		err := rows.Scan(
			&c.ID,
			&c.Number,
			&c.OwnerID,
			&c.Title,
			&c.Status,
			&c.Category,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		cases = append(cases, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cases: %w", err)
	}

	return cases, nil
}

func scanIDs(rows pgx.Rows) ([]int64, error) {
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ids: %w", err)
	}

	return ids, nil
}
