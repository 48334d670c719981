package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"profitscan-ai/internal/domain"
	"profitscan-ai/internal/domain/model"
	"profitscan-ai/internal/domain/ports/repository"
)

var _ repository.ScanUsageRepository = (*scanUsageRepo)(nil)

type scanUsageRepo struct {
	pool *pgxpool.Pool
}

func NewScanUsageRepo(pool *pgxpool.Pool) *scanUsageRepo {
	return &scanUsageRepo{pool: pool}
}

func (r *scanUsageRepo) FindByAccountID(ctx context.Context, tx repository.Tx, accountID string) (*model.ScanUsage, error) {
	const q = `
SELECT account_id, scans_used, reset_at, created_at
  FROM scan_usage
 WHERE account_id=$1
 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, accountID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	var u model.ScanUsage
	var resetAt *time.Time
	if err := row.Scan(&u.AccountID, &u.ScansUsed, &resetAt, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if resetAt != nil {
		u.ResetAt = *resetAt
	}
	return &u, nil
}

func (r *scanUsageRepo) Create(ctx context.Context, tx repository.Tx, u *model.ScanUsage) error {
	const q = `
INSERT INTO scan_usage (account_id, scans_used, reset_at, created_at)
VALUES ($1, $2, $3, $4);`
	_, err := execSQL(ctx, r.pool, tx, q, u.AccountID, u.ScansUsed, u.ResetAt, u.CreatedAt)
	return err
}

// ResetIfAnchor is the compare-and-swap behind the lazy quota reset:
// only the reader that still holds the current anchor advances it.
func (r *scanUsageRepo) ResetIfAnchor(ctx context.Context, tx repository.Tx, accountID string, prevResetAt, now time.Time) (bool, error) {
	const q = `
UPDATE scan_usage
   SET scans_used = 0, reset_at = $3
 WHERE account_id = $1
   AND COALESCE(reset_at, created_at) = $2;`
	tag, err := execSQL(ctx, r.pool, tx, q, accountID, prevResetAt, now)
	if err != nil {
		return false, domain.ErrOperationFailed
	}
	return tag.RowsAffected() == 1, nil
}

func (r *scanUsageRepo) IncrementUsed(ctx context.Context, tx repository.Tx, accountID string) error {
	const q = `
UPDATE scan_usage SET scans_used = scans_used + 1 WHERE account_id = $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, accountID)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
