package repository

import (
	"context"
	"time"

	"profitscan-ai/internal/domain/model"
)

// ScanUsageRepository stores per-account scan usage records.
type ScanUsageRepository interface {
	// FindByAccountID returns domain.ErrNotFound when no record exists;
	// the quota layer never fabricates one.
	FindByAccountID(ctx context.Context, tx Tx, accountID string) (*model.ScanUsage, error)

	Create(ctx context.Context, tx Tx, u *model.ScanUsage) error

	// ResetIfAnchor zeroes scans_used and advances reset_at to now, but
	// only when the stored anchor still equals prevResetAt. Returns true
	// when the row was updated. Compare-and-swap keeps the lazy reset
	// idempotent in outcome under racing readers.
	ResetIfAnchor(ctx context.Context, tx Tx, accountID string, prevResetAt, now time.Time) (bool, error)

	// IncrementUsed adds one consumed scan.
	IncrementUsed(ctx context.Context, tx Tx, accountID string) error
}

// ScanEventRepository appends audit rows for metered AI calls.
type ScanEventRepository interface {
	Append(ctx context.Context, tx Tx, ev *model.ScanEvent) error
	ListByAccountID(ctx context.Context, tx Tx, accountID string, limit int) ([]*model.ScanEvent, error)
}
