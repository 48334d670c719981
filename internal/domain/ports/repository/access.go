package repository

import (
	"context"

	"profitscan-ai/internal/domain/model"
)

// AccessRepository stores entitlement grants. Two key spaces share one
// table: generic product access keyed by lower-cased email, and the
// companion product keyed by account id.
type AccessRepository interface {
	// FindByEmail returns the generic access grant for the given email
	// (already lower-cased by the caller), or domain.ErrNotFound.
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.AccessRecord, error)

	// FindByAccountAndProduct returns the named product grant for the
	// account, or domain.ErrNotFound.
	FindByAccountAndProduct(ctx context.Context, tx Tx, accountID, product string) (*model.AccessRecord, error)

	Save(ctx context.Context, tx Tx, rec *model.AccessRecord) error
}
