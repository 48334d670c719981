package repository

import (
	"context"

	"profitscan-ai/internal/domain/model"
)

// ProviderPricingRepository stores runtime overrides for the compiled-in
// provider price table.
type ProviderPricingRepository interface {
	FindByProvider(ctx context.Context, tx Tx, p model.AIProvider) (*model.ProviderPricing, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.ProviderPricing, error)
	Upsert(ctx context.Context, tx Tx, pr *model.ProviderPricing) error
	Delete(ctx context.Context, tx Tx, p model.AIProvider) error
}
