package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"profitscan-ai/internal/domain"
	"profitscan-ai/internal/domain/model"
	"profitscan-ai/internal/domain/ports/repository"
)

// PricingUseCase administers runtime overrides of the provider price
// table. Providers without a stored row fall back to compiled defaults.
type PricingUseCase interface {
	// List returns the effective price table: stored rows merged over
	// the compiled defaults, one entry per provider.
	List(ctx context.Context) ([]*model.ProviderPricing, error)

	// Get returns the effective pricing for one provider.
	Get(ctx context.Context, provider model.AIProvider) (*model.ProviderPricing, error)

	// Set stores an override for a provider.
	Set(ctx context.Context, provider model.AIProvider, inputMicros, outputMicros int64) (*model.ProviderPricing, error)

	// Reset removes an override, restoring the compiled default.
	Reset(ctx context.Context, provider model.AIProvider) error
}

var _ PricingUseCase = (*pricingUC)(nil)

type pricingUC struct {
	prices repository.ProviderPricingRepository
	log    *zerolog.Logger
}

func NewPricingUseCase(prices repository.ProviderPricingRepository, logger *zerolog.Logger) PricingUseCase {
	return &pricingUC{prices: prices, log: logger}
}

func (p *pricingUC) List(ctx context.Context) ([]*model.ProviderPricing, error) {
	stored, err := p.prices.ListAll(ctx, repository.NoTX)
	if err != nil && err != domain.ErrNotFound {
		return nil, err
	}
	byProvider := make(map[model.AIProvider]*model.ProviderPricing, len(stored))
	for _, pr := range stored {
		byProvider[pr.Provider] = pr
	}

	out := make([]*model.ProviderPricing, 0, len(model.AllProviders()))
	for _, prov := range model.AllProviders() {
		if pr, ok := byProvider[prov]; ok {
			out = append(out, pr)
			continue
		}
		def := model.DefaultPricing(prov)
		out = append(out, &def)
	}
	return out, nil
}

func (p *pricingUC) Get(ctx context.Context, provider model.AIProvider) (*model.ProviderPricing, error) {
	pr, err := p.prices.FindByProvider(ctx, repository.NoTX, provider)
	if err == nil {
		return pr, nil
	}
	if err != domain.ErrNotFound {
		return nil, err
	}
	def := model.DefaultPricing(provider)
	return &def, nil
}

func (p *pricingUC) Set(ctx context.Context, provider model.AIProvider, inputMicros, outputMicros int64) (*model.ProviderPricing, error) {
	if inputMicros < 0 || outputMicros < 0 {
		return nil, domain.ErrInvalidArgument
	}
	pr := &model.ProviderPricing{
		Provider:               provider,
		InputPriceMicrosPer1M:  inputMicros,
		OutputPriceMicrosPer1M: outputMicros,
	}
	if err := p.prices.Upsert(ctx, repository.NoTX, pr); err != nil {
		return nil, err
	}
	p.log.Info().Str("provider", string(provider)).Int64("input_micros", inputMicros).Int64("output_micros", outputMicros).Msg("pricing override saved")
	return pr, nil
}

func (p *pricingUC) Reset(ctx context.Context, provider model.AIProvider) error {
	err := p.prices.Delete(ctx, repository.NoTX, provider)
	if err == domain.ErrNotFound {
		// no override stored; idempotent success
		return nil
	}
	return err
}
