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

var _ repository.ProviderPricingRepository = (*pricingRepo)(nil)

type pricingRepo struct {
	pool *pgxpool.Pool
}

func NewPricingRepo(pool *pgxpool.Pool) *pricingRepo {
	return &pricingRepo{pool: pool}
}

func (r *pricingRepo) FindByProvider(ctx context.Context, tx repository.Tx, p model.AIProvider) (*model.ProviderPricing, error) {
	const q = `
SELECT provider, input_price_micros, output_price_micros
  FROM provider_pricing
 WHERE provider=$1
 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, string(p))
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	var pr model.ProviderPricing
	var provider string
	if err := row.Scan(&provider, &pr.InputPriceMicrosPer1M, &pr.OutputPriceMicrosPer1M); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	pr.Provider = model.AIProvider(provider)
	return &pr, nil
}

func (r *pricingRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.ProviderPricing, error) {
	const q = `
SELECT provider, input_price_micros, output_price_micros
  FROM provider_pricing ORDER BY provider ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.ProviderPricing
	for rows.Next() {
		var pr model.ProviderPricing
		var provider string
		if err := rows.Scan(&provider, &pr.InputPriceMicrosPer1M, &pr.OutputPriceMicrosPer1M); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		pr.Provider = model.AIProvider(provider)
		out = append(out, &pr)
	}
	if rows.Err() != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *pricingRepo) Upsert(ctx context.Context, tx repository.Tx, pr *model.ProviderPricing) error {
	const q = `
INSERT INTO provider_pricing (provider, input_price_micros, output_price_micros, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (provider) DO UPDATE SET
  input_price_micros = EXCLUDED.input_price_micros,
  output_price_micros = EXCLUDED.output_price_micros,
  updated_at = EXCLUDED.updated_at;`
	_, err := execSQL(ctx, r.pool, tx, q, string(pr.Provider), pr.InputPriceMicrosPer1M, pr.OutputPriceMicrosPer1M, time.Now())
	return err
}

func (r *pricingRepo) Delete(ctx context.Context, tx repository.Tx, p model.AIProvider) error {
	const q = `DELETE FROM provider_pricing WHERE provider=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, string(p))
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
