package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"profitscan-ai/internal/domain"
	"profitscan-ai/internal/domain/model"
	"profitscan-ai/internal/domain/ports/repository"
)

var _ repository.ScanEventRepository = (*scanEventRepo)(nil)

type scanEventRepo struct {
	pool *pgxpool.Pool
}

func NewScanEventRepo(pool *pgxpool.Pool) *scanEventRepo {
	return &scanEventRepo{pool: pool}
}

func (r *scanEventRepo) Append(ctx context.Context, tx repository.Tx, ev *model.ScanEvent) error {
	const q = `
INSERT INTO scan_events (id, account_id, provider, input_tokens, output_tokens, cost_micros, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);`
	_, err := execSQL(ctx, r.pool, tx, q, ev.ID, ev.AccountID, string(ev.Provider), ev.InputTokens, ev.OutputTokens, ev.CostMicros, ev.CreatedAt)
	return err
}

func (r *scanEventRepo) ListByAccountID(ctx context.Context, tx repository.Tx, accountID string, limit int) ([]*model.ScanEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, account_id, provider, input_tokens, output_tokens, cost_micros, created_at
  FROM scan_events
 WHERE account_id=$1
 ORDER BY id DESC
 LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, accountID, limit)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.ScanEvent
	for rows.Next() {
		var ev model.ScanEvent
		var provider string
		if err := rows.Scan(&ev.ID, &ev.AccountID, &provider, &ev.InputTokens, &ev.OutputTokens, &ev.CostMicros, &ev.CreatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrNotFound
			}
			return nil, domain.ErrReadDatabaseRow
		}
		ev.Provider = model.AIProvider(provider)
		out = append(out, &ev)
	}
	if rows.Err() != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}
