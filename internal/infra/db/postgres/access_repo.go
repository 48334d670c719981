package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"profitscan-ai/internal/domain"
	"profitscan-ai/internal/domain/model"
	"profitscan-ai/internal/domain/ports/repository"
)

var _ repository.AccessRepository = (*accessRepo)(nil)

type accessRepo struct {
	pool *pgxpool.Pool
}

func NewAccessRepo(pool *pgxpool.Pool) *accessRepo {
	return &accessRepo{pool: pool}
}

const accessColumns = `id, key, product, is_active, expires_at, created_at, updated_at`

func (r *accessRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.AccessRecord, error) {
	const q = `
SELECT ` + accessColumns + `
  FROM access_records
 WHERE key=$1 AND product=$2
 LIMIT 1;`
	return r.findOne(ctx, tx, q, email, model.ProductGeneric)
}

func (r *accessRepo) FindByAccountAndProduct(ctx context.Context, tx repository.Tx, accountID, product string) (*model.AccessRecord, error) {
	const q = `
SELECT ` + accessColumns + `
  FROM access_records
 WHERE key=$1 AND product=$2
 LIMIT 1;`
	return r.findOne(ctx, tx, q, accountID, product)
}

func (r *accessRepo) findOne(ctx context.Context, tx repository.Tx, q string, args ...interface{}) (*model.AccessRecord, error) {
	row, err := pickRow(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	var rec model.AccessRecord
	if err := row.Scan(&rec.ID, &rec.Key, &rec.Product, &rec.IsActive, &rec.ExpiresAt, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &rec, nil
}

func (r *accessRepo) Save(ctx context.Context, tx repository.Tx, rec *model.AccessRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.UpdatedAt = time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = rec.UpdatedAt
	}
	const q = `
INSERT INTO access_records (id, key, product, is_active, expires_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (key, product) DO UPDATE SET
  is_active = EXCLUDED.is_active,
  expires_at = EXCLUDED.expires_at,
  updated_at = EXCLUDED.updated_at;`
	_, err := execSQL(ctx, r.pool, tx, q, rec.ID, rec.Key, rec.Product, rec.IsActive, rec.ExpiresAt, rec.CreatedAt, rec.UpdatedAt)
	return err
}
