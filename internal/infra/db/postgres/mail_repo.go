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

var _ repository.MailRepository = (*mailRepo)(nil)

type mailRepo struct {
	pool *pgxpool.Pool
}

func NewMailRepo(pool *pgxpool.Pool) *mailRepo {
	return &mailRepo{pool: pool}
}

// smtp_settings is a single-row table (id always 1).

func (r *mailRepo) GetSettings(ctx context.Context, tx repository.Tx) (*model.SMTPSettings, error) {
	const q = `
SELECT host, port, username, password, from_address, use_tls, updated_at
  FROM smtp_settings WHERE id=1;`
	row, err := pickRow(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	var s model.SMTPSettings
	if err := row.Scan(&s.Host, &s.Port, &s.Username, &s.Password, &s.FromAddress, &s.UseTLS, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &s, nil
}

func (r *mailRepo) SaveSettings(ctx context.Context, tx repository.Tx, s *model.SMTPSettings) error {
	const q = `
INSERT INTO smtp_settings (id, host, port, username, password, from_address, use_tls, updated_at)
VALUES (1, $1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
  host = EXCLUDED.host,
  port = EXCLUDED.port,
  username = EXCLUDED.username,
  password = EXCLUDED.password,
  from_address = EXCLUDED.from_address,
  use_tls = EXCLUDED.use_tls,
  updated_at = EXCLUDED.updated_at;`
	_, err := execSQL(ctx, r.pool, tx, q, s.Host, s.Port, s.Username, s.Password, s.FromAddress, s.UseTLS, s.UpdatedAt)
	return err
}

const templateColumns = `id, name, subject, body, created_at, updated_at`

func (r *mailRepo) FindTemplateByName(ctx context.Context, tx repository.Tx, name string) (*model.EmailTemplate, error) {
	const q = `
SELECT ` + templateColumns + `
  FROM email_templates WHERE name=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, name)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	var t model.EmailTemplate
	if err := row.Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &t, nil
}

func (r *mailRepo) ListTemplates(ctx context.Context, tx repository.Tx) ([]*model.EmailTemplate, error) {
	const q = `
SELECT ` + templateColumns + `
  FROM email_templates ORDER BY name ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.EmailTemplate
	for rows.Next() {
		var t model.EmailTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &t)
	}
	if rows.Err() != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *mailRepo) SaveTemplate(ctx context.Context, tx repository.Tx, t *model.EmailTemplate) error {
	const q = `
INSERT INTO email_templates (id, name, subject, body, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (name) DO UPDATE SET
  subject = EXCLUDED.subject,
  body = EXCLUDED.body,
  updated_at = EXCLUDED.updated_at;`
	_, err := execSQL(ctx, r.pool, tx, q, t.ID, t.Name, t.Subject, t.Body, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *mailRepo) DeleteTemplate(ctx context.Context, tx repository.Tx, name string) error {
	const q = `DELETE FROM email_templates WHERE name=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, name)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
