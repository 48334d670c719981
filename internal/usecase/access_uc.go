package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"profitscan-ai/internal/domain"
	"profitscan-ai/internal/domain/model"
	"profitscan-ai/internal/domain/ports/repository"
)

// AccessUseCase evaluates stored grants into entitlements. A missing
// record is a structured "not_found" outcome, not an error: callers
// decide the HTTP mapping.
type AccessUseCase interface {
	// CheckByEmail evaluates the generic product grant for an email
	// address (case-insensitive).
	CheckByEmail(ctx context.Context, email string) (model.Entitlement, error)

	// CheckProduct evaluates the companion product grant for an account.
	CheckProduct(ctx context.Context, accountID string) (model.Entitlement, error)

	// Grant creates or replaces an access record (admin path).
	Grant(ctx context.Context, key, product string, active bool, expiresAt *time.Time) (*model.AccessRecord, error)
}

var _ AccessUseCase = (*accessUC)(nil)

type accessUC struct {
	access repository.AccessRepository
	log    *zerolog.Logger
}

func NewAccessUseCase(access repository.AccessRepository, logger *zerolog.Logger) AccessUseCase {
	return &accessUC{access: access, log: logger}
}

func (a *accessUC) CheckByEmail(ctx context.Context, email string) (model.Entitlement, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return model.Entitlement{}, domain.ErrInvalidArgument
	}
	rec, err := a.access.FindByEmail(ctx, repository.NoTX, email)
	return a.evaluate(rec, err)
}

func (a *accessUC) CheckProduct(ctx context.Context, accountID string) (model.Entitlement, error) {
	if accountID == "" {
		return model.Entitlement{}, domain.ErrInvalidArgument
	}
	rec, err := a.access.FindByAccountAndProduct(ctx, repository.NoTX, accountID, model.ProductPro)
	return a.evaluate(rec, err)
}

func (a *accessUC) evaluate(rec *model.AccessRecord, err error) (model.Entitlement, error) {
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return model.EvaluateEntitlement(nil, time.Now()), nil
		}
		return model.Entitlement{}, err
	}
	return model.EvaluateEntitlement(rec, time.Now()), nil
}

func (a *accessUC) Grant(ctx context.Context, key, product string, active bool, expiresAt *time.Time) (*model.AccessRecord, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || product == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	rec := &model.AccessRecord{
		Key:       key,
		Product:   product,
		IsActive:  active,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.access.Save(ctx, repository.NoTX, rec); err != nil {
		return nil, err
	}
	a.log.Info().Str("key", key).Str("product", product).Bool("active", active).Msg("access grant saved")
	return rec, nil
}
