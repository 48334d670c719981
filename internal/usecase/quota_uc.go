package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"profitscan-ai/internal/domain"
	"profitscan-ai/internal/domain/model"
	"profitscan-ai/internal/domain/ports/repository"
	"profitscan-ai/internal/infra/metrics"
)

// Locker serializes the lazy reset write per account. Best effort: a
// failed acquisition degrades to the unguarded write, never to an error,
// because the reset is idempotent in outcome either way.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

// ScanQuotaUseCase enforces the rolling 30-day scan cap per account.
type ScanQuotaUseCase interface {
	// Status reads the account's usage, applying the lazy reset when the
	// window has elapsed. Missing records surface domain.ErrNotFound.
	Status(ctx context.Context, accountID string) (model.ScanStatus, error)

	// Consume records one scan against the quota. Returns
	// domain.ErrQuotaExceeded when the limit is already reached.
	Consume(ctx context.Context, accountID string) (model.ScanStatus, error)

	// Enroll creates a fresh usage record for a new account.
	Enroll(ctx context.Context, accountID string) (*model.ScanUsage, error)
}

var _ ScanQuotaUseCase = (*quotaUC)(nil)

type quotaUC struct {
	usage  repository.ScanUsageRepository
	locker Locker // may be nil
	log    *zerolog.Logger
}

func NewScanQuotaUseCase(usage repository.ScanUsageRepository, locker Locker, logger *zerolog.Logger) ScanQuotaUseCase {
	return &quotaUC{usage: usage, locker: locker, log: logger}
}

func (q *quotaUC) Status(ctx context.Context, accountID string) (model.ScanStatus, error) {
	if accountID == "" {
		return model.ScanStatus{}, domain.ErrInvalidArgument
	}
	u, err := q.usage.FindByAccountID(ctx, repository.NoTX, accountID)
	if err != nil {
		return model.ScanStatus{}, err
	}

	now := time.Now()
	if u.ResetDue(now) {
		u, err = q.applyReset(ctx, u, now)
		if err != nil {
			return model.ScanStatus{}, err
		}
	}
	return u.Project(now), nil
}

// applyReset persists {scans_used=0, reset_at=now}, guarded by a
// per-account lock and an anchor compare-and-swap. When the swap loses
// to a concurrent reader the record is re-read instead of overwritten.
func (q *quotaUC) applyReset(ctx context.Context, u *model.ScanUsage, now time.Time) (*model.ScanUsage, error) {
	if q.locker != nil {
		key := "scanreset:" + u.AccountID
		if token, err := q.locker.TryLock(ctx, key, 5*time.Second); err == nil {
			defer func() { _ = q.locker.Unlock(ctx, key, token) }()
		} else {
			q.log.Debug().Str("account_id", u.AccountID).Msg("reset lock not acquired; proceeding unguarded")
		}
	}

	ok, err := q.usage.ResetIfAnchor(ctx, repository.NoTX, u.AccountID, u.EffectiveResetAt(), now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Another reader advanced the anchor first; its write is ours in outcome.
		return q.usage.FindByAccountID(ctx, repository.NoTX, u.AccountID)
	}

	metrics.IncQuotaReset()
	q.log.Info().Str("account_id", u.AccountID).Time("reset_at", now).Msg("scan quota reset")

	reset := *u
	reset.ScansUsed = 0
	reset.ResetAt = now
	return &reset, nil
}

func (q *quotaUC) Consume(ctx context.Context, accountID string) (model.ScanStatus, error) {
	st, err := q.Status(ctx, accountID)
	if err != nil {
		return model.ScanStatus{}, err
	}
	if st.LimitReached {
		metrics.IncQuotaBlocked()
		return st, domain.ErrQuotaExceeded
	}
	if err := q.usage.IncrementUsed(ctx, repository.NoTX, accountID); err != nil {
		return model.ScanStatus{}, err
	}
	metrics.IncScanConsumed()

	st.ScansUsed++
	if st.ScansRemaining > 0 {
		st.ScansRemaining--
	}
	st.LimitReached = st.ScansUsed >= st.ScansLimit
	return st, nil
}

func (q *quotaUC) Enroll(ctx context.Context, accountID string) (*model.ScanUsage, error) {
	if accountID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if existing, err := q.usage.FindByAccountID(ctx, repository.NoTX, accountID); err == nil && existing != nil {
		return nil, domain.ErrAlreadyExists
	}
	u := model.NewScanUsage(accountID)
	if err := q.usage.Create(ctx, repository.NoTX, u); err != nil {
		return nil, err
	}
	return u, nil
}
