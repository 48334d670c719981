package model

import (
	"math"
	"time"
)

// ScanLimitPerPeriod is the number of AI scans allowed per rolling
// 30-day window.
const ScanLimitPerPeriod = 50

// QuotaPeriod is the rolling window length. Not calendar-aligned: the
// window restarts 30 days after the last reset.
const QuotaPeriod = 30 * 24 * time.Hour

// ScanUsage is the per-account usage record backing the quota.
type ScanUsage struct {
	AccountID string
	ScansUsed int
	ResetAt   time.Time // zero until the first reset is recorded
	CreatedAt time.Time
}

// NewScanUsage starts a fresh record with the window anchored at now.
func NewScanUsage(accountID string) *ScanUsage {
	now := time.Now()
	return &ScanUsage{
		AccountID: accountID,
		ScansUsed: 0,
		ResetAt:   now,
		CreatedAt: now,
	}
}

// EffectiveResetAt is the window anchor: the recorded reset time, or
// CreatedAt when no reset has ever been persisted.
func (u *ScanUsage) EffectiveResetAt() time.Time {
	if u.ResetAt.IsZero() {
		return u.CreatedAt
	}
	return u.ResetAt
}

// ResetDue reports whether the rolling window has elapsed, i.e. a read
// must project zero usage and persist the advanced anchor.
func (u *ScanUsage) ResetDue(now time.Time) bool {
	days := int(now.Sub(u.EffectiveResetAt()).Hours() / 24)
	return days >= 30
}

// ScanStatus is the quota projection returned to callers.
type ScanStatus struct {
	AccountID      string    `json:"accountId"`
	ScansUsed      int       `json:"scansUsed"`
	ScansLimit     int       `json:"scansLimit"`
	ScansRemaining int       `json:"scansRemaining"`
	ResetDate      time.Time `json:"resetDate"`
	DaysUntilReset int       `json:"daysUntilReset"`
	LimitReached   bool      `json:"limitReached"`
}

// Project derives the quota status as of now, assuming any due reset
// has already been applied to the record.
func (u *ScanUsage) Project(now time.Time) ScanStatus {
	anchor := u.EffectiveResetAt()
	next := anchor.Add(QuotaPeriod)

	daysUntil := 0
	if next.After(now) {
		daysUntil = int(math.Ceil(next.Sub(now).Hours() / 24))
	}

	remaining := ScanLimitPerPeriod - u.ScansUsed
	if remaining < 0 {
		remaining = 0
	}

	return ScanStatus{
		AccountID:      u.AccountID,
		ScansUsed:      u.ScansUsed,
		ScansLimit:     ScanLimitPerPeriod,
		ScansRemaining: remaining,
		ResetDate:      next,
		DaysUntilReset: daysUntil,
		LimitReached:   u.ScansUsed >= ScanLimitPerPeriod,
	}
}
