package model

import (
	"math"
	"time"
)

// AccessRecord is a stored grant for a gated product. A nil ExpiresAt
// is a legacy perpetual grant and never expires.
type AccessRecord struct {
	ID        string
	Key       string // lower-cased email or account id, depending on the store
	Product   string
	IsActive  bool
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Gated products. ProductGeneric is the email-keyed grant for the app
// itself; ProductPro is the account-keyed companion product.
const (
	ProductGeneric = "profitscan"
	ProductPro     = "profitscan-pro"
)

// Entitlement reason codes, fixed API contract.
const (
	ReasonNotFound = "not_found"
	ReasonInactive = "inactive"
	ReasonExpired  = "expired"
)

// Entitlement is the result of evaluating an access record.
type Entitlement struct {
	HasAccess bool       `json:"hasAccess"`
	Reason    string     `json:"reason,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	DaysLeft  *int       `json:"daysLeft,omitempty"`
}

// EvaluateEntitlement maps (found, active, expiry) to one of the five
// entitlement outcomes. Kept as a flat first-match table so each case
// stays independently testable.
func EvaluateEntitlement(rec *AccessRecord, now time.Time) Entitlement {
	switch {
	case rec == nil:
		return Entitlement{HasAccess: false, Reason: ReasonNotFound}

	case !rec.IsActive:
		return Entitlement{HasAccess: false, Reason: ReasonInactive}

	case rec.ExpiresAt != nil && rec.ExpiresAt.Before(now):
		return Entitlement{HasAccess: false, Reason: ReasonExpired, ExpiresAt: rec.ExpiresAt}

	case rec.ExpiresAt != nil:
		days := int(math.Ceil(rec.ExpiresAt.Sub(now).Hours() / 24))
		return Entitlement{HasAccess: true, ExpiresAt: rec.ExpiresAt, DaysLeft: &days}

	default:
		// Legacy perpetual grant: active with no expiry.
		return Entitlement{HasAccess: true}
	}
}
