package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// ScanEvent records one metered AI analysis call for auditing.
type ScanEvent struct {
	ID           string // ULID, sortable by creation time
	AccountID    string
	Provider     AIProvider
	InputTokens  int
	OutputTokens int
	CostMicros   int64
	CreatedAt    time.Time
}

func NewScanEvent(accountID string, provider AIProvider, inTok, outTok int, costMicros int64) *ScanEvent {
	return &ScanEvent{
		ID:           ulid.Make().String(),
		AccountID:    accountID,
		Provider:     provider,
		InputTokens:  inTok,
		OutputTokens: outTok,
		CostMicros:   costMicros,
		CreatedAt:    time.Now(),
	}
}
