package domain

import (
	"context"
	"time"
)

// Escrow is the per-pool fund ledger, created lazily on the first
// confirmed subscription. TotalHeld only grows; ReleasedAmount and
// WithheldAmount only grow except when a dispute resolution explicitly
// reassigns withheld funds. ReleasedAmount + WithheldAmount never
// exceeds TotalHeld.
type Escrow struct {
	PoolID         string
	TotalHeld      int64
	ReleasedAmount int64
	WithheldAmount int64
	WithheldReason string
	CommissionBps  int64
	ReleasedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Commission is the vendor-side platform cut, in minor units.
func (e *Escrow) Commission() int64 {
	return e.TotalHeld * e.CommissionBps / 10000
}

func (e *Escrow) NetForVendor() int64 {
	return e.TotalHeld - e.Commission() - e.WithheldAmount
}

func (e *Escrow) Released() bool {
	return e.ReleasedAt != nil
}

type EscrowRepository interface {
	GetEscrowByPoolID(ctx context.Context, poolID string) (*Escrow, error)
}
