package domain

import (
	"context"
	"time"
)

type PoolStatus string

const (
	PoolOpen      PoolStatus = "OPEN"
	PoolFilled    PoolStatus = "FILLED"
	PoolCompleted PoolStatus = "COMPLETED"
	PoolCancelled PoolStatus = "CANCELLED"
)

// Pool is a vendor-declared group purchase with fixed slot capacity.
// SlotsFilled always equals the sum of slots across the pool's
// non-cancelled subscriptions; it is mutated only inside ledger
// transactions that hold the pool row.
type Pool struct {
	ID                string
	VendorID          string
	PricePerSlot      int64
	SlotsCount        int32
	SlotsFilled       int32
	AllowHomeDelivery bool
	HomeDeliveryCost  int64
	DeliveryDeadline  time.Time
	Status            PoolStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (p *Pool) SlotsLeft() int32 {
	return p.SlotsCount - p.SlotsFilled
}

type CreatePoolParams struct {
	VendorID          string
	PricePerSlot      int64
	SlotsCount        int32
	AllowHomeDelivery bool
	HomeDeliveryCost  int64
	DeliveryDeadline  time.Time
}

type PoolRepository interface {
	CreatePool(ctx context.Context, pool *Pool) error
	GetPoolByID(ctx context.Context, poolID string) (*Pool, error)
	UpdatePoolStatus(ctx context.Context, poolID string, newStatus PoolStatus) error
	GetVendorPools(ctx context.Context, vendorID string, page, limit int64) ([]*Pool, int64, error)
}
