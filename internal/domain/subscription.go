package domain

import (
	"context"
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "PENDING"
	SubscriptionConfirmed SubscriptionStatus = "CONFIRMED"
	SubscriptionCancelled SubscriptionStatus = "CANCELLED"
)

// Subscription is one buyer's slot reservation in a pool. A PENDING
// subscription holds provisional capacity until ExpiresAt; the reaper
// returns that capacity if payment never confirms.
type Subscription struct {
	ID               string
	PoolID           string
	UserID           string
	Slots            int32
	DeliveryFee      int64
	PaymentReference string
	Status           SubscriptionStatus
	ExpiresAt        time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Contribution is the part of this subscription's payment that lands
// in escrow: the slot subtotal plus the delivery fee. The buyer-side
// platform fee is retained by the platform and never escrowed.
func (s *Subscription) Contribution(pricePerSlot int64) int64 {
	return int64(s.Slots)*pricePerSlot + s.DeliveryFee
}

type SubscriptionRepository interface {
	GetSubscriptionByID(ctx context.Context, subscriptionID string) (*Subscription, error)
	GetPoolSubscriptions(ctx context.Context, poolID string) ([]*Subscription, error)
	GetUserPoolSubscription(ctx context.Context, poolID, userID string, status SubscriptionStatus) (*Subscription, error)
	AttachPayment(ctx context.Context, subscriptionID, reference string, deliveryFee int64) error
	FindExpiredPending(ctx context.Context, now time.Time) ([]*Subscription, error)
}
