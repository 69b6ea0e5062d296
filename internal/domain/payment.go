package domain

import (
	"context"
	"time"
)

type PaymentIntentStatus string

const (
	PaymentInitiated PaymentIntentStatus = "INITIATED"
	PaymentConfirmed PaymentIntentStatus = "CONFIRMED"
	PaymentFailed    PaymentIntentStatus = "FAILED"
)

// PaymentIntent pins the expected charge for one checkout attempt.
// Reference is the gateway-facing id; IdempotencyKey makes repeated
// initiate calls and duplicate webhooks no-ops.
type PaymentIntent struct {
	Reference        string
	SubscriptionID   string
	PoolID           string
	IdempotencyKey   string
	ExpectedAmount   int64
	FeeAmount        int64
	EscrowAmount     int64
	Method           string
	Status           PaymentIntentStatus
	AuthorizationURL string
	FailureReason    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type PaymentIntentRepository interface {
	CreateIntent(ctx context.Context, intent *PaymentIntent) error
	GetIntentByReference(ctx context.Context, reference string) (*PaymentIntent, error)
	GetIntentByIdempotencyKey(ctx context.Context, key string) (*PaymentIntent, error)
	FindStaleInitiated(ctx context.Context, olderThan time.Time) ([]*PaymentIntent, error)
}

// ChargeHandle is what the gateway hands back for a new charge: either a
// redirect URL or a client secret, depending on the provider.
type ChargeHandle struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
}

type VerifyResult struct {
	Reference string
	Success   bool
	Amount    int64
	Channel   string
	PaidAt    time.Time
}

// PaymentGateway is the pluggable charge capability. The engine only
// asks it to authorize, verify and refund; provider fee mechanics stay
// on the provider's side of the boundary.
type PaymentGateway interface {
	Charge(ctx context.Context, reference, email, method string, amount int64) (*ChargeHandle, error)
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
	Refund(ctx context.Context, reference string, amount int64, reason string) error
}
