package kafka

// Topic layout: pool lifecycle, payment lifecycle and dispute lifecycle
// each get their own topic so the notification fan-out can subscribe
// selectively.
const (
	PoolEventsTopic    = "pool-events"
	PaymentEventsTopic = "payment-events"
	DisputeEventsTopic = "dispute-events"
)

const (
	EventPoolFilled       = "pool.filled"
	EventPoolCancelled    = "pool.cancelled"
	EventPaymentConfirmed = "payment.confirmed"
	EventEscrowReleased   = "escrow.released"
	EventDisputeOpened    = "dispute.opened"
	EventDisputeResolved  = "dispute.resolved"
	EventRefundInstructed = "refund.instructed"
)

type PoolEvent struct {
	Type        string `json:"type"`
	PoolID      string `json:"pool_id"`
	VendorID    string `json:"vendor_id"`
	SlotsFilled int32  `json:"slots_filled"`
	SlotsCount  int32  `json:"slots_count"`
}

type PaymentEvent struct {
	Type           string `json:"type"`
	PoolID         string `json:"pool_id"`
	UserID         string `json:"user_id"`
	SubscriptionID string `json:"subscription_id"`
	Reference      string `json:"reference"`
	Amount         int64  `json:"amount"`
}

type EscrowEvent struct {
	Type           string `json:"type"`
	PoolID         string `json:"pool_id"`
	ReleasedAmount int64  `json:"released_amount"`
	WithheldAmount int64  `json:"withheld_amount"`
	TotalHeld      int64  `json:"total_held"`
}

type DisputeEvent struct {
	Type      string `json:"type"`
	DisputeID string `json:"dispute_id"`
	PoolID    string `json:"pool_id"`
	UserID    string `json:"user_id"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
	Action    string `json:"action,omitempty"`
	Amount    int64  `json:"amount,omitempty"`
}
