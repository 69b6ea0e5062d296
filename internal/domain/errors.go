package domain

import "errors"

var (
	ErrPoolNotFound         = errors.New("pool not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrEscrowNotFound       = errors.New("escrow not found")
	ErrDisputeNotFound      = errors.New("dispute not found")
	ErrIntentNotFound       = errors.New("payment intent not found")

	ErrPoolNotOpen          = errors.New("pool is not open for reservations")
	ErrInsufficientSlots    = errors.New("not enough slots left in pool")
	ErrInvalidSlotCount     = errors.New("invalid slot count")
	ErrAmountMismatch       = errors.New("observed amount does not match expected charge")
	ErrReleaseBlocked       = errors.New("escrow release is blocked")
	ErrDuplicateDispute     = errors.New("an active dispute already exists for this buyer and pool")
	ErrDistributionMismatch = errors.New("split distribution does not sum to the disputed amount")
	ErrDisputeTerminal      = errors.New("dispute is already in a terminal state")
	ErrPoolNotCancellable   = errors.New("pool cannot be cancelled")
	ErrEscrowReleased       = errors.New("escrow already released to vendor")
	ErrIntentNotConfirmable = errors.New("payment intent is not confirmable")
	ErrDeliveryNotOffered   = errors.New("pool does not offer home delivery")
)
