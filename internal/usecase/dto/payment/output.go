package paymentdto

// CheckoutHandle is what the UI layer needs to send the buyer to the
// gateway: a redirect URL or an access code, plus the exact amount the
// gateway will collect.
type CheckoutHandle struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
	Amount           int64
}

type ConfirmResult struct {
	Reference        string
	SubscriptionID   string
	PoolID           string
	Amount           int64
	AlreadyConfirmed bool
}
