package paymentdto

type InitiateCheckoutInput struct {
	SubscriptionID string
	Method         string
	HomeDelivery   bool
	IdempotencyKey string
	BuyerEmail     string
}
