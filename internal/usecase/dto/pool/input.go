package pooldto

import "time"

type CreatePoolInput struct {
	VendorID          string
	PricePerSlot      int64
	SlotsCount        int32
	AllowHomeDelivery bool
	HomeDeliveryCost  int64
	DeliveryDeadline  time.Time
}
