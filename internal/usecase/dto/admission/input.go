package admissiondto

type ReserveSlotsInput struct {
	PoolID       string
	UserID       string
	Slots        int32
	HomeDelivery bool
}
