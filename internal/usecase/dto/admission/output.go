package admissiondto

import (
	"time"

	"github.com/poolmart/pool-settlement-service/internal/domain"
)

type ReserveSlotsOutput struct {
	SubscriptionID string
	PoolStatus     domain.PoolStatus
	ExpiresAt      time.Time
}
