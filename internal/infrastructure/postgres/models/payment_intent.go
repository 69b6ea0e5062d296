package models

import (
	"time"

	"github.com/poolmart/pool-settlement-service/internal/domain"
)

// PaymentIntentModel stores the expected charge per checkout attempt so
// gateway callbacks can be verified and deduplicated.
type PaymentIntentModel struct {
	Reference        string                     `gorm:"primaryKey"`
	SubscriptionID   string                     `gorm:"type:uuid;index:idx_intent_sub;not null"`
	PoolID           string                     `gorm:"type:uuid;index:idx_intent_pool;not null"`
	IdempotencyKey   string                     `gorm:"uniqueIndex:idx_intent_idem;not null"`
	ExpectedAmount   int64                      `gorm:"not null"`
	FeeAmount        int64                      `gorm:"not null"`
	EscrowAmount     int64                      `gorm:"not null"`
	Method           string                     `gorm:"not null"`
	Status           domain.PaymentIntentStatus `gorm:"index:idx_intent_status;not null"`
	AuthorizationURL string
	FailureReason    string
	CreatedAt        time.Time `gorm:"index:idx_intent_created_at"`
	UpdatedAt        time.Time
}

func (PaymentIntentModel) TableName() string {
	return "payment_intents"
}
