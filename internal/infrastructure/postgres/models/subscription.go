package models

import (
	"time"

	"github.com/poolmart/pool-settlement-service/internal/domain"
)

type SubscriptionModel struct {
	ID               string                    `gorm:"primaryKey;type:uuid"`
	PoolID           string                    `gorm:"type:uuid;index:idx_sub_pool;not null"`
	UserID           string                    `gorm:"index:idx_sub_user;not null"`
	Slots            int32                     `gorm:"not null"`
	DeliveryFee      int64                     `gorm:"default:0"`
	PaymentReference string                    `gorm:"index:idx_sub_payment_ref"`
	Status           domain.SubscriptionStatus `gorm:"index:idx_sub_status_expires;not null"`
	ExpiresAt        time.Time                 `gorm:"index:idx_sub_status_expires"`
	Pool             PoolModel                 `gorm:"foreignKey:PoolID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}
