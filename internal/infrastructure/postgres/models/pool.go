package models

import (
	"time"

	"github.com/poolmart/pool-settlement-service/internal/domain"
)

type PoolModel struct {
	ID                string `gorm:"primaryKey;type:uuid"`
	VendorID          string `gorm:"index:idx_vendor;not null"`
	PricePerSlot      int64  `gorm:"not null"`
	SlotsCount        int32  `gorm:"not null"`
	SlotsFilled       int32  `gorm:"not null;default:0"`
	AllowHomeDelivery bool   `gorm:"default:false"`
	HomeDeliveryCost  int64  `gorm:"default:0"`
	DeliveryDeadline  time.Time
	Status            domain.PoolStatus `gorm:"index:idx_pool_status;not null"`
	CreatedAt         time.Time         `gorm:"index:idx_pool_created_at"`
	UpdatedAt         time.Time
}

func (PoolModel) TableName() string {
	return "pools"
}
