package models

import "time"

type EscrowModel struct {
	PoolID         string `gorm:"primaryKey;type:uuid"`
	TotalHeld      int64  `gorm:"not null;default:0"`
	ReleasedAmount int64  `gorm:"not null;default:0"`
	WithheldAmount int64  `gorm:"not null;default:0"`
	WithheldReason string
	CommissionBps  int64      `gorm:"not null"`
	ReleasedAt     *time.Time `gorm:"default:null"`
	Pool           PoolModel  `gorm:"foreignKey:PoolID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (EscrowModel) TableName() string {
	return "escrows"
}
