package models

import "time"

type DisputeModel struct {
	ID              string `gorm:"primaryKey"`
	PoolID          string `gorm:"type:uuid;index:idx_dispute_pool;not null"`
	RaisedByUserID  string `gorm:"index:idx_dispute_user;not null"`
	Reason          string
	EvidenceRefs    string `gorm:"type:text"` // JSON array, order preserved
	Status          string `gorm:"index:idx_dispute_status;not null"`
	Action          string
	ResolutionNotes string
	ResolvedAt      *time.Time `gorm:"default:null"`
	Distribution    string     `gorm:"type:text"` // JSON object, split resolutions only
	Pool            PoolModel  `gorm:"foreignKey:PoolID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (DisputeModel) TableName() string {
	return "disputes"
}
