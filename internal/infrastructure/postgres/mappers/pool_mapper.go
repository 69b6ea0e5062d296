package mappers

import (
	"github.com/poolmart/pool-settlement-service/internal/domain"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainPool(model *models.PoolModel) *domain.Pool {
	return &domain.Pool{
		ID:                model.ID,
		VendorID:          model.VendorID,
		PricePerSlot:      model.PricePerSlot,
		SlotsCount:        model.SlotsCount,
		SlotsFilled:       model.SlotsFilled,
		AllowHomeDelivery: model.AllowHomeDelivery,
		HomeDeliveryCost:  model.HomeDeliveryCost,
		DeliveryDeadline:  model.DeliveryDeadline,
		Status:            model.Status,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

func ToGORMPool(pool *domain.Pool) *models.PoolModel {
	return &models.PoolModel{
		ID:                pool.ID,
		VendorID:          pool.VendorID,
		PricePerSlot:      pool.PricePerSlot,
		SlotsCount:        pool.SlotsCount,
		SlotsFilled:       pool.SlotsFilled,
		AllowHomeDelivery: pool.AllowHomeDelivery,
		HomeDeliveryCost:  pool.HomeDeliveryCost,
		DeliveryDeadline:  pool.DeliveryDeadline,
		Status:            pool.Status,
		CreatedAt:         pool.CreatedAt,
		UpdatedAt:         pool.UpdatedAt,
	}
}
