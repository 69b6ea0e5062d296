package pool

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/poolmart/pool-settlement-service/internal/domain"
	pooldto "github.com/poolmart/pool-settlement-service/internal/usecase/dto/pool"
)

type PoolUsecase interface {
	CreatePool(ctx context.Context, input *pooldto.CreatePoolInput) (*domain.Pool, error)
	GetPoolByID(ctx context.Context, poolID string) (*domain.Pool, error)
	GetVendorPools(ctx context.Context, vendorID string, page, limit int64) ([]*domain.Pool, int64, error)
}

type DefaultPoolUsecase struct {
	poolRepo domain.PoolRepository
}

func NewDefaultPoolUsecase(poolRepo domain.PoolRepository) *DefaultPoolUsecase {
	return &DefaultPoolUsecase{poolRepo: poolRepo}
}

func (uc *DefaultPoolUsecase) CreatePool(ctx context.Context, input *pooldto.CreatePoolInput) (*domain.Pool, error) {
	if input.SlotsCount < 2 {
		return nil, domain.ErrInvalidSlotCount
	}
	pool := &domain.Pool{
		ID:                uuid.NewString(),
		VendorID:          input.VendorID,
		PricePerSlot:      input.PricePerSlot,
		SlotsCount:        input.SlotsCount,
		AllowHomeDelivery: input.AllowHomeDelivery,
		HomeDeliveryCost:  input.HomeDeliveryCost,
		DeliveryDeadline:  input.DeliveryDeadline,
		Status:            domain.PoolOpen,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	if err := uc.poolRepo.CreatePool(ctx, pool); err != nil {
		return nil, err
	}
	return pool, nil
}

func (uc *DefaultPoolUsecase) GetPoolByID(ctx context.Context, poolID string) (*domain.Pool, error) {
	return uc.poolRepo.GetPoolByID(ctx, poolID)
}

func (uc *DefaultPoolUsecase) GetVendorPools(ctx context.Context, vendorID string, page, limit int64) ([]*domain.Pool, int64, error) {
	return uc.poolRepo.GetVendorPools(ctx, vendorID, page, limit)
}
