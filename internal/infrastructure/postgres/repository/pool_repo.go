package repository

import (
	"context"
	"errors"
	"time"

	"github.com/poolmart/pool-settlement-service/internal/domain"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPoolRepository struct {
	DB *gorm.DB
}

func NewDefaultPoolRepository(db *gorm.DB) *DefaultPoolRepository {
	return &DefaultPoolRepository{DB: db}
}

func (r *DefaultPoolRepository) CreatePool(ctx context.Context, pool *domain.Pool) error {
	poolModel := mappers.ToGORMPool(pool)
	if err := r.DB.WithContext(ctx).Create(poolModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultPoolRepository) GetPoolByID(ctx context.Context, poolID string) (*domain.Pool, error) {
	var poolModel models.PoolModel
	if err := r.DB.WithContext(ctx).First(&poolModel, "id = ?", poolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPoolNotFound
		}
		return nil, err
	}
	return mappers.ToDomainPool(&poolModel), nil
}

func (r *DefaultPoolRepository) UpdatePoolStatus(ctx context.Context, poolID string, newStatus domain.PoolStatus) error {
	return r.DB.WithContext(ctx).
		Model(&models.PoolModel{}).
		Where("id = ?", poolID).
		Update("status", newStatus).Error
}

// CompletePool is a single conditional update: only the pool's vendor
// may complete, and only out of FILLED.
func (r *DefaultPoolRepository) CompletePool(ctx context.Context, poolID, vendorID string) error {
	res := r.DB.WithContext(ctx).
		Model(&models.PoolModel{}).
		Where("id = ? AND vendor_id = ? AND status = ?", poolID, vendorID, domain.PoolFilled).
		Update("status", domain.PoolCompleted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrPoolNotCancellable
	}
	return nil
}

// CancelPool cancels the pool and every confirmed subscription in one
// transaction, returning the subscriptions that now need refund
// instructions. Cancellation is refused once escrow has been released.
func (r *DefaultPoolRepository) CancelPool(ctx context.Context, poolID string) ([]*domain.Subscription, error) {
	var refundable []*domain.Subscription
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var poolModel models.PoolModel
		if err := lockForUpdate(tx).First(&poolModel, "id = ?", poolID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPoolNotFound
			}
			return err
		}
		if poolModel.Status == domain.PoolCancelled || poolModel.Status == domain.PoolCompleted {
			return domain.ErrPoolNotCancellable
		}

		var escrowModel models.EscrowModel
		err := tx.First(&escrowModel, "pool_id = ?", poolID).Error
		if err == nil && escrowModel.ReleasedAt != nil {
			return domain.ErrPoolNotCancellable
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var subModels []models.SubscriptionModel
		if err := tx.
			Where("pool_id = ? AND status = ?", poolID, domain.SubscriptionConfirmed).
			Find(&subModels).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.SubscriptionModel{}).
			Where("pool_id = ? AND status IN ?", poolID,
				[]domain.SubscriptionStatus{domain.SubscriptionPending, domain.SubscriptionConfirmed}).
			Updates(map[string]interface{}{"status": domain.SubscriptionCancelled, "updated_at": now}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.PoolModel{}).
			Where("id = ?", poolID).
			Updates(map[string]interface{}{"status": domain.PoolCancelled, "updated_at": now}).Error; err != nil {
			return err
		}

		refundable = make([]*domain.Subscription, len(subModels))
		for i, subModel := range subModels {
			refundable[i] = mappers.ToDomainSubscription(&subModel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refundable, nil
}

func (r *DefaultPoolRepository) GetVendorPools(ctx context.Context, vendorID string, page, limit int64) ([]*domain.Pool, int64, error) {
	query := r.DB.WithContext(ctx).Model(&models.PoolModel{}).Where("vendor_id = ?", vendorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var poolModels []models.PoolModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(int(offset)).Limit(int(limit)).
		Find(&poolModels).Error; err != nil {
		return nil, 0, err
	}

	pools := make([]*domain.Pool, len(poolModels))
	for i, poolModel := range poolModels {
		pools[i] = mappers.ToDomainPool(&poolModel)
	}
	return pools, total, nil
}
