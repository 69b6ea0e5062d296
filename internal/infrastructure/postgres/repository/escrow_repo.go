package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poolmart/pool-settlement-service/internal/domain"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultEscrowRepository struct {
	DB *gorm.DB
}

func NewDefaultEscrowRepository(db *gorm.DB) *DefaultEscrowRepository {
	return &DefaultEscrowRepository{DB: db}
}

func (r *DefaultEscrowRepository) GetEscrowByPoolID(ctx context.Context, poolID string) (*domain.Escrow, error) {
	var escrowModel models.EscrowModel
	if err := r.DB.WithContext(ctx).First(&escrowModel, "pool_id = ?", poolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEscrowNotFound
		}
		return nil, err
	}
	return mappers.ToDomainEscrow(&escrowModel), nil
}

// Release pays the vendor out of escrow. The gate and the payout are
// one transaction, and the pool row is locked first: OpenDispute takes
// the same lock, so the dispute count here is read after any in-flight
// dispute has committed or aborted. The pool must be COMPLETED and
// carry no active dispute at that point. A release that already
// happened is a no-op returning the stored figures, never a second
// payout.
func (r *DefaultEscrowRepository) Release(ctx context.Context, poolID string) (*domain.Escrow, bool, error) {
	var escrow *domain.Escrow
	already := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var poolModel models.PoolModel
		if err := lockForUpdate(tx).First(&poolModel, "id = ?", poolID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPoolNotFound
			}
			return err
		}
		if poolModel.Status != domain.PoolCompleted {
			return fmt.Errorf("%w: pool is %s, not COMPLETED", domain.ErrReleaseBlocked, poolModel.Status)
		}

		var activeDisputes int64
		if err := tx.Model(&models.DisputeModel{}).
			Where("pool_id = ? AND status IN ?", poolID,
				[]string{string(domain.DisputeOpen), string(domain.DisputeInReview)}).
			Count(&activeDisputes).Error; err != nil {
			return err
		}
		if activeDisputes > 0 {
			return fmt.Errorf("%w: pool has an unresolved dispute", domain.ErrReleaseBlocked)
		}

		var escrowModel models.EscrowModel
		if err := lockForUpdate(tx).First(&escrowModel, "pool_id = ?", poolID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrEscrowNotFound
			}
			return err
		}
		if escrowModel.ReleasedAt != nil {
			escrow = mappers.ToDomainEscrow(&escrowModel)
			already = true
			return nil
		}

		commission := escrowModel.TotalHeld * escrowModel.CommissionBps / 10000
		releasedAmount := escrowModel.TotalHeld - commission - escrowModel.WithheldAmount
		now := time.Now()
		if err := tx.Model(&models.EscrowModel{}).
			Where("pool_id = ?", poolID).
			Updates(map[string]interface{}{
				"released_amount": releasedAmount,
				"released_at":     now,
				"updated_at":      now,
			}).Error; err != nil {
			return err
		}
		escrowModel.ReleasedAmount = releasedAmount
		escrowModel.ReleasedAt = &now
		escrow = mappers.ToDomainEscrow(&escrowModel)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return escrow, already, nil
}
