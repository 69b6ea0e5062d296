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

type DefaultSubscriptionRepository struct {
	DB *gorm.DB
}

func NewDefaultSubscriptionRepository(db *gorm.DB) *DefaultSubscriptionRepository {
	return &DefaultSubscriptionRepository{DB: db}
}

// ReserveSlots is the admission transaction: it re-reads the pool under
// a row lock, rejects when capacity would be exceeded, creates the
// PENDING subscription and increments SlotsFilled. The pool flips to
// FILLED inside the same transaction when the last slot goes. Exactly
// one of two racing reservations for the final slot can commit; the
// other re-reads the updated count and fails the capacity check.
func (r *DefaultSubscriptionRepository) ReserveSlots(ctx context.Context, sub *domain.Subscription) (domain.PoolStatus, error) {
	var resulting domain.PoolStatus
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var poolModel models.PoolModel
		if err := lockForUpdate(tx).First(&poolModel, "id = ?", sub.PoolID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPoolNotFound
			}
			return err
		}
		if poolModel.Status != domain.PoolOpen {
			return domain.ErrPoolNotOpen
		}
		if poolModel.SlotsFilled+sub.Slots > poolModel.SlotsCount {
			return domain.ErrInsufficientSlots
		}

		subModel := mappers.ToGORMSubscription(sub)
		if err := tx.Create(subModel).Error; err != nil {
			return err
		}

		poolModel.SlotsFilled += sub.Slots
		updates := map[string]interface{}{
			"slots_filled": poolModel.SlotsFilled,
			"updated_at":   time.Now(),
		}
		if poolModel.SlotsFilled == poolModel.SlotsCount {
			poolModel.Status = domain.PoolFilled
			updates["status"] = domain.PoolFilled
		}
		if err := tx.Model(&models.PoolModel{}).Where("id = ?", poolModel.ID).Updates(updates).Error; err != nil {
			return err
		}
		resulting = poolModel.Status
		return nil
	})
	if err != nil {
		return "", err
	}
	return resulting, nil
}

// ReleaseReservation cancels a subscription and returns its slots to
// the pool, but only while it is still PENDING. A confirmation that
// lands before the reaper wins: this transaction then touches nothing
// and reports released=false. Locks go pool first, then subscription,
// the same order ReserveSlots and CancelPool take them.
func (r *DefaultSubscriptionRepository) ReleaseReservation(ctx context.Context, subscriptionID string) (bool, error) {
	released := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Unlocked read only to learn the pool id; it never changes on
		// a subscription.
		var subRef models.SubscriptionModel
		if err := tx.Select("pool_id").First(&subRef, "id = ?", subscriptionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrSubscriptionNotFound
			}
			return err
		}

		var poolModel models.PoolModel
		if err := lockForUpdate(tx).First(&poolModel, "id = ?", subRef.PoolID).Error; err != nil {
			return err
		}

		var subModel models.SubscriptionModel
		if err := lockForUpdate(tx).First(&subModel, "id = ?", subscriptionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrSubscriptionNotFound
			}
			return err
		}
		if subModel.Status != domain.SubscriptionPending {
			return nil
		}

		now := time.Now()
		if err := tx.Model(&models.SubscriptionModel{}).
			Where("id = ? AND status = ?", subscriptionID, domain.SubscriptionPending).
			Updates(map[string]interface{}{"status": domain.SubscriptionCancelled, "updated_at": now}).Error; err != nil {
			return err
		}
		// FILLED stays terminal for admissions: freed capacity does not
		// reopen the pool.
		if err := tx.Model(&models.PoolModel{}).
			Where("id = ?", poolModel.ID).
			Updates(map[string]interface{}{
				"slots_filled": poolModel.SlotsFilled - subModel.Slots,
				"updated_at":   now,
			}).Error; err != nil {
			return err
		}
		released = true
		return nil
	})
	return released, err
}

func (r *DefaultSubscriptionRepository) GetSubscriptionByID(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	var subModel models.SubscriptionModel
	if err := r.DB.WithContext(ctx).First(&subModel, "id = ?", subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return mappers.ToDomainSubscription(&subModel), nil
}

func (r *DefaultSubscriptionRepository) GetPoolSubscriptions(ctx context.Context, poolID string) ([]*domain.Subscription, error) {
	var subModels []models.SubscriptionModel
	if err := r.DB.WithContext(ctx).
		Where("pool_id = ?", poolID).
		Order("created_at ASC").
		Find(&subModels).Error; err != nil {
		return nil, err
	}
	subs := make([]*domain.Subscription, len(subModels))
	for i, subModel := range subModels {
		subs[i] = mappers.ToDomainSubscription(&subModel)
	}
	return subs, nil
}

func (r *DefaultSubscriptionRepository) GetUserPoolSubscription(ctx context.Context, poolID, userID string, status domain.SubscriptionStatus) (*domain.Subscription, error) {
	var subModel models.SubscriptionModel
	if err := r.DB.WithContext(ctx).
		Where("pool_id = ? AND user_id = ? AND status = ?", poolID, userID, status).
		First(&subModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return mappers.ToDomainSubscription(&subModel), nil
}

// AttachPayment records the gateway reference and the delivery fee the
// checkout settled on.
func (r *DefaultSubscriptionRepository) AttachPayment(ctx context.Context, subscriptionID, reference string, deliveryFee int64) error {
	return r.DB.WithContext(ctx).
		Model(&models.SubscriptionModel{}).
		Where("id = ?", subscriptionID).
		Updates(map[string]interface{}{
			"payment_reference": reference,
			"delivery_fee":      deliveryFee,
			"updated_at":        time.Now(),
		}).Error
}

func (r *DefaultSubscriptionRepository) FindExpiredPending(ctx context.Context, now time.Time) ([]*domain.Subscription, error) {
	var subModels []models.SubscriptionModel
	if err := r.DB.WithContext(ctx).
		Where("status = ? AND expires_at < ?", domain.SubscriptionPending, now).
		Find(&subModels).Error; err != nil {
		return nil, err
	}
	subs := make([]*domain.Subscription, len(subModels))
	for i, subModel := range subModels {
		subs[i] = mappers.ToDomainSubscription(&subModel)
	}
	return subs, nil
}
