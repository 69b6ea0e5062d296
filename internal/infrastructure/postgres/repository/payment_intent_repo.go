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

type DefaultPaymentIntentRepository struct {
	DB *gorm.DB
}

func NewDefaultPaymentIntentRepository(db *gorm.DB) *DefaultPaymentIntentRepository {
	return &DefaultPaymentIntentRepository{DB: db}
}

// ConfirmOutcome carries everything the orchestrator needs after a
// confirmation transaction, including whether it was a replay.
type ConfirmOutcome struct {
	Intent           *domain.PaymentIntent
	Subscription     *domain.Subscription
	AlreadyConfirmed bool
}

func (r *DefaultPaymentIntentRepository) CreateIntent(ctx context.Context, intent *domain.PaymentIntent) error {
	intentModel := mappers.ToGORMPaymentIntent(intent)
	return r.DB.WithContext(ctx).Create(intentModel).Error
}

func (r *DefaultPaymentIntentRepository) GetIntentByReference(ctx context.Context, reference string) (*domain.PaymentIntent, error) {
	var intentModel models.PaymentIntentModel
	if err := r.DB.WithContext(ctx).First(&intentModel, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIntentNotFound
		}
		return nil, err
	}
	return mappers.ToDomainPaymentIntent(&intentModel), nil
}

func (r *DefaultPaymentIntentRepository) GetIntentByIdempotencyKey(ctx context.Context, key string) (*domain.PaymentIntent, error) {
	var intentModel models.PaymentIntentModel
	if err := r.DB.WithContext(ctx).First(&intentModel, "idempotency_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIntentNotFound
		}
		return nil, err
	}
	return mappers.ToDomainPaymentIntent(&intentModel), nil
}

// ConfirmPayment moves a verified charge to its terminal confirmed
// state: subscription CONFIRMED, escrow credited, intent CONFIRMED, all
// in one transaction. Replays return the stored outcome untouched, so
// escrow is credited exactly once per reference. Amount verification
// happens before this call; nothing here mutates state on a mismatch
// because a mismatch never reaches this method.
func (r *DefaultPaymentIntentRepository) ConfirmPayment(ctx context.Context, reference string, commissionBps int64) (*ConfirmOutcome, error) {
	outcome := &ConfirmOutcome{}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var intentModel models.PaymentIntentModel
		if err := lockForUpdate(tx).First(&intentModel, "reference = ?", reference).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrIntentNotFound
			}
			return err
		}
		if intentModel.Status == domain.PaymentConfirmed {
			var subModel models.SubscriptionModel
			if err := tx.First(&subModel, "id = ?", intentModel.SubscriptionID).Error; err != nil {
				return err
			}
			outcome.Intent = mappers.ToDomainPaymentIntent(&intentModel)
			outcome.Subscription = mappers.ToDomainSubscription(&subModel)
			outcome.AlreadyConfirmed = true
			return nil
		}
		if intentModel.Status == domain.PaymentFailed {
			return domain.ErrIntentNotConfirmable
		}

		var subModel models.SubscriptionModel
		if err := lockForUpdate(tx).First(&subModel, "id = ?", intentModel.SubscriptionID).Error; err != nil {
			return err
		}
		if subModel.Status == domain.SubscriptionCancelled {
			return domain.ErrIntentNotConfirmable
		}

		now := time.Now()
		if err := tx.Model(&models.SubscriptionModel{}).
			Where("id = ?", subModel.ID).
			Updates(map[string]interface{}{"status": domain.SubscriptionConfirmed, "updated_at": now}).Error; err != nil {
			return err
		}
		subModel.Status = domain.SubscriptionConfirmed

		var escrowModel models.EscrowModel
		err := lockForUpdate(tx).First(&escrowModel, "pool_id = ?", intentModel.PoolID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			escrowModel = models.EscrowModel{
				PoolID:        intentModel.PoolID,
				TotalHeld:     intentModel.EscrowAmount,
				CommissionBps: commissionBps,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := tx.Create(&escrowModel).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&models.EscrowModel{}).
				Where("pool_id = ?", intentModel.PoolID).
				Updates(map[string]interface{}{
					"total_held": escrowModel.TotalHeld + intentModel.EscrowAmount,
					"updated_at": now,
				}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.PaymentIntentModel{}).
			Where("reference = ?", reference).
			Updates(map[string]interface{}{"status": domain.PaymentConfirmed, "updated_at": now}).Error; err != nil {
			return err
		}
		intentModel.Status = domain.PaymentConfirmed

		outcome.Intent = mappers.ToDomainPaymentIntent(&intentModel)
		outcome.Subscription = mappers.ToDomainSubscription(&subModel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// MarkFailed is conditional: a reference that already confirmed stays
// confirmed.
func (r *DefaultPaymentIntentRepository) MarkFailed(ctx context.Context, reference, reason string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.PaymentIntentModel{}).
		Where("reference = ? AND status = ?", reference, domain.PaymentInitiated).
		Updates(map[string]interface{}{
			"status":         domain.PaymentFailed,
			"failure_reason": reason,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *DefaultPaymentIntentRepository) FindStaleInitiated(ctx context.Context, olderThan time.Time) ([]*domain.PaymentIntent, error) {
	var intentModels []models.PaymentIntentModel
	if err := r.DB.WithContext(ctx).
		Where("status = ? AND created_at < ?", domain.PaymentInitiated, olderThan).
		Find(&intentModels).Error; err != nil {
		return nil, err
	}
	intents := make([]*domain.PaymentIntent, len(intentModels))
	for i, intentModel := range intentModels {
		intents[i] = mappers.ToDomainPaymentIntent(&intentModel)
	}
	return intents, nil
}
