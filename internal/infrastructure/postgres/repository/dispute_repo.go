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

type DefaultDisputeRepository struct {
	DB *gorm.DB
}

func NewDefaultDisputeRepository(db *gorm.DB) *DefaultDisputeRepository {
	return &DefaultDisputeRepository{DB: db}
}

// ResolveOutcome is what a resolution transaction hands back to the
// engine: the terminal dispute, the amount in question and whether this
// call was a replay of an earlier resolution.
type ResolveOutcome struct {
	Dispute         *domain.Dispute
	DisputedAmount  int64
	AlreadyResolved bool
}

// OpenDispute enforces uniqueness inside the creating transaction:
// the duplicate check and the insert cannot be split by a concurrent
// opener. The caller must hold a confirmed subscription and the pool's
// escrow must not have been paid out yet.
func (r *DefaultDisputeRepository) OpenDispute(ctx context.Context, dispute *domain.Dispute) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var poolModel models.PoolModel
		if err := lockForUpdate(tx).First(&poolModel, "id = ?", dispute.PoolID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPoolNotFound
			}
			return err
		}

		var active int64
		if err := tx.Model(&models.DisputeModel{}).
			Where("pool_id = ? AND raised_by_user_id = ? AND status IN ?",
				dispute.PoolID, dispute.RaisedByUserID,
				[]string{string(domain.DisputeOpen), string(domain.DisputeInReview)}).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return domain.ErrDuplicateDispute
		}

		var confirmed int64
		if err := tx.Model(&models.SubscriptionModel{}).
			Where("pool_id = ? AND user_id = ? AND status = ?",
				dispute.PoolID, dispute.RaisedByUserID, domain.SubscriptionConfirmed).
			Count(&confirmed).Error; err != nil {
			return err
		}
		if confirmed == 0 {
			return domain.ErrSubscriptionNotFound
		}

		var escrowModel models.EscrowModel
		err := tx.First(&escrowModel, "pool_id = ?", dispute.PoolID).Error
		if err == nil && escrowModel.ReleasedAt != nil {
			return domain.ErrEscrowReleased
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		disputeModel := mappers.ToGORMDispute(dispute)
		return tx.Create(disputeModel).Error
	})
}

func (r *DefaultDisputeRepository) GetDisputeByID(ctx context.Context, disputeID string) (*domain.Dispute, error) {
	var disputeModel models.DisputeModel
	if err := r.DB.WithContext(ctx).First(&disputeModel, "id = ?", disputeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDisputeNotFound
		}
		return nil, err
	}
	return mappers.ToDomainDispute(&disputeModel), nil
}

func (r *DefaultDisputeRepository) HasActiveDispute(ctx context.Context, poolID string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.DisputeModel{}).
		Where("pool_id = ? AND status IN ?", poolID,
			[]string{string(domain.DisputeOpen), string(domain.DisputeInReview)}).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// BeginReview moves OPEN -> IN_REVIEW; any other starting state is a
// terminal-state error.
func (r *DefaultDisputeRepository) BeginReview(ctx context.Context, disputeID string) error {
	res := r.DB.WithContext(ctx).
		Model(&models.DisputeModel{}).
		Where("id = ? AND status = ?", disputeID, domain.DisputeOpen).
		Updates(map[string]interface{}{"status": domain.DisputeInReview, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetDisputeByID(ctx, disputeID); err != nil {
			return err
		}
		return domain.ErrDisputeTerminal
	}
	return nil
}

// Reject closes a dispute without touching escrow. OPEN -> REJECTED is
// the fast path; IN_REVIEW -> REJECTED the reviewed one.
func (r *DefaultDisputeRepository) Reject(ctx context.Context, disputeID, notes string) error {
	now := time.Now()
	res := r.DB.WithContext(ctx).
		Model(&models.DisputeModel{}).
		Where("id = ? AND status IN ?", disputeID,
			[]string{string(domain.DisputeOpen), string(domain.DisputeInReview)}).
		Updates(map[string]interface{}{
			"status":           domain.DisputeRejected,
			"resolution_notes": notes,
			"resolved_at":      now,
			"updated_at":       now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetDisputeByID(ctx, disputeID); err != nil {
			return err
		}
		return domain.ErrDisputeTerminal
	}
	return nil
}

// Resolve applies an admin decision in one transaction. The disputed
// amount is the raising buyer's escrow contribution. refund and split
// move that amount to withheld so a later vendor release cannot pay it
// out; release leaves escrow untouched and only clears the gate.
// Re-resolving an already resolved dispute returns the stored outcome
// without reapplying funds.
func (r *DefaultDisputeRepository) Resolve(
	ctx context.Context,
	disputeID string,
	action domain.DisputeAction,
	distribution map[string]int64,
	notes string,
) (*ResolveOutcome, error) {
	outcome := &ResolveOutcome{}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var disputeModel models.DisputeModel
		if err := lockForUpdate(tx).First(&disputeModel, "id = ?", disputeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrDisputeNotFound
			}
			return err
		}
		if disputeModel.Status == string(domain.DisputeResolved) {
			outcome.Dispute = mappers.ToDomainDispute(&disputeModel)
			outcome.AlreadyResolved = true
			return nil
		}
		if disputeModel.Status == string(domain.DisputeRejected) {
			return domain.ErrDisputeTerminal
		}

		var poolModel models.PoolModel
		if err := tx.First(&poolModel, "id = ?", disputeModel.PoolID).Error; err != nil {
			return err
		}
		var subModel models.SubscriptionModel
		if err := tx.
			Where("pool_id = ? AND user_id = ? AND status = ?",
				disputeModel.PoolID, disputeModel.RaisedByUserID, domain.SubscriptionConfirmed).
			First(&subModel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrSubscriptionNotFound
			}
			return err
		}
		sub := mappers.ToDomainSubscription(&subModel)
		disputedAmount := sub.Contribution(poolModel.PricePerSlot)
		outcome.DisputedAmount = disputedAmount

		now := time.Now()
		switch action {
		case domain.DisputeActionRefund:
			if err := withholdFromEscrow(tx, disputeModel.PoolID, disputedAmount,
				"refund to buyer "+disputeModel.RaisedByUserID, now); err != nil {
				return err
			}
		case domain.DisputeActionSplit:
			var sum int64
			for _, amount := range distribution {
				sum += amount
			}
			if sum != disputedAmount {
				return domain.ErrDistributionMismatch
			}
			if err := withholdFromEscrow(tx, disputeModel.PoolID, disputedAmount,
				"split per dispute "+disputeModel.ID, now); err != nil {
				return err
			}
		case domain.DisputeActionRelease:
			// Clears the gate only; escrow stays as is.
		default:
			return domain.ErrDistributionMismatch
		}

		updates := map[string]interface{}{
			"status":           domain.DisputeResolved,
			"action":           string(action),
			"resolution_notes": notes,
			"resolved_at":      now,
			"updated_at":       now,
		}
		if action == domain.DisputeActionSplit {
			model := mappers.ToGORMDispute(&domain.Dispute{Distribution: distribution})
			updates["distribution"] = model.Distribution
		}
		if err := tx.Model(&models.DisputeModel{}).
			Where("id = ?", disputeID).
			Updates(updates).Error; err != nil {
			return err
		}

		disputeModel.Status = string(domain.DisputeResolved)
		disputeModel.Action = string(action)
		disputeModel.ResolutionNotes = notes
		disputeModel.ResolvedAt = &now
		if dist, ok := updates["distribution"].(string); ok {
			disputeModel.Distribution = dist
		}
		outcome.Dispute = mappers.ToDomainDispute(&disputeModel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// withholdFromEscrow moves amount into the withheld bucket, keeping
// released + withheld within totalHeld.
func withholdFromEscrow(tx *gorm.DB, poolID string, amount int64, reason string, now time.Time) error {
	var escrowModel models.EscrowModel
	if err := lockForUpdate(tx).First(&escrowModel, "pool_id = ?", poolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrEscrowNotFound
		}
		return err
	}
	if escrowModel.ReleasedAmount+escrowModel.WithheldAmount+amount > escrowModel.TotalHeld {
		return domain.ErrReleaseBlocked
	}
	return tx.Model(&models.EscrowModel{}).
		Where("pool_id = ?", poolID).
		Updates(map[string]interface{}{
			"withheld_amount": escrowModel.WithheldAmount + amount,
			"withheld_reason": reason,
			"updated_at":      now,
		}).Error
}

func (r *DefaultDisputeRepository) UpdateDisputeStatus(ctx context.Context, disputeID string, status domain.DisputeStatus) error {
	return r.DB.WithContext(ctx).
		Model(&models.DisputeModel{}).
		Where("id = ?", disputeID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}

func (r *DefaultDisputeRepository) GetDisputes(ctx context.Context, filter domain.GetDisputesFilter) ([]*domain.Dispute, int64, error) {
	query := r.DB.WithContext(ctx).Model(&models.DisputeModel{})
	if filter.PoolID != nil {
		query = query.Where("pool_id = ?", *filter.PoolID)
	}
	if filter.UserID != nil {
		query = query.Where("raised_by_user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	var disputeModels []models.DisputeModel
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&disputeModels).Error; err != nil {
		return nil, 0, err
	}

	disputes := make([]*domain.Dispute, len(disputeModels))
	for i, disputeModel := range disputeModels {
		disputes[i] = mappers.ToDomainDispute(&disputeModel)
	}
	return disputes, total, nil
}
