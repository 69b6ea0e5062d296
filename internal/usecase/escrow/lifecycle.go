package escrow

import (
	"context"
	"fmt"
	"log/slog"

	publisher "github.com/poolmart/pool-settlement-service/internal/infrastructure/kafka"
)

// CompletePool marks delivery done, FILLED -> COMPLETED. Only the
// pool's vendor may do this; it is the precondition Release checks.
func (uc *DefaultEscrowUsecase) CompletePool(ctx context.Context, poolID, vendorID string) error {
	return uc.poolRepo.CompletePool(ctx, poolID, vendorID)
}

// CancelPool cancels the pool atomically and turns every confirmed
// subscription into a refund instruction. The ledger mutation is one
// transaction; gateway refund calls follow it, one per buyer.
func (uc *DefaultEscrowUsecase) CancelPool(ctx context.Context, poolID, actor string) error {
	pool, err := uc.poolRepo.GetPoolByID(ctx, poolID)
	if err != nil {
		return err
	}

	refundable, err := uc.poolRepo.CancelPool(ctx, poolID)
	if err != nil {
		return err
	}
	slog.Info("pool cancelled", "pool_id", poolID, "actor", actor, "refunds", len(refundable))

	for _, sub := range refundable {
		amount := sub.Contribution(pool.PricePerSlot)
		reason := fmt.Sprintf("pool %s cancelled", poolID)
		if err := uc.refunds.InstructRefund(ctx, sub, amount, reason); err != nil {
			slog.Error("failed to instruct refund",
				"pool_id", poolID, "subscription_id", sub.ID, "error", err.Error())
		}
	}

	go func(event publisher.PoolEvent) {
		if err := uc.publisher.PublishPool(event); err != nil {
			slog.Error("failed to publish pool event", "stage", "cancel", "error", err.Error())
		}
	}(publisher.PoolEvent{
		Type:        publisher.EventPoolCancelled,
		PoolID:      pool.ID,
		VendorID:    pool.VendorID,
		SlotsFilled: pool.SlotsFilled,
		SlotsCount:  pool.SlotsCount,
	})

	return nil
}
