package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/poolmart/pool-settlement-service/internal/domain"
	publisher "github.com/poolmart/pool-settlement-service/internal/infrastructure/kafka"
)

// InstructRefund emits a refund instruction to the gateway for a
// confirmed subscription. It moves no ledger money itself; escrow
// adjustments happen in the transaction that decided the refund.
func (uc *DefaultPaymentUsecase) InstructRefund(ctx context.Context, sub *domain.Subscription, amount int64, reason string) error {
	if sub.PaymentReference == "" {
		return domain.ErrIntentNotFound
	}
	if err := uc.gateway.Refund(ctx, sub.PaymentReference, amount, reason); err != nil {
		return err
	}

	go func(event publisher.PaymentEvent) {
		if err := uc.publisher.PublishPayment(event); err != nil {
			slog.Error("failed to publish payment event", "stage", "refund", "error", err.Error())
		}
	}(publisher.PaymentEvent{
		Type:           publisher.EventRefundInstructed,
		PoolID:         sub.PoolID,
		UserID:         sub.UserID,
		SubscriptionID: sub.ID,
		Reference:      sub.PaymentReference,
		Amount:         amount,
	})
	return nil
}

// SweepStaleIntents re-verifies INITIATED intents old enough that the
// buyer has likely abandoned checkout. Confirmations that arrive during
// the sweep win through the usual conditional paths.
func (uc *DefaultPaymentUsecase) SweepStaleIntents(ctx context.Context) error {
	stale, err := uc.intentRepo.FindStaleInitiated(ctx, time.Now().Add(-uc.staleAge))
	if err != nil {
		return err
	}
	for _, intent := range stale {
		if _, err := uc.VerifyPayment(ctx, intent.Reference); err != nil {
			slog.Info("stale intent sweep", "reference", intent.Reference, "result", err.Error())
		}
	}
	return nil
}
