package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/poolmart/pool-settlement-service/internal/domain"
	publisher "github.com/poolmart/pool-settlement-service/internal/infrastructure/kafka"
	paymentdto "github.com/poolmart/pool-settlement-service/internal/usecase/dto/payment"
)

// ConfirmPayment drives a gateway-confirmed charge to its terminal
// state. Duplicate callbacks for the same reference return the prior
// result unchanged; escrow is credited exactly once. An amount that
// diverges from the pinned expectation is a hard failure that mutates
// nothing.
func (uc *DefaultPaymentUsecase) ConfirmPayment(ctx context.Context, reference string, amountObserved int64) (*paymentdto.ConfirmResult, error) {
	start := time.Now()

	intent, err := uc.intentRepo.GetIntentByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	// Replays skip the amount check: the stored outcome is what counts.
	if intent.Status != domain.PaymentConfirmed && amountObserved != intent.ExpectedAmount {
		uc.metrics.PaymentsFailedTotal.WithLabelValues("amount_mismatch").Inc()
		return nil, domain.ErrAmountMismatch
	}

	outcome, err := uc.intentRepo.ConfirmPayment(ctx, reference, uc.commissionBps)
	if err != nil {
		uc.metrics.ConfirmDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return nil, err
	}

	result := &paymentdto.ConfirmResult{
		Reference:        outcome.Intent.Reference,
		SubscriptionID:   outcome.Subscription.ID,
		PoolID:           outcome.Intent.PoolID,
		Amount:           outcome.Intent.ExpectedAmount,
		AlreadyConfirmed: outcome.AlreadyConfirmed,
	}
	if outcome.AlreadyConfirmed {
		uc.metrics.ConfirmDuration.WithLabelValues("replay").Observe(time.Since(start).Seconds())
		return result, nil
	}

	uc.metrics.PaymentsConfirmedTotal.WithLabelValues(outcome.Intent.Method).Inc()
	uc.metrics.PaymentsConfirmedAmount.WithLabelValues(outcome.Intent.Method).Add(float64(outcome.Intent.ExpectedAmount))
	uc.metrics.EscrowHeldAmount.Add(float64(outcome.Intent.EscrowAmount))
	uc.metrics.ConfirmDuration.WithLabelValues("confirmed").Observe(time.Since(start).Seconds())

	go func(event publisher.PaymentEvent) {
		if err := uc.publisher.PublishPayment(event); err != nil {
			slog.Error("failed to publish payment event", "stage", "confirm", "error", err.Error())
		}
	}(publisher.PaymentEvent{
		Type:           publisher.EventPaymentConfirmed,
		PoolID:         outcome.Intent.PoolID,
		UserID:         outcome.Subscription.UserID,
		SubscriptionID: outcome.Subscription.ID,
		Reference:      reference,
		Amount:         outcome.Intent.ExpectedAmount,
	})

	return result, nil
}

// FailPayment handles a gateway-reported failure: the intent goes
// FAILED and the reservation's capacity returns to the pool. A
// reference that already confirmed is left alone.
func (uc *DefaultPaymentUsecase) FailPayment(ctx context.Context, reference, reason string) error {
	marked, err := uc.intentRepo.MarkFailed(ctx, reference, reason)
	if err != nil {
		return err
	}
	if !marked {
		return nil
	}
	uc.metrics.PaymentsFailedTotal.WithLabelValues("gateway_failure").Inc()

	intent, err := uc.intentRepo.GetIntentByReference(ctx, reference)
	if err != nil {
		return err
	}
	if _, err := uc.admission.ReleaseReservation(ctx, intent.SubscriptionID); err != nil {
		return err
	}
	return nil
}

// VerifyPayment asks the gateway for the charge outcome and settles the
// intent accordingly. This backs the redirect-and-verify flow and the
// stale-intent sweep.
func (uc *DefaultPaymentUsecase) VerifyPayment(ctx context.Context, reference string) (*paymentdto.ConfirmResult, error) {
	verification, err := uc.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !verification.Success {
		if err := uc.FailPayment(ctx, reference, "gateway reported failure"); err != nil {
			return nil, err
		}
		return nil, domain.ErrIntentNotConfirmable
	}
	return uc.ConfirmPayment(ctx, reference, verification.Amount)
}
