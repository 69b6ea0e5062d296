package dispute

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poolmart/pool-settlement-service/internal/domain"
	publisher "github.com/poolmart/pool-settlement-service/internal/infrastructure/kafka"
	disputedto "github.com/poolmart/pool-settlement-service/internal/usecase/dto/dispute"
)

// ResolveDispute applies an admin decision. The escrow adjustment and
// the dispute's terminal transition are one transaction; the refund
// instruction to the gateway follows it. Re-resolving returns the
// stored outcome and reapplies nothing.
func (uc *DefaultDisputeUsecase) ResolveDispute(ctx context.Context, input *disputedto.ResolveDisputeInput) (*disputedto.ResolveDisputeOutput, error) {
	switch input.Action {
	case domain.DisputeActionRefund, domain.DisputeActionRelease:
	case domain.DisputeActionSplit:
		if len(input.Distribution) == 0 {
			return nil, domain.ErrDistributionMismatch
		}
	default:
		return nil, fmt.Errorf("unknown dispute action: %s", input.Action)
	}

	outcome, err := uc.disputeRepo.Resolve(ctx, input.DisputeID, input.Action, input.Distribution, input.Notes)
	if err != nil {
		return nil, err
	}

	result := &disputedto.ResolveDisputeOutput{
		DisputeID:       outcome.Dispute.ID,
		Status:          outcome.Dispute.Status,
		Action:          outcome.Dispute.Action,
		DisputedAmount:  outcome.DisputedAmount,
		ResolvedAt:      outcome.Dispute.ResolvedAt,
		AlreadyResolved: outcome.AlreadyResolved,
	}
	if outcome.AlreadyResolved {
		return result, nil
	}

	uc.metrics.DisputesResolvedTotal.WithLabelValues(string(input.Action)).Inc()

	if input.Action == domain.DisputeActionRefund {
		sub, err := uc.subRepo.GetUserPoolSubscription(ctx,
			outcome.Dispute.PoolID, outcome.Dispute.RaisedByUserID, domain.SubscriptionConfirmed)
		if err != nil {
			return nil, err
		}
		reason := fmt.Sprintf("dispute %s resolved: refund", outcome.Dispute.ID)
		if err := uc.refunds.InstructRefund(ctx, sub, outcome.DisputedAmount, reason); err != nil {
			slog.Error("failed to instruct dispute refund",
				"dispute_id", outcome.Dispute.ID, "error", err.Error())
		}
	}

	go func(event publisher.DisputeEvent) {
		if err := uc.publisher.PublishDispute(event); err != nil {
			slog.Error("failed to publish dispute event", "stage", "resolve", "error", err.Error())
		}
	}(publisher.DisputeEvent{
		Type:      publisher.EventDisputeResolved,
		DisputeID: outcome.Dispute.ID,
		PoolID:    outcome.Dispute.PoolID,
		UserID:    outcome.Dispute.RaisedByUserID,
		Status:    string(outcome.Dispute.Status),
		Action:    string(outcome.Dispute.Action),
		Amount:    outcome.DisputedAmount,
	})

	return result, nil
}
