package dispute

import (
	"context"
	"log/slog"
	"time"

	"github.com/poolmart/pool-settlement-service/internal/domain"
	publisher "github.com/poolmart/pool-settlement-service/internal/infrastructure/kafka"
	disputedto "github.com/poolmart/pool-settlement-service/internal/usecase/dto/dispute"
)

// OpenDispute files a buyer claim. Uniqueness per (pool, buyer) and the
// confirmed-subscription requirement are enforced inside the creating
// transaction, so there is no window between a duplicate check and the
// insert. An active dispute blocks escrow release by existing; nothing
// on the pool record changes.
func (uc *DefaultDisputeUsecase) OpenDispute(ctx context.Context, input *disputedto.OpenDisputeInput) (*domain.Dispute, error) {
	dispute := &domain.Dispute{
		ID:             uc.newID(),
		PoolID:         input.PoolID,
		RaisedByUserID: input.UserID,
		Reason:         input.Reason,
		EvidenceRefs:   input.Evidence,
		Status:         domain.DisputeOpen,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := uc.disputeRepo.OpenDispute(ctx, dispute); err != nil {
		return nil, err
	}
	uc.metrics.DisputesOpenedTotal.Inc()

	go func(event publisher.DisputeEvent) {
		if err := uc.publisher.PublishDispute(event); err != nil {
			slog.Error("failed to publish dispute event", "stage", "open", "error", err.Error())
		}
	}(publisher.DisputeEvent{
		Type:      publisher.EventDisputeOpened,
		DisputeID: dispute.ID,
		PoolID:    dispute.PoolID,
		UserID:    dispute.RaisedByUserID,
		Reason:    dispute.Reason,
		Status:    string(dispute.Status),
	})

	return dispute, nil
}

func (uc *DefaultDisputeUsecase) BeginReview(ctx context.Context, disputeID string) error {
	return uc.disputeRepo.BeginReview(ctx, disputeID)
}

// RejectDispute closes the claim without touching escrow. Valid from
// OPEN (fast reject) and from IN_REVIEW.
func (uc *DefaultDisputeUsecase) RejectDispute(ctx context.Context, disputeID, notes string) error {
	if err := uc.disputeRepo.Reject(ctx, disputeID, notes); err != nil {
		return err
	}
	uc.metrics.DisputesResolvedTotal.WithLabelValues("reject").Inc()

	dispute, err := uc.disputeRepo.GetDisputeByID(ctx, disputeID)
	if err != nil {
		return err
	}
	go func(event publisher.DisputeEvent) {
		if err := uc.publisher.PublishDispute(event); err != nil {
			slog.Error("failed to publish dispute event", "stage", "reject", "error", err.Error())
		}
	}(publisher.DisputeEvent{
		Type:      publisher.EventDisputeResolved,
		DisputeID: dispute.ID,
		PoolID:    dispute.PoolID,
		UserID:    dispute.RaisedByUserID,
		Status:    string(domain.DisputeRejected),
	})
	return nil
}
