package dispute

import (
	"context"

	"github.com/poolmart/pool-settlement-service/internal/domain"
	disputedto "github.com/poolmart/pool-settlement-service/internal/usecase/dto/dispute"
)

func (uc *DefaultDisputeUsecase) GetDisputeByID(ctx context.Context, disputeID string) (*domain.Dispute, error) {
	return uc.disputeRepo.GetDisputeByID(ctx, disputeID)
}

func (uc *DefaultDisputeUsecase) GetDisputes(ctx context.Context, input *disputedto.GetDisputesInput) (*disputedto.GetDisputesOutput, error) {
	disputes, total, err := uc.disputeRepo.GetDisputes(ctx, domain.GetDisputesFilter{
		PoolID: input.PoolID,
		UserID: input.UserID,
		Status: input.Status,
		Page:   input.Page,
		Limit:  input.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &disputedto.GetDisputesOutput{
		Disputes: disputes,
		Total:    total,
	}, nil
}
