package escrow

import (
	"context"

	escrowdto "github.com/poolmart/pool-settlement-service/internal/usecase/dto/escrow"
)

// GetBalance is a pure read for display; the numbers it returns are
// never accepted back from the caller.
func (uc *DefaultEscrowUsecase) GetBalance(ctx context.Context, poolID string) (*escrowdto.EscrowView, error) {
	escrow, err := uc.escrowRepo.GetEscrowByPoolID(ctx, poolID)
	if err != nil {
		return nil, err
	}
	return &escrowdto.EscrowView{
		PoolID:         escrow.PoolID,
		TotalHeld:      escrow.TotalHeld,
		ReleasedAmount: escrow.ReleasedAmount,
		WithheldAmount: escrow.WithheldAmount,
		NetForVendor:   escrow.NetForVendor(),
		Released:       escrow.Released(),
	}, nil
}
