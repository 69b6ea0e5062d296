package mappers

import (
	"github.com/poolmart/pool-settlement-service/internal/domain"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainEscrow(model *models.EscrowModel) *domain.Escrow {
	return &domain.Escrow{
		PoolID:         model.PoolID,
		TotalHeld:      model.TotalHeld,
		ReleasedAmount: model.ReleasedAmount,
		WithheldAmount: model.WithheldAmount,
		WithheldReason: model.WithheldReason,
		CommissionBps:  model.CommissionBps,
		ReleasedAt:     model.ReleasedAt,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func ToGORMEscrow(escrow *domain.Escrow) *models.EscrowModel {
	return &models.EscrowModel{
		PoolID:         escrow.PoolID,
		TotalHeld:      escrow.TotalHeld,
		ReleasedAmount: escrow.ReleasedAmount,
		WithheldAmount: escrow.WithheldAmount,
		WithheldReason: escrow.WithheldReason,
		CommissionBps:  escrow.CommissionBps,
		ReleasedAt:     escrow.ReleasedAt,
		CreatedAt:      escrow.CreatedAt,
		UpdatedAt:      escrow.UpdatedAt,
	}
}
