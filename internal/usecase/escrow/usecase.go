package escrow

import (
	"context"

	"github.com/poolmart/pool-settlement-service/internal/domain"
	publisher "github.com/poolmart/pool-settlement-service/internal/infrastructure/kafka"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/metrics"
	escrowdto "github.com/poolmart/pool-settlement-service/internal/usecase/dto/escrow"
)

type EscrowUsecase interface {
	Release(ctx context.Context, poolID, actor string) (*escrowdto.ReleaseResult, error)
	GetBalance(ctx context.Context, poolID string) (*escrowdto.EscrowView, error)
	CompletePool(ctx context.Context, poolID, vendorID string) error
	CancelPool(ctx context.Context, poolID, actor string) error
}

type EscrowStore interface {
	domain.EscrowRepository
	Release(ctx context.Context, poolID string) (*domain.Escrow, bool, error)
}

type PoolStore interface {
	domain.PoolRepository
	CompletePool(ctx context.Context, poolID, vendorID string) error
	CancelPool(ctx context.Context, poolID string) ([]*domain.Subscription, error)
}

type RefundInstructor interface {
	InstructRefund(ctx context.Context, sub *domain.Subscription, amount int64, reason string) error
}

type DefaultEscrowUsecase struct {
	escrowRepo EscrowStore
	poolRepo   PoolStore
	refunds    RefundInstructor
	publisher  publisher.Publisher
	metrics    *metrics.SettlementMetrics
}

func NewDefaultEscrowUsecase(
	escrowRepo EscrowStore,
	poolRepo PoolStore,
	refunds RefundInstructor,
	pub publisher.Publisher,
	m *metrics.SettlementMetrics,
) *DefaultEscrowUsecase {
	return &DefaultEscrowUsecase{
		escrowRepo: escrowRepo,
		poolRepo:   poolRepo,
		refunds:    refunds,
		publisher:  pub,
		metrics:    m,
	}
}
