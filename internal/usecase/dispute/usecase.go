package dispute

import (
	"context"
	"log"

	"github.com/jaevor/go-nanoid"
	"github.com/poolmart/pool-settlement-service/internal/domain"
	publisher "github.com/poolmart/pool-settlement-service/internal/infrastructure/kafka"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/metrics"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/postgres/repository"
	disputedto "github.com/poolmart/pool-settlement-service/internal/usecase/dto/dispute"
)

type DisputeUsecase interface {
	OpenDispute(ctx context.Context, input *disputedto.OpenDisputeInput) (*domain.Dispute, error)
	BeginReview(ctx context.Context, disputeID string) error
	RejectDispute(ctx context.Context, disputeID, notes string) error
	ResolveDispute(ctx context.Context, input *disputedto.ResolveDisputeInput) (*disputedto.ResolveDisputeOutput, error)
	GetDisputeByID(ctx context.Context, disputeID string) (*domain.Dispute, error)
	GetDisputes(ctx context.Context, input *disputedto.GetDisputesInput) (*disputedto.GetDisputesOutput, error)
}

type DisputeStore interface {
	domain.DisputeRepository
	OpenDispute(ctx context.Context, dispute *domain.Dispute) error
	BeginReview(ctx context.Context, disputeID string) error
	Reject(ctx context.Context, disputeID, notes string) error
	Resolve(ctx context.Context, disputeID string, action domain.DisputeAction, distribution map[string]int64, notes string) (*repository.ResolveOutcome, error)
}

type RefundInstructor interface {
	InstructRefund(ctx context.Context, sub *domain.Subscription, amount int64, reason string) error
}

type DefaultDisputeUsecase struct {
	disputeRepo DisputeStore
	subRepo     domain.SubscriptionRepository
	refunds     RefundInstructor
	publisher   publisher.Publisher
	metrics     *metrics.SettlementMetrics
	newID       func() string
}

func NewDefaultDisputeUsecase(
	disputeRepo DisputeStore,
	subRepo domain.SubscriptionRepository,
	refunds RefundInstructor,
	pub publisher.Publisher,
	m *metrics.SettlementMetrics,
) *DefaultDisputeUsecase {
	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		log.Fatalf("failed to init dispute id generator: %v", err)
	}
	return &DefaultDisputeUsecase{
		disputeRepo: disputeRepo,
		subRepo:     subRepo,
		refunds:     refunds,
		publisher:   pub,
		metrics:     m,
		newID:       idGenerator,
	}
}
