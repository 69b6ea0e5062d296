package payment

import (
	"context"
	"log"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/poolmart/pool-settlement-service/internal/domain"
	publisher "github.com/poolmart/pool-settlement-service/internal/infrastructure/kafka"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/metrics"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/postgres/repository"
	paymentdto "github.com/poolmart/pool-settlement-service/internal/usecase/dto/payment"
)

type PaymentUsecase interface {
	InitiateCheckout(ctx context.Context, input *paymentdto.InitiateCheckoutInput) (*paymentdto.CheckoutHandle, error)
	ConfirmPayment(ctx context.Context, reference string, amountObserved int64) (*paymentdto.ConfirmResult, error)
	FailPayment(ctx context.Context, reference, reason string) error
	VerifyPayment(ctx context.Context, reference string) (*paymentdto.ConfirmResult, error)
	InstructRefund(ctx context.Context, sub *domain.Subscription, amount int64, reason string) error
	SweepStaleIntents(ctx context.Context) error
}

type IntentStore interface {
	domain.PaymentIntentRepository
	ConfirmPayment(ctx context.Context, reference string, commissionBps int64) (*repository.ConfirmOutcome, error)
	MarkFailed(ctx context.Context, reference, reason string) (bool, error)
}

type CapacityReleaser interface {
	ReleaseReservation(ctx context.Context, subscriptionID string) (bool, error)
}

type DefaultPaymentUsecase struct {
	intentRepo    IntentStore
	subRepo       domain.SubscriptionRepository
	poolRepo      domain.PoolRepository
	gateway       domain.PaymentGateway
	admission     CapacityReleaser
	publisher     publisher.Publisher
	metrics       *metrics.SettlementMetrics
	buyerFeeBps   int64
	commissionBps int64
	staleAge      time.Duration
	newReference  func() string
}

func NewDefaultPaymentUsecase(
	intentRepo IntentStore,
	subRepo domain.SubscriptionRepository,
	poolRepo domain.PoolRepository,
	gw domain.PaymentGateway,
	adm CapacityReleaser,
	pub publisher.Publisher,
	m *metrics.SettlementMetrics,
	buyerFeeBps, commissionBps int64,
	staleAge time.Duration,
) *DefaultPaymentUsecase {
	refGen, err := nanoid.Standard(18)
	if err != nil {
		log.Fatalf("failed to init reference generator: %v", err)
	}
	return &DefaultPaymentUsecase{
		intentRepo:    intentRepo,
		subRepo:       subRepo,
		poolRepo:      poolRepo,
		gateway:       gw,
		admission:     adm,
		publisher:     pub,
		metrics:       m,
		buyerFeeBps:   buyerFeeBps,
		commissionBps: commissionBps,
		staleAge:      staleAge,
		newReference:  refGen,
	}
}
