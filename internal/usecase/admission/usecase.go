package admission

import (
	"context"
	"time"

	"github.com/poolmart/pool-settlement-service/internal/domain"
	publisher "github.com/poolmart/pool-settlement-service/internal/infrastructure/kafka"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/metrics"
	admissiondto "github.com/poolmart/pool-settlement-service/internal/usecase/dto/admission"
)

type AdmissionUsecase interface {
	ReserveSlots(ctx context.Context, input *admissiondto.ReserveSlotsInput) (*admissiondto.ReserveSlotsOutput, error)
	ReleaseReservation(ctx context.Context, subscriptionID string) (bool, error)
	ExpireReservations(ctx context.Context) error
}

type SubscriptionStore interface {
	domain.SubscriptionRepository
	ReserveSlots(ctx context.Context, sub *domain.Subscription) (domain.PoolStatus, error)
	ReleaseReservation(ctx context.Context, subscriptionID string) (bool, error)
}

type DefaultAdmissionUsecase struct {
	subRepo          SubscriptionStore
	poolRepo         domain.PoolRepository
	publisher        publisher.Publisher
	metrics          *metrics.SettlementMetrics
	maxSlotsPerOrder int32
	reservationTTL   time.Duration
}

func NewDefaultAdmissionUsecase(
	subRepo SubscriptionStore,
	poolRepo domain.PoolRepository,
	pub publisher.Publisher,
	m *metrics.SettlementMetrics,
	maxSlotsPerOrder int32,
	reservationTTL time.Duration,
) *DefaultAdmissionUsecase {
	return &DefaultAdmissionUsecase{
		subRepo:          subRepo,
		poolRepo:         poolRepo,
		publisher:        pub,
		metrics:          m,
		maxSlotsPerOrder: maxSlotsPerOrder,
		reservationTTL:   reservationTTL,
	}
}
