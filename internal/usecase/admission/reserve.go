package admission

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/poolmart/pool-settlement-service/internal/domain"
	publisher "github.com/poolmart/pool-settlement-service/internal/infrastructure/kafka"
	admissiondto "github.com/poolmart/pool-settlement-service/internal/usecase/dto/admission"
)

// ReserveSlots admits a buyer into a pool. The capacity check and the
// provisional increment run in a single ledger transaction, so two
// buyers racing for the last slot cannot both win: the second one
// fails with ErrInsufficientSlots against the committed count and must
// retry explicitly, never get silently clamped.
func (uc *DefaultAdmissionUsecase) ReserveSlots(ctx context.Context, input *admissiondto.ReserveSlotsInput) (*admissiondto.ReserveSlotsOutput, error) {
	if input.Slots < 1 || input.Slots > uc.maxSlotsPerOrder {
		return nil, domain.ErrInvalidSlotCount
	}

	pool, err := uc.poolRepo.GetPoolByID(ctx, input.PoolID)
	if err != nil {
		return nil, err
	}
	if input.HomeDelivery && !pool.AllowHomeDelivery {
		return nil, domain.ErrDeliveryNotOffered
	}
	var deliveryFee int64
	if input.HomeDelivery {
		deliveryFee = pool.HomeDeliveryCost
	}

	sub := &domain.Subscription{
		ID:          uuid.NewString(),
		PoolID:      input.PoolID,
		UserID:      input.UserID,
		Slots:       input.Slots,
		DeliveryFee: deliveryFee,
		Status:      domain.SubscriptionPending,
		ExpiresAt:   time.Now().Add(uc.reservationTTL),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	poolStatus, err := uc.subRepo.ReserveSlots(ctx, sub)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientSlots) {
			uc.metrics.ReservationsRejected.WithLabelValues("insufficient_slots").Inc()
		} else if errors.Is(err, domain.ErrPoolNotOpen) {
			uc.metrics.ReservationsRejected.WithLabelValues("pool_not_open").Inc()
		}
		return nil, err
	}

	uc.metrics.ReservationsTotal.WithLabelValues(input.PoolID).Inc()
	if poolStatus == domain.PoolFilled {
		uc.metrics.PoolsFilledTotal.Inc()
		go func(event publisher.PoolEvent) {
			if err := uc.publisher.PublishPool(event); err != nil {
				slog.Error("failed to publish pool event", "stage", "filled", "error", err.Error())
			}
		}(publisher.PoolEvent{
			Type:        publisher.EventPoolFilled,
			PoolID:      pool.ID,
			VendorID:    pool.VendorID,
			SlotsFilled: pool.SlotsCount,
			SlotsCount:  pool.SlotsCount,
		})
	}

	return &admissiondto.ReserveSlotsOutput{
		SubscriptionID: sub.ID,
		PoolStatus:     poolStatus,
		ExpiresAt:      sub.ExpiresAt,
	}, nil
}

// ReleaseReservation returns a PENDING reservation's capacity to the
// pool. It reports false when the subscription already left PENDING,
// which is how a confirmation that raced the reaper wins.
func (uc *DefaultAdmissionUsecase) ReleaseReservation(ctx context.Context, subscriptionID string) (bool, error) {
	return uc.subRepo.ReleaseReservation(ctx, subscriptionID)
}
