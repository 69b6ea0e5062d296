package admission

import (
	"context"
	"log/slog"
	"time"
)

// ExpireReservations is one reaper pass: every PENDING subscription
// past its deadline gets its capacity returned. Each cancellation is
// its own conditional transaction, so a confirmation landing between
// the scan and the cancel keeps its slots.
func (uc *DefaultAdmissionUsecase) ExpireReservations(ctx context.Context) error {
	expired, err := uc.subRepo.FindExpiredPending(ctx, time.Now())
	if err != nil {
		return err
	}
	for _, sub := range expired {
		released, err := uc.subRepo.ReleaseReservation(ctx, sub.ID)
		if err != nil {
			slog.Error("failed to expire reservation", "subscription_id", sub.ID, "error", err.Error())
			continue
		}
		if released {
			uc.metrics.ReservationsExpired.Inc()
			slog.Info("reservation expired", "subscription_id", sub.ID, "pool_id", sub.PoolID, "slots", sub.Slots)
		}
	}
	return nil
}
