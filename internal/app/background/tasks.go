package background

import (
	"context"
	"log"
	"time"

	"github.com/poolmart/pool-settlement-service/internal/usecase/admission"
	"github.com/poolmart/pool-settlement-service/internal/usecase/payment"
)

// StartReservationReaper periodically returns expired PENDING
// reservations to their pools. It runs independently of request
// handling; a confirmation racing the reaper wins inside the
// conditional cancel transaction.
func StartReservationReaper(ctx context.Context, uc admission.AdmissionUsecase, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := uc.ExpireReservations(ctx); err != nil {
				log.Printf("reservation reaper error: %v", err)
			}
		}
	}
}

// StartStaleIntentSweep re-verifies abandoned checkouts against the
// gateway so their final state is settled one way or the other.
func StartStaleIntentSweep(ctx context.Context, uc payment.PaymentUsecase, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := uc.SweepStaleIntents(ctx); err != nil {
				log.Printf("stale intent sweep error: %v", err)
			}
		}
	}
}
