package escrow

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/poolmart/pool-settlement-service/internal/domain"
	publisher "github.com/poolmart/pool-settlement-service/internal/infrastructure/kafka"
	escrowdto "github.com/poolmart/pool-settlement-service/internal/usecase/dto/escrow"
)

// Release pays the vendor once delivery completed and no dispute is in
// flight. The gate lives inside the storage transaction; here we only
// translate the outcome and emit the event. Calling Release on an
// already-released pool is a no-op returning the stored figures.
func (uc *DefaultEscrowUsecase) Release(ctx context.Context, poolID, actor string) (*escrowdto.ReleaseResult, error) {
	escrow, already, err := uc.escrowRepo.Release(ctx, poolID)
	if err != nil {
		if errors.Is(err, domain.ErrReleaseBlocked) {
			uc.metrics.ReleaseBlockedTotal.WithLabelValues(blockReason(err)).Inc()
		}
		return nil, err
	}

	result := &escrowdto.ReleaseResult{
		PoolID:          poolID,
		ReleasedAmount:  escrow.ReleasedAmount,
		Commission:      escrow.Commission(),
		WithheldAmount:  escrow.WithheldAmount,
		AlreadyReleased: already,
	}
	if already {
		return result, nil
	}

	uc.metrics.EscrowReleasedTotal.Inc()
	uc.metrics.EscrowReleasedAmount.Add(float64(escrow.ReleasedAmount))
	slog.Info("escrow released",
		"pool_id", poolID,
		"actor", actor,
		"released_amount", escrow.ReleasedAmount,
		"withheld_amount", escrow.WithheldAmount,
	)

	go func(event publisher.EscrowEvent) {
		if err := uc.publisher.PublishEscrow(event); err != nil {
			slog.Error("failed to publish escrow event", "stage", "release", "error", err.Error())
		}
	}(publisher.EscrowEvent{
		Type:           publisher.EventEscrowReleased,
		PoolID:         poolID,
		ReleasedAmount: escrow.ReleasedAmount,
		WithheldAmount: escrow.WithheldAmount,
		TotalHeld:      escrow.TotalHeld,
	})

	return result, nil
}

func blockReason(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "dispute"):
		return "open_dispute"
	case strings.Contains(msg, "COMPLETED"):
		return "pool_not_completed"
	default:
		return "other"
	}
}
