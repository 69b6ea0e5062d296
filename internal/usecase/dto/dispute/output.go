package disputedto

import (
	"time"

	"github.com/poolmart/pool-settlement-service/internal/domain"
)

type ResolveDisputeOutput struct {
	DisputeID       string
	Status          domain.DisputeStatus
	Action          domain.DisputeAction
	DisputedAmount  int64
	ResolvedAt      *time.Time
	AlreadyResolved bool
}

type GetDisputesOutput struct {
	Disputes []*domain.Dispute
	Total    int64
}
