package disputedto

import "github.com/poolmart/pool-settlement-service/internal/domain"

type OpenDisputeInput struct {
	PoolID   string
	UserID   string
	Reason   string
	Evidence []string
}

type ResolveDisputeInput struct {
	DisputeID    string
	Action       domain.DisputeAction
	Distribution map[string]int64
	Notes        string
}

type GetDisputesInput struct {
	PoolID *string
	UserID *string
	Status *domain.DisputeStatus
	Page   int
	Limit  int
}
