package domain

import (
	"context"
	"time"
)

type DisputeStatus string

const (
	DisputeOpen     DisputeStatus = "OPEN"
	DisputeInReview DisputeStatus = "IN_REVIEW"
	DisputeResolved DisputeStatus = "RESOLVED"
	DisputeRejected DisputeStatus = "REJECTED"
)

type DisputeAction string

const (
	DisputeActionRefund  DisputeAction = "refund"
	DisputeActionRelease DisputeAction = "release"
	DisputeActionSplit   DisputeAction = "split"
)

// Dispute is a buyer-raised claim against a pool. An OPEN or IN_REVIEW
// dispute blocks escrow release; disputes are never deleted.
type Dispute struct {
	ID              string
	PoolID          string
	RaisedByUserID  string
	Reason          string
	EvidenceRefs    []string
	Status          DisputeStatus
	Action          DisputeAction
	ResolutionNotes string
	ResolvedAt      *time.Time
	// Distribution maps partyID -> amount, present only for split
	// resolutions. Its values sum exactly to the disputed amount.
	Distribution map[string]int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (d *Dispute) Active() bool {
	return d.Status == DisputeOpen || d.Status == DisputeInReview
}

func (d *Dispute) Terminal() bool {
	return d.Status == DisputeResolved || d.Status == DisputeRejected
}

type GetDisputesFilter struct {
	PoolID *string
	UserID *string
	Status *DisputeStatus
	Page   int
	Limit  int
}

type DisputeRepository interface {
	GetDisputeByID(ctx context.Context, disputeID string) (*Dispute, error)
	HasActiveDispute(ctx context.Context, poolID string) (bool, error)
	GetDisputes(ctx context.Context, filter GetDisputesFilter) ([]*Dispute, int64, error)
	UpdateDisputeStatus(ctx context.Context, disputeID string, status DisputeStatus) error
}
