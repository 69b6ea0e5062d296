package escrowdto

// EscrowView is the display shape consumed by external collaborators;
// a pure read, never trusted back.
type EscrowView struct {
	PoolID         string
	TotalHeld      int64
	ReleasedAmount int64
	WithheldAmount int64
	NetForVendor   int64
	Released       bool
}

type ReleaseResult struct {
	PoolID          string
	ReleasedAmount  int64
	Commission      int64
	WithheldAmount  int64
	AlreadyReleased bool
}
