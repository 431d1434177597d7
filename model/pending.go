package model

import "time"

// DeadlineHandle is the cancellation token of a scheduled removal timer.
// It is exclusively owned by the pending entry it was armed for; Stop is
// best-effort and reports whether the timer was prevented from firing.
type DeadlineHandle interface {
	Stop() bool
}

type PendingState int

const (
	// StateAwaitingResult means neither the callback nor the deadline has
	// resolved the member yet.
	StateAwaitingResult PendingState = iota
	// StateResolving means one of the two race arms won and the terminal
	// action is in flight.
	StateResolving
	// StateResolved means the terminal action completed and the entry is
	// about to be removed.
	StateResolved
)

// PendingVerification is one member currently mid-challenge. At most one
// exists per member id at any time.
type PendingVerification struct {
	MemberID    int64
	DisplayName string
	IssuedAt    time.Time
	Deadline    DeadlineHandle
	State       PendingState
}

const (
	SourceCallback = "callback"
	SourceTimeout  = "timeout"
)

// Outcome is produced by whichever race arm resolves a member and consumed
// exactly once by the coordinator. It is never persisted.
type Outcome struct {
	MemberID    int64
	Verified    bool
	DisplayName string
	Source      string
}
