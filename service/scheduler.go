package service

import (
	"time"

	"github.com/meta-betties/gatekeeper/model"
)

// Scheduler arms one removal timer per pending member. It guarantees a timer
// fires at most once; win-or-lose against a concurrent callback is decided by
// the pending table, not here.
type Scheduler struct{}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Deadline implements model.DeadlineHandle over a time.Timer.
type Deadline struct {
	timer *time.Timer
}

// Stop cancels the timer if it has not started firing yet.
func (d *Deadline) Stop() bool {
	return d.timer.Stop()
}

// Schedule invokes f after d on a timer goroutine and returns the handle
// owned by the pending entry.
func (s *Scheduler) Schedule(d time.Duration, f func()) *Deadline {
	return &Deadline{timer: time.AfterFunc(d, f)}
}

var _ model.DeadlineHandle = (*Deadline)(nil)
