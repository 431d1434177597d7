package service

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerFiresOnce(t *testing.T) {
	sched := NewScheduler()
	var fired int32
	sched.Schedule(10*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&fired) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt32(&fired))
}

func TestSchedulerStopPreventsFiring(t *testing.T) {
	sched := NewScheduler()
	var fired int32
	handle := sched.Schedule(50*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })

	assert.True(t, handle.Stop())
	time.Sleep(150 * time.Millisecond)
	assert.EqualValues(t, 0, atomic.LoadInt32(&fired))
}

func TestSchedulerStopAfterFiringIsNoop(t *testing.T) {
	sched := NewScheduler()
	done := make(chan struct{})
	handle := sched.Schedule(time.Millisecond, func() { close(done) })

	<-done
	assert.False(t, handle.Stop())
}
