package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// waitDue reads the next due handle or fails after timeout
func waitDue(t *testing.T, s *ClockScheduler) Handle {
	t.Helper()
	select {
	case h := <-s.C():
		return h
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for due task")
		return 0
	}
}

func TestClockSchedulerDispatchRunsOnCaller(t *testing.T) {
	s := NewClockScheduler()
	defer s.Close()

	ran := 0
	h := s.Schedule(5*time.Millisecond, func() { ran++ })
	require.NotZero(t, h)
	assert.Equal(t, 1, s.Pending())

	got := waitDue(t, s)
	assert.Equal(t, h, got)
	assert.Equal(t, 0, ran, "timer goroutine must not run the callback")

	s.Dispatch(got)
	assert.Equal(t, 1, ran)
	assert.Equal(t, 0, s.Pending())

	// Second dispatch of the same handle is a no-op
	s.Dispatch(got)
	assert.Equal(t, 1, ran)
}

func TestClockSchedulerCancelBeforeFire(t *testing.T) {
	s := NewClockScheduler()
	defer s.Close()

	h := s.Schedule(time.Hour, func() { t.Error("cancelled task ran") })
	assert.True(t, s.Cancel(h))
	assert.False(t, s.Cancel(h), "double cancel reports false")
	assert.False(t, s.Cancel(0))
	assert.Equal(t, 0, s.Pending())
}

func TestClockSchedulerCancelAfterFireBeforeDispatch(t *testing.T) {
	s := NewClockScheduler()
	defer s.Close()

	h := s.Schedule(time.Millisecond, func() { t.Error("task cancelled before dispatch ran") })
	got := waitDue(t, s)
	require.Equal(t, h, got)

	assert.True(t, s.Cancel(h))
	s.Dispatch(got)
}

func TestClockSchedulerCloseDropsPending(t *testing.T) {
	s := NewClockScheduler()

	for range 10 {
		s.Schedule(time.Hour, func() { t.Error("task ran after close") })
	}
	assert.Equal(t, 10, s.Pending())

	s.Close()
	s.Close()
	assert.Equal(t, 0, s.Pending())
	assert.Zero(t, s.Schedule(time.Millisecond, func() {}), "schedule after close returns zero handle")
}

func TestClockSchedulerCloseUnblocksFiredTimers(t *testing.T) {
	s := NewClockScheduler()

	// Fill the due queue past capacity without draining it
	for range dueQueueSize + 8 {
		s.Schedule(0, func() {})
	}
	time.Sleep(50 * time.Millisecond)

	// Blocked post goroutines must exit on close, goleak verifies
	s.Close()
}

func TestClockSchedulerNegativeDelay(t *testing.T) {
	s := NewClockScheduler()
	defer s.Close()

	ran := false
	h := s.Schedule(-time.Second, func() { ran = true })
	s.Dispatch(waitDue(t, s))
	assert.True(t, ran)
	assert.False(t, s.Cancel(h))
}
