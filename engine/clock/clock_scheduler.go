package clock

import (
	"sync"
	"time"
)

const dueQueueSize = 256

type timerTask struct {
	fn    func()
	timer *time.Timer
}

// ClockScheduler schedules tasks on wall-clock timers
// Timer goroutines never run callbacks; they post the handle to C() and the owner loop calls Dispatch
// A task cancelled between firing and dispatch is dropped
type ClockScheduler struct {
	mu      sync.Mutex
	next    Handle
	pending map[Handle]*timerTask

	due       chan Handle
	done      chan struct{}
	closeOnce sync.Once
	closed    bool
}

// NewClockScheduler creates a scheduler backed by time.AfterFunc
func NewClockScheduler() *ClockScheduler {
	return &ClockScheduler{
		pending: make(map[Handle]*timerTask),
		due:     make(chan Handle, dueQueueSize),
		done:    make(chan struct{}),
	}
}

// Now returns wall-clock time
func (s *ClockScheduler) Now() time.Time {
	return time.Now()
}

// Schedule registers fn to run after delay, returns zero handle if the scheduler is closed
func (s *ClockScheduler) Schedule(delay time.Duration, fn func()) Handle {
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0
	}

	s.next++
	h := s.next
	task := &timerTask{fn: fn}
	task.timer = time.AfterFunc(delay, func() { s.post(h) })
	s.pending[h] = task
	return h
}

// post hands a fired timer over to the owner loop, gives up once the scheduler is closed
func (s *ClockScheduler) post(h Handle) {
	select {
	case s.due <- h:
	case <-s.done:
	}
}

// Cancel stops a pending task
func (s *ClockScheduler) Cancel(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.pending[h]
	if !ok {
		return false
	}
	delete(s.pending, h)
	task.timer.Stop()
	return true
}

// C delivers due handles to the owner loop
func (s *ClockScheduler) C() <-chan Handle {
	return s.due
}

// Dispatch runs the task for h on the calling goroutine
func (s *ClockScheduler) Dispatch(h Handle) {
	s.mu.Lock()
	task, ok := s.pending[h]
	if ok {
		delete(s.pending, h)
	}
	s.mu.Unlock()

	if ok {
		task.fn()
	}
}

// Pending returns the number of scheduled tasks not yet dispatched or cancelled
func (s *ClockScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Close stops all timers and drops pending tasks, later Schedule calls are no-ops
func (s *ClockScheduler) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		for h, task := range s.pending {
			task.timer.Stop()
			delete(s.pending, h)
		}
		s.mu.Unlock()
		close(s.done)
	})
}
