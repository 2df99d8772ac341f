package clock

import (
	"sort"
	"sync"
	"time"
)

type manualTask struct {
	handle Handle
	at     time.Time
	fn     func()
}

// ManualScheduler is a deterministic scheduler whose time only moves through Advance
// Used by tests and replays
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Time
	next  Handle
	tasks []*manualTask // sorted by deadline, then by handle
}

// NewManualScheduler creates a scheduler starting at the given time
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Now returns the current mocked time
func (m *ManualScheduler) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Schedule registers fn to run when time reaches now+delay
func (m *ManualScheduler) Schedule(delay time.Duration, fn func()) Handle {
	if delay < 0 {
		delay = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++
	task := &manualTask{handle: m.next, at: m.now.Add(delay), fn: fn}
	i := sort.Search(len(m.tasks), func(i int) bool {
		return task.at.Before(m.tasks[i].at)
	})
	m.tasks = append(m.tasks, nil)
	copy(m.tasks[i+1:], m.tasks[i:])
	m.tasks[i] = task
	return task.handle
}

// Cancel removes a pending task
func (m *ManualScheduler) Cancel(h Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, task := range m.tasks {
		if task.handle == h {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves time forward by d, running every task due in the window in deadline order
// While a task runs Now reports its deadline, so tasks it schedules are anchored correctly
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		if len(m.tasks) == 0 || m.tasks[0].at.After(target) {
			m.now = target
			m.mu.Unlock()
			return
		}
		task := m.tasks[0]
		m.tasks = m.tasks[1:]
		m.now = task.at
		m.mu.Unlock()

		task.fn()
	}
}

// Pending returns the number of scheduled tasks
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// NextDeadline returns the earliest pending deadline
func (m *ManualScheduler) NextDeadline() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.tasks) == 0 {
		return time.Time{}, false
	}
	return m.tasks[0].at, true
}
