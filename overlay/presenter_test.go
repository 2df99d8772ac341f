package overlay

import (
	"testing"
	"time"

	"github.com/lixenwraith/konami/engine/clock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestPresenter(t *testing.T) (*Presenter, *clock.ManualScheduler) {
	t.Helper()
	sched := clock.NewManualScheduler(epoch)
	return NewPresenter("secret", sched, zaptest.NewLogger(t)), sched
}

func TestPresenterAutoDismiss(t *testing.T) {
	p, sched := newTestPresenter(t)
	assert.False(t, p.Visible())

	p.Show(SequenceFound, 5*time.Second)
	assert.True(t, p.Visible())
	assert.Equal(t, SequenceFound, p.Session().Content)
	assert.Equal(t, epoch.Add(5*time.Second), p.Session().DismissAt)

	sched.Advance(4999 * time.Millisecond)
	assert.True(t, p.Visible())
	sched.Advance(time.Millisecond)
	assert.False(t, p.Visible())
	assert.Equal(t, 0, sched.Pending())
}

func TestPresenterRetriggerRestartsWindow(t *testing.T) {
	p, sched := newTestPresenter(t)

	p.Show(SequenceFound, 5*time.Second)
	sched.Advance(2 * time.Second)
	p.Show(SequenceFound, 5*time.Second)

	assert.Equal(t, 1, sched.Pending(), "retrigger keeps a single dismiss task")
	assert.Equal(t, epoch.Add(7*time.Second), p.Session().DismissAt)

	sched.Advance(3 * time.Second) // t=5s, the first deadline
	assert.True(t, p.Visible())

	sched.Advance(2 * time.Second) // t=7s
	assert.False(t, p.Visible())
}

func TestPresenterHide(t *testing.T) {
	p, sched := newTestPresenter(t)

	p.Show(ClickerUnlocked(7), 4*time.Second)
	p.Hide()
	assert.False(t, p.Visible())
	assert.Equal(t, 0, sched.Pending())

	// Hide when hidden is harmless
	p.Hide()

	// Reusable after hide
	p.Show(ClickerUnlocked(7), time.Second)
	assert.True(t, p.Visible())
	sched.Advance(time.Second)
	assert.False(t, p.Visible())
}

func TestPresenterCloseLeavesNoTask(t *testing.T) {
	p, sched := newTestPresenter(t)

	p.Show(SequenceFound, time.Minute)
	p.Close()
	assert.Equal(t, 0, sched.Pending())
	assert.Equal(t, "secret", p.Name())
}

func TestClickerUnlockedMentionsThreshold(t *testing.T) {
	assert.Contains(t, ClickerUnlocked(9).Body, "9 times")
}
