// Package overlay shows transient acknowledgement panels with restart-on-retrigger dismissal
package overlay

import (
	"time"

	"github.com/lixenwraith/konami/engine/clock"
	"go.uber.org/zap"
)

// Content is the text shown by an overlay
type Content struct {
	Icon   string
	Title  string
	Body   string
	Footer string
}

// Session is the snapshot of a presenter's single session
type Session struct {
	Visible   bool
	Content   Content
	DismissAt time.Time
}

// Presenter owns the one session of an overlay type
// Overlays are display-only and never take pointer input
type Presenter struct {
	name    string
	sched   clock.Scheduler
	session Session
	dismiss clock.Handle
	log     *zap.Logger
}

// NewPresenter creates a hidden presenter, name identifies the overlay type in logs
func NewPresenter(name string, sched clock.Scheduler, log *zap.Logger) *Presenter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Presenter{
		name:  name,
		sched: sched,
		log:   log.With(zap.String("overlay", name)),
	}
}

// Show makes the overlay visible for d, replacing any pending dismissal
func (p *Presenter) Show(c Content, d time.Duration) {
	p.cancelDismiss()

	p.session = Session{
		Visible:   true,
		Content:   c,
		DismissAt: p.sched.Now().Add(d),
	}
	p.dismiss = p.sched.Schedule(d, func() {
		p.dismiss = 0
		p.session.Visible = false
		p.log.Debug("overlay dismissed")
	})
	p.log.Debug("overlay shown", zap.Time("dismiss_at", p.session.DismissAt))
}

// Hide dismisses immediately and cancels the pending dismissal
func (p *Presenter) Hide() {
	p.cancelDismiss()
	p.session.Visible = false
}

func (p *Presenter) cancelDismiss() {
	if p.dismiss != 0 {
		p.sched.Cancel(p.dismiss)
		p.dismiss = 0
	}
}

// Visible reports whether the overlay is shown
func (p *Presenter) Visible() bool {
	return p.session.Visible
}

// Session returns the current session state
func (p *Presenter) Session() Session {
	return p.session
}

// Name returns the overlay type
func (p *Presenter) Name() string {
	return p.name
}

// Close is teardown: hides and guarantees no dismissal callback runs afterwards
func (p *Presenter) Close() {
	p.Hide()
}
