package gesture

import (
	"errors"
	"time"

	"github.com/lixenwraith/konami/engine/clock"
	"go.uber.org/zap"
)

// ErrInvalidThreshold is returned for a click threshold below one
var ErrInvalidThreshold = errors.New("click threshold must be positive")

// DecayPolicy controls how accumulated clicks expire
type DecayPolicy struct {
	// IdleReset resets the count after this long without an activation, zero disables decay
	IdleReset time.Duration
}

// ClickCounter counts activations on a target and fires once the exact threshold is reached
type ClickCounter struct {
	threshold   int
	count       int
	onThreshold func()
	emit        func(x, y float64)

	policy   DecayPolicy
	sched    clock.Scheduler
	idleTask clock.Handle

	log *zap.Logger
}

// ClickCounterConfig bundles the counter's collaborators
type ClickCounterConfig struct {
	Threshold   int
	Policy      DecayPolicy
	Scheduler   clock.Scheduler    // required only when Policy.IdleReset > 0
	OnThreshold func()             // fired once per reached threshold
	Emit        func(x, y float64) // spawns the per-click feedback particle
	Logger      *zap.Logger
}

// NewClickCounter creates a counter from cfg
func NewClickCounter(cfg ClickCounterConfig) (*ClickCounter, error) {
	if cfg.Threshold < 1 {
		return nil, ErrInvalidThreshold
	}
	if cfg.Policy.IdleReset > 0 && cfg.Scheduler == nil {
		return nil, errors.New("idle reset requires a scheduler")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &ClickCounter{
		threshold:   cfg.Threshold,
		onThreshold: cfg.OnThreshold,
		emit:        cfg.Emit,
		policy:      cfg.Policy,
		sched:       cfg.Scheduler,
		log:         log,
	}, nil
}

// OnActivate records one activation at position (x, y)
func (c *ClickCounter) OnActivate(x, y float64) {
	if c.emit != nil {
		c.emit(x, y)
	}

	c.count++
	if c.count == c.threshold {
		c.count = 0
		c.cancelIdle()
		c.log.Info("click threshold reached", zap.Int("threshold", c.threshold))
		if c.onThreshold != nil {
			c.onThreshold()
		}
		return
	}

	c.armIdle()
}

// armIdle (re)schedules the decay reset
func (c *ClickCounter) armIdle() {
	if c.policy.IdleReset <= 0 {
		return
	}
	c.cancelIdle()
	c.idleTask = c.sched.Schedule(c.policy.IdleReset, func() {
		c.idleTask = 0
		if c.count > 0 {
			c.log.Debug("click count decayed", zap.Int("count", c.count))
		}
		c.count = 0
	})
}

func (c *ClickCounter) cancelIdle() {
	if c.idleTask != 0 {
		c.sched.Cancel(c.idleTask)
		c.idleTask = 0
	}
}

// Count returns activations accumulated since the last reset
func (c *ClickCounter) Count() int {
	return c.count
}

// Threshold returns the activation count that fires the trigger
func (c *ClickCounter) Threshold() int {
	return c.threshold
}

// Close cancels the pending decay task
func (c *ClickCounter) Close() {
	c.cancelIdle()
}
