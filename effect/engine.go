package effect

import (
	"time"

	"github.com/google/uuid"
	"github.com/lixenwraith/konami/engine/clock"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
)

// Range is a closed numeric interval
type Range struct {
	Min, Max float64
}

// Area is the rectangle particles spawn in, a zero-size area spawns at Min
type Area struct {
	Min, Max Vec
}

// Spec describes one batch to synthesize
type Spec struct {
	Count    int
	Palette  []colorful.Color
	Size     Range
	Lifetime time.Duration // batch is removed exactly this long after spawn
	Law      Law
	Area     Area

	// Velocity components: X uniform in [-HorizontalSpeed, HorizontalSpeed), Y uniform in Fall
	HorizontalSpeed float64
	Fall            Range

	// ShapeMix is the probability of a round particle, 0 means all square
	ShapeMix float64
}

// Batch is a set of particles spawned by one trigger sharing one deadline
type Batch struct {
	ID        uuid.UUID
	Spawned   time.Time
	Deadline  time.Time
	Law       Law
	Particles []Particle

	cleanup clock.Handle
}

// Engine synthesizes batches and removes each one through its own cleanup task
type Engine struct {
	sched   clock.Scheduler
	rng     Rand
	batches []*Batch // spawn order
	log     *zap.Logger
}

// NewEngine creates an engine that draws randomness from rng and schedules cleanup on sched
func NewEngine(sched clock.Scheduler, rng Rand, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		sched: sched,
		rng:   rng,
		log:   log,
	}
}

// SpawnBatch synthesizes spec.Count particles and registers the batch until its lifetime ends
func (e *Engine) SpawnBatch(spec Spec) *Batch {
	now := e.sched.Now()
	count := max(spec.Count, 0)

	size := spec.Size
	if size.Max < size.Min {
		size.Min, size.Max = size.Max, size.Min
	}
	fall := spec.Fall
	if fall.Max < fall.Min {
		fall.Min, fall.Max = fall.Max, fall.Min
	}

	b := &Batch{
		ID:        uuid.New(),
		Spawned:   now,
		Deadline:  now.Add(spec.Lifetime),
		Law:       spec.Law,
		Particles: make([]Particle, count),
	}

	for i := range b.Particles {
		p := Particle{ID: i, Spawned: now, Spin: 1}
		p.Size = uniform(e.rng, size.Min, size.Max)
		p.Origin.X = uniform(e.rng, spec.Area.Min.X, spec.Area.Max.X)
		p.Origin.Y = uniform(e.rng, spec.Area.Min.Y, spec.Area.Max.Y)
		p.Velocity.X = uniform(e.rng, -spec.HorizontalSpeed, spec.HorizontalSpeed)
		p.Velocity.Y = uniform(e.rng, fall.Min, fall.Max)
		p.Rotation = uniform(e.rng, 0, 360)
		if len(spec.Palette) > 0 {
			p.Color = spec.Palette[e.rng.IntN(len(spec.Palette))]
		}
		if e.rng.Float64() < 0.5 {
			p.Spin = -1
		}
		p.Round = e.rng.Float64() < spec.ShapeMix
		b.Particles[i] = p
	}

	b.cleanup = e.sched.Schedule(spec.Lifetime, func() { e.expire(b) })
	e.batches = append(e.batches, b)

	e.log.Debug("batch spawned",
		zap.Stringer("batch", b.ID),
		zap.Stringer("motion", spec.Law.Motion),
		zap.Int("particles", count),
		zap.Duration("lifetime", spec.Lifetime))
	return b
}

// expire removes b when its cleanup task fires
func (e *Engine) expire(b *Batch) {
	for i, cur := range e.batches {
		if cur == b {
			e.batches = append(e.batches[:i], e.batches[i+1:]...)
			e.log.Debug("batch expired", zap.Stringer("batch", b.ID))
			return
		}
	}
}

// Batches returns the live batches in spawn order
func (e *Engine) Batches() []*Batch {
	out := make([]*Batch, len(e.batches))
	copy(out, e.batches)
	return out
}

// Len returns the number of live batches
func (e *Engine) Len() int {
	return len(e.batches)
}

// Active projects every live particle at the scheduler's current time
func (e *Engine) Active() []Frame {
	now := e.sched.Now()

	n := 0
	for _, b := range e.batches {
		n += len(b.Particles)
	}
	frames := make([]Frame, 0, n)

	for _, b := range e.batches {
		elapsed := now.Sub(b.Spawned)
		for _, p := range b.Particles {
			frames = append(frames, p.Project(b.Law, elapsed))
		}
	}
	return frames
}

// Close cancels all cleanup tasks and drops every batch
func (e *Engine) Close() {
	for _, b := range e.batches {
		e.sched.Cancel(b.cleanup)
	}
	e.batches = nil
}
