// Package effect synthesizes batches of randomized, self-expiring particles
package effect

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Vec is a point or displacement in pixel space
type Vec struct {
	X, Y float64
}

// Motion selects the animation law of a batch
type Motion uint8

const (
	// MotionFall drifts particles downward while spinning and shrinking (confetti)
	MotionFall Motion = iota
	// MotionRise floats a particle upward while it grows and fades (click sparkle)
	MotionRise
)

// String returns the motion name
func (m Motion) String() string {
	switch m {
	case MotionFall:
		return "Fall"
	case MotionRise:
		return "Rise"
	default:
		return "Unknown"
	}
}

// Particle is immutable after spawn, rendering derives everything from elapsed time
type Particle struct {
	ID       int
	Origin   Vec
	Velocity Vec
	Color    colorful.Color
	Size     float64
	Rotation float64 // degrees at spawn, [0, 360)
	Spin     float64 // +1 or -1
	Round    bool
	Spawned  time.Time
}

// Frame is the rendered projection of a particle at one instant
type Frame struct {
	X, Y     float64
	Size     float64
	Color    colorful.Color
	Rotation float64
	Opacity  float64
	Scale    float64
	Round    bool
	Motion   Motion
}

// Law carries the batch-wide animation parameters a particle is projected with
type Law struct {
	Motion  Motion
	Animate time.Duration // time to reach the final pose
	Spread  Vec           // velocity-to-displacement multipliers
	Drift   float64       // downward bias for Fall, upward travel for Rise
}

// easeOut is a cubic ease-out on [0, 1]
func easeOut(u float64) float64 {
	inv := 1 - u
	return 1 - inv*inv*inv
}

// progress maps elapsed time to [0, 1]
func progress(elapsed, animate time.Duration) float64 {
	if animate <= 0 || elapsed >= animate {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(animate)
}

// Project computes the particle's visual state after elapsed time under law
func (p Particle) Project(law Law, elapsed time.Duration) Frame {
	e := easeOut(progress(elapsed, law.Animate))

	f := Frame{
		Size:     p.Size,
		Color:    p.Color,
		Rotation: p.Rotation + p.Spin*360*e,
		Opacity:  1 - e,
		Round:    p.Round,
		Motion:   law.Motion,
	}
	switch law.Motion {
	case MotionRise:
		f.X = p.Origin.X + p.Velocity.X*law.Spread.X*e
		f.Y = p.Origin.Y - law.Drift*e
		f.Scale = 0.5 + 0.5*e
	default:
		f.X = p.Origin.X + p.Velocity.X*law.Spread.X*e
		f.Y = p.Origin.Y + p.Velocity.Y*law.Spread.Y*e + law.Drift*e
		f.Scale = 1 - e
	}
	return f
}
