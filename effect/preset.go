package effect

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Default confetti parameters
var (
	DefaultConfettiPalette = []string{"#fb923c", "#fbbf24", "#f97316", "#facc15", "#ef4444", "#fcd34d"}
	DefaultSparkleColor    = "#fde68a"
)

const (
	DefaultConfettiCount    = 150
	DefaultConfettiLifetime = 2500 * time.Millisecond
	DefaultSparkleLifetime  = 1000 * time.Millisecond
	DefaultSparkleAnimate   = 600 * time.Millisecond
	DefaultSparkleRise      = 50.0
	DefaultSparkleSize      = 16.0
	confettiSpawnY          = -20.0
)

// ConfettiPreset holds the tunable parts of the sequence-match burst
type ConfettiPreset struct {
	Count           int
	Palette         []colorful.Color
	Size            Range
	Lifetime        time.Duration
	Animate         time.Duration
	HorizontalSpeed float64
	Fall            Range
	Spread          Vec
	Drift           float64
}

// DefaultConfetti returns the stock confetti preset
func DefaultConfetti() ConfettiPreset {
	return ConfettiPreset{
		Count:           DefaultConfettiCount,
		Palette:         MustPalette(DefaultConfettiPalette),
		Size:            Range{Min: 4, Max: 16},
		Lifetime:        DefaultConfettiLifetime,
		Animate:         DefaultConfettiLifetime,
		HorizontalSpeed: 1,
		Fall:            Range{Min: 0.5, Max: 1},
		Spread:          Vec{X: 150, Y: 300},
		Drift:           500,
	}
}

// Spec builds a confetti batch spanning the top edge of a width-pixel wide surface
func (c ConfettiPreset) Spec(width float64) Spec {
	return Spec{
		Count:    c.Count,
		Palette:  c.Palette,
		Size:     c.Size,
		Lifetime: c.Lifetime,
		Law: Law{
			Motion:  MotionFall,
			Animate: c.Animate,
			Spread:  c.Spread,
			Drift:   c.Drift,
		},
		Area: Area{
			Min: Vec{X: 0, Y: confettiSpawnY},
			Max: Vec{X: width, Y: confettiSpawnY},
		},
		HorizontalSpeed: c.HorizontalSpeed,
		Fall:            c.Fall,
		ShapeMix:        0.5,
	}
}

// SparklePreset holds the tunable parts of the per-click particle
type SparklePreset struct {
	Color    colorful.Color
	Size     float64
	Lifetime time.Duration
	Animate  time.Duration
	Rise     float64
}

// DefaultSparkle returns the stock sparkle preset
func DefaultSparkle() SparklePreset {
	c, _ := colorful.Hex(DefaultSparkleColor)
	return SparklePreset{
		Color:    c,
		Size:     DefaultSparkleSize,
		Lifetime: DefaultSparkleLifetime,
		Animate:  DefaultSparkleAnimate,
		Rise:     DefaultSparkleRise,
	}
}

// Spec builds a single-particle batch anchored at origin
func (s SparklePreset) Spec(origin Vec) Spec {
	return Spec{
		Count:    1,
		Palette:  []colorful.Color{s.Color},
		Size:     Range{Min: s.Size, Max: s.Size},
		Lifetime: s.Lifetime,
		Law: Law{
			Motion:  MotionRise,
			Animate: s.Animate,
			Drift:   s.Rise,
		},
		Area: Area{Min: origin, Max: origin},
	}
}

// ParsePalette converts hex strings to colors
func ParsePalette(hexes []string) ([]colorful.Color, error) {
	out := make([]colorful.Color, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// MustPalette is ParsePalette for compile-time constants
func MustPalette(hexes []string) []colorful.Color {
	p, err := ParsePalette(hexes)
	if err != nil {
		panic(err)
	}
	return p
}
