// Package config loads konami settings from TOML or YAML with environment overrides
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lixenwraith/konami/audio"
	"github.com/lixenwraith/konami/effect"
	"github.com/lixenwraith/konami/gesture"
	"github.com/lixenwraith/konami/input"
	"github.com/lixenwraith/konami/overlay"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full program configuration
type Config struct {
	Sequence SequenceConfig `toml:"sequence" yaml:"sequence"`
	Clicker  ClickerConfig  `toml:"clicker" yaml:"clicker"`
	Confetti ConfettiConfig `toml:"confetti" yaml:"confetti"`
	Sparkle  SparkleConfig  `toml:"sparkle" yaml:"sparkle"`
	Overlay  OverlayConfig  `toml:"overlay" yaml:"overlay"`
	Display  DisplayConfig  `toml:"display" yaml:"display"`
	Audio    audio.Config   `toml:"audio" yaml:"audio"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

// SequenceConfig defines the secret key sequence
type SequenceConfig struct {
	Keys []string `toml:"keys" yaml:"keys"`
}

// ClickerConfig defines the logo click gesture
type ClickerConfig struct {
	Threshold int           `toml:"threshold" yaml:"threshold"`
	IdleReset time.Duration `toml:"idle_reset" yaml:"idle_reset"` // 0 keeps clicks forever
}

// ConfettiConfig tunes the sequence-match burst
type ConfettiConfig struct {
	Count           int           `toml:"count" yaml:"count"`
	Palette         []string      `toml:"palette" yaml:"palette"`
	SizeMin         float64       `toml:"size_min" yaml:"size_min"`
	SizeMax         float64       `toml:"size_max" yaml:"size_max"`
	Lifetime        time.Duration `toml:"lifetime" yaml:"lifetime"`
	Animate         time.Duration `toml:"animate" yaml:"animate"`
	HorizontalSpeed float64       `toml:"horizontal_speed" yaml:"horizontal_speed"`
	FallMin         float64       `toml:"fall_min" yaml:"fall_min"`
	FallMax         float64       `toml:"fall_max" yaml:"fall_max"`
	SpreadX         float64       `toml:"spread_x" yaml:"spread_x"`
	SpreadY         float64       `toml:"spread_y" yaml:"spread_y"`
	Drift           float64       `toml:"drift" yaml:"drift"`
}

// SparkleConfig tunes the per-click particle
type SparkleConfig struct {
	Color    string        `toml:"color" yaml:"color"`
	Size     float64       `toml:"size" yaml:"size"`
	Lifetime time.Duration `toml:"lifetime" yaml:"lifetime"`
	Animate  time.Duration `toml:"animate" yaml:"animate"`
	Rise     float64       `toml:"rise" yaml:"rise"`
}

// OverlayConfig sets how long acknowledgement panels stay up
type OverlayConfig struct {
	SequenceDuration time.Duration `toml:"sequence_duration" yaml:"sequence_duration"`
	ClickerDuration  time.Duration `toml:"clicker_duration" yaml:"clicker_duration"`
}

// DisplayConfig maps the pixel space of effects onto terminal cells
type DisplayConfig struct {
	Logo          string        `toml:"logo" yaml:"logo"`
	CellWidth     float64       `toml:"cell_width" yaml:"cell_width"`
	CellHeight    float64       `toml:"cell_height" yaml:"cell_height"`
	FrameInterval time.Duration `toml:"frame_interval" yaml:"frame_interval"`
	Background    string        `toml:"background" yaml:"background"`
}

// LogConfig selects log destination and level
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// Default returns the built-in configuration
func Default() *Config {
	confetti := effect.DefaultConfetti()
	sparkle := effect.DefaultSparkle()

	keys := make([]string, len(gesture.Konami))
	for i, t := range gesture.Konami {
		keys[i] = string(t)
	}

	return &Config{
		Sequence: SequenceConfig{Keys: keys},
		Clicker:  ClickerConfig{Threshold: 7},
		Confetti: ConfettiConfig{
			Count:           confetti.Count,
			Palette:         append([]string(nil), effect.DefaultConfettiPalette...),
			SizeMin:         confetti.Size.Min,
			SizeMax:         confetti.Size.Max,
			Lifetime:        confetti.Lifetime,
			Animate:         confetti.Animate,
			HorizontalSpeed: confetti.HorizontalSpeed,
			FallMin:         confetti.Fall.Min,
			FallMax:         confetti.Fall.Max,
			SpreadX:         confetti.Spread.X,
			SpreadY:         confetti.Spread.Y,
			Drift:           confetti.Drift,
		},
		Sparkle: SparkleConfig{
			Color:    effect.DefaultSparkleColor,
			Size:     sparkle.Size,
			Lifetime: sparkle.Lifetime,
			Animate:  sparkle.Animate,
			Rise:     sparkle.Rise,
		},
		Overlay: OverlayConfig{
			SequenceDuration: overlay.DefaultSequenceDuration,
			ClickerDuration:  overlay.DefaultClickerDuration,
		},
		Display: DisplayConfig{
			Logo:          "AB",
			CellWidth:     8,
			CellHeight:    16,
			FrameInterval: 16 * time.Millisecond,
			Background:    "#1a1b26",
		},
		Audio: audio.DefaultConfig(),
		Log:   LogConfig{Level: "info", File: "konami.log"},
	}
}

// ApplyEnvOverrides applies KONAMI_* environment variables
func (c *Config) ApplyEnvOverrides() {
	c.Audio.ApplyEnv()

	if v := os.Getenv("KONAMI_CLICK_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Clicker.Threshold = n
		}
	}
	if v := os.Getenv("KONAMI_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("KONAMI_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}

// Validate checks ranges and color syntax
func (c *Config) Validate() error {
	if len(c.Sequence.Keys) == 0 {
		return fmt.Errorf("%w: sequence.keys is empty", ErrInvalidConfig)
	}
	for _, tok := range c.SequenceTokens() {
		if input.IsQuitToken(tok) {
			return fmt.Errorf("%w: sequence.keys contains quit key %q", ErrInvalidConfig, tok)
		}
	}
	if c.Clicker.Threshold < 1 {
		return fmt.Errorf("%w: clicker.threshold must be positive, got %d", ErrInvalidConfig, c.Clicker.Threshold)
	}
	if c.Clicker.IdleReset < 0 {
		return fmt.Errorf("%w: clicker.idle_reset is negative", ErrInvalidConfig)
	}
	if c.Confetti.Count < 0 {
		return fmt.Errorf("%w: confetti.count is negative", ErrInvalidConfig)
	}
	if len(c.Confetti.Palette) == 0 {
		return fmt.Errorf("%w: confetti.palette is empty", ErrInvalidConfig)
	}
	if _, err := effect.ParsePalette(c.Confetti.Palette); err != nil {
		return fmt.Errorf("%w: confetti.palette: %v", ErrInvalidConfig, err)
	}
	if c.Confetti.SizeMin <= 0 || c.Confetti.SizeMax < c.Confetti.SizeMin {
		return fmt.Errorf("%w: confetti size range [%g, %g]", ErrInvalidConfig, c.Confetti.SizeMin, c.Confetti.SizeMax)
	}
	if c.Confetti.FallMin < 0 || c.Confetti.FallMax < c.Confetti.FallMin {
		return fmt.Errorf("%w: confetti fall range [%g, %g]", ErrInvalidConfig, c.Confetti.FallMin, c.Confetti.FallMax)
	}
	if c.Confetti.Lifetime <= 0 || c.Sparkle.Lifetime <= 0 {
		return fmt.Errorf("%w: effect lifetimes must be positive", ErrInvalidConfig)
	}
	if _, err := colorful.Hex(c.Sparkle.Color); err != nil {
		return fmt.Errorf("%w: sparkle.color: %v", ErrInvalidConfig, err)
	}
	if _, err := colorful.Hex(c.Display.Background); err != nil {
		return fmt.Errorf("%w: display.background: %v", ErrInvalidConfig, err)
	}
	if c.Overlay.SequenceDuration <= 0 || c.Overlay.ClickerDuration <= 0 {
		return fmt.Errorf("%w: overlay durations must be positive", ErrInvalidConfig)
	}
	if c.Display.CellWidth <= 0 || c.Display.CellHeight <= 0 {
		return fmt.Errorf("%w: display cell size must be positive", ErrInvalidConfig)
	}
	if c.Display.FrameInterval <= 0 {
		return fmt.Errorf("%w: display.frame_interval must be positive", ErrInvalidConfig)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: audio.sample_rate must be positive", ErrInvalidConfig)
	}
	return nil
}

// SequenceTokens returns the normalized target sequence
func (c *Config) SequenceTokens() []gesture.Token {
	return gesture.ParseSequence(c.Sequence.Keys)
}

// ConfettiPreset converts the confetti section, call after Validate
func (c *Config) ConfettiPreset() effect.ConfettiPreset {
	cc := c.Confetti
	animate := cc.Animate
	if animate <= 0 {
		animate = cc.Lifetime
	}
	palette, _ := effect.ParsePalette(cc.Palette)
	return effect.ConfettiPreset{
		Count:           cc.Count,
		Palette:         palette,
		Size:            effect.Range{Min: cc.SizeMin, Max: cc.SizeMax},
		Lifetime:        cc.Lifetime,
		Animate:         animate,
		HorizontalSpeed: cc.HorizontalSpeed,
		Fall:            effect.Range{Min: cc.FallMin, Max: cc.FallMax},
		Spread:          effect.Vec{X: cc.SpreadX, Y: cc.SpreadY},
		Drift:           cc.Drift,
	}
}

// SparklePreset converts the sparkle section, call after Validate
func (c *Config) SparklePreset() effect.SparklePreset {
	sc := c.Sparkle
	animate := sc.Animate
	if animate <= 0 {
		animate = sc.Lifetime
	}
	color, _ := colorful.Hex(sc.Color)
	return effect.SparklePreset{
		Color:    color,
		Size:     sc.Size,
		Lifetime: sc.Lifetime,
		Animate:  animate,
		Rise:     sc.Rise,
	}
}

// BackgroundColor returns the parsed display background, call after Validate
func (c *Config) BackgroundColor() colorful.Color {
	bg, _ := colorful.Hex(c.Display.Background)
	return bg
}
