package audio

import (
	"os"
	"strconv"
)

// Config holds audio settings
type Config struct {
	Enabled       bool    `toml:"enabled" yaml:"enabled"`
	MasterVolume  float64 `toml:"master_volume" yaml:"master_volume"`
	SampleRate    int     `toml:"sample_rate" yaml:"sample_rate"`
	ChimeVolume   float64 `toml:"chime_volume" yaml:"chime_volume"`
	SparkleVolume float64 `toml:"sparkle_volume" yaml:"sparkle_volume"`
	FanfareVolume float64 `toml:"fanfare_volume" yaml:"fanfare_volume"`
}

// DefaultConfig returns the default audio configuration
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		MasterVolume:  0.5,
		SampleRate:    44100,
		ChimeVolume:   1.0,
		SparkleVolume: 0.4,
		FanfareVolume: 0.8,
	}
}

// Volume returns the effective volume of a sound, master volume applied
func (c Config) Volume(s SoundType) float64 {
	var v float64
	switch s {
	case SoundChime:
		v = c.ChimeVolume
	case SoundSparkle:
		v = c.SparkleVolume
	case SoundFanfare:
		v = c.FanfareVolume
	}
	return clamp01(v) * clamp01(c.MasterVolume)
}

// ApplyEnv overrides fields from KONAMI_AUDIO_ENABLED, KONAMI_MASTER_VOLUME (0-100) and KONAMI_SAMPLE_RATE
// Malformed values are ignored
func (c *Config) ApplyEnv() {
	if enabled := os.Getenv("KONAMI_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			c.Enabled = val
		}
	}

	if volume := os.Getenv("KONAMI_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			c.MasterVolume = clamp01(float64(val) / 100.0)
		}
	}

	if sampleRate := os.Getenv("KONAMI_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			c.SampleRate = val
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
