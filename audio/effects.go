package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveTriangle
)

// Cue timings
const (
	chimeDuration   = 600 * time.Millisecond
	chimeAttack     = 5 * time.Millisecond
	chimeRelease    = 550 * time.Millisecond
	sparkleDuration = 80 * time.Millisecond
	sparkleAttack   = 2 * time.Millisecond
	sparkleRelease  = 60 * time.Millisecond
	fanfareNote     = 110 * time.Millisecond
	fanfareLastNote = 400 * time.Millisecond
	fanfareAttack   = 4 * time.Millisecond
	fanfareRelease  = 60 * time.Millisecond
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a new oscillator for wave generation
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveTriangle:
			val = 1 - 4*math.Abs(o.phase-0.5)
		}

		samples[i][0] = val
		samples[i][1] = val

		// Keep phase in [0, 1)
		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope wraps s with an attack/sustain/release envelope
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := max(total-att-rel, 0)

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = max(float64(e.totalSamples-e.position)/float64(e.releaseSamples), 0)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s with a linear gain, zero gain is made silent since log2(0) is -Inf
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// tone is an enveloped oscillator
func tone(freq float64, d, attack, release time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewEnvelope(NewOscillator(freq, d, wave, rate), d, attack, release, rate)
}

// CreateChimeSound generates a bell-like ding with an octave overtone
func CreateChimeSound(cfg Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	// E6 fundamental, E7 overtone decaying faster
	fund := tone(1318.51, chimeDuration, chimeAttack, chimeRelease, WaveSine, rate)
	over := tone(2637.02, chimeDuration, chimeAttack, chimeRelease/2, WaveSine, rate)

	mixed := beep.Mix(newVolume(fund, 0.7), newVolume(over, 0.3))
	return newVolume(mixed, cfg.Volume(SoundChime))
}

// CreateSparkleSound generates a very short high blip for a click
func CreateSparkleSound(cfg Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	blip := tone(2093.0, sparkleDuration, sparkleAttack, sparkleRelease, WaveTriangle, rate)
	return newVolume(blip, cfg.Volume(SoundSparkle))
}

// CreateFanfareSound generates a rising C major arpeggio
func CreateFanfareSound(cfg Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	notes := []float64{523.25, 659.25, 783.99}
	seq := make([]beep.Streamer, 0, len(notes)+1)
	for _, f := range notes {
		seq = append(seq, tone(f, fanfareNote, fanfareAttack, fanfareRelease, WaveSquare, rate))
	}
	seq = append(seq, tone(1046.50, fanfareLastNote, fanfareAttack, fanfareLastNote/2, WaveSquare, rate))

	// Square waves are loud, keep them under the chime
	return newVolume(beep.Seq(seq...), 0.5*cfg.Volume(SoundFanfare))
}

// GetSoundEffect returns the streamer for the given cue, nil for unknown types
func GetSoundEffect(s SoundType, cfg Config) beep.Streamer {
	switch s {
	case SoundChime:
		return CreateChimeSound(cfg)
	case SoundSparkle:
		return CreateSparkleSound(cfg)
	case SoundFanfare:
		return CreateFanfareSound(cfg)
	default:
		return nil
	}
}
