// Package audio synthesizes the short cues played when a gesture fires
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

// speakerBuffer is the output latency of the speaker
const speakerBuffer = 100 * time.Millisecond

// SoundManager plays cues through one mixer on the system speaker
// Every method is safe to call before Initialize or after a failed Initialize
type SoundManager struct {
	mu          sync.Mutex
	cfg         Config
	mixer       *beep.Mixer
	initialized bool
	log         *zap.Logger
}

// NewSoundManager creates an uninitialized sound manager
func NewSoundManager(cfg Config, log *zap.Logger) *SoundManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &SoundManager{
		cfg:   cfg,
		mixer: &beep.Mixer{},
		log:   log,
	}
}

// Initialize opens the speaker, disabled config is a successful no-op
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || !sm.cfg.Enabled {
		return nil
	}

	rate := beep.SampleRate(sm.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(speakerBuffer)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	sm.log.Info("audio initialized", zap.Int("sample_rate", sm.cfg.SampleRate))
	return nil
}

// Play queues a cue on the mixer
func (sm *SoundManager) Play(s SoundType) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	streamer := GetSoundEffect(s, sm.cfg)
	if streamer == nil {
		return
	}

	speaker.Lock()
	sm.mixer.Add(streamer)
	speaker.Unlock()
	sm.log.Debug("cue played", zap.Stringer("sound", s))
}

// SetConfig swaps volumes for subsequent cues, sample rate changes need a restart
func (sm *SoundManager) SetConfig(cfg Config) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		cfg.SampleRate = sm.cfg.SampleRate
	}
	sm.cfg = cfg
}

// Initialized reports whether the speaker is open
func (sm *SoundManager) Initialized() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// Cleanup stops all sounds and closes the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()

	speaker.Clear()
	speaker.Close()
	sm.initialized = false
}
