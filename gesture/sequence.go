package gesture

import (
	"errors"
	"slices"

	"go.uber.org/zap"
)

// ErrEmptySequence is returned when a detector is built without a target sequence
var ErrEmptySequence = errors.New("gesture sequence is empty")

// SequenceDetector matches the most recent tokens against a fixed sequence using a sliding window
// The window holds at most len(sequence) tokens; a match clears it so matches never overlap
type SequenceDetector struct {
	sequence []Token
	buffer   []Token
	onMatch  func()

	unsubscribe func()
	log         *zap.Logger
}

// NewSequenceDetector creates a detector for sequence, onMatch runs once per completed match
func NewSequenceDetector(sequence []Token, onMatch func(), log *zap.Logger) (*SequenceDetector, error) {
	if len(sequence) == 0 {
		return nil, ErrEmptySequence
	}
	if log == nil {
		log = zap.NewNop()
	}

	normalized := make([]Token, len(sequence))
	for i, t := range sequence {
		normalized[i] = Normalize(t)
	}

	return &SequenceDetector{
		sequence: normalized,
		buffer:   make([]Token, 0, len(normalized)+1),
		onMatch:  onMatch,
		log:      log,
	}, nil
}

// Start subscribes to src, no-op when already started
func (d *SequenceDetector) Start(src Source) {
	if d.unsubscribe != nil {
		return
	}
	d.unsubscribe = src.Subscribe(d.OnToken)
	d.log.Debug("sequence detector started", zap.Int("length", len(d.sequence)))
}

// Stop releases the subscription, no-op when not started
func (d *SequenceDetector) Stop() {
	if d.unsubscribe == nil {
		return
	}
	d.unsubscribe()
	d.unsubscribe = nil
	d.log.Debug("sequence detector stopped")
}

// OnToken feeds one token into the window
func (d *SequenceDetector) OnToken(t Token) {
	d.buffer = append(d.buffer, Normalize(t))

	k := len(d.sequence)
	if n := len(d.buffer); n > k {
		copy(d.buffer, d.buffer[n-k:])
		d.buffer = d.buffer[:k]
	}

	if !slices.Equal(d.buffer, d.sequence) {
		return
	}

	d.buffer = d.buffer[:0]
	d.log.Info("sequence matched")
	if d.onMatch != nil {
		d.onMatch()
	}
}

// Buffer returns a copy of the current window
func (d *SequenceDetector) Buffer() []Token {
	return slices.Clone(d.buffer)
}

// Sequence returns a copy of the normalized target sequence
func (d *SequenceDetector) Sequence() []Token {
	return slices.Clone(d.sequence)
}

// Active reports whether the detector holds a subscription
func (d *SequenceDetector) Active() bool {
	return d.unsubscribe != nil
}
