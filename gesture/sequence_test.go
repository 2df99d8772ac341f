package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeSource records subscriptions and fans tokens out to live subscribers
type fakeSource struct {
	subs   map[int]func(Token)
	nextID int
}

func newFakeSource() *fakeSource {
	return &fakeSource{subs: make(map[int]func(Token))}
}

func (s *fakeSource) Subscribe(fn func(Token)) func() {
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *fakeSource) emit(tokens ...Token) {
	for _, t := range tokens {
		for _, fn := range s.subs {
			fn(t)
		}
	}
}

func newCountingDetector(t *testing.T, seq []Token) (*SequenceDetector, *int) {
	t.Helper()
	matches := 0
	d, err := NewSequenceDetector(seq, func() { matches++ }, zaptest.NewLogger(t))
	require.NoError(t, err)
	return d, &matches
}

func feed(d *SequenceDetector, tokens ...Token) {
	for _, tok := range tokens {
		d.OnToken(tok)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   Token
		want Token
	}{
		{"A", "a"},
		{"b", "b"},
		{"Ä", "ä"},
		{"1", "1"},
		{"?", "?"},
		{TokenUp, TokenUp},
		{"Enter", "Enter"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestSequenceDetectorEmpty(t *testing.T) {
	_, err := NewSequenceDetector(nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmptySequence)
}

func TestSequenceDetectorKonamiMatchesOnce(t *testing.T) {
	d, matches := newCountingDetector(t, Konami)

	feed(d, Konami...)
	assert.Equal(t, 1, *matches)
	assert.Empty(t, d.Buffer(), "buffer clears after a match")
}

func TestSequenceDetectorBackToBack(t *testing.T) {
	d, matches := newCountingDetector(t, Konami)

	feed(d, Konami...)
	feed(d, Konami...)
	assert.Equal(t, 2, *matches)
}

func TestSequenceDetectorUppercaseLetters(t *testing.T) {
	d, matches := newCountingDetector(t, Konami)

	feed(d, Konami[:8]...)
	feed(d, "B", "A")
	assert.Equal(t, 1, *matches)
}

func TestSequenceDetectorCorruptedAttemptSelfHeals(t *testing.T) {
	for pos := 1; pos < len(Konami); pos++ {
		d, matches := newCountingDetector(t, Konami)

		attempt := append([]Token{}, Konami[:pos]...)
		attempt = append(attempt, "x")
		attempt = append(attempt, Konami[pos:]...)
		feed(d, attempt...)
		assert.Equal(t, 0, *matches, "wrong token at %d must break the attempt", pos)

		feed(d, Konami...)
		assert.Equal(t, 1, *matches, "clean run after corruption at %d must match", pos)
	}
}

func TestSequenceDetectorOverlappingTail(t *testing.T) {
	d, matches := newCountingDetector(t, Konami)

	// Extra leading Up: the window slides past it
	feed(d, TokenUp)
	feed(d, Konami...)
	assert.Equal(t, 1, *matches)
}

func TestSequenceDetectorBufferCap(t *testing.T) {
	d, _ := newCountingDetector(t, Konami)

	for i := 0; i < 50; i++ {
		d.OnToken("z")
		assert.LessOrEqual(t, len(d.Buffer()), len(Konami))
	}
	assert.Len(t, d.Buffer(), len(Konami))
}

func TestSequenceDetectorBufferWindow(t *testing.T) {
	d, matches := newCountingDetector(t, []Token{"a", "b", "c"})

	feed(d, "x", "a", "b")
	assert.Equal(t, []Token{"x", "a", "b"}, d.Buffer())

	d.OnToken("d")
	assert.Equal(t, []Token{"a", "b", "d"}, d.Buffer())

	feed(d, "a", "b", "c")
	assert.Equal(t, 1, *matches)
	assert.Empty(t, d.Buffer())
}

func TestSequenceDetectorNormalizesPattern(t *testing.T) {
	d, matches := newCountingDetector(t, []Token{"Q", "w"})

	assert.Equal(t, []Token{"q", "w"}, d.Sequence())
	feed(d, "q", "W")
	assert.Equal(t, 1, *matches)
}

func TestSequenceDetectorSubscription(t *testing.T) {
	src := newFakeSource()
	d, matches := newCountingDetector(t, Konami)

	d.Start(src)
	d.Start(src)
	assert.True(t, d.Active())
	assert.Len(t, src.subs, 1, "double start must not subscribe twice")

	src.emit(Konami...)
	assert.Equal(t, 1, *matches)

	d.Stop()
	d.Stop()
	assert.False(t, d.Active())
	assert.Empty(t, src.subs, "stop releases the subscription")

	src.emit(Konami...)
	assert.Equal(t, 1, *matches, "no tokens reach a stopped detector")
}
