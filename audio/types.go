package audio

// SoundType represents different sound cues
type SoundType int

const (
	SoundChime   SoundType = iota // Key sequence matched
	SoundSparkle                  // Logo clicked
	SoundFanfare                  // Click threshold reached
	soundTypeCount
)

// String returns the sound name used in config and logs
func (s SoundType) String() string {
	switch s {
	case SoundChime:
		return "chime"
	case SoundSparkle:
		return "sparkle"
	case SoundFanfare:
		return "fanfare"
	default:
		return "unknown"
	}
}
