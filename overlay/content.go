package overlay

import (
	"fmt"
	"time"
)

// SequenceFound is the overlay for a matched key sequence
var SequenceFound = Content{
	Icon:   "🎉",
	Title:  "You found the secret!",
	Body:   "You've unlocked the legendary Konami Code. You're clearly a person of culture.",
	Footer: "↑ ↑ ↓ ↓ ← → ← → B A",
}

// ClickerUnlocked is the overlay for reaching the click threshold
func ClickerUnlocked(threshold int) Content {
	return Content{
		Icon:  "🚀",
		Title: "Achievement Unlocked!",
		Body:  fmt.Sprintf("You clicked the logo %d times. You're persistent, I like that!", threshold),
	}
}

const (
	DefaultSequenceDuration = 5 * time.Second
	DefaultClickerDuration  = 4 * time.Second
)
