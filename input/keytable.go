package input

import (
	"slices"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/konami/gesture"
)

// keyToToken maps non-rune keys to their token names
var keyToToken = map[tcell.Key]gesture.Token{
	tcell.KeyUp:         gesture.TokenUp,
	tcell.KeyDown:       gesture.TokenDown,
	tcell.KeyLeft:       gesture.TokenLeft,
	tcell.KeyRight:      gesture.TokenRight,
	tcell.KeyEnter:      gesture.TokenEnter,
	tcell.KeyEscape:     gesture.TokenEscape,
	tcell.KeyTab:        gesture.TokenTab,
	tcell.KeyBackspace:  gesture.TokenBackspace,
	tcell.KeyBackspace2: gesture.TokenBackspace,
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PageUp",
	tcell.KeyPgDn:       "PageDown",
	tcell.KeyInsert:     "Insert",
	tcell.KeyDelete:     "Delete",
	tcell.KeyF1:         "F1",
	tcell.KeyF2:         "F2",
	tcell.KeyF3:         "F3",
	tcell.KeyF4:         "F4",
	tcell.KeyF5:         "F5",
	tcell.KeyF6:         "F6",
	tcell.KeyF7:         "F7",
	tcell.KeyF8:         "F8",
	tcell.KeyF9:         "F9",
	tcell.KeyF10:        "F10",
	tcell.KeyF11:        "F11",
	tcell.KeyF12:        "F12",
}

// KeyToken converts a key event into a token
// Returns false for keys without a token (control chords other than the named ones)
func KeyToken(ev *tcell.EventKey) (gesture.Token, bool) {
	if ev.Key() == tcell.KeyRune {
		return gesture.Token(string(ev.Rune())), true
	}
	t, ok := keyToToken[ev.Key()]
	return t, ok
}

// quitKeys end the session before any token is published
var quitKeys = []tcell.Key{tcell.KeyCtrlC, tcell.KeyCtrlQ, tcell.KeyEscape}

// IsQuit reports whether the event requests exit
func IsQuit(ev *tcell.EventKey) bool {
	return slices.Contains(quitKeys, ev.Key())
}

// IsQuitToken reports whether t names a key that IsQuit consumes, such a token never reaches subscribers
func IsQuitToken(t gesture.Token) bool {
	for _, k := range quitKeys {
		if tok, ok := keyToToken[k]; ok && tok == t {
			return true
		}
	}
	return false
}
