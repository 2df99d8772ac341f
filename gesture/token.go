// Package gesture detects secret input gestures: exact key sequences and repeated activations
package gesture

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token is a single key identifier, either one character ("b") or a named key ("ArrowUp")
type Token string

// Named keys produced by the input layer
const (
	TokenUp        Token = "ArrowUp"
	TokenDown      Token = "ArrowDown"
	TokenLeft      Token = "ArrowLeft"
	TokenRight     Token = "ArrowRight"
	TokenEnter     Token = "Enter"
	TokenEscape    Token = "Escape"
	TokenTab       Token = "Tab"
	TokenBackspace Token = "Backspace"
	TokenSpace     Token = " "
)

// Konami is the classic up up down down left right left right b a sequence
var Konami = []Token{
	TokenUp, TokenUp, TokenDown, TokenDown,
	TokenLeft, TokenRight, TokenLeft, TokenRight,
	"b", "a",
}

// Normalize lowercases single-character alphabetic tokens, named keys pass through unchanged
func Normalize(t Token) Token {
	s := string(t)
	if utf8.RuneCountInString(s) != 1 {
		return t
	}
	r, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsLetter(r) {
		return t
	}
	return Token(strings.ToLower(s))
}

// ParseSequence converts configured strings into a normalized token sequence
func ParseSequence(keys []string) []Token {
	seq := make([]Token, len(keys))
	for i, k := range keys {
		seq[i] = Normalize(Token(k))
	}
	return seq
}

// Source is a token stream that supports scoped subscriptions
type Source interface {
	// Subscribe registers fn for every token and returns the release function
	Subscribe(fn func(Token)) (unsubscribe func())
}
