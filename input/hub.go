// Package input turns terminal key events into gesture tokens and fans them out to subscribers
package input

import (
	"github.com/lixenwraith/konami/gesture"
)

type subscriber struct {
	id int
	fn func(gesture.Token)
}

// Hub is the process-wide token source
// Subscribers receive tokens in subscription order on the publishing goroutine
type Hub struct {
	subs   []subscriber
	nextID int
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers fn and returns its release function, release is idempotent
func (h *Hub) Subscribe(fn func(gesture.Token)) func() {
	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, subscriber{id: id, fn: fn})

	return func() {
		for i, s := range h.subs {
			if s.id == id {
				h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers t to every subscriber present when Publish was called
func (h *Hub) Publish(t gesture.Token) {
	// Snapshot so handlers may unsubscribe while being called
	subs := h.subs
	for _, s := range subs {
		s.fn(t)
	}
}

// Len returns the number of live subscriptions
func (h *Hub) Len() int {
	return len(h.subs)
}
