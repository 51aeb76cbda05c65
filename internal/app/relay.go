package app

import (
	"sync"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/game"
)

// relay is the game's event sink. Hosts attach their sinks after the game
// exists, which lets the hub take the game as its controls.
type relay struct {
	mu    sync.RWMutex
	sinks game.Sinks
}

func newRelay() *relay { return &relay{} }

func (r *relay) attach(s game.EventSink) {
	r.mu.Lock()
	r.sinks = append(r.sinks, s)
	r.mu.Unlock()
}

func (r *relay) Emit(e game.Event) {
	r.mu.RLock()
	sinks := r.sinks
	r.mu.RUnlock()
	sinks.Emit(e)
}
