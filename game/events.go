package game

import "github.com/SEUNAKINTOLA/space-invaders-js-v73/sim"

// EventKind classifies gameplay events
type EventKind uint8

const (
	EventFire EventKind = iota + 1
	EventHit
	EventDestroyed
	EventPickup
	EventWaveStart
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventFire:
		return "fire"
	case EventHit:
		return "hit"
	case EventDestroyed:
		return "destroyed"
	case EventPickup:
		return "pickup"
	case EventWaveStart:
		return "wave_start"
	case EventGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Event is emitted from inside Step. Value carries the wave number for
// EventWaveStart, the final score for EventGameOver and awarded points for
// EventDestroyed.
type Event struct {
	Kind     EventKind
	Type     sim.Type
	ID       string
	Position sim.Point
	Value    int
}

// EventSink receives gameplay events. Emit runs with the game lock held and
// must not block or call back into the game.
type EventSink interface {
	Emit(Event)
}

// SinkFunc adapts a function to EventSink
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Sinks fans an event out to several sinks in order
type Sinks []EventSink

func (s Sinks) Emit(e Event) {
	for _, sink := range s {
		if sink != nil {
			sink.Emit(e)
		}
	}
}

type nopSink struct{}

func (nopSink) Emit(Event) {}
