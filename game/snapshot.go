package game

import "github.com/SEUNAKINTOLA/space-invaders-js-v73/sim"

// EntityState is one entity as the renderer sees it. PrevX/PrevY is the
// position at the start of the last fixed step.
type EntityState struct {
	ID    string  `msgpack:"id" json:"id"`
	Type  string  `msgpack:"t" json:"t"`
	X     float64 `msgpack:"x" json:"x"`
	Y     float64 `msgpack:"y" json:"y"`
	PrevX float64 `msgpack:"px" json:"px"`
	PrevY float64 `msgpack:"py" json:"py"`
	R     float64 `msgpack:"r" json:"r"`
	HP    int     `msgpack:"hp,omitempty" json:"hp,omitempty"`
	MaxHP int     `msgpack:"mhp,omitempty" json:"mhp,omitempty"`
	Owner string  `msgpack:"o,omitempty" json:"o,omitempty"`
	Boost bool    `msgpack:"b,omitempty" json:"b,omitempty"`
	Alive bool    `msgpack:"a" json:"a"`
}

// Lerp returns the render position for alpha in [0,1). A step that wrapped
// around the world edge snaps to the current position.
func (s EntityState) Lerp(alpha float64, world World) sim.Point {
	dx := s.X - s.PrevX
	dy := s.Y - s.PrevY
	if dx > world.Width/2 || -dx > world.Width/2 || dy > world.Height/2 || -dy > world.Height/2 {
		return sim.Point{X: s.X, Y: s.Y}
	}
	return sim.Point{X: s.PrevX + dx*alpha, Y: s.PrevY + dy*alpha}
}

// Snapshot is a read-only copy of the game for renderers
type Snapshot struct {
	Tick      uint64        `msgpack:"tick" json:"tick"`
	Alpha     float64       `msgpack:"alpha" json:"alpha"`
	Score     int           `msgpack:"sc" json:"sc"`
	HighScore int           `msgpack:"hs" json:"hs"`
	Wave      int           `msgpack:"wv" json:"wv"`
	Over      bool          `msgpack:"over" json:"over"`
	World     World         `msgpack:"world" json:"world"`
	Ship      EntityState   `msgpack:"ship" json:"ship"`
	Entities  []EntityState `msgpack:"ents" json:"ents"`
}

// stater is implemented by every arcade entity
type stater interface {
	state() EntityState
}
