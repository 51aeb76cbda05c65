package game

import (
	"math"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/sim"
)

// Default world size in world units
const (
	DefaultWorldWidth  = 2000.0
	DefaultWorldHeight = 1500.0
)

// World is the playfield. Ships, enemies and projectiles wrap at its edges;
// asteroids fly through and leave.
type World struct {
	Width  float64 `yaml:"width" msgpack:"w" json:"w"`
	Height float64 `yaml:"height" msgpack:"h" json:"h"`
}

// Bounds returns the world as a box anchored at the origin
func (w World) Bounds() sim.BoundingBox {
	return sim.BoundingBox{Width: w.Width, Height: w.Height}
}

// Center returns the middle of the world
func (w World) Center() sim.Point {
	return sim.Point{X: w.Width / 2, Y: w.Height / 2}
}

// Wrap folds p back onto the world torus
func (w World) Wrap(p sim.Point) sim.Point {
	if p.X < 0 {
		p.X += w.Width
	} else if p.X > w.Width {
		p.X -= w.Width
	}
	if p.Y < 0 {
		p.Y += w.Height
	} else if p.Y > w.Height {
		p.Y -= w.Height
	}
	return p
}

// Outside reports whether p lies more than margin beyond any edge
func (w World) Outside(p sim.Point, margin float64) bool {
	return p.X < -margin || p.X > w.Width+margin || p.Y < -margin || p.Y > w.Height+margin
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// turnToward rotates from toward target by at most maxTurn radians
func turnToward(from, target, maxTurn float64) float64 {
	diff := NormalizeAngle(target - from)
	if diff > maxTurn {
		diff = maxTurn
	} else if diff < -maxTurn {
		diff = -maxTurn
	}
	return from + diff
}

// clampSpeed scales v down to at most max
func clampSpeed(v sim.Point, max float64) sim.Point {
	speed := math.Hypot(v.X, v.Y)
	if speed > max {
		scale := max / speed
		v.X *= scale
		v.Y *= scale
	}
	return v
}

// body is the kinematic state shared by every arcade entity.
// prev holds the position at the start of the last step for interpolation.
type body struct {
	id       string
	pos      sim.Point
	prev     sim.Point
	vel      sim.Point
	rotation float64
	radius   float64
	alive    bool
}

func (b *body) ID() string { return b.id }
func (b *body) Position() sim.Point { return b.pos }
func (b *body) Velocity() sim.Point { return b.vel }
func (b *body) Rotation() float64 { return b.rotation }
func (b *body) Radius() float64 { return b.radius }
func (b *body) Alive() bool { return b.alive }
func (b *body) kill() { b.alive = false }
func (b *body) Bounds() sim.BoundingBox { return sim.BoxAround(b.pos, b.radius) }

func (b *body) integrate(dt float64) {
	b.pos.X += b.vel.X * dt
	b.pos.Y += b.vel.Y * dt
}

func (b *body) state(t sim.Type) EntityState {
	return EntityState{
		ID:    b.id,
		Type:  t.String(),
		X:     round1(b.pos.X),
		Y:     round1(b.pos.Y),
		PrevX: round1(b.prev.X),
		PrevY: round1(b.prev.Y),
		R:     math.Round(b.rotation*100) / 100,
		Alive: b.alive,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
