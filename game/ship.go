package game

import (
	"math"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/sim"
)

const (
	ShipFriction      = 0.97 // velocity multiplier per step
	ShipBrake         = 0.95 // friction when the pointer sits on the ship
	ShipDeadZone      = 50.0 // pointer distance below which the ship brakes
	ShipSlowDistance  = 200.0
	ShipInvulnTime    = 1.0 // seconds of immunity after a hit
	ProjectileOffset  = 30.0
	ProjectileInherit = 0.3 // share of the shooter's velocity a projectile keeps
)

// Intent is the latest control input for the ship, in world coordinates
type Intent struct {
	TargetX float64 `msgpack:"mx" json:"mx"`
	TargetY float64 `msgpack:"my" json:"my"`
	Fire    bool    `msgpack:"fire" json:"fire"`
	Boost   bool    `msgpack:"boost" json:"boost"`
}

// Ship is the player's craft. It steers toward the intent target and dies for
// good when its HP runs out.
type Ship struct {
	body
	class  ShipClass
	hull   Hull
	world  World
	hp     int
	fireCD float64
	invuln float64
	intent Intent
}

// NewShip places a ship of the given class at the world centre
func NewShip(id string, class ShipClass, world World) *Ship {
	hull := class.Hull()
	c := world.Center()
	s := &Ship{
		body: body{
			id:       id,
			pos:      c,
			prev:     c,
			radius:   hull.Radius,
			rotation: -math.Pi / 2,
			alive:    true,
		},
		class:  class,
		hull:   hull,
		world:  world,
		hp:     hull.MaxHP,
		intent: Intent{TargetX: c.X, TargetY: c.Y},
	}
	return s
}

func (s *Ship) Type() sim.Type { return sim.TypeShip }

// Class returns the hull class
func (s *Ship) Class() ShipClass { return s.class }

// HP returns the remaining hit points
func (s *Ship) HP() int { return s.hp }

// MaxHP returns the hull's hit points
func (s *Ship) MaxHP() int { return s.hull.MaxHP }

// Invulnerable reports whether the ship ignores damage right now
func (s *Ship) Invulnerable() bool { return s.invuln > 0 }

// SetIntent replaces the control input
func (s *Ship) SetIntent(in Intent) { s.intent = in }

// Update moves the ship one step (dt in seconds)
func (s *Ship) Update(dt float64) {
	s.prev = s.pos
	if !s.alive {
		return
	}

	dx := s.intent.TargetX - s.pos.X
	dy := s.intent.TargetY - s.pos.Y
	// only re-aim when the target is far enough to give a stable angle
	if dx*dx+dy*dy > 25 {
		s.rotation = turnToward(s.rotation, math.Atan2(dy, dx), s.hull.TurnSpeed*dt)
	}

	accel := s.hull.Accel * dt
	if s.intent.Boost {
		accel *= s.hull.BoostMul
	}

	// ease off as the pointer approaches the ship
	dist := math.Hypot(dx, dy)
	speedFactor := 1.0
	if dist <= ShipDeadZone {
		speedFactor = 0
	} else if dist < ShipSlowDistance {
		speedFactor = (dist - ShipDeadZone) / (ShipSlowDistance - ShipDeadZone)
	}
	accel *= speedFactor

	s.vel.X += math.Cos(s.rotation) * accel
	s.vel.Y += math.Sin(s.rotation) * accel

	friction := ShipFriction
	if speedFactor < 1 {
		friction = ShipBrake + speedFactor*(ShipFriction-ShipBrake)
	}
	s.vel.X *= friction
	s.vel.Y *= friction

	maxSpeed := s.hull.MaxSpeed
	if s.intent.Boost {
		maxSpeed *= s.hull.BoostMul
	}
	s.vel = clampSpeed(s.vel, maxSpeed)

	s.integrate(dt)
	s.pos = s.world.Wrap(s.pos)

	if s.fireCD > 0 {
		s.fireCD -= dt
	}
	if s.invuln > 0 {
		s.invuln -= dt
	}
}

// CanFire reports whether the ship wants to and may fire this step
func (s *Ship) CanFire() bool {
	return s.alive && s.intent.Fire && s.fireCD <= 0
}

// Fire starts the cooldown and returns the volley
func (s *Ship) Fire(newID func() string) []*Projectile {
	s.fireCD = s.hull.FireCD
	n := max(s.hull.ProjCount, 1)
	out := make([]*Projectile, 0, n)
	for i := 0; i < n; i++ {
		angle := s.rotation
		if n > 1 {
			angle += -s.hull.ProjSpread/2 + s.hull.ProjSpread*float64(i)/float64(n-1)
		}
		out = append(out, newProjectile(newID(), sim.TypeProjectile, s.id, &s.body, angle,
			s.hull.ProjSpeed, s.hull.ProjDamage, s.world))
	}
	return out
}

// TakeDamage reduces HP and reports whether the ship died.
// Hits during the invulnerability window are ignored.
func (s *Ship) TakeDamage(dmg int) bool {
	if !s.alive || s.invuln > 0 || dmg <= 0 {
		return false
	}
	s.hp -= dmg
	if s.hp <= 0 {
		s.hp = 0
		s.alive = false
		return true
	}
	s.invuln = ShipInvulnTime
	return false
}

// Heal restores up to n HP
func (s *Ship) Heal(n int) {
	if !s.alive {
		return
	}
	s.hp = min(s.hp+n, s.hull.MaxHP)
}

func (s *Ship) state() EntityState {
	st := s.body.state(sim.TypeShip)
	st.HP = s.hp
	st.MaxHP = s.hull.MaxHP
	st.Boost = s.intent.Boost
	return st
}
