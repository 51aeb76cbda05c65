package game

import (
	"math"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/sim"
)

const (
	ProjectileLifetime = 2.0 // seconds
	ProjectileRadius   = 4.0
)

// Projectile is a laser bolt fired by the ship or an enemy
type Projectile struct {
	body
	typ    sim.Type
	owner  string
	life   float64
	damage int
	world  World
}

func newProjectile(id string, typ sim.Type, owner string, from *body, angle, speed float64, damage int, world World) *Projectile {
	pos := sim.Point{
		X: from.pos.X + math.Cos(angle)*ProjectileOffset,
		Y: from.pos.Y + math.Sin(angle)*ProjectileOffset,
	}
	return &Projectile{
		body: body{
			id:   id,
			pos:  pos,
			prev: pos,
			vel: sim.Point{
				X: math.Cos(angle)*speed + from.vel.X*ProjectileInherit,
				Y: math.Sin(angle)*speed + from.vel.Y*ProjectileInherit,
			},
			rotation: angle,
			radius:   ProjectileRadius,
			alive:    true,
		},
		typ:    typ,
		owner:  owner,
		life:   ProjectileLifetime,
		damage: damage,
		world:  world,
	}
}

// Type is TypeProjectile for ship fire and TypeEnemyProjectile for enemy fire
func (p *Projectile) Type() sim.Type { return p.typ }

// Owner returns the id of the shooter
func (p *Projectile) Owner() string { return p.owner }

// Damage returns the HP the projectile removes on impact
func (p *Projectile) Damage() int { return p.damage }

// Update moves the projectile and expires it at the end of its lifetime
func (p *Projectile) Update(dt float64) {
	p.prev = p.pos
	if !p.alive {
		return
	}
	p.integrate(dt)
	p.pos = p.world.Wrap(p.pos)
	p.life -= dt
	if p.life <= 0 {
		p.alive = false
	}
}

func (p *Projectile) state() EntityState {
	st := p.body.state(p.typ)
	st.Owner = p.owner
	return st
}
