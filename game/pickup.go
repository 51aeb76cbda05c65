package game

import (
	"math/rand/v2"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/sim"
)

const (
	PickupRadius  = 15.0
	PickupHeal    = 20
	PickupTimeout = 30.0 // seconds
)

// Pickup is a heal orb that expires if nobody collects it
type Pickup struct {
	body
	life float64
	heal int
}

// NewPickup places an orb at a random spot away from the edges
func NewPickup(id string, world World, rng *rand.Rand) *Pickup {
	pos := sim.Point{
		X: 50 + rng.Float64()*(world.Width-100),
		Y: 50 + rng.Float64()*(world.Height-100),
	}
	return &Pickup{
		body: body{id: id, pos: pos, prev: pos, radius: PickupRadius, alive: true},
		life: PickupTimeout,
		heal: PickupHeal,
	}
}

func (p *Pickup) Type() sim.Type { return sim.TypePickup }

// Heal returns the HP the orb restores
func (p *Pickup) Heal() int { return p.heal }

// Update ticks down the lifetime
func (p *Pickup) Update(dt float64) {
	p.prev = p.pos
	if !p.alive {
		return
	}
	p.life -= dt
	if p.life <= 0 {
		p.alive = false
	}
}

func (p *Pickup) state() EntityState {
	return p.body.state(sim.TypePickup)
}
