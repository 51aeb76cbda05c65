package game

import (
	"math"
	"math/rand/v2"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/sim"
)

const (
	AsteroidRadius   = 40.0
	AsteroidHP       = 60
	AsteroidMinSpeed = 60.0
	AsteroidMaxSpeed = 150.0
	AsteroidSpinMin  = 0.5
	AsteroidSpinMax  = 2.0
	AsteroidDamage   = 25
)

// Asteroid drifts in a straight line across the world without wrapping
type Asteroid struct {
	body
	spin  float64
	hp    int
	world World
}

// NewAsteroid spawns an asteroid just outside a random edge, aimed at the far half
func NewAsteroid(id string, world World, rng *rand.Rand) *Asteroid {
	a := &Asteroid{
		body:  body{id: id, radius: AsteroidRadius, alive: true},
		hp:    AsteroidHP,
		world: world,
	}
	speed := AsteroidMinSpeed + rng.Float64()*(AsteroidMaxSpeed-AsteroidMinSpeed)
	a.spin = AsteroidSpinMin + rng.Float64()*(AsteroidSpinMax-AsteroidSpinMin)
	if rng.Float64() < 0.5 {
		a.spin = -a.spin
	}

	w, h := world.Width, world.Height
	var target sim.Point
	switch rng.IntN(4) {
	case 0:
		a.pos = sim.Point{X: -AsteroidRadius, Y: rng.Float64() * h}
		target = sim.Point{X: w/2 + rng.Float64()*w/2, Y: rng.Float64() * h}
	case 1:
		a.pos = sim.Point{X: w + AsteroidRadius, Y: rng.Float64() * h}
		target = sim.Point{X: rng.Float64() * w / 2, Y: rng.Float64() * h}
	case 2:
		a.pos = sim.Point{X: rng.Float64() * w, Y: -AsteroidRadius}
		target = sim.Point{X: rng.Float64() * w, Y: h/2 + rng.Float64()*h/2}
	default:
		a.pos = sim.Point{X: rng.Float64() * w, Y: h + AsteroidRadius}
		target = sim.Point{X: rng.Float64() * w, Y: rng.Float64() * h / 2}
	}
	a.prev = a.pos

	angle := math.Atan2(target.Y-a.pos.Y, target.X-a.pos.X)
	a.vel = sim.Point{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed}
	a.rotation = rng.Float64() * 2 * math.Pi
	return a
}

func (a *Asteroid) Type() sim.Type { return sim.TypeAsteroid }

// Update drifts and spins the asteroid; it dies once fully off the map
func (a *Asteroid) Update(dt float64) {
	a.prev = a.pos
	if !a.alive {
		return
	}
	a.integrate(dt)
	a.rotation += a.spin * dt
	if a.world.Outside(a.pos, AsteroidRadius*2) {
		a.alive = false
	}
}

// TakeDamage chips the asteroid and reports whether it broke apart
func (a *Asteroid) TakeDamage(dmg int) bool {
	if !a.alive || dmg <= 0 {
		return false
	}
	a.hp -= dmg
	if a.hp <= 0 {
		a.hp = 0
		a.alive = false
		return true
	}
	return false
}

// Escaped reports whether the asteroid left the world rather than being destroyed
func (a *Asteroid) Escaped() bool {
	return !a.alive && a.hp > 0
}

func (a *Asteroid) state() EntityState {
	st := a.body.state(sim.TypeAsteroid)
	st.HP = a.hp
	st.MaxHP = AsteroidHP
	return st
}
