package game

import (
	"math"
	"math/rand/v2"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/sim"
)

const (
	EnemyRadius       = 20.0
	EnemyBaseHP       = 60
	EnemySpeed        = 180.0
	EnemyAccel        = 200.0
	EnemyFriction     = 0.96
	EnemyTurnSpeed    = 4.0
	EnemyDetectRange  = 900.0
	EnemyShootRange   = 700.0
	EnemyOptimalRange = 400.0 // preferred combat distance
	EnemyWanderDrift  = 1.0   // max radians/s the wander heading drifts
	EnemyWanderTurn   = 1.5
	EnemyStrafeMin    = 1.5 // seconds before the strafe direction may flip
	EnemyStrafeMax    = 3.5
	EnemyBurstSize    = 5
	EnemyBurstRate    = 0.15 // seconds between shots in a burst
	EnemyBurstCD      = 5.0  // seconds between bursts
	EnemyProjSpeed    = 600.0
	EnemyProjDamage   = 10
	EnemyRamDamage    = 30
)

// Multipliers scale enemy stats for the current wave
type Multipliers struct {
	HP       float64
	Speed    float64
	FireRate float64
}

// Enemy is an AI ship that hunts the player: it approaches to a preferred
// range, circle-strafes and fires in bursts.
type Enemy struct {
	body
	target *Ship
	world  World
	rng    *rand.Rand
	mul    Multipliers

	hp, maxHP   int
	wander      float64
	strafeDir   float64
	strafeTimer float64
	burstLeft   int
	fireCD      float64
	burstCD     float64
	wantFire    bool
}

// NewEnemy spawns an enemy on a random world edge facing the centre.
// Multipliers are applied once here.
func NewEnemy(id string, target *Ship, world World, mul Multipliers, rng *rand.Rand) *Enemy {
	e := &Enemy{
		body:   body{id: id, radius: EnemyRadius, alive: true},
		target: target,
		world:  world,
		rng:    rng,
		mul:    mul,
	}
	e.maxHP = max(1, int(math.Round(EnemyBaseHP*mul.HP)))
	e.hp = e.maxHP

	switch rng.IntN(4) {
	case 0:
		e.pos = sim.Point{X: 0, Y: rng.Float64() * world.Height}
	case 1:
		e.pos = sim.Point{X: world.Width, Y: rng.Float64() * world.Height}
	case 2:
		e.pos = sim.Point{X: rng.Float64() * world.Width, Y: 0}
	default:
		e.pos = sim.Point{X: rng.Float64() * world.Width, Y: world.Height}
	}
	e.prev = e.pos

	c := world.Center()
	e.rotation = math.Atan2(c.Y-e.pos.Y, c.X-e.pos.X)
	e.wander = e.rotation
	e.strafeDir = 1
	if rng.Float64() < 0.5 {
		e.strafeDir = -1
	}
	e.strafeTimer = e.nextStrafeFlip()
	// stagger the first burst so a fresh wave does not fire in unison
	e.burstCD = rng.Float64() * EnemyBurstCD / 2
	return e
}

func (e *Enemy) Type() sim.Type { return sim.TypeEnemy }

// HP returns the remaining hit points
func (e *Enemy) HP() int { return e.hp }

// MaxHP returns the wave-scaled hit points
func (e *Enemy) MaxHP() int { return e.maxHP }

// Update steers the enemy and advances its burst timers
func (e *Enemy) Update(dt float64) {
	e.prev = e.pos
	e.wantFire = false
	if !e.alive {
		return
	}

	if e.fireCD > 0 {
		e.fireCD -= dt
	}
	if e.burstCD > 0 {
		e.burstCD -= dt * e.mul.FireRate
	}

	tracking := false
	var dist float64
	if t := e.target; t != nil && t.Alive() {
		dist = sim.DistancePoints(e.pos, t.pos)
		tracking = dist < EnemyDetectRange
	}

	accel := EnemyAccel * dt
	if tracking {
		t := e.target
		// lead the target by the projectile travel time
		lead := dist / EnemyProjSpeed
		aimX := t.pos.X + t.vel.X*lead
		aimY := t.pos.Y + t.vel.Y*lead
		e.rotation = turnToward(e.rotation, math.Atan2(aimY-e.pos.Y, aimX-e.pos.X), EnemyTurnSpeed*dt)

		toTarget := math.Atan2(t.pos.Y-e.pos.Y, t.pos.X-e.pos.X)
		radial := sim.Clamp((dist-EnemyOptimalRange)/(EnemyOptimalRange*0.5), -1, 1)
		tangential := e.strafeDir * (1 - math.Abs(radial)*0.7)
		moveX := math.Cos(toTarget)*radial + math.Cos(toTarget+math.Pi/2)*tangential
		moveY := math.Sin(toTarget)*radial + math.Sin(toTarget+math.Pi/2)*tangential
		heading := math.Atan2(moveY, moveX)

		e.strafeTimer -= dt
		if e.strafeTimer <= 0 {
			e.strafeDir = -e.strafeDir
			e.strafeTimer = e.nextStrafeFlip()
		}
		e.vel.X += math.Cos(heading) * accel
		e.vel.Y += math.Sin(heading) * accel
	} else {
		e.wander += (e.rng.Float64()*2 - 1) * EnemyWanderDrift * dt
		e.rotation = turnToward(e.rotation, e.wander, EnemyWanderTurn*dt)
		e.vel.X += math.Cos(e.rotation) * accel
		e.vel.Y += math.Sin(e.rotation) * accel
	}

	e.vel.X *= EnemyFriction
	e.vel.Y *= EnemyFriction
	e.vel = clampSpeed(e.vel, EnemySpeed*e.mul.Speed)

	e.integrate(dt)
	e.pos = e.world.Wrap(e.pos)

	if !tracking || dist >= EnemyShootRange {
		return
	}
	switch {
	case e.burstLeft > 0 && e.fireCD <= 0:
		e.shoot()
	case e.burstLeft == 0 && e.burstCD <= 0:
		e.burstLeft = EnemyBurstSize
		e.shoot()
	}
}

func (e *Enemy) shoot() {
	e.wantFire = true
	e.burstLeft--
	e.fireCD = EnemyBurstRate
	if e.burstLeft == 0 {
		e.burstCD = EnemyBurstCD
	}
}

func (e *Enemy) nextStrafeFlip() float64 {
	return EnemyStrafeMin + e.rng.Float64()*(EnemyStrafeMax-EnemyStrafeMin)
}

// TakeShot reports whether the enemy fired during the last Update and returns
// the projectile if so
func (e *Enemy) TakeShot(newID func() string) (*Projectile, bool) {
	if !e.wantFire || !e.alive {
		return nil, false
	}
	e.wantFire = false
	return newProjectile(newID(), sim.TypeEnemyProjectile, e.id, &e.body, e.rotation,
		EnemyProjSpeed, EnemyProjDamage, e.world), true
}

// TakeDamage reduces HP and reports whether the enemy died
func (e *Enemy) TakeDamage(dmg int) bool {
	if !e.alive || dmg <= 0 {
		return false
	}
	e.hp -= dmg
	if e.hp <= 0 {
		e.hp = 0
		e.alive = false
		return true
	}
	return false
}

func (e *Enemy) state() EntityState {
	st := e.body.state(sim.TypeEnemy)
	st.HP = e.hp
	st.MaxHP = e.maxHP
	return st
}
