package game

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/sim"
)

var testWorld = World{Width: 1000, Height: 800}

func testRand() *rand.Rand { return rand.New(rand.NewPCG(1, 1)) }

func TestNewShip(t *testing.T) {
	s := NewShip("ship", ClassTank, testWorld)
	if s.ID() != "ship" {
		t.Errorf("expected ID ship, got %s", s.ID())
	}
	if s.HP() != ClassTank.Hull().MaxHP {
		t.Errorf("expected HP %d, got %d", ClassTank.Hull().MaxHP, s.HP())
	}
	if s.Position() != testWorld.Center() {
		t.Errorf("expected ship at centre, got %v", s.Position())
	}
	if s.Type() != sim.TypeShip {
		t.Errorf("expected type ship, got %s", s.Type())
	}
}

func TestShipMovesTowardTarget(t *testing.T) {
	s := NewShip("ship", ClassFighter, testWorld)
	c := testWorld.Center()
	s.SetIntent(Intent{TargetX: c.X + 10000, TargetY: c.Y})
	for i := 0; i < 60; i++ {
		s.Update(step)
	}
	if s.Position().X <= c.X {
		t.Errorf("expected ship to move right, x=%f", s.Position().X)
	}
	if math.Abs(NormalizeAngle(s.Rotation())) > 0.01 {
		t.Errorf("expected ship to face right, rotation=%f", s.Rotation())
	}
}

func TestShipSpeedClamp(t *testing.T) {
	s := NewShip("ship", ClassFighter, testWorld)
	s.rotation = 0
	s.SetIntent(Intent{TargetX: 1e6, TargetY: s.pos.Y, Boost: true})
	for i := 0; i < 600; i++ {
		s.Update(step)
		s.intent.TargetY = s.pos.Y
	}
	limit := s.hull.MaxSpeed * s.hull.BoostMul
	if v := math.Hypot(s.vel.X, s.vel.Y); v > limit+1e-9 {
		t.Errorf("expected speed <= %f, got %f", limit, v)
	}
}

func TestShipWrapsAroundWorld(t *testing.T) {
	s := NewShip("ship", ClassFighter, testWorld)
	s.pos = sim.Point{X: 999, Y: 400}
	s.vel = sim.Point{X: 300}
	s.SetIntent(Intent{TargetX: 999, TargetY: 400})
	s.Update(step)
	if s.pos.X > testWorld.Width || s.pos.X < 0 {
		t.Errorf("expected wrapped x inside world, got %f", s.pos.X)
	}
	if s.prev.X != 999 {
		t.Errorf("expected prev x 999, got %f", s.prev.X)
	}
}

func TestShipTakeDamage(t *testing.T) {
	s := NewShip("ship", ClassFighter, testWorld)
	if died := s.TakeDamage(30); died {
		t.Error("should not die from 30 damage")
	}
	if s.HP() != 70 {
		t.Errorf("expected HP 70, got %d", s.HP())
	}
	if s.TakeDamage(80) {
		t.Error("hit inside the invulnerability window should be ignored")
	}
	s.invuln = 0
	if !s.TakeDamage(80) {
		t.Error("expected death from 80 more damage")
	}
	if s.Alive() || s.HP() != 0 {
		t.Errorf("expected dead ship with 0 HP, got alive=%v hp=%d", s.Alive(), s.HP())
	}
}

func TestShipHealCapped(t *testing.T) {
	s := NewShip("ship", ClassScout, testWorld)
	s.hp = s.MaxHP() - 5
	s.Heal(PickupHeal)
	if s.HP() != s.MaxHP() {
		t.Errorf("expected HP capped at %d, got %d", s.MaxHP(), s.HP())
	}
}

func TestShipVolley(t *testing.T) {
	ids := sequentialIDs()
	tank := NewShip("tank", ClassTank, testWorld)
	tank.SetIntent(Intent{Fire: true})
	if !tank.CanFire() {
		t.Fatal("expected fresh ship to be able to fire")
	}
	volley := tank.Fire(ids)
	if len(volley) != 5 {
		t.Fatalf("expected 5 projectiles, got %d", len(volley))
	}
	spread := volley[4].Rotation() - volley[0].Rotation()
	if math.Abs(spread-ClassTank.Hull().ProjSpread) > 1e-9 {
		t.Errorf("expected spread %f, got %f", ClassTank.Hull().ProjSpread, spread)
	}
	for _, p := range volley {
		if p.Type() != sim.TypeProjectile || p.Owner() != "tank" {
			t.Errorf("unexpected projectile %s owner %s", p.Type(), p.Owner())
		}
	}
	if tank.CanFire() {
		t.Error("expected cooldown after firing")
	}
}

func TestProjectileExpires(t *testing.T) {
	from := &body{pos: sim.Point{X: 100, Y: 100}}
	p := newProjectile("p", sim.TypeProjectile, "ship", from, 0, 100, 10, testWorld)
	for i := 0; i < int(ProjectileLifetime*60)+1; i++ {
		p.Update(step)
	}
	if p.Alive() {
		t.Error("expected projectile to expire")
	}
}

func TestEnemyEdgeSpawn(t *testing.T) {
	rng := testRand()
	for i := 0; i < 20; i++ {
		e := NewEnemy("e", nil, testWorld, Multipliers{HP: 1, Speed: 1, FireRate: 1}, rng)
		p := e.Position()
		onEdge := p.X == 0 || p.X == testWorld.Width || p.Y == 0 || p.Y == testWorld.Height
		if !onEdge {
			t.Errorf("enemy should spawn on edge, got %v", p)
		}
		if e.HP() != EnemyBaseHP {
			t.Errorf("expected HP %d, got %d", EnemyBaseHP, e.HP())
		}
	}
}

func TestEnemyWaveMultiplier(t *testing.T) {
	e := NewEnemy("e", nil, testWorld, Multipliers{HP: 1.5, Speed: 1, FireRate: 1}, testRand())
	if e.MaxHP() != 90 {
		t.Errorf("expected scaled HP 90, got %d", e.MaxHP())
	}
}

func TestEnemyBurstFire(t *testing.T) {
	ship := NewShip("ship", ClassFighter, testWorld)
	e := NewEnemy("e", ship, testWorld, Multipliers{HP: 1, Speed: 1, FireRate: 1}, testRand())
	e.pos = sim.Point{X: ship.pos.X + 300, Y: ship.pos.Y}
	e.burstCD = 0

	ids := sequentialIDs()
	shots := 0
	for i := 0; i < 120; i++ {
		e.Update(step)
		if p, ok := e.TakeShot(ids); ok {
			shots++
			if p.Type() != sim.TypeEnemyProjectile {
				t.Errorf("expected enemy projectile, got %s", p.Type())
			}
		}
	}
	if shots != EnemyBurstSize {
		t.Errorf("expected one burst of %d shots in two seconds, got %d", EnemyBurstSize, shots)
	}
}

func TestAsteroidLeavesWorld(t *testing.T) {
	a := NewAsteroid("a", testWorld, testRand())
	a.pos = sim.Point{X: -AsteroidRadius*2 + 1, Y: 100}
	a.vel = sim.Point{X: -100}
	a.Update(step)
	if a.Alive() {
		t.Error("expected asteroid to die off-map")
	}
	if !a.Escaped() {
		t.Error("expected asteroid to count as escaped")
	}
}

func TestAsteroidTakeDamage(t *testing.T) {
	a := NewAsteroid("a", testWorld, testRand())
	if a.TakeDamage(AsteroidHP - 1) {
		t.Error("should survive")
	}
	if !a.TakeDamage(1) {
		t.Error("should break apart")
	}
	if a.Escaped() {
		t.Error("destroyed asteroid did not escape")
	}
}

func TestPickupTimeout(t *testing.T) {
	p := NewPickup("p", testWorld, testRand())
	pos := p.Position()
	if pos.X < 50 || pos.X > testWorld.Width-50 || pos.Y < 50 || pos.Y > testWorld.Height-50 {
		t.Errorf("pickup too close to the edge: %v", pos)
	}
	p.Update(PickupTimeout - 1)
	if !p.Alive() {
		t.Error("pickup expired early")
	}
	p.Update(1)
	if p.Alive() {
		t.Error("expected pickup to expire")
	}
}

func TestParseShipClass(t *testing.T) {
	c, err := ParseShipClass("Scout")
	if err != nil || c != ClassScout {
		t.Errorf("expected scout, got %v %v", c, err)
	}
	if _, err := ParseShipClass("cruiser"); err == nil {
		t.Error("expected error for unknown class")
	}
	if ShipClass(42).Hull() != ClassFighter.Hull() {
		t.Error("unknown class should fall back to the fighter hull")
	}
}
