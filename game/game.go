package game

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/sim"
)

const (
	maxProjectiles = 500
	maxPickups     = 3
)

// Config holds the rules that do not change during a run
type Config struct {
	World            World
	CellSize         float64
	QuadTree         sim.QuadTreeConfig
	Seed             uint64
	ShipClass        ShipClass
	AsteroidInterval float64 // seconds between asteroid spawns, 0 disables them
	PickupInterval   float64 // seconds between heal orb spawns, 0 disables them
	MaxProjectiles   int
	Debug            bool // verify the entity indexes after every step
}

// DefaultConfig returns the stock rules
func DefaultConfig() Config {
	return Config{
		World:            World{Width: DefaultWorldWidth, Height: DefaultWorldHeight},
		CellSize:         sim.DefaultCellSize,
		AsteroidInterval: 4,
		PickupInterval:   12,
		MaxProjectiles:   maxProjectiles,
	}
}

// Deps are the services a game is built from. Nil fields get defaults.
type Deps struct {
	Waves  *Waves
	Score  *Score
	Events EventSink
	Logger *zap.Logger
	NewID  func() string

	// OnGameOver runs with the game lock held, like EventSink.Emit
	OnGameOver func(Summary)
}

// Summary describes a finished run
type Summary struct {
	Score     int
	HighScore int
	Wave      int
	Enemies   int // enemies destroyed
	Asteroids int // asteroids destroyed
	Ticks     uint64
}

// Game owns one arcade run. Step, HandleInput and Snapshot may be called from
// different goroutines.
type Game struct {
	mu sync.Mutex

	cfg      Config
	rng      *rand.Rand
	entities *sim.Manager
	collide  *collisionSystem
	waves    *Waves
	score    *Score
	events   EventSink
	logger   *zap.Logger
	newID    func() string
	onOver   func(Summary)

	ship       *Ship
	tick       uint64
	over       bool
	asteroidCD float64
	pickupCD   float64
}

// New builds a game and places the ship
func New(cfg Config, deps Deps) (*Game, error) {
	if !(cfg.World.Width > 0) || !(cfg.World.Height > 0) {
		return nil, &sim.ValidationError{Field: "world", Reason: "width and height must be positive"}
	}
	if cfg.MaxProjectiles <= 0 {
		cfg.MaxProjectiles = maxProjectiles
	}
	if deps.Waves == nil {
		deps.Waves = NewWaves(DefaultWaveConfig())
	}
	if deps.Score == nil {
		deps.Score = NewScore(DefaultPoints(), 0)
	}
	if deps.Events == nil {
		deps.Events = nopSink{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}

	g := &Game{
		cfg:      cfg,
		rng:      rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		entities: sim.NewManager(cfg.CellSize),
		collide:  newCollisionSystem(cfg.World, cfg.QuadTree),
		waves:    deps.Waves,
		score:    deps.Score,
		events:   deps.Events,
		logger:   deps.Logger,
		newID:    deps.NewID,
		onOver:   deps.OnGameOver,
	}
	if err := g.reset(); err != nil {
		return nil, err
	}
	return g, nil
}

// HandleInput replaces the ship's control intent
func (g *Game) HandleInput(in Intent) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ship.SetIntent(in)
}

// Over reports whether the ship has been destroyed
func (g *Game) Over() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.over
}

// Score returns the running score
func (g *Game) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score.Value()
}

// Wave returns the current wave number
func (g *Game) Wave() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.waves.Number()
}

// Len returns the number of live entities, ship included
func (g *Game) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.entities.Len()
}

// World returns the playfield
func (g *Game) World() World { return g.cfg.World }

// Restart begins a new run with a fresh ship, keeping the high score
func (g *Game) Restart() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reset()
}

func (g *Game) reset() error {
	g.entities.Clear()
	g.score.Reset()
	g.waves.Reset()
	g.tick = 0
	g.over = false
	g.asteroidCD = g.cfg.AsteroidInterval
	g.pickupCD = g.cfg.PickupInterval
	g.ship = NewShip(g.newID(), g.cfg.ShipClass, g.cfg.World)
	return g.entities.Add(g.ship)
}

// Step advances the run by one fixed step of dt seconds. It does nothing once
// the game is over.
func (g *Game) Step(dt float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.over {
		return nil
	}
	g.tick++

	g.entities.Update(dt)
	if err := g.spawnFire(); err != nil {
		return fmt.Errorf("spawn projectiles: %w", err)
	}
	if err := g.spawnHazards(dt); err != nil {
		return fmt.Errorf("spawn hazards: %w", err)
	}

	contacts, err := g.collide.detect(g.actors())
	if err != nil {
		return fmt.Errorf("collision pass: %w", err)
	}
	for _, c := range contacts {
		g.resolve(c)
	}
	g.reap()

	if n := g.waves.Tick(dt, g.entities.CountByType(sim.TypeEnemy)); n > 0 {
		if err := g.startWave(n); err != nil {
			return fmt.Errorf("start wave %d: %w", n, err)
		}
	}

	if !g.ship.Alive() {
		g.over = true
		g.events.Emit(Event{Kind: EventGameOver, Type: sim.TypeShip, ID: g.ship.ID(), Position: g.ship.Position(), Value: g.score.Value()})
		g.logger.Info("game over",
			zap.Int("score", g.score.Value()),
			zap.Int("high_score", g.score.High()),
			zap.Int("wave", g.waves.Number()),
			zap.Uint64("tick", g.tick),
		)
		if g.onOver != nil {
			g.onOver(g.summary())
		}
	}

	if g.cfg.Debug {
		if err := g.entities.CheckConsistency(); err != nil {
			return fmt.Errorf("tick %d: %w", g.tick, err)
		}
	}
	return nil
}

func (g *Game) spawnFire() error {
	if g.ship.CanFire() {
		volley := g.ship.Fire(g.newID)
		if g.projectileCount()+len(volley) <= g.cfg.MaxProjectiles {
			for _, p := range volley {
				if err := g.entities.Add(p); err != nil {
					return err
				}
			}
			g.events.Emit(Event{Kind: EventFire, Type: sim.TypeProjectile, ID: g.ship.ID(), Position: g.ship.Position()})
		}
	}
	for _, e := range g.entities.EntitiesByType(sim.TypeEnemy) {
		p, ok := e.(*Enemy).TakeShot(g.newID)
		if !ok || g.projectileCount() >= g.cfg.MaxProjectiles {
			continue
		}
		if err := g.entities.Add(p); err != nil {
			return err
		}
		g.events.Emit(Event{Kind: EventFire, Type: sim.TypeEnemyProjectile, ID: e.ID(), Position: e.Position()})
	}
	return nil
}

func (g *Game) projectileCount() int {
	return g.entities.CountByType(sim.TypeProjectile) + g.entities.CountByType(sim.TypeEnemyProjectile)
}

func (g *Game) spawnHazards(dt float64) error {
	if g.cfg.AsteroidInterval > 0 {
		g.asteroidCD -= dt
		if g.asteroidCD <= 0 {
			g.asteroidCD = g.cfg.AsteroidInterval
			if err := g.entities.Add(NewAsteroid(g.newID(), g.cfg.World, g.rng)); err != nil {
				return err
			}
		}
	}
	if g.cfg.PickupInterval > 0 {
		g.pickupCD -= dt
		if g.pickupCD <= 0 {
			g.pickupCD = g.cfg.PickupInterval
			if g.entities.CountByType(sim.TypePickup) < maxPickups {
				if err := g.entities.Add(NewPickup(g.newID(), g.cfg.World, g.rng)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (g *Game) startWave(n int) error {
	count := g.waves.EnemyCount(n)
	mul := g.waves.Multipliers(n)
	for i := 0; i < count; i++ {
		if err := g.entities.Add(NewEnemy(g.newID(), g.ship, g.cfg.World, mul, g.rng)); err != nil {
			return err
		}
	}
	g.events.Emit(Event{Kind: EventWaveStart, Value: n, Position: g.cfg.World.Center()})
	g.logger.Info("wave started",
		zap.Int("wave", n),
		zap.Int("enemies", count),
		zap.Float64("hp_mul", mul.HP),
	)
	return nil
}

func (g *Game) actors() []actor {
	all := g.entities.Entities()
	out := make([]actor, 0, len(all))
	for _, e := range all {
		if a, ok := e.(actor); ok && a.Alive() {
			out = append(out, a)
		}
	}
	return out
}

// resolve applies the arcade rule for one contact. Pairs whose either side
// already died earlier in this pass are skipped.
func (g *Game) resolve(c Contact) {
	a, b := c.A.(actor), c.B.(actor)
	if !a.Alive() || !b.Alive() {
		return
	}
	switch x := c.A.(type) {
	case *Ship:
		switch y := c.B.(type) {
		case *Enemy:
			y.kill()
			g.destroyed(y)
			g.hurtShip(EnemyRamDamage)
		case *Projectile:
			if y.Type() == sim.TypeEnemyProjectile {
				y.kill()
				g.hurtShip(y.Damage())
			}
		case *Asteroid:
			g.hurtShip(AsteroidDamage)
		case *Pickup:
			x.Heal(y.Heal())
			y.kill()
			g.events.Emit(Event{Kind: EventPickup, Type: sim.TypePickup, ID: y.ID(), Position: y.Position(), Value: y.Heal()})
		}
	case *Enemy:
		if y, ok := c.B.(*Projectile); ok && y.Type() == sim.TypeProjectile {
			y.kill()
			if x.TakeDamage(y.Damage()) {
				g.destroyed(x)
			} else {
				g.events.Emit(Event{Kind: EventHit, Type: sim.TypeEnemy, ID: x.ID(), Position: x.Position()})
			}
		}
	case *Projectile:
		if y, ok := c.B.(*Asteroid); ok {
			x.kill()
			if x.Type() == sim.TypeProjectile && y.TakeDamage(x.Damage()) {
				g.destroyed(y)
			}
		}
	}
}

func (g *Game) hurtShip(dmg int) {
	before := g.ship.HP()
	g.ship.TakeDamage(dmg)
	if g.ship.HP() < before && g.ship.Alive() {
		g.events.Emit(Event{Kind: EventHit, Type: sim.TypeShip, ID: g.ship.ID(), Position: g.ship.Position(), Value: before - g.ship.HP()})
	}
}

func (g *Game) destroyed(e sim.Entity) {
	pts := g.score.Award(e.Type())
	g.events.Emit(Event{Kind: EventDestroyed, Type: e.Type(), ID: e.ID(), Position: e.Position(), Value: pts})
}

// reap unregisters everything that died this step. The ship stays registered
// so the final frame still shows it.
func (g *Game) reap() {
	for _, e := range g.entities.Entities() {
		a, ok := e.(actor)
		if !ok || a.Alive() || e == sim.Entity(g.ship) {
			continue
		}
		g.entities.Remove(e.ID())
	}
}

func (g *Game) summary() Summary {
	return Summary{
		Score:     g.score.Value(),
		HighScore: g.score.High(),
		Wave:      g.waves.Number(),
		Enemies:   g.score.Kills(sim.TypeEnemy),
		Asteroids: g.score.Kills(sim.TypeAsteroid),
		Ticks:     g.tick,
	}
}

// Summary reports the current run
func (g *Game) Summary() Summary {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.summary()
}

// Snapshot copies the current state for a renderer; alpha is the loop's
// interpolation fraction and is only recorded, never simulated
func (g *Game) Snapshot(alpha float64) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	all := g.entities.Entities()
	s := Snapshot{
		Tick:      g.tick,
		Alpha:     alpha,
		Score:     g.score.Value(),
		HighScore: g.score.High(),
		Wave:      g.waves.Number(),
		Over:      g.over,
		World:     g.cfg.World,
		Ship:      g.ship.state(),
		Entities:  make([]EntityState, 0, len(all)),
	}
	for _, e := range all {
		if e == sim.Entity(g.ship) {
			continue
		}
		if st, ok := e.(stater); ok {
			s.Entities = append(s.Entities, st.state())
		}
	}
	return s
}
