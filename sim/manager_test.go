package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEntity struct {
	id      string
	typ     Type
	pos     Point
	vel     Point
	updates int
	onStep  func()
}

func (e *testEntity) ID() string      { return e.id }
func (e *testEntity) Type() Type      { return e.typ }
func (e *testEntity) Position() Point { return e.pos }
func (e *testEntity) Update(dt float64) {
	e.updates++
	e.pos.X += e.vel.X * dt
	e.pos.Y += e.vel.Y * dt
	if e.onStep != nil {
		e.onStep()
	}
}

func newTestEntity(id string, typ Type, x, y float64) *testEntity {
	return &testEntity{id: id, typ: typ, pos: Point{X: x, Y: y}}
}

func ids(es []Entity) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.ID()
	}
	return out
}

func TestManagerScenario(t *testing.T) {
	m := NewManager(100)
	require.NoError(t, m.Add(newTestEntity("A", TypeShip, 0, 0)))
	require.NoError(t, m.Add(newTestEntity("B", TypeEnemy, 250, 10)))

	cell, ok := m.CellOf("A")
	require.True(t, ok)
	assert.Equal(t, CellKey{X: 0, Y: 0}, cell)
	cell, ok = m.CellOf("B")
	require.True(t, ok)
	assert.Equal(t, CellKey{X: 2, Y: 0}, cell)

	assert.Equal(t, []string{"A"}, ids(m.QueryRadius(Point{}, 50)))
	assert.Equal(t, []string{"A", "B"}, ids(m.QueryRadius(Point{}, 300)))
}

func TestManagerAddValidation(t *testing.T) {
	m := NewManager(0)
	assert.Equal(t, DefaultCellSize, m.CellSize())

	err := m.Add(nil)
	require.ErrorIs(t, err, ErrValidation)

	err = m.Add(newTestEntity("", TypeShip, 0, 0))
	require.ErrorIs(t, err, ErrValidation)

	err = m.Add(newTestEntity("x", Type(200), 0, 0))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "entity type", ve.Field)

	require.NoError(t, m.Add(newTestEntity("x", TypeShip, 0, 0)))
	err = m.Add(newTestEntity("x", TypeEnemy, 5, 5))
	var de *DuplicateEntityError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "x", de.ID)
	assert.True(t, errors.Is(err, ErrDuplicateEntity))

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 0, m.CountByType(TypeEnemy))
}

func TestManagerRemove(t *testing.T) {
	m := NewManager(100)
	a := newTestEntity("a", TypeAsteroid, 120, 40)
	require.NoError(t, m.Add(a))
	require.NoError(t, m.Add(newTestEntity("b", TypeAsteroid, 130, 45)))

	require.True(t, m.Remove("a"))
	require.False(t, m.Remove("a"), "second remove is a no-op")
	require.False(t, m.Remove("missing"))

	_, ok := m.Get("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"b"}, ids(m.QueryRadius(Point{X: 120, Y: 40}, 1000)))
	assert.Equal(t, []string{"b"}, ids(m.EntitiesByType(TypeAsteroid)))
	assert.Equal(t, []string{"b"}, m.Bucket(CellKey{X: 1, Y: 0}))
	require.NoError(t, m.CheckConsistency())

	// re-adding the same id after removal is a fresh registration
	require.NoError(t, m.Add(a))
	assert.Equal(t, []string{"b", "a"}, ids(m.Entities()))
}

func TestManagerRemoveDropsEmptyBucket(t *testing.T) {
	m := NewManager(100)
	require.NoError(t, m.Add(newTestEntity("solo", TypePickup, 550, 550)))
	require.True(t, m.Remove("solo"))
	assert.Empty(t, m.Bucket(CellKey{X: 5, Y: 5}))
	assert.Empty(t, m.grid.cells)
}

func TestManagerUpdateRehashes(t *testing.T) {
	m := NewManager(100)
	e := newTestEntity("mover", TypeShip, 90, 10)
	e.vel = Point{X: 20, Y: 0}
	require.NoError(t, m.Add(e))

	m.Update(1)
	assert.Equal(t, 1, e.updates)
	cell, _ := m.CellOf("mover")
	assert.Equal(t, CellKey{X: 1, Y: 0}, cell)
	assert.Empty(t, m.Bucket(CellKey{X: 0, Y: 0}))
	assert.Equal(t, []string{"mover"}, m.Bucket(CellKey{X: 1, Y: 0}))

	e.vel = Point{X: -300, Y: -300}
	m.Update(1)
	cell, _ = m.CellOf("mover")
	assert.Equal(t, CellKey{X: -2, Y: -3}, cell)
	require.NoError(t, m.CheckConsistency())
}

func TestManagerReindex(t *testing.T) {
	m := NewManager(100)
	e := newTestEntity("e", TypeEnemy, 10, 10)
	require.NoError(t, m.Add(e))

	e.pos = Point{X: 410, Y: 10}
	require.Error(t, m.CheckConsistency())
	require.True(t, m.Reindex("e"))
	require.NoError(t, m.CheckConsistency())
	assert.False(t, m.Reindex("nope"))
}

func TestManagerGridConsistentAfterUpdates(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	m := NewManager(64)
	for i := 0; i < 300; i++ {
		e := newTestEntity(fmt.Sprintf("e%d", i), Type(rng.IntN(int(typeCount))),
			rng.Float64()*2000-1000, rng.Float64()*2000-1000)
		e.vel = Point{X: rng.Float64()*400 - 200, Y: rng.Float64()*400 - 200}
		require.NoError(t, m.Add(e))
	}

	for step := 0; step < 60; step++ {
		for _, e := range m.Entities() {
			te := e.(*testEntity)
			if rng.IntN(10) == 0 {
				te.vel = Point{X: rng.Float64()*400 - 200, Y: rng.Float64()*400 - 200}
			}
		}
		m.Update(1.0 / 60)
		require.NoError(t, m.CheckConsistency(), "step %d", step)
	}

	total := 0
	for _, typ := range Types() {
		total += m.CountByType(typ)
	}
	assert.Equal(t, m.Len(), total)
}

func TestManagerQueryRadiusExact(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	m := NewManager(50)
	for i := 0; i < 400; i++ {
		require.NoError(t, m.Add(newTestEntity(fmt.Sprintf("e%d", i), TypeAsteroid,
			rng.Float64()*1000-500, rng.Float64()*1000-500)))
	}

	for q := 0; q < 200; q++ {
		p := Point{X: rng.Float64()*1200 - 600, Y: rng.Float64()*1200 - 600}
		r := rng.Float64() * 300

		var want []string
		for _, e := range m.Entities() {
			if DistancePoints(p, e.Position()) <= r {
				want = append(want, e.ID())
			}
		}
		got := m.QueryRadius(p, r)
		if len(want) == 0 {
			require.Empty(t, got)
			continue
		}
		require.Equal(t, want, ids(got), "query %v r=%v", p, r)
	}
}

func TestManagerQueryRadiusBoundaryInclusive(t *testing.T) {
	m := NewManager(100)
	require.NoError(t, m.Add(newTestEntity("edge", TypePickup, 300, 400)))
	assert.Equal(t, []string{"edge"}, ids(m.QueryRadius(Point{}, 500)))
	assert.Empty(t, m.QueryRadius(Point{}, 499.999))
	assert.Equal(t, []string{"edge"}, ids(m.QueryRadius(Point{X: 300, Y: 400}, 0)))
}

func TestManagerQueryRadiusDegenerate(t *testing.T) {
	m := NewManager(100)
	require.NoError(t, m.Add(newTestEntity("a", TypeShip, 0, 0)))
	require.NoError(t, m.Add(newTestEntity("far", TypeShip, 1e12, -1e12)))

	assert.Nil(t, m.QueryRadius(Point{}, -1))
	assert.Nil(t, m.QueryRadius(Point{}, math.NaN()))
	assert.Nil(t, m.QueryRadius(Point{X: math.Inf(1)}, 10))

	assert.Equal(t, []string{"a", "far"}, ids(m.QueryRadius(Point{}, math.MaxFloat64)))
	assert.Equal(t, []string{"a", "far"}, ids(m.QueryRadius(Point{}, math.Inf(1))))
}

func TestManagerQueryRadiusHugeCoordinates(t *testing.T) {
	m := NewManager(100)
	require.NoError(t, m.Add(newTestEntity("edge", TypeAsteroid, 1e300, 0)))
	require.NoError(t, m.Add(newTestEntity("past", TypeAsteroid, -2e300, -2e300)))

	assert.Equal(t, []string{"edge"}, ids(m.QueryRadius(Point{}, 2e300)))
	assert.Equal(t, []string{"edge", "past"}, ids(m.QueryRadius(Point{}, 2e301)))
	assert.InDelta(t, 5e200, Distance(0, 0, 3e200, 4e200), 1e186)
}

func TestManagerNonFinitePosition(t *testing.T) {
	m := NewManager(100)
	require.NoError(t, m.Add(newTestEntity("lost", TypeProjectile, math.NaN(), 0)))

	cell, ok := m.CellOf("lost")
	require.True(t, ok)
	assert.Equal(t, CellKey{X: voidCell, Y: voidCell}, cell)
	require.NoError(t, m.Add(newTestEntity("gone", TypeProjectile, math.Inf(1), 0)))
	assert.Empty(t, m.QueryRadius(Point{}, math.Inf(1)))
	assert.Empty(t, m.QueryRadius(Point{}, math.MaxFloat64))
	assert.Equal(t, []string{"lost", "gone"}, ids(m.EntitiesByType(TypeProjectile)))
	require.NoError(t, m.CheckConsistency())
}

func TestManagerEntitiesByType(t *testing.T) {
	m := NewManager(100)
	require.NoError(t, m.Add(newTestEntity("s", TypeShip, 0, 0)))
	require.NoError(t, m.Add(newTestEntity("e1", TypeEnemy, 10, 0)))
	require.NoError(t, m.Add(newTestEntity("p", TypeProjectile, 20, 0)))
	require.NoError(t, m.Add(newTestEntity("e2", TypeEnemy, 30, 0)))

	assert.Equal(t, []string{"e1", "e2"}, ids(m.EntitiesByType(TypeEnemy)))
	assert.Equal(t, 2, m.CountByType(TypeEnemy))
	assert.Empty(t, m.EntitiesByType(TypePickup))
	assert.Nil(t, m.EntitiesByType(Type(99)))
	assert.Zero(t, m.CountByType(Type(99)))
}

func TestManagerMutationDuringUpdate(t *testing.T) {
	m := NewManager(100)
	victim := newTestEntity("victim", TypeEnemy, 50, 50)
	var spawned *testEntity

	killer := newTestEntity("killer", TypeShip, 0, 0)
	killer.onStep = func() {
		if spawned != nil {
			return
		}
		m.Remove("victim")
		spawned = newTestEntity("spawned", TypeProjectile, 10, 10)
		require.NoError(t, m.Add(spawned))
	}
	self := newTestEntity("self", TypeAsteroid, 70, 70)
	self.vel = Point{X: 500}
	self.onStep = func() { m.Remove("self") }

	require.NoError(t, m.Add(killer))
	require.NoError(t, m.Add(victim))
	require.NoError(t, m.Add(self))

	m.Update(1)
	assert.Equal(t, 1, killer.updates)
	assert.Zero(t, victim.updates, "removed before its turn")
	assert.Zero(t, spawned.updates, "added during the pass")
	assert.Equal(t, 1, self.updates)
	assert.Equal(t, []string{"killer", "spawned"}, ids(m.Entities()))
	require.NoError(t, m.CheckConsistency())

	m.Update(1)
	assert.Equal(t, 1, spawned.updates)
	assert.Equal(t, 2, killer.updates)
}

func TestManagerClearDuringUpdate(t *testing.T) {
	m := NewManager(100)
	first := newTestEntity("first", TypeShip, 0, 0)
	second := newTestEntity("second", TypeShip, 0, 0)
	first.onStep = func() { m.Clear() }
	require.NoError(t, m.Add(first))
	require.NoError(t, m.Add(second))

	m.Update(1)
	assert.Zero(t, second.updates)
	assert.Zero(t, m.Len())
	assert.Empty(t, m.Entities())
	require.NoError(t, m.CheckConsistency())
}

func TestManagerCompactsOrder(t *testing.T) {
	m := NewManager(100)
	for i := 0; i < 10; i++ {
		require.NoError(t, m.Add(newTestEntity(fmt.Sprintf("e%d", i), TypePickup, float64(i), 0)))
	}
	for i := 0; i < 8; i++ {
		require.True(t, m.Remove(fmt.Sprintf("e%d", i)))
	}
	assert.LessOrEqual(t, len(m.order), 5)
	assert.Equal(t, []string{"e8", "e9"}, ids(m.Entities()))
}

func TestManagerClear(t *testing.T) {
	m := NewManager(100)
	require.NoError(t, m.Add(newTestEntity("a", TypeShip, 0, 0)))
	require.NoError(t, m.Add(newTestEntity("b", TypeEnemy, 500, 0)))
	m.Clear()

	assert.Zero(t, m.Len())
	assert.Empty(t, m.QueryRadius(Point{}, 1000))
	assert.Zero(t, m.CountByType(TypeShip))
	require.NoError(t, m.Add(newTestEntity("a", TypeShip, 0, 0)))
}
