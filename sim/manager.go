package sim

import (
	"fmt"
	"math"
	"slices"
)

// maxQuerySpan is the cell radius from which a query visits every bucket
const maxQuerySpan = 1 << 30

type record struct {
	entity  Entity
	key     CellKey
	seq     uint64 // registration order
	removed bool
}

// Manager is the authoritative registry of live entities.
// It keeps a grid hash and a type index consistent with the registry on every
// mutation. It is not safe for concurrent use.
type Manager struct {
	grid     *spatialGrid
	entities map[string]*record
	byType   [typeCount]map[string]struct{}
	order    []*record
	nextSeq  uint64
	dead     int // removed records still in order
	updating bool
}

// NewManager creates an empty manager; cellSize <= 0 selects DefaultCellSize
func NewManager(cellSize float64) *Manager {
	m := &Manager{
		grid:     newSpatialGrid(cellSize),
		entities: make(map[string]*record),
	}
	for i := range m.byType {
		m.byType[i] = make(map[string]struct{})
	}
	return m
}

// CellSize returns the grid hash cell edge
func (m *Manager) CellSize() float64 { return m.grid.cellSize }

// Add registers e. It fails if e is malformed or its id is already registered.
func (m *Manager) Add(e Entity) error {
	if e == nil {
		return invalid("entity", "must not be nil")
	}
	id := e.ID()
	if id == "" {
		return invalid("entity id", "must not be empty")
	}
	t := e.Type()
	if !t.Valid() {
		return invalid("entity type", fmt.Sprintf("unknown type %d", t))
	}
	if _, ok := m.entities[id]; ok {
		return &DuplicateEntityError{ID: id}
	}

	r := &record{
		entity: e,
		key:    m.grid.keyFor(e.Position()),
		seq:    m.nextSeq,
	}
	m.nextSeq++
	m.entities[id] = r
	m.grid.insert(id, r.key)
	m.byType[t][id] = struct{}{}
	m.order = append(m.order, r)
	return nil
}

// Remove unregisters id and reports whether it was registered
func (m *Manager) Remove(id string) bool {
	r, ok := m.entities[id]
	if !ok {
		return false
	}
	delete(m.entities, id)
	m.grid.remove(id, r.key)
	delete(m.byType[r.entity.Type()], id)
	r.removed = true
	m.dead++
	if !m.updating && m.dead > len(m.order)/2 {
		m.compact()
	}
	return true
}

// Get returns the entity registered under id
func (m *Manager) Get(id string) (Entity, bool) {
	r, ok := m.entities[id]
	if !ok {
		return nil, false
	}
	return r.entity, true
}

// Len returns the number of registered entities
func (m *Manager) Len() int { return len(m.entities) }

// Entities returns every registered entity in registration order
func (m *Manager) Entities() []Entity {
	out := make([]Entity, 0, len(m.entities))
	for _, r := range m.order {
		if !r.removed {
			out = append(out, r.entity)
		}
	}
	return out
}

// Update steps every registered entity once, in registration order, and rehashes
// the ones whose cell changed. Entities added during the pass are first stepped
// on the next call; entities removed during the pass are skipped.
func (m *Manager) Update(dt float64) {
	m.updating = true
	n := len(m.order)
	for i := 0; i < n && i < len(m.order); i++ {
		r := m.order[i]
		if r.removed {
			continue
		}
		before := r.entity.Position()
		r.entity.Update(dt)
		if r.removed {
			continue
		}
		after := r.entity.Position()
		if after == before {
			continue
		}
		if key := m.grid.keyFor(after); key != r.key {
			m.grid.move(r.entity.ID(), r.key, key)
			r.key = key
		}
	}
	m.updating = false
	if m.dead > 0 {
		m.compact()
	}
}

// Reindex rehashes id from its current position, for positions changed outside Update
func (m *Manager) Reindex(id string) bool {
	r, ok := m.entities[id]
	if !ok {
		return false
	}
	if key := m.grid.keyFor(r.entity.Position()); key != r.key {
		m.grid.move(id, r.key, key)
		r.key = key
	}
	return true
}

// QueryRadius returns every entity whose distance to p is at most radius, in
// registration order. Candidates come from the square of cells around p's cell;
// the exact distance test removes the corners.
func (m *Manager) QueryRadius(p Point, radius float64) []Entity {
	if !finite(p.X) || !finite(p.Y) || math.IsNaN(radius) || radius < 0 {
		return nil
	}

	visit := m.grid.forEach
	if s := math.Ceil(radius * m.grid.invCellSize); s < maxQuerySpan {
		center, span := m.grid.keyFor(p), int(s)
		visit = func(fn func(CellKey, map[string]struct{})) {
			m.grid.forEachInSquare(center, span, fn)
		}
	}

	seen := make(map[string]struct{})
	var hits []*record
	visit(func(_ CellKey, ids map[string]struct{}) {
		for id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			r, ok := m.entities[id]
			if !ok {
				continue
			}
			pos := r.entity.Position()
			if finite(pos.X) && finite(pos.Y) && DistancePoints(p, pos) <= radius {
				hits = append(hits, r)
			}
		}
	})
	return m.resolve(hits)
}

// EntitiesByType returns the registered entities of type t in registration order
func (m *Manager) EntitiesByType(t Type) []Entity {
	if !t.Valid() {
		return nil
	}
	hits := make([]*record, 0, len(m.byType[t]))
	for id := range m.byType[t] {
		if r, ok := m.entities[id]; ok {
			hits = append(hits, r)
		}
	}
	return m.resolve(hits)
}

// CountByType returns the size of the type index for t
func (m *Manager) CountByType(t Type) int {
	if !t.Valid() {
		return 0
	}
	return len(m.byType[t])
}

// CellOf returns the grid cell id is currently hashed into
func (m *Manager) CellOf(id string) (CellKey, bool) {
	r, ok := m.entities[id]
	if !ok {
		return CellKey{}, false
	}
	return r.key, true
}

// Bucket returns the ids hashed into key, sorted
func (m *Manager) Bucket(key CellKey) []string {
	ids := m.grid.bucket(key)
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Clear unregisters everything
func (m *Manager) Clear() {
	clear(m.entities)
	for i := range m.byType {
		clear(m.byType[i])
	}
	m.grid.clear()
	for _, r := range m.order {
		r.removed = true
	}
	if m.updating {
		// the running pass still indexes order; Update compacts when it returns
		m.dead = len(m.order)
		return
	}
	clear(m.order)
	m.order = m.order[:0]
	m.dead = 0
}

// CheckConsistency verifies the grid hash and type index against the registry
// and live positions
func (m *Manager) CheckConsistency() error {
	for id, r := range m.entities {
		want := m.grid.keyFor(r.entity.Position())
		if r.key != want {
			return fmt.Errorf("entity %q hashed in %v, position maps to %v", id, r.key, want)
		}
		if _, ok := m.grid.bucket(want)[id]; !ok {
			return fmt.Errorf("entity %q missing from bucket %v", id, want)
		}
		if _, ok := m.byType[r.entity.Type()][id]; !ok {
			return fmt.Errorf("entity %q missing from %s index", id, r.entity.Type())
		}
	}
	for key, ids := range m.grid.cells {
		for id := range ids {
			r, ok := m.entities[id]
			if !ok {
				return fmt.Errorf("bucket %v holds unregistered id %q", key, id)
			}
			if r.key != key {
				return fmt.Errorf("bucket %v holds %q which belongs to %v", key, id, r.key)
			}
		}
	}
	for t, ids := range m.byType {
		for id := range ids {
			r, ok := m.entities[id]
			if !ok || r.entity.Type() != Type(t) {
				return fmt.Errorf("%s index holds stale id %q", Type(t), id)
			}
		}
	}
	return nil
}

func (m *Manager) resolve(hits []*record) []Entity {
	if len(hits) == 0 {
		return nil
	}
	slices.SortFunc(hits, func(a, b *record) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	out := make([]Entity, len(hits))
	for i, r := range hits {
		out[i] = r.entity
	}
	return out
}

func (m *Manager) compact() {
	live := m.order[:0]
	for _, r := range m.order {
		if !r.removed {
			live = append(live, r)
		}
	}
	for i := len(live); i < len(m.order); i++ {
		m.order[i] = nil
	}
	m.order = live
	m.dead = 0
}
