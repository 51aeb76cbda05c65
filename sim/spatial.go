package sim

import "math"

// DefaultCellSize is the grid hash cell edge in world units
const DefaultCellSize = 100.0

// voidCell receives entities whose position is not finite.
// It sits far outside any coordinate a real position floors to.
const voidCell = math.MaxInt32

// CellKey identifies one grid hash cell
type CellKey struct {
	X, Y int
}

// spatialGrid maps cell keys to the ids of the entities inside them.
// Buckets are created on first insert and dropped when they empty.
type spatialGrid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize
	cells       map[CellKey]map[string]struct{}
}

func newSpatialGrid(cellSize float64) *spatialGrid {
	if !finite(cellSize) || cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &spatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cells:       make(map[CellKey]map[string]struct{}),
	}
}

// keyFor floor-divides p by the cell size
func (g *spatialGrid) keyFor(p Point) CellKey {
	if !finite(p.X) || !finite(p.Y) {
		return CellKey{X: voidCell, Y: voidCell}
	}
	return CellKey{X: g.coord(p.X), Y: g.coord(p.Y)}
}

func (g *spatialGrid) coord(v float64) int {
	c := math.Floor(v * g.invCellSize)
	if c >= voidCell {
		return voidCell - 1
	}
	if c <= -voidCell {
		return -voidCell + 1
	}
	return int(c)
}

func (g *spatialGrid) insert(id string, key CellKey) {
	bucket, ok := g.cells[key]
	if !ok {
		bucket = make(map[string]struct{})
		g.cells[key] = bucket
	}
	bucket[id] = struct{}{}
}

func (g *spatialGrid) remove(id string, key CellKey) {
	bucket, ok := g.cells[key]
	if !ok {
		return
	}
	delete(bucket, id)
	if len(bucket) == 0 {
		delete(g.cells, key)
	}
}

func (g *spatialGrid) move(id string, from, to CellKey) {
	if from == to {
		return
	}
	g.remove(id, from)
	g.insert(id, to)
}

func (g *spatialGrid) bucket(key CellKey) map[string]struct{} {
	return g.cells[key]
}

// forEachInSquare calls fn for every occupied bucket within span cells of center
// on both axes. When the square covers more cells than are occupied, the occupied
// buckets are filtered instead of walking empty cells.
func (g *spatialGrid) forEachInSquare(center CellKey, span int, fn func(key CellKey, ids map[string]struct{})) {
	side := 2*float64(span) + 1
	if side*side > float64(len(g.cells)) {
		for key, ids := range g.cells {
			if abs(key.X-center.X) <= span && abs(key.Y-center.Y) <= span {
				fn(key, ids)
			}
		}
		return
	}
	for cy := center.Y - span; cy <= center.Y+span; cy++ {
		for cx := center.X - span; cx <= center.X+span; cx++ {
			key := CellKey{X: cx, Y: cy}
			if ids, ok := g.cells[key]; ok {
				fn(key, ids)
			}
		}
	}
}

func (g *spatialGrid) forEach(fn func(key CellKey, ids map[string]struct{})) {
	for key, ids := range g.cells {
		fn(key, ids)
	}
}

func (g *spatialGrid) clear() {
	clear(g.cells)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
