package sim

// QuadTree defaults
const (
	DefaultQuadCapacity = 10
	DefaultQuadMaxDepth = 5
	DefaultQuadMinSize  = 16.0
)

// Quadrant indexes
const (
	quadTopLeft = iota
	quadTopRight
	quadBottomLeft
	quadBottomRight
	noQuadrant = -1
)

// QuadTreeConfig tunes subdivision; zero fields take the defaults
type QuadTreeConfig struct {
	Capacity int     // objects a node holds before it subdivides
	MaxDepth int     // deepest level a node may subdivide at
	MinSize  float64 // smallest quadrant edge a split may produce
}

func (c QuadTreeConfig) withDefaults() QuadTreeConfig {
	if c.Capacity <= 0 {
		c.Capacity = DefaultQuadCapacity
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultQuadMaxDepth
	}
	if !finite(c.MinSize) || c.MinSize <= 0 {
		c.MinSize = DefaultQuadMinSize
	}
	return c
}

// Object is one entry in the quadtree
type Object struct {
	ID     string
	Bounds BoundingBox
	Data   any
}

// QuadTreeStats describes the current shape of a tree
type QuadTreeStats struct {
	Nodes        int
	Objects      int
	Depth        int // deepest level with a node
	Subdivisions int // splits since the last Clear
}

// QuadTree retrieves collision candidates over a fixed world boundary.
// It is meant to be cleared and refilled each step.
type QuadTree struct {
	cfg    QuadTreeConfig
	root   *quadNode
	splits int
}

type quadNode struct {
	tree     *QuadTree
	bounds   BoundingBox
	level    int
	objects  []*Object
	children *[4]*quadNode
	splits   int // times this node has subdivided since the last Clear
}

// NewQuadTree creates an empty tree covering bounds
func NewQuadTree(bounds BoundingBox, cfg QuadTreeConfig) *QuadTree {
	t := &QuadTree{cfg: cfg.withDefaults()}
	t.root = &quadNode{tree: t, bounds: bounds}
	return t
}

// Bounds returns the world boundary of the tree
func (t *QuadTree) Bounds() BoundingBox { return t.root.bounds }

// Config returns the effective configuration
func (t *QuadTree) Config() QuadTreeConfig { return t.cfg }

// Insert adds obj to the tree
func (t *QuadTree) Insert(obj *Object) error {
	if obj == nil {
		return invalid("object", "must not be nil")
	}
	if obj.ID == "" {
		return invalid("object id", "must not be empty")
	}
	if err := obj.Bounds.Validate(); err != nil {
		return err
	}
	t.root.insert(obj)
	return nil
}

// Retrieve returns every object that may collide with b.
// The result is a superset; confirm with CheckCollision.
func (t *QuadTree) Retrieve(b BoundingBox) []*Object {
	return t.root.retrieve(b, nil)
}

// RetrieveAppend appends candidates for b to buf and returns the extended slice
func (t *QuadTree) RetrieveAppend(b BoundingBox, buf []*Object) []*Object {
	return t.root.retrieve(b, buf)
}

// Clear empties the tree and discards every child node
func (t *QuadTree) Clear() {
	t.root.clear()
	t.splits = 0
}

// Len returns the number of stored objects
func (t *QuadTree) Len() int {
	return t.Stats().Objects
}

// Stats walks the tree
func (t *QuadTree) Stats() QuadTreeStats {
	s := QuadTreeStats{Subdivisions: t.splits}
	t.root.walk(func(n *quadNode) {
		s.Nodes++
		s.Objects += len(n.objects)
		if n.level > s.Depth {
			s.Depth = n.level
		}
	})
	return s
}

func (n *quadNode) insert(obj *Object) {
	if n.children != nil {
		if i := n.index(obj.Bounds); i != noQuadrant {
			n.children[i].insert(obj)
			return
		}
	}

	n.objects = append(n.objects, obj)

	cfg := n.tree.cfg
	if len(n.objects) <= cfg.Capacity || n.level >= cfg.MaxDepth {
		return
	}
	if n.children == nil && !n.split() {
		return
	}

	kept := n.objects[:0]
	for _, o := range n.objects {
		if i := n.index(o.Bounds); i != noQuadrant {
			n.children[i].insert(o)
		} else {
			kept = append(kept, o)
		}
	}
	for i := len(kept); i < len(n.objects); i++ {
		n.objects[i] = nil
	}
	n.objects = kept
}

// split creates the four quadrants unless they would fall below the minimum size
func (n *quadNode) split() bool {
	w := n.bounds.Width / 2
	h := n.bounds.Height / 2
	if w < n.tree.cfg.MinSize || h < n.tree.cfg.MinSize {
		return false
	}
	x, y := n.bounds.X, n.bounds.Y
	next := n.level + 1
	n.children = &[4]*quadNode{
		quadTopLeft:     {tree: n.tree, level: next, bounds: BoundingBox{X: x, Y: y, Width: w, Height: h}},
		quadTopRight:    {tree: n.tree, level: next, bounds: BoundingBox{X: x + w, Y: y, Width: w, Height: h}},
		quadBottomLeft:  {tree: n.tree, level: next, bounds: BoundingBox{X: x, Y: y + h, Width: w, Height: h}},
		quadBottomRight: {tree: n.tree, level: next, bounds: BoundingBox{X: x + w, Y: y + h, Width: w, Height: h}},
	}
	n.splits++
	n.tree.splits++
	return true
}

// index returns the quadrant that fully contains b, or noQuadrant when b
// straddles a midpoint
func (n *quadNode) index(b BoundingBox) int {
	vMid := n.bounds.X + n.bounds.Width/2
	hMid := n.bounds.Y + n.bounds.Height/2

	top := b.Y < hMid && b.Bottom() < hMid
	bottom := b.Y > hMid
	left := b.X < vMid && b.Right() < vMid
	right := b.X > vMid

	switch {
	case left && top:
		return quadTopLeft
	case right && top:
		return quadTopRight
	case left && bottom:
		return quadBottomLeft
	case right && bottom:
		return quadBottomRight
	}
	return noQuadrant
}

func (n *quadNode) retrieve(b BoundingBox, out []*Object) []*Object {
	out = append(out, n.objects...)
	if n.children == nil {
		return out
	}
	if i := n.index(b); i != noQuadrant {
		return n.children[i].retrieve(b, out)
	}
	for _, c := range n.children {
		out = c.retrieve(b, out)
	}
	return out
}

func (n *quadNode) clear() {
	clear(n.objects)
	n.objects = n.objects[:0]
	if n.children != nil {
		for _, c := range n.children {
			c.clear()
		}
		n.children = nil
	}
	n.splits = 0
}

func (n *quadNode) walk(fn func(*quadNode)) {
	fn(n)
	if n.children == nil {
		return
	}
	for _, c := range n.children {
		c.walk(fn)
	}
}
