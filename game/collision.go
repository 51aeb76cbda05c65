package game

import (
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/sim"
)

// actor is an entity that takes part in collisions
type actor interface {
	sim.Collider
	Alive() bool
}

// Contact is one confirmed overlap. A.Type() <= B.Type().
type Contact struct {
	A, B sim.Collider
	Hit  sim.Collision
}

// collisionSystem finds overlapping pairs with a quadtree that is rebuilt from
// scratch every step
type collisionSystem struct {
	tree    *sim.QuadTree
	objects []sim.Object
	buf     []*sim.Object
	seen    map[[2]int]struct{}
}

func newCollisionSystem(world World, cfg sim.QuadTreeConfig) *collisionSystem {
	return &collisionSystem{
		tree: sim.NewQuadTree(world.Bounds(), cfg),
		seen: make(map[[2]int]struct{}),
	}
}

// detect returns each colliding pair of live actors once
func (c *collisionSystem) detect(actors []actor) ([]Contact, error) {
	c.tree.Clear()
	clear(c.seen)
	clear(c.objects)
	c.objects = c.objects[:0]
	for i, a := range actors {
		if !a.Alive() {
			continue
		}
		c.objects = append(c.objects, sim.Object{ID: a.ID(), Bounds: a.Bounds(), Data: i})
	}
	// objects is not appended to below, so these pointers stay valid
	for i := range c.objects {
		if err := c.tree.Insert(&c.objects[i]); err != nil {
			return nil, err
		}
	}

	var contacts []Contact
	for i := range c.objects {
		obj := &c.objects[i]
		ai := obj.Data.(int)
		c.buf = c.tree.RetrieveAppend(obj.Bounds, c.buf[:0])
		for _, cand := range c.buf {
			bi := cand.Data.(int)
			if bi == ai {
				continue
			}
			key := [2]int{min(ai, bi), max(ai, bi)}
			if _, dup := c.seen[key]; dup {
				continue
			}
			c.seen[key] = struct{}{}

			hit := sim.CheckCollision(obj.Bounds, cand.Bounds)
			if !hit.Colliding {
				continue
			}
			a, b := actors[ai], actors[bi]
			if a.Type() > b.Type() {
				a, b = b, a
				hit = sim.CheckCollision(cand.Bounds, obj.Bounds)
			}
			contacts = append(contacts, Contact{A: a, B: b, Hit: hit})
		}
	}
	clear(c.buf)
	return contacts, nil
}

// stats exposes the shape of the last rebuild
func (c *collisionSystem) stats() sim.QuadTreeStats {
	return c.tree.Stats()
}
