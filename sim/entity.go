package sim

// Type tags an entity for type-indexed queries
type Type uint8

const (
	TypeShip Type = iota
	TypeEnemy
	TypeProjectile
	TypeEnemyProjectile
	TypeAsteroid
	TypePickup

	typeCount
)

var typeNames = [typeCount]string{
	TypeShip:            "ship",
	TypeEnemy:           "enemy",
	TypeProjectile:      "projectile",
	TypeEnemyProjectile: "enemy_projectile",
	TypeAsteroid:        "asteroid",
	TypePickup:          "pickup",
}

// Types lists every valid type in declaration order
func Types() []Type {
	out := make([]Type, typeCount)
	for i := range out {
		out[i] = Type(i)
	}
	return out
}

// Valid reports whether t is one of the declared types
func (t Type) Valid() bool { return t < typeCount }

func (t Type) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return typeNames[t]
}

// Entity is anything the manager can register and step.
// ID and Type must not change while the entity is registered; the entity owns
// the rest of its state and moves itself in Update (dt in seconds).
type Entity interface {
	ID() string
	Type() Type
	Position() Point
	Update(dt float64)
}

// Collider is an entity with a box for collision tests
type Collider interface {
	Entity
	Bounds() BoundingBox
}
