package game

import (
	"fmt"
	"strings"
)

// ShipClass selects the hull the player flies
type ShipClass int

const (
	ClassFighter ShipClass = iota
	ClassTank
	ClassScout
)

var classNames = [...]string{
	ClassFighter: "fighter",
	ClassTank:    "tank",
	ClassScout:   "scout",
}

// Hull holds the stats of a ship class
type Hull struct {
	MaxHP      int
	Accel      float64 // units/s²
	MaxSpeed   float64 // units/s
	BoostMul   float64
	FireCD     float64 // seconds between volleys
	ProjDamage int
	ProjSpeed  float64
	ProjCount  int     // projectiles per volley
	ProjSpread float64 // total fan angle in radians
	Radius     float64
	TurnSpeed  float64 // radians/s
}

var hulls = [...]Hull{
	// balanced
	ClassFighter: {
		MaxHP: 100, Accel: 600, MaxSpeed: 350, BoostMul: 1.6,
		FireCD: 0.15, ProjDamage: 20, ProjSpeed: 800,
		ProjCount: 1, Radius: 20, TurnSpeed: 8,
	},
	// shotgun spread
	ClassTank: {
		MaxHP: 200, Accel: 350, MaxSpeed: 220, BoostMul: 1.4,
		FireCD: 0.4, ProjDamage: 15, ProjSpeed: 700,
		ProjCount: 5, ProjSpread: 0.3, Radius: 25, TurnSpeed: 6,
	},
	// fragile rapid fire
	ClassScout: {
		MaxHP: 60, Accel: 800, MaxSpeed: 480, BoostMul: 1.8,
		FireCD: 0.1, ProjDamage: 12, ProjSpeed: 900,
		ProjCount: 1, Radius: 16, TurnSpeed: 10,
	},
}

// Hull returns the stats of c, falling back to the fighter
func (c ShipClass) Hull() Hull {
	if c < 0 || int(c) >= len(hulls) {
		return hulls[ClassFighter]
	}
	return hulls[c]
}

func (c ShipClass) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

// ParseShipClass maps a class name to its ShipClass
func ParseShipClass(s string) (ShipClass, error) {
	for i, name := range classNames {
		if strings.EqualFold(s, name) {
			return ShipClass(i), nil
		}
	}
	return ClassFighter, fmt.Errorf("unknown ship class %q", s)
}
