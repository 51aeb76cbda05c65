package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/game"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/sim"
)

// Lead is how far ahead of the ship the keyboard target sits; it is past the
// slow-down radius so the ship travels at speed
const Lead = 400.0

// Action is what a key asks the host to do besides steering
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionRestart
)

// Keyboard turns key presses into a steering intent. Terminals report no key
// releases, so direction, fire and boost latch until changed.
type Keyboard struct {
	dx, dy float64
	fire   bool
	boost  bool
}

// Key applies ev and reports the host action it asks for
func (k *Keyboard) Key(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyUp:
		k.steer(0, -1)
	case tcell.KeyDown:
		k.steer(0, 1)
	case tcell.KeyLeft:
		k.steer(-1, 0)
	case tcell.KeyRight:
		k.steer(1, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return ActionQuit
		case 'r':
			return ActionRestart
		case 'w':
			k.steer(0, -1)
		case 's':
			k.steer(0, 1)
		case 'a':
			k.steer(-1, 0)
		case 'd':
			k.steer(1, 0)
		case 'x':
			k.dx, k.dy = 0, 0
		case ' ':
			k.fire = !k.fire
		case 'b':
			k.boost = !k.boost
		}
	}
	return ActionNone
}

// steer adds an axis; pressing against the current heading on that axis
// cancels it
func (k *Keyboard) steer(dx, dy float64) {
	if dx != 0 {
		if k.dx == -dx {
			k.dx = 0
		} else {
			k.dx = dx
		}
	}
	if dy != 0 {
		if k.dy == -dy {
			k.dy = 0
		} else {
			k.dy = dy
		}
	}
}

// Intent aims Lead units from ship along the latched heading. With no
// heading the target is the ship itself and it coasts to a stop.
func (k *Keyboard) Intent(ship sim.Point) game.Intent {
	return game.Intent{
		TargetX: ship.X + k.dx*Lead,
		TargetY: ship.Y + k.dy*Lead,
		Fire:    k.fire,
		Boost:   k.boost,
	}
}
