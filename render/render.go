// Package render draws game snapshots into a terminal with tcell
package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/game"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/sim"
)

type glyph struct {
	r     rune
	style tcell.Style
}

var glyphs = map[string]glyph{
	sim.TypeEnemy.String():           {'W', tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)},
	sim.TypeProjectile.String():      {'·', tcell.StyleDefault.Foreground(tcell.ColorYellow)},
	sim.TypeEnemyProjectile.String(): {'*', tcell.StyleDefault.Foreground(tcell.ColorFuchsia)},
	sim.TypeAsteroid.String():        {'O', tcell.StyleDefault.Foreground(tcell.ColorGray)},
	sim.TypePickup.String():          {'+', tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)},
}

// ship arrows indexed by octant, starting east and turning clockwise (y down)
var shipArrows = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

var (
	shipStyle  = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	hudStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	alertStyle = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// Renderer maps world coordinates onto the screen; the bottom row is the HUD
type Renderer struct {
	screen tcell.Screen
}

// New wraps an initialised screen
func New(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Screen returns the wrapped screen
func (r *Renderer) Screen() tcell.Screen { return r.screen }

// Cell converts a world point to a screen cell for a playfield of cols x rows
func Cell(p sim.Point, world game.World, cols, rows int) (int, int) {
	return scale(p.X, world.Width, cols), scale(p.Y, world.Height, rows)
}

func scale(v, extent float64, n int) int {
	f := sim.Clamp(v/extent*float64(n), 0, float64(n-1))
	if math.IsNaN(f) {
		return 0
	}
	return int(f)
}

// ShipArrow picks the arrow closest to rotation (radians, y down)
func ShipArrow(rotation float64) rune {
	octant := int(math.Round(game.NormalizeAngle(rotation)/(math.Pi/4))) % 8
	if octant < 0 {
		octant += 8
	}
	return shipArrows[octant]
}

// Draw renders s interpolated by its alpha and shows the frame
func (r *Renderer) Draw(s game.Snapshot) {
	r.screen.Clear()
	cols, rows := r.screen.Size()
	field := rows - 1
	if cols <= 0 || field <= 0 || !(s.World.Width > 0) || !(s.World.Height > 0) {
		r.screen.Show()
		return
	}

	for _, e := range s.Entities {
		if !e.Alive {
			continue
		}
		g, ok := glyphs[e.Type]
		if !ok {
			continue
		}
		x, y := Cell(e.Lerp(s.Alpha, s.World), s.World, cols, field)
		r.screen.SetContent(x, y, g.r, nil, g.style)
	}

	if s.Ship.Alive {
		x, y := Cell(s.Ship.Lerp(s.Alpha, s.World), s.World, cols, field)
		r.screen.SetContent(x, y, ShipArrow(s.Ship.R), nil, shipStyle)
	}

	hud := fmt.Sprintf(" SCORE %d  HI %d  WAVE %d  HP %d/%d ", s.Score, s.HighScore, s.Wave, s.Ship.HP, s.Ship.MaxHP)
	for x := 0; x < cols; x++ {
		r.screen.SetContent(x, rows-1, ' ', nil, hudStyle)
	}
	drawText(r.screen, 0, rows-1, hud, hudStyle)

	if s.Over {
		msg := "GAME OVER  r: restart  q: quit"
		drawText(r.screen, (cols-len([]rune(msg)))/2, field/2, msg, alertStyle)
	}
	r.screen.Show()
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	if x < 0 {
		x = 0
	}
	for _, ch := range text {
		screen.SetContent(x, y, ch, nil, style)
		x++
	}
}
