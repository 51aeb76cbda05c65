package render

import (
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/game"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/sim"
)

func newScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(cols, rows)
	t.Cleanup(screen.Fini)
	return screen
}

func runeAt(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func rowText(screen tcell.Screen, y, cols int) string {
	out := make([]rune, cols)
	for x := range out {
		out[x] = runeAt(screen, x, y)
	}
	return string(out)
}

func TestCell(t *testing.T) {
	world := game.World{Width: 1000, Height: 500}
	for _, tc := range []struct {
		p    sim.Point
		x, y int
	}{
		{sim.Point{X: 0, Y: 0}, 0, 0},
		{sim.Point{X: 500, Y: 250}, 40, 10},
		{sim.Point{X: 1000, Y: 500}, 79, 19},
		{sim.Point{X: -50, Y: 9000}, 0, 19},
		{sim.Point{X: math.NaN(), Y: math.Inf(1)}, 0, 19},
	} {
		x, y := Cell(tc.p, world, 80, 20)
		assert.Equal(t, tc.x, x, "%v", tc.p)
		assert.Equal(t, tc.y, y, "%v", tc.p)
	}
}

func TestShipArrow(t *testing.T) {
	assert.Equal(t, '→', ShipArrow(0))
	assert.Equal(t, '↓', ShipArrow(math.Pi/2))
	assert.Equal(t, '↑', ShipArrow(-math.Pi/2))
	assert.Equal(t, '←', ShipArrow(math.Pi))
	assert.Equal(t, '←', ShipArrow(-math.Pi))
	assert.Equal(t, '↗', ShipArrow(-math.Pi/4))
	assert.Equal(t, '→', ShipArrow(2*math.Pi+0.1))
}

func TestDrawSnapshot(t *testing.T) {
	screen := newScreen(t, 80, 21)
	r := New(screen)

	world := game.World{Width: 800, Height: 400}
	r.Draw(game.Snapshot{
		Score:     1200,
		HighScore: 3000,
		Wave:      3,
		World:     world,
		Alpha:     0.5,
		Ship:      game.EntityState{Type: "ship", X: 400, Y: 200, PrevX: 400, PrevY: 200, R: -math.Pi / 2, HP: 80, MaxHP: 100, Alive: true},
		Entities: []game.EntityState{
			{Type: "enemy", X: 100, Y: 100, PrevX: 100, PrevY: 100, Alive: true},
			// halfway between prev and current
			{Type: "asteroid", X: 220, Y: 300, PrevX: 180, PrevY: 300, Alive: true},
			{Type: "pickup", X: 700, Y: 40, PrevX: 700, PrevY: 40, Alive: false},
		},
	})

	assert.Equal(t, '↑', runeAt(screen, 40, 10))
	assert.Equal(t, 'W', runeAt(screen, 10, 5))
	assert.Equal(t, 'O', runeAt(screen, 20, 15))
	assert.NotEqual(t, '+', runeAt(screen, 70, 2), "dead entities are not drawn")

	hud := rowText(screen, 20, 80)
	assert.Contains(t, hud, "SCORE 1200")
	assert.Contains(t, hud, "HI 3000")
	assert.Contains(t, hud, "WAVE 3")
	assert.Contains(t, hud, "HP 80/100")
}

func TestDrawGameOver(t *testing.T) {
	screen := newScreen(t, 60, 11)
	New(screen).Draw(game.Snapshot{World: game.World{Width: 600, Height: 500}, Over: true})
	assert.Contains(t, rowText(screen, 5, 60), "GAME OVER")
}

func TestDrawTinyScreen(t *testing.T) {
	screen := newScreen(t, 10, 1)
	assert.NotPanics(t, func() {
		New(screen).Draw(game.Snapshot{World: game.World{Width: 100, Height: 100}})
	})
}

func TestKeyboard(t *testing.T) {
	var k Keyboard
	ship := sim.Point{X: 100, Y: 100}

	assert.Equal(t, game.Intent{TargetX: 100, TargetY: 100}, k.Intent(ship), "no heading holds position")

	k.Key(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	k.Key(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone))
	k.Key(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	assert.Equal(t, game.Intent{TargetX: 100 + Lead, TargetY: 100 - Lead, Fire: true}, k.Intent(ship))

	k.Key(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone))
	k.Key(tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModNone))
	in := k.Intent(ship)
	assert.Equal(t, 100.0, in.TargetY, "opposite key cancels the axis")
	assert.True(t, in.Boost)

	k.Key(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	in = k.Intent(ship)
	assert.Equal(t, 100.0, in.TargetX)
	assert.True(t, in.Fire, "stop keeps the fire latch")

	assert.Equal(t, ActionRestart, k.Key(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone)))
	assert.Equal(t, ActionQuit, k.Key(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.Equal(t, ActionQuit, k.Key(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.Equal(t, ActionNone, k.Key(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)))
}
