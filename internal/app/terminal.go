package app

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/google/wire"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/audio"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/game"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/internal/config"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/render"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/sim"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/store"
)

const keyQueue = 32

var terminalSet = wire.NewSet(
	coreSet,
	render.New,
	wire.Struct(new(Terminal), "*"),
)

// Terminal plays the game in a terminal with the keyboard
type Terminal struct {
	Config   config.Config
	Logger   *zap.Logger
	Store    *store.Store
	Game     *game.Game
	Renderer *render.Renderer
	Audio    *audio.Player // nil when audio is disabled
	Recorder *runRecorder
}

// Run plays until the player quits or ctx is done. The screen must be
// initialised; the caller finalises it.
func (t *Terminal) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keys := make(chan *tcell.EventKey, keyQueue)
	var kb render.Keyboard

	var loop *sim.Loop
	loop, err := sim.NewLoop(t.Config.LoopConfig(), sim.Callbacks{
		Update: t.Game.Step,
		Render: func(alpha float64) error {
			quit, err := t.drainKeys(keys, &kb)
			if err != nil {
				return err
			}
			if quit {
				t.Logger.Info("player quit", zap.Int("score", t.Game.Score()))
				loop.Stop()
			}
			s := t.Game.Snapshot(alpha)
			t.Game.HandleInput(kb.Intent(sim.Point{X: s.Ship.X, Y: s.Ship.Y}))
			t.Renderer.Draw(s)
			return nil
		},
	}, sim.WithLogger(t.Logger.Named("loop")))
	if err != nil {
		return err
	}

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error { return t.Recorder.Run(ctx) })
	if t.Audio != nil {
		grp.Go(func() error { return t.Audio.Run(ctx) })
	}
	go t.pollEvents(ctx, keys)
	grp.Go(func() error {
		defer cancel()
		return ignoreDone(loop.Run(ctx))
	})
	return grp.Wait()
}

// drainKeys applies queued key presses and reports whether one asked to quit
func (t *Terminal) drainKeys(keys <-chan *tcell.EventKey, kb *render.Keyboard) (bool, error) {
	for {
		select {
		case ev := <-keys:
			switch kb.Key(ev) {
			case render.ActionQuit:
				return true, nil
			case render.ActionRestart:
				if err := t.Game.Restart(); err != nil {
					return false, err
				}
			}
		default:
			return false, nil
		}
	}
}

// pollEvents forwards key presses until the screen is finalised or ctx is
// done
func (t *Terminal) pollEvents(ctx context.Context, keys chan<- *tcell.EventKey) {
	screen := t.Renderer.Screen()
	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			select {
			case keys <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}
