package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/wire"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/audio"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/game"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/internal/config"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/server"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/sim"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/store"
)

const statsInterval = 30 * time.Second

var daemonSet = wire.NewSet(
	coreSet,
	provideHub,
	providePairing,
	provideDaemonLoop,
	wire.Struct(new(Daemon), "*"),
)

// Daemon runs the simulation headless and streams it over websocket
type Daemon struct {
	Config   config.Config
	Logger   *zap.Logger
	Store    *store.Store
	Game     *game.Game
	Hub      *server.Hub
	Pairing  *server.Pairing // nil when the server is disabled
	Audio    *audio.Player   // nil when audio is disabled
	Loop     *sim.Loop
	Recorder *runRecorder
}

func provideHub(g *game.Game, events *relay, score *game.Score, logger *zap.Logger) *server.Hub {
	hub := server.NewHub(g, logger.Named("hub"))
	hub.SetHighScore(score.High())
	events.attach(hub)
	return hub
}

func providePairing(cfg config.Config) (*server.Pairing, error) {
	if !cfg.Server.Enabled {
		return nil, nil
	}
	return server.NewPairing(cfg.Server.PairingSecret, cfg.Server.PairingTTL, cfg.Server.PublicURL)
}

// publisher sends every nth rendered frame to the hub
type publisher struct {
	game  *game.Game
	hub   *server.Hub
	every int
	n     int
}

func (p *publisher) render(alpha float64) error {
	p.n++
	if p.n < p.every {
		return nil
	}
	p.n = 0
	s := p.game.Snapshot(alpha)
	p.hub.SetHighScore(s.HighScore)
	return p.hub.PublishSnapshot(s)
}

func provideDaemonLoop(cfg config.Config, g *game.Game, hub *server.Hub, logger *zap.Logger) (*sim.Loop, error) {
	every := 1
	if cfg.Server.SnapshotRate > 0 {
		every = max(1, cfg.Sim.FrameRate/cfg.Server.SnapshotRate)
	}
	pub := &publisher{game: g, hub: hub, every: every}
	return sim.NewLoop(cfg.LoopConfig(), sim.Callbacks{
		Update: g.Step,
		Render: pub.render,
	}, sim.WithLogger(logger.Named("loop")))
}

// Run blocks until ctx is done or a part fails. Stopping the loop stops
// everything else.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	grp, ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		d.Hub.Run(ctx)
		return nil
	})
	grp.Go(func() error { return d.Recorder.Run(ctx) })
	if d.Audio != nil {
		grp.Go(func() error { return d.Audio.Run(ctx) })
	}
	if d.Pairing != nil {
		routes := server.SetupRoutes(server.Routes{
			Hub:       d.Hub,
			Pairing:   d.Pairing,
			Scores:    d.Store,
			ClientDir: d.Config.Server.ClientDir,
			Logger:    d.Logger,
		})
		grp.Go(func() error { return server.Serve(ctx, d.Config.Server.Addr, routes, d.Logger) })
	}
	grp.Go(func() error {
		d.reportStats(ctx)
		return nil
	})
	grp.Go(func() error {
		defer cancel()
		return ignoreDone(d.Loop.Run(ctx))
	})

	d.Logger.Info("arcade running",
		zap.Bool("server", d.Pairing != nil),
		zap.Bool("audio", d.Audio != nil),
		zap.Int("update_rate", d.Loop.Config().UpdateRate),
	)
	return grp.Wait()
}

func (d *Daemon) reportStats(ctx context.Context) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := d.Loop.Stats()
			d.Logger.Info("loop stats",
				zap.Float64("fps", st.FPS),
				zap.Uint64("updates", st.Updates),
				zap.Uint64("panics", st.Panics),
				zap.Int("viewers", d.Hub.Count(server.RoleViewer)),
				zap.Int("controllers", d.Hub.Count(server.RoleController)),
				zap.Uint64("frames_published", d.Hub.FramesPublished()),
			)
		}
	}
}

// ignoreDone drops the error a loop returns when its context ends
func ignoreDone(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
