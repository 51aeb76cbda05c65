// Package app assembles the simulation and its hosts from configuration
package app

import (
	"context"
	"fmt"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/audio"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/game"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/internal/config"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/internal/logging"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/store"
)

// coreSet provides the game and the services every host needs
var coreSet = wire.NewSet(
	provideLogger,
	provideStore,
	provideScore,
	provideWaves,
	newRelay,
	provideRecorder,
	provideGame,
	provideAudio,
)

// provideLogger builds the logger from the log section
func provideLogger(cfg config.Config) (*zap.Logger, func(), error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// provideStore opens the score database
func provideStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (*store.Store, func(), error) {
	st, err := store.Open(ctx, cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("store opened", zap.String("path", cfg.Store.Path))
	return st, func() {
		if err := st.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}, nil
}

// provideScore starts scoring from the persisted high score
func provideScore(ctx context.Context, cfg config.Config, st *store.Store) (*game.Score, error) {
	high, err := st.HighScore(ctx)
	if err != nil {
		return nil, err
	}
	return game.NewScore(cfg.Game.Points, high), nil
}

func provideWaves(cfg config.Config) *game.Waves {
	return game.NewWaves(cfg.Game.Waves)
}

func provideRecorder(cfg config.Config, st *store.Store, logger *zap.Logger) *runRecorder {
	return newRecorder(st, cfg.Sim.UpdateRate, logger.Named("runs"))
}

// provideGame builds the game. Its events go through the relay and finished
// runs go to the recorder.
func provideGame(cfg config.Config, waves *game.Waves, score *game.Score, events *relay, rec *runRecorder, logger *zap.Logger) (*game.Game, error) {
	gc, err := cfg.GameConfig()
	if err != nil {
		return nil, fmt.Errorf("game config: %w", err)
	}
	g, err := game.New(gc, game.Deps{
		Waves:      waves,
		Score:      score,
		Events:     events,
		Logger:     logger.Named("game"),
		OnGameOver: rec.Record,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("game ready",
		zap.Float64("width", gc.World.Width),
		zap.Float64("height", gc.World.Height),
		zap.Uint64("seed", gc.Seed),
		zap.Stringer("ship", gc.ShipClass),
		zap.Int("high_score", score.High()),
	)
	return g, nil
}

// provideAudio returns nil when audio is disabled
func provideAudio(cfg config.Config, events *relay, logger *zap.Logger) *audio.Player {
	if !cfg.Audio.Enabled {
		return nil
	}
	p := audio.NewPlayer(cfg.Audio.Volume, logger.Named("audio"))
	events.attach(p)
	return p
}
