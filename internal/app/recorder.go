package app

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/game"
	"github.com/SEUNAKINTOLA/space-invaders-js-v73/store"
)

const (
	recordQueue   = 8
	flushTimeout  = 2 * time.Second
	recordTimeout = 5 * time.Second
)

// runRecorder submits the score of finished runs. Record is called under the
// game lock, so it only queues; Run does the database work.
type runRecorder struct {
	store  *store.Store
	rate   int // updates per second
	runs   chan game.Summary
	logger *zap.Logger

	dropped atomic.Uint64
	saved   atomic.Uint64
}

func newRecorder(st *store.Store, updateRate int, logger *zap.Logger) *runRecorder {
	return &runRecorder{
		store:  st,
		rate:   updateRate,
		runs:   make(chan game.Summary, recordQueue),
		logger: logger,
	}
}

// Record queues s; a full queue drops it
func (r *runRecorder) Record(s game.Summary) {
	select {
	case r.runs <- s:
	default:
		r.dropped.Add(1)
		r.logger.Warn("run dropped, recorder queue full", zap.Int("score", s.Score))
	}
}

// Run saves queued runs until ctx is done, then flushes what is left
func (r *runRecorder) Run(ctx context.Context) error {
	for {
		select {
		case s := <-r.runs:
			r.save(ctx, s)
		case <-ctx.Done():
			r.flush()
			return nil
		}
	}
}

func (r *runRecorder) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	for {
		select {
		case s := <-r.runs:
			r.save(ctx, s)
		default:
			return
		}
	}
}

func (r *runRecorder) save(ctx context.Context, s game.Summary) {
	ctx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()

	high, err := r.store.SubmitScore(ctx, s.Score)
	if err != nil {
		r.logger.Error("submit score failed", zap.Error(err), zap.Int("score", s.Score))
		return
	}
	r.saved.Add(1)
	r.logger.Info("run finished",
		zap.Int("score", s.Score),
		zap.Int("high_score", high),
		zap.Int("wave", s.Wave),
		zap.Int("enemies", s.Enemies),
		zap.Int("asteroids", s.Asteroids),
		zap.Duration("duration", r.duration(s.Ticks)),
	)
}

func (r *runRecorder) duration(ticks uint64) time.Duration {
	if r.rate <= 0 {
		return 0
	}
	return time.Duration(ticks) * time.Second / time.Duration(r.rate)
}
