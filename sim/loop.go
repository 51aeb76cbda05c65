package sim

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Loop defaults
const (
	DefaultUpdateRate         = 60
	DefaultFrameRate          = 60
	DefaultMaxUpdatesPerFrame = 10
	DefaultMaxFrameDelta      = time.Second

	fpsAlpha = 0.9 // weight of the newest one-second FPS sample
)

// LoopConfig tunes the fixed-timestep loop; zero fields take the defaults
type LoopConfig struct {
	UpdateRate         int           // fixed updates per second
	FrameRate          int           // host frame callbacks per second in Run
	MaxUpdatesPerFrame int           // drains per frame before the loop panics
	MaxFrameDelta      time.Duration // larger deltas count as a single frame time
}

func (c LoopConfig) withDefaults() LoopConfig {
	if c.UpdateRate <= 0 {
		c.UpdateRate = DefaultUpdateRate
	}
	if c.FrameRate <= 0 {
		c.FrameRate = DefaultFrameRate
	}
	if c.MaxUpdatesPerFrame <= 0 {
		c.MaxUpdatesPerFrame = DefaultMaxUpdatesPerFrame
	}
	if c.MaxFrameDelta <= 0 {
		c.MaxFrameDelta = DefaultMaxFrameDelta
	}
	return c
}

// Callbacks are invoked from Frame. Update is required.
type Callbacks struct {
	// Update advances the simulation by dt seconds
	Update func(dt float64) error
	// Render draws with alpha, the unconsumed fraction of a fixed step in [0,1)
	Render func(alpha float64) error
	// Panic is told how much backlog was discarded
	Panic func(discarded time.Duration)
}

// LoopStats is observability only; it never drives the loop
type LoopStats struct {
	FPS           float64
	LastFrameTime time.Duration
	Frames        uint64
	Updates       uint64
	Renders       uint64
	Panics        uint64
	SimTime       time.Duration
}

// LoopOption customises a Loop
type LoopOption func(*Loop)

// WithClock replaces the system clock
func WithClock(c Clock) LoopOption {
	return func(l *Loop) { l.clock = c }
}

// WithLogger attaches a logger for panics and callback failures
func WithLogger(logger *zap.Logger) LoopOption {
	return func(l *Loop) { l.logger = logger }
}

// Loop decouples frame delivery from fixed simulation steps.
// Frame and Run must be driven from one goroutine; Stop, Running and Stats may
// be called from any goroutine.
type Loop struct {
	cfg       LoopConfig
	cb        Callbacks
	clock     Clock
	logger    *zap.Logger
	frameTime time.Duration

	running atomic.Bool

	// owned by the frame goroutine
	last        time.Time
	accumulator time.Duration
	fpsStart    time.Time
	fpsFrames   int
	stats       LoopStats

	mu        sync.RWMutex
	published LoopStats
}

// NewLoop creates a stopped loop
func NewLoop(cfg LoopConfig, cb Callbacks, opts ...LoopOption) (*Loop, error) {
	if cb.Update == nil {
		return nil, invalid("update callback", "must not be nil")
	}
	cfg = cfg.withDefaults()
	l := &Loop{
		cfg:       cfg,
		cb:        cb,
		clock:     SystemClock(),
		logger:    zap.NewNop(),
		frameTime: time.Second / time.Duration(cfg.UpdateRate),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// FrameTime returns the fixed step duration
func (l *Loop) FrameTime() time.Duration { return l.frameTime }

// Config returns the effective configuration
func (l *Loop) Config() LoopConfig { return l.cfg }

// Running reports whether the loop accepts frames
func (l *Loop) Running() bool { return l.running.Load() }

// Start moves a stopped loop to running and resets its timing state
func (l *Loop) Start() {
	if !l.running.CompareAndSwap(false, true) {
		return
	}
	now := l.clock.Now()
	l.last = now
	l.fpsStart = now
	l.fpsFrames = 0
	l.accumulator = 0
}

// Stop halts the loop before its next frame
func (l *Loop) Stop() {
	l.running.Store(false)
}

// Stats returns the statistics published by the last frame
func (l *Loop) Stats() LoopStats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.published
}

// Frame performs one host frame callback at wall-clock time now.
// It does nothing while the loop is stopped.
func (l *Loop) Frame(now time.Time) error {
	if !l.running.Load() {
		return nil
	}
	defer l.publish()
	defer func() {
		// a panicking callback leaves the loop stopped
		if r := recover(); r != nil {
			l.running.Store(false)
			panic(r)
		}
	}()

	delta := now.Sub(l.last)
	l.last = now
	if delta < 0 {
		delta = 0
	} else if delta > l.cfg.MaxFrameDelta {
		delta = l.frameTime
	}
	l.stats.LastFrameTime = delta
	l.stats.Frames++
	l.trackFPS(now)

	l.accumulator += delta
	dt := l.frameTime.Seconds()
	updates := 0
	for l.accumulator >= l.frameTime {
		if err := l.cb.Update(dt); err != nil {
			return l.fail(PhaseUpdate, err)
		}
		l.accumulator -= l.frameTime
		l.stats.SimTime += l.frameTime
		l.stats.Updates++
		updates++
		if updates >= l.cfg.MaxUpdatesPerFrame {
			l.enterPanic()
			break
		}
	}

	if l.cb.Render != nil {
		alpha := float64(l.accumulator) / float64(l.frameTime)
		if err := l.cb.Render(alpha); err != nil {
			return l.fail(PhaseRender, err)
		}
		l.stats.Renders++
	}
	return nil
}

// Run starts the loop and drives Frame from a ticker at the configured frame
// rate. It returns nil after Stop, the callback error that stopped the loop, or
// the context error.
func (l *Loop) Run(ctx context.Context) error {
	l.Start()
	ticker := time.NewTicker(time.Second / time.Duration(l.cfg.FrameRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-ticker.C:
			if !l.running.Load() {
				return nil
			}
			if err := l.Frame(l.clock.Now()); err != nil {
				return err
			}
		}
	}
}

func (l *Loop) enterPanic() {
	discarded := l.accumulator
	l.accumulator = 0
	l.stats.Panics++
	l.logger.Warn("simulation fell behind, discarding backlog",
		zap.Duration("discarded", discarded),
		zap.Int("max_updates_per_frame", l.cfg.MaxUpdatesPerFrame),
	)
	if l.cb.Panic != nil {
		l.cb.Panic(discarded)
	}
}

func (l *Loop) fail(phase LoopPhase, err error) error {
	l.running.Store(false)
	l.logger.Error("loop callback failed, loop stopped",
		zap.String("phase", string(phase)),
		zap.Error(err),
	)
	return &LoopCallbackError{Phase: phase, Err: err}
}

func (l *Loop) trackFPS(now time.Time) {
	l.fpsFrames++
	elapsed := now.Sub(l.fpsStart)
	if elapsed < time.Second {
		return
	}
	sample := float64(l.fpsFrames) / elapsed.Seconds()
	if l.stats.FPS == 0 {
		l.stats.FPS = sample
	} else {
		l.stats.FPS = fpsAlpha*sample + (1-fpsAlpha)*l.stats.FPS
	}
	l.fpsStart = now
	l.fpsFrames = 0
}

func (l *Loop) publish() {
	l.mu.Lock()
	l.published = l.stats
	l.mu.Unlock()
}
