// Package audio turns gameplay events into short generated sound effects
package audio

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/game"
)

const (
	sampleRate = beep.SampleRate(44100)
	queueSize  = 64
	// fire events arrive every few steps; cap how many overlap
	maxVoices = 16
)

// Player is a game.EventSink that plays a tone per event. Emit never blocks;
// events are dropped when the queue is full.
type Player struct {
	events  chan game.Event
	volume  float64
	rate    beep.SampleRate
	logger  *zap.Logger
	mixer   *beep.Mixer
	play    func(beep.Streamer)
	dropped atomic.Uint64
}

// NewPlayer creates a player; volume is in 0..1
func NewPlayer(volume float64, logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Player{
		events: make(chan game.Event, queueSize),
		volume: volume,
		rate:   sampleRate,
		logger: logger,
		mixer:  &beep.Mixer{},
	}
	p.play = p.mix
	return p
}

// Emit queues e for playback
func (p *Player) Emit(e game.Event) {
	select {
	case p.events <- e:
	default:
		p.dropped.Add(1)
	}
}

// Dropped counts events lost to a full queue
func (p *Player) Dropped() uint64 { return p.dropped.Load() }

// Run opens the speaker and plays queued events until ctx is done. Without
// an audio device it logs once and keeps draining silently.
func (p *Player) Run(ctx context.Context) error {
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		p.logger.Warn("audio disabled: no output device", zap.Error(err))
		p.play = func(beep.Streamer) {}
	} else {
		speaker.Play(p.mixer)
		defer speaker.Close()
	}
	p.loop(ctx)
	return nil
}

func (p *Player) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-p.events:
			if s := Sound(e, p.rate, p.volume); s != nil {
				p.play(s)
			}
		}
	}
}

func (p *Player) mix(s beep.Streamer) {
	speaker.Lock()
	defer speaker.Unlock()
	if p.mixer.Len() >= maxVoices {
		return
	}
	p.mixer.Add(s)
}
