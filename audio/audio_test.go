package audio

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/game"
)

func drain(s beep.Streamer) (total int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func TestToneLength(t *testing.T) {
	rate := beep.SampleRate(8000)
	for _, w := range []Wave{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		n, peak := drain(NewTone(440, 100*time.Millisecond, w, rate))
		assert.Equal(t, rate.N(100*time.Millisecond), n, "wave %d", w)
		assert.LessOrEqual(t, peak, 1.0)
		assert.Greater(t, peak, 0.0)
	}
}

func TestSquareToneValues(t *testing.T) {
	buf := make([][2]float64, 64)
	n, ok := NewTone(220, 50*time.Millisecond, WaveSquare, 8000).Stream(buf)
	require.True(t, ok)
	for i := 0; i < n; i++ {
		if buf[i][0] != 1 && buf[i][0] != -1 {
			t.Fatalf("sample %d = %f, want +-1", i, buf[i][0])
		}
	}
}

func TestDecayFades(t *testing.T) {
	rate := beep.SampleRate(8000)
	s := NewDecay(NewTone(0, time.Second, WaveSquare, rate), 0, 10*time.Millisecond, rate)
	buf := make([][2]float64, rate.N(time.Second))
	n, _ := s.Stream(buf)
	require.Equal(t, len(buf), n)
	assert.InDelta(t, 1.0, buf[0][0], 1e-9)
	assert.InDelta(t, 0.5, buf[rate.N(10*time.Millisecond)][0], 1e-3)
	assert.Less(t, buf[n-1][0], 1e-6)
}

func TestSoundPerEvent(t *testing.T) {
	for _, kind := range []game.EventKind{
		game.EventFire, game.EventHit, game.EventDestroyed,
		game.EventPickup, game.EventWaveStart, game.EventGameOver,
	} {
		s := Sound(game.Event{Kind: kind}, 8000, 1)
		require.NotNil(t, s, kind.String())
		n, _ := drain(s)
		assert.Positive(t, n, kind.String())
	}
	assert.Nil(t, Sound(game.Event{}, 8000, 1))

	_, peak := drain(Sound(game.Event{Kind: game.EventHit}, 8000, 0))
	assert.Zero(t, peak, "zero volume is silent")
}

func TestPlayerQueuesAndDrops(t *testing.T) {
	p := NewPlayer(1, nil)
	var mu sync.Mutex
	var played int
	p.play = func(beep.Streamer) {
		mu.Lock()
		played++
		mu.Unlock()
	}

	for i := 0; i < queueSize+10; i++ {
		p.Emit(game.Event{Kind: game.EventFire})
	}
	assert.Equal(t, uint64(10), p.Dropped())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.loop(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return played == queueSize
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
