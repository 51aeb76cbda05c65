package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/game"
)

// Wave selects an oscillator shape
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// tone is a fixed-length oscillator
type tone struct {
	freq     float64
	phase    float64
	length   int
	position int
	wave     Wave
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewTone returns an oscillator that stops after d
func NewTone(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &tone{
		freq:   freq,
		length: rate.N(d),
		wave:   wave,
		rate:   rate,
		rng:    rand.New(rand.NewPCG(uint64(freq*1000), uint64(d))),
	}
}

func (o *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.length {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *tone) Err() error { return nil }

// decay fades a stream out exponentially after a linear attack
type decay struct {
	streamer beep.Streamer
	position int
	attack   int
	rate     float64 // per sample
}

// NewDecay shapes s with an attack ramp and an exponential tail; halfLife is
// the time for the level to halve after the attack
func NewDecay(s beep.Streamer, attack, halfLife time.Duration, rate beep.SampleRate) beep.Streamer {
	hl := rate.N(halfLife)
	if hl < 1 {
		hl = 1
	}
	return &decay{
		streamer: s,
		attack:   rate.N(attack),
		rate:     math.Ln2 / float64(hl),
	}
}

func (e *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		var vol float64
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		} else {
			vol = math.Exp(-e.rate * float64(e.position-e.attack))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *decay) Err() error { return e.streamer.Err() }

// math.Log2(0) is -Inf, so zero volume goes silent instead
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

func blip(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return NewDecay(NewTone(freq, d, wave, rate), 2*time.Millisecond, d/3, rate)
}

// Sound returns the effect for e, or nil when the event is silent
func Sound(e game.Event, rate beep.SampleRate, volume float64) beep.Streamer {
	var s beep.Streamer
	switch e.Kind {
	case game.EventFire:
		s = newVolume(blip(880, 40*time.Millisecond, WaveSquare, rate), 0.25)
	case game.EventHit:
		s = newVolume(blip(160, 80*time.Millisecond, WaveSaw, rate), 0.5)
	case game.EventDestroyed:
		s = beep.Mix(
			newVolume(blip(0, 300*time.Millisecond, WaveNoise, rate), 0.6),
			newVolume(blip(70, 300*time.Millisecond, WaveSine, rate), 0.5),
		)
	case game.EventPickup:
		s = beep.Seq(
			blip(660, 70*time.Millisecond, WaveSine, rate),
			blip(990, 110*time.Millisecond, WaveSine, rate),
		)
	case game.EventWaveStart:
		s = beep.Seq(
			blip(440, 90*time.Millisecond, WaveSquare, rate),
			blip(554.37, 90*time.Millisecond, WaveSquare, rate),
			blip(659.25, 160*time.Millisecond, WaveSquare, rate),
		)
	case game.EventGameOver:
		s = beep.Seq(
			blip(392, 200*time.Millisecond, WaveSaw, rate),
			blip(311.13, 200*time.Millisecond, WaveSaw, rate),
			blip(196, 500*time.Millisecond, WaveSaw, rate),
		)
	default:
		return nil
	}
	return newVolume(s, volume)
}
