// Package audio synthesizes the game's sound effects at runtime. No sample
// assets ship with the binary: every effect is a beep streamer composed from
// sine, square, and noise primitives, so tests can drain them into buffers
// without ever opening a speaker.
package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType selects the oscillator's wave shape.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveNoise
)

// oscillator generates a raw wave for a fixed duration.
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator returns a streamer producing the given wave at freq for the
// given duration. Noise ignores freq.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope shapes a streamer with linear attack and release ramps around a
// full-volume sustain.
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope wraps s with an attack/release envelope over duration. If
// attack plus release exceeds duration the sustain collapses to zero.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if releaseStart := e.totalSamples - e.releaseSamples; e.position >= releaseStart && e.releaseSamples > 0 {
			vol = float64(e.totalSamples-e.position) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a streamer by a linear volume. math.Log2(0) is -Inf, so
// zero and negative volumes switch to Silent instead.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// Effect timings. Move and thud stay short enough to layer over rapid key
// repeats without smearing.
const (
	tickDuration = 45 * time.Millisecond
	tickAttack   = 2 * time.Millisecond
	tickRelease  = 30 * time.Millisecond

	thudDuration = 110 * time.Millisecond
	thudAttack   = 1 * time.Millisecond
	thudRelease  = 85 * time.Millisecond

	arpeggioNoteDuration = 95 * time.Millisecond
	arpeggioAttack       = 3 * time.Millisecond
	arpeggioRelease      = 45 * time.Millisecond

	chimeDuration        = 380 * time.Millisecond
	chimeAttack          = 4 * time.Millisecond
	chimeFundamentalRing = 320 * time.Millisecond
	chimeOvertoneRing    = 180 * time.Millisecond
)

// MoveTick is the short bright blip for an accepted step.
func MoveTick(rate beep.SampleRate) beep.Streamer {
	osc := NewOscillator(660.0, tickDuration, WaveSine, rate)
	shaped := NewEnvelope(osc, tickDuration, tickAttack, tickRelease, rate)
	return newVolume(shaped, 0.5)
}

// WallThud is the dull knock for a step rejected by a wall. A low square
// carries the body, a noise burst the impact.
func WallThud(rate beep.SampleRate) beep.Streamer {
	body := NewOscillator(85.0, thudDuration, WaveSquare, rate)
	bodyShaped := NewEnvelope(body, thudDuration, thudAttack, thudRelease, rate)

	impact := NewOscillator(0, thudDuration/3, WaveNoise, rate)
	impactShaped := NewEnvelope(impact, thudDuration/3, thudAttack, thudDuration/4, rate)

	mixed := beep.Mix(
		newVolume(bodyShaped, 0.55),
		newVolume(impactShaped, 0.2),
	)
	return newVolume(mixed, 0.8)
}

// VictoryArpeggio is four ascending square notes (C5 E5 G5 C6) played when
// the exit is reached.
func VictoryArpeggio(rate beep.SampleRate) beep.Streamer {
	freqs := []float64{523.25, 659.25, 783.99, 1046.50}
	notes := make([]beep.Streamer, 0, len(freqs))
	for _, f := range freqs {
		osc := NewOscillator(f, arpeggioNoteDuration, WaveSquare, rate)
		notes = append(notes, NewEnvelope(osc, arpeggioNoteDuration, arpeggioAttack, arpeggioRelease, rate))
	}
	return newVolume(beep.Seq(notes...), 0.4)
}

// SaveChime is a bell-like ding for a completed save or load: an A5
// fundamental with a fading octave overtone.
func SaveChime(rate beep.SampleRate) beep.Streamer {
	fund := NewOscillator(880.0, chimeDuration, WaveSine, rate)
	fundShaped := NewEnvelope(fund, chimeDuration, chimeAttack, chimeFundamentalRing, rate)

	over := NewOscillator(1760.0, chimeDuration, WaveSine, rate)
	overShaped := NewEnvelope(over, chimeDuration, chimeAttack, chimeOvertoneRing, rate)

	mixed := beep.Mix(
		newVolume(fundShaped, 0.7),
		newVolume(overShaped, 0.3),
	)
	return newVolume(mixed, 0.6)
}
