// Package mixer implements the audio-thread half of the engine: the
// per-source spatializing encoder and the bus that sums all live
// sources into a single B-format stream.
package mixer

import (
	"github.com/tphakala/go-ambisonic/internal/bformat"
)

// Source is the pull interface for mono sample streams. Next returns
// the next sample, or ok=false once the stream is exhausted.
// Exhaustion is terminal.
//
// Implementations must produce samples at the scene sample rate; the
// engine performs no input rate conversion.
type Source interface {
	Next() (sample float64, ok bool)
}

const (
	// weightSmoothingStep bounds how far the encoding weights move
	// per tick when following a position change.
	weightSmoothingStep = 0.001

	// initialReadOffset primes the interpolation window so the first
	// emitted sample is the first input sample.
	initialReadOffset = 2.0

	// minDopplerRate and maxDopplerRate clamp the playback-rate
	// multiplier away from the singularity at radial velocities near
	// the speed of sound.
	minDopplerRate = 0.125
	maxDopplerRate = 8.0
)

// Spatializer encodes one mono source into B-format frames, applying
// the source's live position, gain and Doppler shift. It owns its
// input stream exclusively and shares only the SourceState with
// control handles.
type Spatializer struct {
	input Source
	state *SourceState

	weights bformat.Weights
	target  bformat.Weights

	// Fractional-rate reader over the input stream. prev and nxt
	// bracket the current read offset; offset in [0,1) interpolates
	// between them.
	offset  float64
	prev    float64
	nxt     float64
	drained bool
}

// NewSpatializer wraps input with the spatial encoder driven by state.
func NewSpatializer(input Source, state *SourceState) *Spatializer {
	return &Spatializer{
		input:  input,
		state:  state,
		offset: initialReadOffset,
	}
}

// next produces the source's B-format frame for this tick, or
// ok=false once the source is stopped or exhausted. Runs on the audio
// goroutine only.
func (s *Spatializer) next() (bformat.Frame, bool) {
	if s.state.Stopped() {
		return bformat.Frame{}, false
	}

	st := s.state.take()

	if st.paused {
		// Exact silence; the read offset and interpolation window
		// stay frozen so resume continues at the same stream
		// position.
		return bformat.Frame{}, true
	}

	if st.omni {
		s.target = bformat.Omni().Scale(st.gain)
	} else {
		s.target = bformat.Encode(st.position, s.state.attenuate).Scale(st.gain)
	}
	if st.snap {
		s.weights = s.target
	} else {
		s.weights.Approach(s.target, weightSmoothingStep)
	}

	for s.offset >= 1.0 {
		if !s.advance() {
			s.state.Stop()
			return bformat.Frame{}, false
		}
		s.offset -= 1.0
	}

	x := s.nxt*s.offset + s.prev*(1.0-s.offset)
	s.offset += s.rate(st)

	return s.weights.ScaleSample(x), true
}

// advance shifts the interpolation window forward by one input
// sample. It reports false when the window has moved past the final
// sample.
func (s *Spatializer) advance() bool {
	if s.drained {
		return false
	}
	s.prev = s.nxt
	if v, ok := s.input.Next(); ok {
		s.nxt = v
	} else {
		s.nxt = 0
		s.drained = true
	}
	return true
}

// rate returns the playback-rate multiplier for the current tick. A
// source approaching the listener reads faster than real time
// (pitched up), a receding one slower.
func (s *Spatializer) rate(st snapshot) float64 {
	if !s.state.doppler {
		return 1.0
	}

	c := s.state.speedOfSound
	dist := bformat.Norm3(st.position)

	// Radial speed away from the listener. At the listener position
	// the direction is undefined; treat the full speed as recession,
	// as a source flying past overhead would be heard.
	var recession float64
	if dist < 1e-9 {
		recession = bformat.Norm3(st.velocity)
	} else {
		recession = bformat.Dot3(st.position, st.velocity) / dist
	}

	denom := c + recession
	if denom <= c/maxDopplerRate {
		return maxDopplerRate
	}

	rate := c / denom
	if rate < minDopplerRate {
		return minDopplerRate
	}
	return rate
}
