package ambisonic

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source is a single-channel sample stream. Next returns the next
// sample and true, or an undefined sample and false once the stream
// is exhausted. After the first false, every further call must return
// false.
//
// Samples are nominally in [-1, 1] but the engine does not clip.
// Sources are pulled from the playback goroutine only and need no
// internal synchronization.
type Source interface {
	Next() (sample float64, ok bool)
}

// sine is an infinite sine oscillator.
type sine struct {
	phase float64
	step  float64
}

// NewSine returns an infinite sine source at the given frequency in
// Hz, sampled at sampleRate.
func NewSine(freq, sampleRate float64) Source {
	return &sine{step: 2 * math.Pi * freq / sampleRate}
}

func (s *sine) Next() (float64, bool) {
	x := math.Sin(s.phase)
	s.phase += s.step
	if s.phase >= 2*math.Pi {
		s.phase -= 2 * math.Pi
	}
	return x, true
}

// constant is an infinite DC source, mainly useful in tests.
type constant struct {
	value float64
}

// NewConstant returns an infinite source that emits value forever.
func NewConstant(value float64) Source {
	return constant{value: value}
}

func (c constant) Next() (float64, bool) {
	return c.value, true
}

// ramp counts up one unit per second, useful for verifying stream
// positions in tests.
type ramp struct {
	value float64
	step  float64
}

// NewRamp returns an infinite source whose output increases by 1.0
// per second of samples, starting at 0.
func NewRamp(sampleRate float64) Source {
	return &ramp{step: 1 / sampleRate}
}

func (r *ramp) Next() (float64, bool) {
	x := r.value
	r.value += r.step
	return x, true
}

// noise is infinite white Gaussian noise.
type noise struct {
	dist distuv.Normal
}

// NewNoise returns an infinite white noise source with unit standard
// deviation.
func NewNoise() Source {
	return &noise{dist: distuv.Normal{Mu: 0, Sigma: 1}}
}

func (n *noise) Next() (float64, bool) {
	return n.dist.Rand(), true
}

// buffer plays a fixed slice of samples once.
type buffer struct {
	samples []float64
	pos     int
}

// NewBuffer returns a finite source that plays samples once and then
// reports exhaustion. The slice is not copied and must not be
// modified while playing.
func NewBuffer(samples []float64) Source {
	return &buffer{samples: samples}
}

func (b *buffer) Next() (float64, bool) {
	if b.pos >= len(b.samples) {
		return 0, false
	}
	x := b.samples[b.pos]
	b.pos++
	return x, true
}
