// Package bformat implements the first-order B-format sound field
// representation: a four-component sample (omnidirectional pressure W
// plus the X, Y, Z directional gradients) and the weight vectors used
// to encode sources into it and decode it back out.
//
// Axis convention throughout the module: x = right, y = up, z = front,
// relative to the listener.
package bformat

import "math"

// invSqrt2 is the conventional 1/sqrt(2) weighting of the W channel.
const invSqrt2 = 0.7071067811865476

// directionEpsilon is the squared distance below which a source is
// considered to sit on the listener and gets the default direction.
const directionEpsilon = 1e-12

// defaultDirection is used when a source coincides with the listener:
// straight ahead.
var defaultDirection = [3]float64{0, 0, 1}

// Frame is one sample of the sound field in first-order B-format.
// The zero value is silence.
//
// Frames are linear in source amplitude, so the mix of several sources
// is the component-wise sum of their frames.
type Frame struct {
	W, X, Y, Z float64
}

// Add returns the superposition of two frames.
func (f Frame) Add(g Frame) Frame {
	return Frame{
		W: f.W + g.W,
		X: f.X + g.X,
		Y: f.Y + g.Y,
		Z: f.Z + g.Z,
	}
}

// Scale returns the frame amplified by k.
func (f Frame) Scale(k float64) Frame {
	return Frame{W: f.W * k, X: f.X * k, Y: f.Y * k, Z: f.Z * k}
}

// Weights hold per-component factors for producing or picking up
// B-format frames. Encoding weights turn a mono sample into a frame;
// virtual-microphone weights turn a frame back into a mono signal.
type Weights struct {
	W, X, Y, Z float64
}

// Omni returns weights for a source with no direction. Only the
// pressure component is driven.
func Omni() Weights {
	return Weights{W: invSqrt2}
}

// Encode returns the encoding weights for a source at pos relative to
// the listener. The directional components carry the direction
// cosines; W carries the conventional 1/sqrt(2). A source at the
// listener position encodes as if straight ahead.
//
// With attenuate set, all components are additionally scaled by
// 1/max(dist, 1), giving inverse-distance falloff with a unity plateau
// inside one unit.
func Encode(pos [3]float64, attenuate bool) Weights {
	dist := Norm3(pos)

	dir := defaultDirection
	if dist*dist > directionEpsilon {
		dir = [3]float64{pos[0] / dist, pos[1] / dist, pos[2] / dist}
	}

	falloff := 1.0
	if attenuate {
		falloff = 1.0 / math.Max(dist, 1.0)
	}

	return Weights{
		W: falloff * invSqrt2,
		X: falloff * dir[0],
		Y: falloff * dir[1],
		Z: falloff * dir[2],
	}
}

// VirtualMic returns pickup weights for a virtual microphone at the
// listener position pointing along dir (need not be normalized).
//
// p selects the polar pattern: 1 is omnidirectional, 0.5 cardioid,
// 0 bi-directional (figure of eight).
func VirtualMic(dir [3]float64, p float64) Weights {
	l := Norm3(dir)
	if l == 0 {
		dir, l = defaultDirection, 1
	}
	return Weights{
		W: p * math.Sqrt2,
		X: dir[0] * (1 - p) / l,
		Y: dir[1] * (1 - p) / l,
		Z: dir[2] * (1 - p) / l,
	}
}

// Dot is the inner product of weights and frame. For microphone
// weights this is the signal the microphone records.
func (w Weights) Dot(f Frame) float64 {
	return w.W*f.W + w.X*f.X + w.Y*f.Y + w.Z*f.Z
}

// ScaleSample produces the B-format frame of a source whose encoding
// weights are w and whose current amplitude is s.
func (w Weights) ScaleSample(s float64) Frame {
	return Frame{W: w.W * s, X: w.X * s, Y: w.Y * s, Z: w.Z * s}
}

// Scale returns the weights uniformly scaled by k.
func (w Weights) Scale(k float64) Weights {
	return Weights{W: w.W * k, X: w.X * k, Y: w.Y * k, Z: w.Z * k}
}

// Approach moves w toward target, each component by at most step.
// Small steps applied every tick smooth position changes and avoid
// zipper noise.
func (w *Weights) Approach(target Weights, step float64) {
	w.W += clamp(target.W-w.W, step)
	w.X += clamp(target.X-w.X, step)
	w.Y += clamp(target.Y-w.Y, step)
	w.Z += clamp(target.Z-w.Z, step)
}

func clamp(d, limit float64) float64 {
	if d > limit {
		return limit
	}
	if d < -limit {
		return -limit
	}
	return d
}

// Norm3 returns the Euclidean length of a 3-vector.
func Norm3(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Dot3 returns the inner product of two 3-vectors.
func Dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}
