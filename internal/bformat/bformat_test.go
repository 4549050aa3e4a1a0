package bformat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-12

func TestOmniDrivesOnlyPressure(t *testing.T) {
	w := Omni()

	assert.InDelta(t, 1/math.Sqrt2, w.W, tolerance)
	assert.Zero(t, w.X)
	assert.Zero(t, w.Y)
	assert.Zero(t, w.Z)
}

func TestEncodeDirectionCosines(t *testing.T) {
	tests := []struct {
		name string
		pos  [3]float64
		want Weights
	}{
		{
			name: "front",
			pos:  [3]float64{0, 0, 1},
			want: Weights{W: 1 / math.Sqrt2, Z: 1},
		},
		{
			name: "right",
			pos:  [3]float64{5, 0, 0},
			want: Weights{W: 1 / math.Sqrt2, X: 1},
		},
		{
			name: "above",
			pos:  [3]float64{0, 2, 0},
			want: Weights{W: 1 / math.Sqrt2, Y: 1},
		},
		{
			name: "diagonal",
			pos:  [3]float64{1, 1, 1},
			want: Weights{W: 1 / math.Sqrt2, X: 1 / math.Sqrt(3), Y: 1 / math.Sqrt(3), Z: 1 / math.Sqrt(3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Encode(tt.pos, false)
			assert.InDelta(t, tt.want.W, w.W, tolerance)
			assert.InDelta(t, tt.want.X, w.X, tolerance)
			assert.InDelta(t, tt.want.Y, w.Y, tolerance)
			assert.InDelta(t, tt.want.Z, w.Z, tolerance)
		})
	}
}

func TestEncodeAtListenerDefaultsToFront(t *testing.T) {
	w := Encode([3]float64{0, 0, 0}, false)
	front := Encode([3]float64{0, 0, 1}, false)

	assert.Equal(t, front, w)
}

func TestEncodeDistanceIndependentWithoutAttenuation(t *testing.T) {
	near := Encode([3]float64{0, 0, 1}, false)
	far := Encode([3]float64{0, 0, 100}, false)

	assert.Equal(t, near, far)
}

func TestEncodeAttenuation(t *testing.T) {
	// Unity plateau inside one unit.
	near := Encode([3]float64{0, 0, 0.5}, true)
	assert.InDelta(t, 1/math.Sqrt2, near.W, tolerance)

	// Inverse-distance falloff beyond.
	far := Encode([3]float64{0, 0, 4}, true)
	assert.InDelta(t, 1/math.Sqrt2/4, far.W, tolerance)
	assert.InDelta(t, 0.25, far.Z, tolerance)
}

func TestVirtualMicPolarPatterns(t *testing.T) {
	front := [3]float64{0, 0, 1}
	behind := [3]float64{0, 0, -1}

	frontFrame := Encode(front, false).ScaleSample(1)
	rearFrame := Encode(behind, false).ScaleSample(1)

	t.Run("omnidirectional", func(t *testing.T) {
		mic := VirtualMic(front, 1)
		assert.InDelta(t, mic.Dot(frontFrame), mic.Dot(rearFrame), tolerance)
	})

	t.Run("cardioid rejects rear", func(t *testing.T) {
		mic := VirtualMic(front, 0.5)
		assert.Greater(t, mic.Dot(frontFrame), 0.0)
		assert.InDelta(t, 0.0, mic.Dot(rearFrame), tolerance)
	})

	t.Run("figure of eight inverts rear", func(t *testing.T) {
		mic := VirtualMic(front, 0)
		assert.InDelta(t, -mic.Dot(frontFrame), mic.Dot(rearFrame), tolerance)
	})
}

func TestVirtualMicNormalizesDirection(t *testing.T) {
	unit := VirtualMic([3]float64{0, 0, 1}, 0.5)
	long := VirtualMic([3]float64{0, 0, 10}, 0.5)

	assert.InDelta(t, unit.Z, long.Z, tolerance)
}

func TestFrameSuperposition(t *testing.T) {
	a := Encode([3]float64{1, 0, 0}, false).ScaleSample(0.5)
	b := Encode([3]float64{0, 0, 1}, false).ScaleSample(0.25)

	mix := a.Add(b)

	assert.InDelta(t, a.W+b.W, mix.W, tolerance)
	assert.InDelta(t, a.X+b.X, mix.X, tolerance)
	assert.InDelta(t, a.Y+b.Y, mix.Y, tolerance)
	assert.InDelta(t, a.Z+b.Z, mix.Z, tolerance)
}

func TestScaleSampleLinearity(t *testing.T) {
	w := Encode([3]float64{3, 4, 0}, false)

	one := w.ScaleSample(1)
	half := w.ScaleSample(0.5)

	assert.InDelta(t, one.W/2, half.W, tolerance)
	assert.InDelta(t, one.X/2, half.X, tolerance)
}

func TestApproachStepsTowardTarget(t *testing.T) {
	w := Omni()
	target := Encode([3]float64{1, 0, 0}, false)

	const step = 0.001
	w.Approach(target, step)

	// W already matches, X moved by one step.
	assert.InDelta(t, target.W, w.W, tolerance)
	assert.InDelta(t, step, w.X, tolerance)

	// Repeated application converges exactly.
	for range 2000 {
		w.Approach(target, step)
	}
	assert.InDelta(t, target.X, w.X, tolerance)
	assert.InDelta(t, target.Z, w.Z, tolerance)
}

func TestApproachDoesNotOvershoot(t *testing.T) {
	w := Weights{X: 0.9995}
	target := Weights{X: 1}

	w.Approach(target, 0.001)

	assert.InDelta(t, 1.0, w.X, tolerance)
}

func TestNorm3AndDot3(t *testing.T) {
	assert.InDelta(t, 5.0, Norm3([3]float64{3, 4, 0}), tolerance)
	assert.InDelta(t, 0.0, Dot3([3]float64{1, 0, 0}, [3]float64{0, 0, 1}), tolerance)
	assert.InDelta(t, -10.0, Dot3([3]float64{1, 0, 0}, [3]float64{-10, 0, 0}), tolerance)
}
