package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-ambisonic/internal/bformat"
)

const tolerance = 1e-12

func frameAt(pos [3]float64) bformat.Frame {
	return bformat.Encode(pos, false).ScaleSample(1)
}

func TestStereoFrontIsCenteredAtUnity(t *testing.T) {
	s := NewStereo()

	left, right := s.Render(frameAt([3]float64{0, 0, 1}))

	assert.InDelta(t, left, right, tolerance, "front source must be centered")
	assert.InDelta(t, 1.0, left+right, tolerance, "front source sums to unity")
}

func TestStereoPansTowardSourceSide(t *testing.T) {
	s := NewStereo()

	left, right := s.Render(frameAt([3]float64{1, 0, 0}))
	assert.Greater(t, right, left, "right source favors the right channel")

	left, right = s.Render(frameAt([3]float64{-1, 0, 0}))
	assert.Greater(t, left, right, "left source favors the left channel")
}

func TestStereoLeftRightSymmetry(t *testing.T) {
	s := NewStereo()

	for _, z := range []float64{1, 0, -1} {
		lL, lR := s.Render(frameAt([3]float64{-1, 0, z}))
		rL, rR := s.Render(frameAt([3]float64{1, 0, z}))

		assert.InDelta(t, lL, rR, tolerance, "z=%v", z)
		assert.InDelta(t, lR, rL, tolerance, "z=%v", z)
	}
}

func TestStereoIgnoresHeight(t *testing.T) {
	s := NewStereo()

	low := frameAt([3]float64{1, 0, 1})
	high := bformat.Frame{W: low.W, X: low.X, Y: 5, Z: low.Z}

	lowL, lowR := s.Render(low)
	highL, highR := s.Render(high)

	assert.InDelta(t, lowL, highL, tolerance)
	assert.InDelta(t, lowR, highR, tolerance)
}

func TestStereoBalanceMovesMonotonically(t *testing.T) {
	s := NewStereo()

	// Sweep a source across the front stage and track the channel
	// difference.
	prev := math.Inf(1)
	for az := -90.0; az <= 90.0; az += 15.0 {
		rad := az * math.Pi / 180
		left, right := s.Render(frameAt([3]float64{math.Sin(rad), 0, math.Cos(rad)}))

		diff := left - right
		assert.Less(t, diff, prev, "balance must shift rightward as the source moves right")
		prev = diff
	}
}

func TestStereoLinearInAmplitude(t *testing.T) {
	s := NewStereo()

	f := frameAt([3]float64{0.5, 0, 1})
	left1, right1 := s.Render(f)
	left2, right2 := s.Render(f.Scale(0.5))

	assert.InDelta(t, left1/2, left2, tolerance)
	assert.InDelta(t, right1/2, right2, tolerance)
}

func TestStereoZeroLatency(t *testing.T) {
	assert.Equal(t, 0, NewStereo().Latency())
}
