package render

import (
	"math"

	"github.com/tphakala/go-ambisonic/internal/bformat"
)

// Stereo decodes the sound field with two virtual cardioid
// microphones aimed 45 degrees half-left and half-right, for playback
// over speakers in front of the listener. The height component is not
// used by the horizontal-only decode.
//
// The microphone weights are normalized so a source directly ahead
// produces equal left and right samples summing to the source
// amplitude, which keeps panning equal-power across the front stage.
type Stereo struct {
	left  bformat.Weights
	right bformat.Weights
}

// NewStereo constructs the stereo decoder.
func NewStereo() *Stereo {
	half := math.Sqrt2 / 2
	left := bformat.VirtualMic([3]float64{-half, 0, half}, cardioid)
	right := bformat.VirtualMic([3]float64{half, 0, half}, cardioid)

	// Unity summed gain for a front source.
	front := bformat.Encode([3]float64{0, 0, 1}, false).ScaleSample(1)
	k := 1.0 / (left.Dot(front) + right.Dot(front))

	return &Stereo{
		left:  left.Scale(k),
		right: right.Scale(k),
	}
}

// Render decodes one frame. Pure per-frame linear transform; no state
// is carried across ticks.
func (s *Stereo) Render(f bformat.Frame) (left, right float64) {
	return s.left.Dot(f), s.right.Dot(f)
}

// Latency is zero: the decode is instantaneous.
func (s *Stereo) Latency() int {
	return 0
}
