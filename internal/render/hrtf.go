package render

import (
	"fmt"

	"github.com/tphakala/simd/f64"

	"github.com/tphakala/go-ambisonic/hrir"
	"github.com/tphakala/go-ambisonic/internal/bformat"
)

// virtualSpeakerDirections is the fixed horizontal layout the sound
// field is decoded to before per-ear convolution: front, right, back,
// left at ear height.
var virtualSpeakerDirections = [][3]float64{
	{0, 0, 1},
	{1, 0, 0},
	{0, 0, -1},
	{-1, 0, 0},
}

// speakerFeedScale keeps the four overlapping cardioid feeds summing
// to unity for any horizontal source direction (each pair of opposite
// cardioids sums to a constant, so the layout sum is 2 before
// scaling).
const speakerFeedScale = 0.5

// HRTF decodes the sound field binaurally: the frame is turned into
// four virtual loudspeaker feeds, each feed is convolved with the
// left- and right-ear impulse responses measured nearest to that
// speaker's direction, and the per-ear results are summed.
//
// All convolution state is sized at construction from the table's
// filter length; Render performs no allocation.
type HRTF struct {
	speakers []earSpeaker
	latency  int
}

// earSpeaker is one virtual speaker's decode weights, reversed ear
// kernels, and sliding input history.
type earSpeaker struct {
	decode bformat.Weights

	// left and right hold the ear kernels in reverse tap order so a
	// single inner product over the history window computes the
	// convolution.
	left  []float64
	right []float64

	// hist is a double-write sliding buffer of length 2n: every feed
	// sample is stored at pos and pos+n, so the most recent n samples
	// are always contiguous at hist[pos+1 : pos+1+n], oldest first.
	hist []float64
	pos  int
}

// NewHRTF constructs the binaural decoder from a validated table.
func NewHRTF(table *hrir.Table) (*HRTF, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	n := table.FilterLength()

	r := &HRTF{
		speakers: make([]earSpeaker, 0, len(virtualSpeakerDirections)),
		latency:  table.Delay,
	}
	for _, dir := range virtualSpeakerDirections {
		entry := table.Nearest(dir)
		if entry == nil {
			return nil, fmt.Errorf("%w: no entry near direction %v", hrir.ErrInvalidTable, dir)
		}
		r.speakers = append(r.speakers, earSpeaker{
			decode: bformat.VirtualMic(dir, cardioid).Scale(speakerFeedScale),
			left:   reversed(entry.Left),
			right:  reversed(entry.Right),
			hist:   make([]float64, 2*n),
		})
	}
	return r, nil
}

// Render decodes one frame binaurally.
func (r *HRTF) Render(f bformat.Frame) (left, right float64) {
	for i := range r.speakers {
		sp := &r.speakers[i]
		n := len(sp.left)

		feed := sp.decode.Dot(f)
		sp.hist[sp.pos] = feed
		sp.hist[sp.pos+n] = feed

		window := sp.hist[sp.pos+1 : sp.pos+1+n]
		left += f64.DotProductUnsafe(window, sp.left)
		right += f64.DotProductUnsafe(window, sp.right)

		sp.pos++
		if sp.pos == n {
			sp.pos = 0
		}
	}
	return left, right
}

// Latency is the table's group delay.
func (r *HRTF) Latency() int {
	return r.latency
}

func reversed(kernel []float64) []float64 {
	out := make([]float64, len(kernel))
	for i, v := range kernel {
		out[len(kernel)-1-i] = v
	}
	return out
}
