// Package render decodes the combined B-format stream into output
// channels. Two decoders exist: a stateless stereo pair of virtual
// microphones, and a binaural decoder convolving virtual loudspeaker
// feeds with head-related impulse responses.
package render

import "github.com/tphakala/go-ambisonic/internal/bformat"

// Renderer turns one combined B-format frame into one stereo output
// frame. Implementations own all their state, never allocate in
// Render, and are driven from the audio goroutine only.
type Renderer interface {
	// Render decodes the next frame into left/right samples.
	Render(f bformat.Frame) (left, right float64)

	// Latency is the constant processing delay in samples that the
	// decoder adds, so callers can compensate when synchronizing
	// with other media.
	Latency() int
}

// cardioid is the polar-pattern parameter shared by both decoders'
// virtual microphones.
const cardioid = 0.5
