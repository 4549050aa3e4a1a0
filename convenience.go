package ambisonic

import (
	"github.com/tphakala/go-ambisonic/hrir"
)

// NewStereoScene creates a scene with the virtual-microphone stereo
// renderer at the given sample rate. This is the cheapest renderer
// and a good default for loudspeaker playback.
func NewStereoScene(sampleRate int) (*Scene, error) {
	return New(&Config{
		SampleRate: sampleRate,
		Renderer:   RendererStereo,
	})
}

// NewBinauralScene creates a headphone scene using the built-in
// spherical-head HRIR set at the given sample rate.
func NewBinauralScene(sampleRate int) (*Scene, error) {
	return New(&Config{
		SampleRate: sampleRate,
		Renderer:   RendererHRTF,
	})
}

// NewBinauralSceneFromFile creates a headphone scene from a measured
// HRIR set loaded from path. The file's sample rate must match
// sampleRate.
func NewBinauralSceneFromFile(sampleRate int, path string) (*Scene, error) {
	table, err := hrir.Load(path)
	if err != nil {
		return nil, err
	}
	return New(&Config{
		SampleRate: sampleRate,
		Renderer:   RendererHRTF,
		HRIR:       table,
	})
}
