// Package ambisonic provides real-time 3D audio spatialization and
// mixing in pure Go.
//
// Sound sources are encoded into first-order B-format (W, X, Y, Z),
// mixed by linear superposition, and decoded to stereo either through
// a pair of virtual cardioid microphones or through HRTF convolution
// for headphone playback. Sources can be positioned and moved while
// playing, with Doppler pitch shift derived from their velocity.
//
// The coordinate system is right-handed with x pointing right, y up,
// and z forward, all relative to the listener at the origin.
//
// # Features
//
//   - First-order ambisonic (B-format) encoding and mixing
//   - Virtual-microphone stereo and HRTF binaural rendering
//   - Doppler shift via velocity-driven fractional resampling
//   - Thread-safe source control (position, velocity, gain, pause)
//   - Built-in spherical-head HRIR set plus a loader for measured sets
//   - Allocation-free output path suitable for audio callbacks
//   - Pure Go implementation with no CGO dependencies
//
// # Quick Start
//
// Create a scene, add sources, and pull stereo frames from the
// playback goroutine:
//
//	scene, err := ambisonic.NewStereoScene(48000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctl := scene.PlayAt(ambisonic.NewSine(440, 48000), [3]float64{10, 0, 5})
//
//	for i := 0; i < 48000; i++ {
//	    left, right := scene.NextFrame()
//	    writeFrame(left, right)
//	}
//
//	ctl.Stop()
//
// Sources can be controlled from any goroutine while the scene is
// playing:
//
//	ctl.SetVelocity([3]float64{-10, 0, 0})
//	ctl.AdjustPosition([3]float64{-0.01, 0, 0})
//	ctl.SetGain(0.5)
//
// For headphone playback, use NewBinauralScene or load a measured
// HRIR set with NewBinauralSceneFromFile.
package ambisonic
