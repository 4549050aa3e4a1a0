package ambisonic

import (
	"github.com/tphakala/go-ambisonic/internal/mixer"
	"github.com/tphakala/go-ambisonic/internal/render"
)

// Scene is a 3D audio scene: it owns the mixing bus and the chosen
// renderer, accepts sources from any goroutine, and produces stereo
// output frames when pulled.
//
// Exactly one goroutine (the playback sink) must drive NextFrame or
// ReadFrames; everything else interacts with the scene through PlayAt
// and the returned controllers. The output path performs no
// allocation, I/O, or unbounded blocking.
type Scene struct {
	bus      *mixer.Bus
	renderer render.Renderer
}

// SourceConfig carries optional per-source settings for PlayWith.
// The zero value plays an omnidirectional, full-gain source with
// Doppler enabled and no distance falloff.
type SourceConfig struct {
	// Position relative to the listener; nil plays the source
	// omnidirectionally.
	Position *[3]float64

	// Velocity in units per second, used only for the Doppler shift.
	Velocity [3]float64

	// Gain is the amplitude factor; zero means unity.
	Gain float64

	// NoDoppler disables velocity-dependent pitch shift.
	NoDoppler bool

	// Attenuate enables inverse-distance falloff (1/max(dist, 1)).
	Attenuate bool

	// SpeedOfSound overrides the propagation speed; zero means
	// SpeedOfSound (343 m/s).
	SpeedOfSound float64
}

// Play adds a single-channel source to the scene with no direction.
// The returned controller can position and control the source during
// playback.
func (s *Scene) Play(src Source) *SoundController {
	return s.PlayWith(src, SourceConfig{})
}

// PlayAt adds a single-channel source to the scene at a position
// relative to the listener.
func (s *Scene) PlayAt(src Source, pos [3]float64) *SoundController {
	p := pos
	return s.PlayWith(src, SourceConfig{Position: &p})
}

// PlayWith adds a single-channel source with explicit settings. The
// source is owned by the scene from here on and must not be read by
// the caller anymore. It joins the mix on the next full tick.
func (s *Scene) PlayWith(src Source, cfg SourceConfig) *SoundController {
	gain := cfg.Gain
	if gain == 0 {
		gain = 1
	}
	sos := cfg.SpeedOfSound
	if sos <= 0 {
		sos = SpeedOfSound
	}

	state := mixer.NewSourceState(mixer.StateConfig{
		Position:     cfg.Position,
		Velocity:     cfg.Velocity,
		Gain:         gain,
		Doppler:      !cfg.NoDoppler,
		Attenuate:    cfg.Attenuate,
		SpeedOfSound: sos,
	})

	id := s.bus.Insert(mixer.NewSpatializer(src, state))

	return &SoundController{id: id, state: state}
}

// NextFrame produces the next stereo output frame: one frame is
// pulled from every live source, summed in B-format, and decoded.
// Must be called from the playback goroutine only.
func (s *Scene) NextFrame() (left, right float64) {
	return s.renderer.Render(s.bus.Pull())
}

// ReadFrames fills dst with interleaved left/right samples and
// returns the number of frames produced. dst should hold an even
// number of samples; a trailing odd slot is left untouched.
func (s *Scene) ReadFrames(dst []float64) int {
	frames := len(dst) / outputChannels
	for i := range frames {
		dst[outputChannels*i], dst[outputChannels*i+1] = s.NextFrame()
	}
	return frames
}

// SampleRate returns the scene's output rate in Hz.
func (s *Scene) SampleRate() int {
	return s.bus.SampleRate()
}

// Latency returns the renderer's constant processing delay in
// samples.
func (s *Scene) Latency() int {
	return s.renderer.Latency()
}

// Active returns the number of sources currently in the mix.
func (s *Scene) Active() int {
	return s.bus.Active()
}

// SoundController adjusts a playing source from any goroutine. All
// operations are fire-and-forget: they take effect on or before the
// next output frame and never block the playback goroutine beyond a
// short field copy.
//
// Controllers may outlive their source; operations on a finished
// source are no-ops.
type SoundController struct {
	id    uint64
	state *mixer.SourceState
}

// ID returns the source's scene-unique identifier. IDs are never
// reused.
func (c *SoundController) ID() uint64 {
	return c.id
}

// SetPosition moves the source, taking effect on the next frame
// without smoothing. Abrupt moves of a playing source can pop; use
// AdjustPosition for continuous motion.
func (c *SoundController) SetPosition(pos [3]float64) {
	c.state.SetPosition(pos)
}

// AdjustPosition moves the source by delta relative to its current
// position, transitioning smoothly.
func (c *SoundController) AdjustPosition(delta [3]float64) {
	c.state.AdjustPosition(delta)
}

// SetVelocity sets the velocity used for the Doppler shift. Velocity
// does not move the source by itself.
func (c *SoundController) SetVelocity(vel [3]float64) {
	c.state.SetVelocity(vel)
}

// SetGain sets the source's amplitude factor.
func (c *SoundController) SetGain(gain float64) {
	c.state.SetGain(gain)
}

// Pause silences the source, preserving its exact stream position.
func (c *SoundController) Pause() {
	c.state.Pause()
}

// Resume continues a paused source from where it stopped.
func (c *SoundController) Resume() {
	c.state.Resume()
}

// Stop removes the source from the mix permanently, starting with the
// next frame. Idempotent.
func (c *SoundController) Stop() {
	c.state.Stop()
}

// Finished reports whether the source has been stopped or has played
// to the end of its stream.
func (c *SoundController) Finished() bool {
	return c.state.Stopped()
}
