package mixer

import (
	"sync"
	"sync/atomic"
)

// SourceState is the control state shared between a playing source's
// spatializer (read every tick on the audio goroutine) and any number
// of control handles (written from arbitrary goroutines).
//
// The mutable fields are plain data behind a mutex that is only ever
// held to copy or assign them, so the worst case on the audio side is
// one short, allocation-free critical section per tick. The stop flag
// is atomic so it can be checked without taking the lock at all.
type SourceState struct {
	mu       sync.Mutex
	position [3]float64
	velocity [3]float64
	gain     float64
	paused   bool
	snap     bool // next tick adopts the position without smoothing

	stopped atomic.Bool

	// Immutable after construction.
	omni         bool
	attenuate    bool
	doppler      bool
	speedOfSound float64
}

// StateConfig carries the initial per-source settings.
type StateConfig struct {
	// Position is the initial position; nil makes the source
	// omnidirectional until a position is set.
	Position *[3]float64

	Velocity [3]float64
	Gain     float64

	// Doppler enables velocity-dependent pitch shift.
	Doppler bool

	// Attenuate enables inverse-distance falloff.
	Attenuate bool

	// SpeedOfSound in the same units per second as positions.
	SpeedOfSound float64
}

// NewSourceState creates the shared state for one source.
func NewSourceState(cfg StateConfig) *SourceState {
	s := &SourceState{
		velocity:     cfg.Velocity,
		gain:         cfg.Gain,
		omni:         cfg.Position == nil,
		attenuate:    cfg.Attenuate,
		doppler:      cfg.Doppler,
		speedOfSound: cfg.SpeedOfSound,
		snap:         true,
	}
	if cfg.Position != nil {
		s.position = *cfg.Position
	}
	return s
}

// snapshot is the audio-side copy of the mutable fields.
type snapshot struct {
	position [3]float64
	velocity [3]float64
	gain     float64
	paused   bool
	snap     bool
	omni     bool
}

// take copies the mutable fields and consumes the snap flag. Called
// once per tick by the owning spatializer.
func (s *SourceState) take() snapshot {
	s.mu.Lock()
	snap := snapshot{
		position: s.position,
		velocity: s.velocity,
		gain:     s.gain,
		paused:   s.paused,
		snap:     s.snap,
		omni:     s.omni,
	}
	// A paused tick never applies weights, so a pending snap must
	// survive until the first unpaused tick.
	if !s.paused {
		s.snap = false
	}
	s.mu.Unlock()
	return snap
}

// SetPosition moves the source to pos. The move takes effect on the
// next tick without smoothing; use AdjustPosition for continuous
// motion.
func (s *SourceState) SetPosition(pos [3]float64) {
	s.mu.Lock()
	s.position = pos
	s.omni = false
	s.snap = true
	s.mu.Unlock()
}

// AdjustPosition moves the source by delta relative to its current
// position. The encoding transitions smoothly to the new direction.
func (s *SourceState) AdjustPosition(delta [3]float64) {
	s.mu.Lock()
	s.position[0] += delta[0]
	s.position[1] += delta[1]
	s.position[2] += delta[2]
	s.omni = false
	s.mu.Unlock()
}

// SetVelocity sets the source velocity used for the Doppler shift.
// Velocity does not move the source on its own.
func (s *SourceState) SetVelocity(vel [3]float64) {
	s.mu.Lock()
	s.velocity = vel
	s.mu.Unlock()
}

// SetGain sets the source amplitude factor.
func (s *SourceState) SetGain(gain float64) {
	s.mu.Lock()
	s.gain = gain
	s.mu.Unlock()
}

// Pause silences the source while preserving its exact stream
// position.
func (s *SourceState) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

// Resume continues playback from where Pause left off.
func (s *SourceState) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
}

// Stop ends playback permanently. The mix drops the source on the
// next tick. Stopping an already stopped or exhausted source is a
// no-op.
func (s *SourceState) Stop() {
	s.stopped.Store(true)
}

// Stopped reports whether the source has been stopped or has run out
// of samples.
func (s *SourceState) Stopped() bool {
	return s.stopped.Load()
}
