package ambisonic

// SpeedOfSound is the default propagation speed used for the Doppler
// shift, in meters per second (air at room temperature). Positions
// and velocities are interpreted in meters and meters per second
// unless a source overrides the speed of sound to match other units.
const SpeedOfSound = 343.0

// DefaultSampleRate is a sensible scene rate when the playback device
// does not dictate one.
const DefaultSampleRate = 48000

// outputChannels is fixed: both decoders emit stereo frames.
const outputChannels = 2
