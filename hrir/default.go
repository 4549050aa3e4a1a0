package hrir

import "math"

// Spherical-head model parameters for the built-in table.
const (
	defaultDirections = 8
	defaultFilterLen  = 64
	defaultBaseDelay  = 4

	// headRadiusMeters approximates an adult head.
	headRadiusMeters = 0.0875

	// speedOfSoundMS in air at room temperature.
	speedOfSoundMS = 343.0

	// shadowGainLoss is the level lost at the fully shadowed ear.
	shadowGainLoss = 0.7

	// shadowLowpass scales the one-pole smoothing applied to the
	// shadowed ear; higher values darken the contralateral side more.
	shadowLowpass = 0.65
)

// Default builds a synthetic HRIR table from a rigid-sphere head
// model: eight horizontal directions, each with an interaural time
// difference from the extra path length around the head and an
// interaural level difference from head shadowing (attenuation plus
// a low-pass roll-off on the far ear).
//
// It is no substitute for measured responses, but it localizes
// convincingly on headphones and needs no external data.
func Default(sampleRate float64) *Table {
	t := &Table{
		SampleRate: sampleRate,
		Delay:      defaultBaseDelay,
		Entries:    make([]Entry, 0, defaultDirections),
	}

	leftEar := [3]float64{-1, 0, 0}
	rightEar := [3]float64{1, 0, 0}

	for i := range defaultDirections {
		az := 2 * math.Pi * float64(i) / defaultDirections
		dir := [3]float64{math.Sin(az), 0, math.Cos(az)}

		t.Entries = append(t.Entries, Entry{
			Direction: dir,
			Left:      earKernel(dir, leftEar, sampleRate),
			Right:     earKernel(dir, rightEar, sampleRate),
		})
	}
	return t
}

// earKernel models the response at one ear for a source direction:
// a fractionally delayed impulse, attenuated and smoothed according
// to how far the source sits on the far side of the head.
func earKernel(dir, ear [3]float64, sampleRate float64) []float64 {
	// shadow is 0 when the source faces the ear, 1 when it is
	// diametrically opposite.
	d := dir[0]*ear[0] + dir[1]*ear[1] + dir[2]*ear[2]
	shadow := 0.5 * (1 - d)

	delay := defaultBaseDelay + headRadiusMeters/speedOfSoundMS*sampleRate*2*shadow
	gain := 1 - shadowGainLoss*shadow
	alpha := shadowLowpass * shadow

	kernel := make([]float64, defaultFilterLen)

	// Fractional impulse split across two taps.
	idx := int(delay)
	frac := delay - float64(idx)
	if idx < len(kernel) {
		kernel[idx] = gain * (1 - frac)
	}
	if idx+1 < len(kernel) {
		kernel[idx+1] = gain * frac
	}

	// One-pole smear; unity DC gain keeps ILD set by gain alone.
	if alpha > 0 {
		prev := 0.0
		for n := range kernel {
			prev = (1-alpha)*kernel[n] + alpha*prev
			kernel[n] = prev
		}
	}
	return kernel
}
