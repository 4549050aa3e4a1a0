package ambisonic

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-ambisonic/hrir"
	"github.com/tphakala/go-ambisonic/internal/mixer"
	"github.com/tphakala/go-ambisonic/internal/render"
)

// RendererKind selects the decoder a scene renders through. The set
// is closed; New rejects unknown values.
type RendererKind int

const (
	// RendererStereo decodes to two virtual microphones for
	// loudspeaker playback. Lowest cost, zero latency.
	RendererStereo RendererKind = iota

	// RendererHRTF decodes binaurally through head-related impulse
	// responses for headphone playback. Adds the HRIR table's group
	// delay as constant latency.
	RendererHRTF
)

// Common errors returned when building a scene.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid scene configuration")
)

// Config holds scene construction parameters.
type Config struct {
	// SampleRate is the rate in Hz the scene produces output frames
	// at. Sources must deliver samples at this rate.
	SampleRate int

	// Renderer selects the decoder variant.
	Renderer RendererKind

	// HRIR is the impulse response table for RendererHRTF. Leave nil
	// to use the built-in spherical-head table. Ignored by
	// RendererStereo.
	HRIR *hrir.Table
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidConfig, c.SampleRate)
	}

	switch c.Renderer {
	case RendererStereo:
	case RendererHRTF:
		if c.HRIR != nil {
			if err := c.HRIR.Validate(); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
			}
			if int(c.HRIR.SampleRate) != c.SampleRate {
				return fmt.Errorf("%w: HRIR table rate %v does not match scene rate %d",
					ErrInvalidConfig, c.HRIR.SampleRate, c.SampleRate)
			}
		}
	default:
		return fmt.Errorf("%w: unknown renderer kind %d", ErrInvalidConfig, c.Renderer)
	}

	return nil
}

// New builds a scene from the configuration. All configuration
// problems, including an unusable HRIR table, are reported here,
// before any audio is produced.
func New(config *Config) (*Scene, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		renderer render.Renderer
		err      error
	)
	switch config.Renderer {
	case RendererStereo:
		renderer = render.NewStereo()
	case RendererHRTF:
		table := config.HRIR
		if table == nil {
			table = hrir.Default(float64(config.SampleRate))
		}
		renderer, err = render.NewHRTF(table)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	return &Scene{
		bus:      mixer.NewBus(config.SampleRate),
		renderer: renderer,
	}, nil
}
