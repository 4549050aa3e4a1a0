package mixer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSourceStateOmniWhenPositionNil(t *testing.T) {
	s := NewSourceState(StateConfig{Gain: 1})

	st := s.take()
	assert.True(t, st.omni)
	assert.True(t, st.snap, "first tick must adopt weights without smoothing")
}

func TestNewSourceStatePositioned(t *testing.T) {
	pos := [3]float64{1, 2, 3}
	s := NewSourceState(StateConfig{Position: &pos, Gain: 0.5})

	st := s.take()
	assert.False(t, st.omni)
	assert.Equal(t, pos, st.position)
	assert.Equal(t, 0.5, st.gain)
}

func TestTakeConsumesSnapFlag(t *testing.T) {
	s := NewSourceState(StateConfig{Gain: 1})

	assert.True(t, s.take().snap)
	assert.False(t, s.take().snap)

	s.SetPosition([3]float64{0, 0, 1})
	assert.True(t, s.take().snap)
	assert.False(t, s.take().snap)
}

func TestSetPositionMakesDirectional(t *testing.T) {
	s := NewSourceState(StateConfig{Gain: 1})
	s.SetPosition([3]float64{0, 0, 5})

	st := s.take()
	assert.False(t, st.omni)
	assert.Equal(t, [3]float64{0, 0, 5}, st.position)
}

func TestAdjustPositionIsRelativeAndSmooth(t *testing.T) {
	pos := [3]float64{1, 0, 0}
	s := NewSourceState(StateConfig{Position: &pos, Gain: 1})
	s.take() // consume the initial snap

	s.AdjustPosition([3]float64{0.5, 0, -1})
	s.AdjustPosition([3]float64{0.5, 0, 0})

	st := s.take()
	assert.Equal(t, [3]float64{2, 0, -1}, st.position)
	assert.False(t, st.snap, "relative moves must not snap the weights")
}

func TestPauseResume(t *testing.T) {
	s := NewSourceState(StateConfig{Gain: 1})

	s.Pause()
	assert.True(t, s.take().paused)

	s.Resume()
	assert.False(t, s.take().paused)
}

func TestStopIsTerminalAndIdempotent(t *testing.T) {
	s := NewSourceState(StateConfig{Gain: 1})

	assert.False(t, s.Stopped())
	s.Stop()
	s.Stop()
	assert.True(t, s.Stopped())
}

func TestConcurrentControl(t *testing.T) {
	s := NewSourceState(StateConfig{Gain: 1})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 1000 {
				s.SetPosition([3]float64{float64(i), 0, 1})
				s.AdjustPosition([3]float64{0, 0.1, 0})
				s.SetVelocity([3]float64{0, 0, -1})
				s.SetGain(0.5)
				s.Pause()
				s.Resume()
				_ = s.Stopped()
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		wg.Wait()
	}()

	// Audio-side reads interleave with the writers.
	for {
		select {
		case <-done:
			st := s.take()
			assert.Equal(t, 0.5, st.gain)
			return
		default:
			_ = s.take()
		}
	}
}
