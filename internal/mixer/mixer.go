package mixer

import (
	"sync"
	"sync/atomic"

	"github.com/tphakala/go-ambisonic/internal/bformat"
)

// initialBusCapacity sizes the active-source slice so typical scenes
// never grow it on the audio path.
const initialBusCapacity = 8

// Bus owns the set of live spatializers and sums one frame from each
// per tick. The active set is touched only by the audio goroutine
// during Pull; concurrent insertion goes through a mutex-guarded
// pending list that Pull drains at tick boundaries, so a new source is
// never partially mixed into the tick during which it arrived.
type Bus struct {
	sampleRate int

	// Audio-goroutine state.
	active []*Spatializer

	pendingMu  sync.Mutex
	pending    []*Spatializer
	hasPending atomic.Bool

	nextID atomic.Uint64
	count  atomic.Int64
}

// NewBus creates an empty mixing bus for the given sample rate.
func NewBus(sampleRate int) *Bus {
	return &Bus{
		sampleRate: sampleRate,
		active:     make([]*Spatializer, 0, initialBusCapacity),
	}
}

// SampleRate returns the rate the bus ticks at.
func (b *Bus) SampleRate() int {
	return b.sampleRate
}

// Insert queues sp for mixing starting with the next full tick and
// returns its bus-unique identifier. Safe to call from any goroutine;
// never blocks a concurrent Pull beyond the short pending-list lock.
func (b *Bus) Insert(sp *Spatializer) uint64 {
	id := b.nextID.Add(1)

	b.pendingMu.Lock()
	b.pending = append(b.pending, sp)
	b.pendingMu.Unlock()
	b.hasPending.Store(true)
	b.count.Add(1)

	return id
}

// Pull mixes one frame from every live source. Exhausted and stopped
// sources are dropped during the same pass; no separate sweep exists.
// Must be called from the audio goroutine only.
func (b *Bus) Pull() bformat.Frame {
	if b.hasPending.Load() {
		b.pendingMu.Lock()
		b.active = append(b.active, b.pending...)
		for i := range b.pending {
			b.pending[i] = nil
		}
		b.pending = b.pending[:0]
		b.hasPending.Store(false)
		b.pendingMu.Unlock()
	}

	var mix bformat.Frame

	live := b.active[:0]
	for _, sp := range b.active {
		frame, ok := sp.next()
		if !ok {
			continue
		}
		mix = mix.Add(frame)
		live = append(live, sp)
	}
	if removed := len(b.active) - len(live); removed > 0 {
		for i := len(live); i < len(b.active); i++ {
			b.active[i] = nil
		}
		b.count.Add(int64(-removed))
	}
	b.active = live

	return mix
}

// Active returns the number of sources currently in the mix,
// including ones still waiting for their first tick. Safe from any
// goroutine.
func (b *Bus) Active() int {
	return int(b.count.Load())
}
