// Package buffer provides the fixed-capacity sample history and pooled read
// buffers for the capture pipeline.
package buffer

import (
	"fmt"
	"sync"

	"github.com/Geun-Oh/logix/internal/sample"
)

// Ring is a fixed-capacity circular buffer of time-stamped samples.
// Times and per-channel levels live in parallel arrays that share a single
// head and count, so every sequence always has the same length.
// When full, the oldest entry is evicted from all sequences at once.
// All operations are goroutine-safe.
type Ring struct {
	mu       sync.RWMutex
	times    []int64
	levels   [][]bool // one array per channel
	head     int      // next write position
	count    int      // current number of entries
	capacity int
	channels int
	dropped  uint64 // total evicted entries
}

// Slice is an ordered copy of ring entries. Levels[c][i] belongs to Times[i].
type Slice struct {
	Times  []int64
	Levels [][]bool
}

// Len returns the number of entries in the slice.
func (s Slice) Len() int {
	return len(s.Times)
}

// NewRing creates a ring with the given capacity and channel count.
func NewRing(capacity, channels int) (*Ring, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("buffer: capacity must be positive, got %d", capacity)
	}
	if channels < 1 || channels > sample.MaxChannels {
		return nil, fmt.Errorf("buffer: channels must be between 1 and %d, got %d", sample.MaxChannels, channels)
	}
	levels := make([][]bool, channels)
	for c := range levels {
		levels[c] = make([]bool, capacity)
	}
	return &Ring{
		times:    make([]int64, capacity),
		levels:   levels,
		capacity: capacity,
		channels: channels,
	}, nil
}

// Append stores one sample. If the ring is full, the oldest sample is
// overwritten in the time array and every channel array together.
func (r *Ring) Append(t int64, lv sample.Levels) {
	r.mu.Lock()
	r.times[r.head] = t
	for c := 0; c < r.channels; c++ {
		r.levels[c][r.head] = lv[c]
	}
	r.head = (r.head + 1) % r.capacity
	if r.count < r.capacity {
		r.count++
	} else {
		r.dropped++
	}
	r.mu.Unlock()
}

// Snapshot returns a copy of all buffered entries in arrival order.
func (r *Ring) Snapshot() Slice {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.copyRange(0, r.count)
}

// Range returns the entries with xMin <= time <= xMax in arrival order.
// Queries outside the retained times return an empty slice.
func (r *Ring) Range(xMin, xMax float64) Slice {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 || xMin > xMax {
		return r.copyRange(0, 0)
	}

	// Times are strictly increasing in arrival order, so the matching
	// entries form one contiguous run.
	lo := r.search(func(t int64) bool { return float64(t) >= xMin })
	hi := r.search(func(t int64) bool { return float64(t) > xMax })
	return r.copyRange(lo, hi)
}

// Latest returns the newest time index, or false if the ring is empty.
func (r *Ring) Latest() (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.count == 0 {
		return 0, false
	}
	return r.times[r.physical(r.count-1)], true
}

// Len returns the current number of entries in the buffer.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Dropped returns the total number of evicted entries.
func (r *Ring) Dropped() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dropped
}

// Cap returns the buffer capacity.
func (r *Ring) Cap() int {
	return r.capacity
}

// Channels returns the number of level sequences kept per entry.
func (r *Ring) Channels() int {
	return r.channels
}

// physical maps a logical index (0 = oldest) to an array position.
// Must be called with lock held.
func (r *Ring) physical(i int) int {
	start := r.head - r.count
	if start < 0 {
		start += r.capacity
	}
	return (start + i) % r.capacity
}

// search returns the first logical index for which pred holds, or count.
// pred must be monotonic over arrival order. Must be called with lock held.
func (r *Ring) search(pred func(t int64) bool) int {
	lo, hi := 0, r.count
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if pred(r.times[r.physical(mid)]) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// copyRange copies logical entries [from, to). Must be called with lock held.
func (r *Ring) copyRange(from, to int) Slice {
	n := to - from
	if n < 0 {
		n = 0
	}
	out := Slice{
		Times:  make([]int64, n),
		Levels: make([][]bool, r.channels),
	}
	for c := range out.Levels {
		out.Levels[c] = make([]bool, n)
	}
	if n == 0 {
		return out
	}

	// Copy in at most two contiguous runs: up to the end of the arrays,
	// then from the start.
	start := r.physical(from)
	first := n
	if start+first > r.capacity {
		first = r.capacity - start
	}
	copy(out.Times, r.times[start:start+first])
	copy(out.Times[first:], r.times[:n-first])
	for c := 0; c < r.channels; c++ {
		copy(out.Levels[c], r.levels[c][start:start+first])
		copy(out.Levels[c][first:], r.levels[c][:n-first])
	}
	return out
}
