package monitor

import (
	"sync"
	"time"
)

// RateDetector tracks the sample rate over a sliding window of per-second buckets.
type RateDetector struct {
	mu         sync.Mutex
	window     time.Duration
	buckets    []int64     // per-second counters
	timestamps []time.Time // timestamp for each bucket
	now        func() time.Time
}

// NewRateDetector creates a rate meter with the given window duration.
func NewRateDetector(window time.Duration) *RateDetector {
	if window < time.Second {
		window = 5 * time.Second
	}
	return &RateDetector{
		window: window,
		now:    time.Now,
	}
}

// Record adds n events at the current time.
func (r *RateDetector) Record(n int) {
	if n <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.prune(now)

	// Find or create bucket for current second.
	truncated := now.Truncate(time.Second)
	if len(r.timestamps) > 0 && r.timestamps[len(r.timestamps)-1].Equal(truncated) {
		r.buckets[len(r.buckets)-1] += int64(n)
	} else {
		r.buckets = append(r.buckets, int64(n))
		r.timestamps = append(r.timestamps, truncated)
	}
}

// CurrentRate returns events per second over the last window.
func (r *RateDetector) CurrentRate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune(r.now())

	if len(r.buckets) == 0 {
		return 0
	}

	var total int64
	for _, b := range r.buckets {
		total += b
	}
	seconds := r.window.Seconds()
	if seconds == 0 {
		return 0
	}
	return float64(total) / seconds
}

// prune removes buckets older than the window. Must be called with lock held.
func (r *RateDetector) prune(now time.Time) {
	cutoff := now.Add(-r.window)
	i := 0
	for i < len(r.timestamps) && r.timestamps[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		r.buckets = r.buckets[i:]
		r.timestamps = r.timestamps[i:]
	}
}
