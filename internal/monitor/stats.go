// Package monitor provides real-time statistics collection for the capture pipeline.
package monitor

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Stats collects ingestion metrics in a lock-free manner.
type Stats struct {
	ticks       atomic.Uint64
	frozenTicks atomic.Uint64
	reads       atomic.Uint64
	emptyReads  atomic.Uint64
	readErrors  atomic.Uint64
	samples     atomic.Uint64
	frames      atomic.Uint64
	startTime   time.Time
}

// NewStats creates a new statistics collector.
func NewStats() *Stats {
	return &Stats{
		startTime: time.Now(),
	}
}

// RecordTick counts one refresh tick; frozen ticks are counted separately too.
func (s *Stats) RecordTick(frozen bool) {
	s.ticks.Add(1)
	if frozen {
		s.frozenTicks.Add(1)
	}
}

// RecordRead counts one source read that returned n bytes.
func (s *Stats) RecordRead(n int, err error) {
	s.reads.Add(1)
	if err != nil {
		s.readErrors.Add(1)
	}
	if n == 0 {
		s.emptyReads.Add(1)
		return
	}
	s.samples.Add(uint64(n))
}

// RecordFrame counts one frame handed to the sink.
func (s *Stats) RecordFrame() {
	s.frames.Add(1)
}

// Ticks returns the number of ticks seen.
func (s *Stats) Ticks() uint64 { return s.ticks.Load() }

// FrozenTicks returns the number of ticks skipped while frozen.
func (s *Stats) FrozenTicks() uint64 { return s.frozenTicks.Load() }

// Reads returns the number of source reads.
func (s *Stats) Reads() uint64 { return s.reads.Load() }

// EmptyReads returns the number of reads that yielded no bytes.
func (s *Stats) EmptyReads() uint64 { return s.emptyReads.Load() }

// ReadErrors returns the number of reads that failed.
func (s *Stats) ReadErrors() uint64 { return s.readErrors.Load() }

// Samples returns the total number of ingested samples.
func (s *Stats) Samples() uint64 { return s.samples.Load() }

// Frames returns the number of frames drawn.
func (s *Stats) Frames() uint64 { return s.frames.Load() }

// Elapsed returns the time since monitoring started.
func (s *Stats) Elapsed() time.Duration {
	return time.Since(s.startTime)
}

// Rate returns the average samples per second since start.
func (s *Stats) Rate() float64 {
	elapsed := s.Elapsed().Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(s.Samples()) / elapsed
}

// Summary returns a formatted summary string.
func (s *Stats) Summary() string {
	return fmt.Sprintf(
		"── Summary ──\n"+
			"  Samples:     %d\n"+
			"  Frames:      %d\n"+
			"  Ticks:       %d (%d frozen)\n"+
			"  Reads:       %d (%d empty, %d failed)\n"+
			"  Duration:    %s\n"+
			"  Throughput:  %.0f samples/s\n"+
			"─────────────",
		s.Samples(), s.Frames(),
		s.Ticks(), s.FrozenTicks(),
		s.Reads(), s.EmptyReads(), s.ReadErrors(),
		s.Elapsed().Round(time.Millisecond),
		s.Rate(),
	)
}
