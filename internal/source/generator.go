package source

import (
	"context"
	"fmt"
	"time"
)

// GeneratorSource produces a counter pattern: byte n is n mod 256, so
// channel c toggles every 2^c samples. Bytes are released at a fixed rate
// measured from Open.
type GeneratorSource struct {
	rate int // bytes per second

	now     func() time.Time
	sleep   func(d time.Duration)
	start   time.Time
	emitted int64
}

// NewGeneratorSource creates a generator emitting rate bytes per second.
func NewGeneratorSource(rate int) *GeneratorSource {
	if rate <= 0 {
		rate = 1000
	}
	return &GeneratorSource{
		rate:  rate,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Name returns the source identifier.
func (s *GeneratorSource) Name() string {
	return fmt.Sprintf("generator:%d/s", s.rate)
}

// Open starts the clock.
func (s *GeneratorSource) Open(_ context.Context) error {
	s.start = s.now()
	s.emitted = 0
	return nil
}

// Read returns the bytes due since the last read. If none are due it
// waits until the next one is, bounded by timeout.
func (s *GeneratorSource) Read(p []byte, timeout time.Duration) (int, error) {
	if s.start.IsZero() {
		return 0, fmt.Errorf("%s: %w: not open", s.Name(), ErrIO)
	}

	due := s.due()
	if due == 0 && timeout > 0 {
		wait := s.offset(s.emitted+1) - s.now().Sub(s.start)
		if wait > timeout {
			wait = timeout
		}
		if wait > 0 {
			s.sleep(wait)
		}
		due = s.due()
	}

	n := int(min(due, int64(len(p))))
	for i := 0; i < n; i++ {
		p[i] = byte(s.emitted)
		s.emitted++
	}
	return n, nil
}

// offset returns when byte n is due, relative to Open.
func (s *GeneratorSource) offset(n int64) time.Duration {
	rate := int64(s.rate)
	return time.Duration(n/rate)*time.Second + time.Duration(n%rate)*time.Second/time.Duration(rate)
}

func (s *GeneratorSource) due() int64 {
	elapsed := s.now().Sub(s.start)
	rate := int64(s.rate)
	total := int64(elapsed/time.Second)*rate + int64(elapsed%time.Second)*rate/int64(time.Second)
	if total < s.emitted {
		return 0
	}
	return total - s.emitted
}

// Close is a no-op for the generator.
func (s *GeneratorSource) Close() error { return nil }
