package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// StdinSource reads raw capture bytes from a pipe (os.Stdin by default).
type StdinSource struct {
	r      io.Reader
	p      *pump
	cancel context.CancelFunc
}

// NewStdinSource creates a source that reads from stdin.
func NewStdinSource() *StdinSource {
	return &StdinSource{r: os.Stdin}
}

// NewReaderSource creates a pipe-mode source over an arbitrary reader.
func NewReaderSource(r io.Reader) *StdinSource {
	return &StdinSource{r: r}
}

// Name returns the source identifier.
func (s *StdinSource) Name() string {
	return "stdin"
}

// Open starts the background reader.
func (s *StdinSource) Open(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	s.p = newPump()
	go s.p.run(ctx, s.r, nil)
	return nil
}

// Read returns buffered bytes, waiting at most timeout.
func (s *StdinSource) Read(p []byte, timeout time.Duration) (int, error) {
	if s.p == nil {
		return 0, fmt.Errorf("%s: %w: not open", s.Name(), ErrIO)
	}
	return s.p.Read(p, timeout)
}

// Close stops the reader. Stdin itself is left open.
func (s *StdinSource) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.p != nil {
		s.p.stop()
	}
	return nil
}
