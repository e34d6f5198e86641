package source

import (
	"context"
	"fmt"
	"os"
	"time"
)

// followPoll is how long a following file source waits before retrying at EOF.
const followPoll = 100 * time.Millisecond

// FileSource replays raw capture bytes from a file, optionally following
// new writes (tail -f).
type FileSource struct {
	path   string
	follow bool

	f      *os.File
	p      *pump
	cancel context.CancelFunc
}

// NewFileSource creates a source that reads from a file.
// If follow is true, it keeps reading as bytes are appended.
func NewFileSource(path string, follow bool) *FileSource {
	return &FileSource{
		path:   path,
		follow: follow,
	}
}

// Name returns the source identifier.
func (s *FileSource) Name() string {
	return fmt.Sprintf("file:%s", s.path)
}

// Open opens the file and starts the background reader.
func (s *FileSource) Open(ctx context.Context) error {
	f, err := os.Open(s.path)
	if err != nil {
		return openError(s.Name(), err)
	}
	s.f = f

	ctx, s.cancel = context.WithCancel(ctx)
	s.p = newPump()

	var next func(ctx context.Context) bool
	if s.follow {
		next = func(ctx context.Context) bool {
			select {
			case <-ctx.Done():
				return false
			case <-time.After(followPoll):
				return true
			}
		}
	}
	go s.p.run(ctx, f, next)
	return nil
}

// Read returns buffered file bytes, waiting at most timeout.
func (s *FileSource) Read(p []byte, timeout time.Duration) (int, error) {
	if s.p == nil {
		return 0, fmt.Errorf("%s: %w: not open", s.Name(), ErrIO)
	}
	return s.p.Read(p, timeout)
}

// Close stops the reader and closes the file.
func (s *FileSource) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.p != nil {
		s.p.stop()
	}
	if s.f != nil {
		return s.f.Close()
	}
	return nil
}
