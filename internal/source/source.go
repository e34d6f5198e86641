// Package source defines the Source interface and the byte sources a capture can read from.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrIO marks failures to open or read a byte source.
var ErrIO = errors.New("source i/o error")

// Source delivers raw capture bytes. Each byte is one sample.
type Source interface {
	// Open acquires the underlying device or stream. A failure is returned
	// as an *OpenError.
	Open(ctx context.Context) error

	// Read fills p with up to len(p) bytes. It never blocks longer than
	// timeout and may return zero bytes with a nil error.
	Read(p []byte, timeout time.Duration) (int, error)

	// Close releases the device or stream.
	Close() error

	// Name returns a human-readable identifier for this source.
	Name() string
}

// OpenError reports a source that could not be opened.
type OpenError struct {
	Source string
	Err    error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Source, e.Err)
}

// Unwrap exposes both ErrIO and the underlying cause to errors.Is.
func (e *OpenError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

func openError(name string, err error) error {
	return &OpenError{Source: name, Err: err}
}
