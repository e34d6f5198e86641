// Package sink defines the Sink interface for rendered capture frames.
package sink

import (
	"github.com/Geun-Oh/logix/internal/window"
)

// Sink receives one frame per refresh tick and draws it somewhere.
type Sink interface {
	// Draw renders a frame. Implementations must not modify f.
	Draw(f window.Frame) error

	// Flush ensures all buffered output is written.
	Flush() error

	// Close releases resources held by the sink.
	Close() error

	// Name returns a human-readable identifier for this sink.
	Name() string
}

// Visible returns the points of pts that fall inside [xMin, xMax].
// pts must be ordered by time.
func Visible(pts []window.Point, xMin, xMax float64) []window.Point {
	lo := 0
	for lo < len(pts) && float64(pts[lo].T) < xMin {
		lo++
	}
	hi := lo
	for hi < len(pts) && float64(pts[hi].T) <= xMax {
		hi++
	}
	return pts[lo:hi]
}
