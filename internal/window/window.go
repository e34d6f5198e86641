// Package window derives the visible time range and per-channel traces
// from the sample ring and the display state.
package window

import (
	"math"

	"github.com/Geun-Oh/logix/internal/buffer"
	"github.com/Geun-Oh/logix/internal/view"
)

// Point is one sample of one channel.
type Point struct {
	T     int64
	Level uint8
}

// Frame is what a render sink draws on one tick.
// Sinks must treat it as read-only.
type Frame struct {
	XMin     float64
	XMax     float64
	Latest   int64     // right edge before panning
	Channels [][]Point // ordered by time, one slice per channel
}

// Empty reports whether the frame carries no points.
func (f Frame) Empty() bool {
	for _, pts := range f.Channels {
		if len(pts) > 0 {
			return false
		}
	}
	return true
}

// Calculator computes frames for a ring of the given capacity.
type Calculator struct {
	Capacity int

	// Clip restricts points to the visible range plus one point on each
	// side of it, which is all a sink needs to draw the lines entering and
	// leaving the window. When false the whole retained buffer is returned
	// and sinks clip to [XMin, XMax] themselves. Drawn output is the same.
	Clip bool
}

// Width returns the window width in samples for a time scale.
func (c Calculator) Width(timeScale float64) float64 {
	return math.Floor(float64(c.Capacity) * timeScale)
}

// Bounds returns the visible range for the given right edge.
func (c Calculator) Bounds(latest int64, s view.State) (xMin, xMax float64) {
	xMax = float64(latest) - s.XOffset
	xMin = math.Max(0, xMax-c.Width(s.TimeScale))
	return xMin, xMax
}

// Compute builds the frame for one tick. It returns false when the ring is
// empty, in which case nothing should be drawn.
func (c Calculator) Compute(r *buffer.Ring, latest int64, s view.State) (Frame, bool) {
	if r.Len() == 0 {
		return Frame{}, false
	}

	xMin, xMax := c.Bounds(latest, s)
	f := Frame{XMin: xMin, XMax: xMax, Latest: latest}

	var slice buffer.Slice
	if c.Clip {
		slice = clipped(r, xMin, xMax)
	} else {
		slice = r.Snapshot()
	}

	f.Channels = make([][]Point, len(slice.Levels))
	for ch, levels := range slice.Levels {
		pts := make([]Point, len(slice.Times))
		for i, t := range slice.Times {
			pts[i] = Point{T: t}
			if levels[i] {
				pts[i].Level = 1
			}
		}
		f.Channels[ch] = pts
	}
	return f, true
}

// clipped returns the entries in [xMin, xMax] plus, when they exist, the
// entry just before xMin and the entry just after xMax. Time indices are
// consecutive integers.
func clipped(r *buffer.Ring, xMin, xMax float64) buffer.Slice {
	return r.Range(math.Ceil(xMin)-1, math.Floor(xMax)+1)
}
