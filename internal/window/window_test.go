package window

import (
	"testing"

	"github.com/Geun-Oh/logix/internal/buffer"
	"github.com/Geun-Oh/logix/internal/sample"
	"github.com/Geun-Oh/logix/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ringWith(t *testing.T, capacity int, n int64) *buffer.Ring {
	t.Helper()
	d, err := sample.NewDecoder(8)
	require.NoError(t, err)
	r, err := buffer.NewRing(capacity, 8)
	require.NoError(t, err)
	for i := int64(0); i < n; i++ {
		r.Append(i, d.Decode(byte(i)))
	}
	return r
}

func TestBoundsReferenceWindow(t *testing.T) {
	c := Calculator{Capacity: 10000}
	xMin, xMax := c.Bounds(12000, view.NewState())
	assert.Equal(t, 2000.0, xMin)
	assert.Equal(t, 12000.0, xMax)
}

func TestBoundsFloorsAtZero(t *testing.T) {
	c := Calculator{Capacity: 10000}
	xMin, xMax := c.Bounds(300, view.NewState())
	assert.Equal(t, 0.0, xMin)
	assert.Equal(t, 300.0, xMax)
}

func TestBoundsZoomAndPan(t *testing.T) {
	c := Calculator{Capacity: 10000}
	s := view.NewState()
	s.TimeScale = 0.01
	s.XOffset = 40

	xMin, xMax := c.Bounds(12000, s)
	assert.Equal(t, 11960.0, xMax)
	assert.Equal(t, 11860.0, xMin)
}

func TestWidthFloors(t *testing.T) {
	c := Calculator{Capacity: 10000}
	assert.Equal(t, 6666.0, c.Width(1/1.5))
	assert.Equal(t, 100000.0, c.Width(10))
}

func TestComputeEmptyRing(t *testing.T) {
	c := Calculator{Capacity: 10}
	f, ok := c.Compute(ringWith(t, 10, 0), 0, view.NewState())
	assert.False(t, ok)
	assert.True(t, f.Empty())
}

func TestComputeFullBuffer(t *testing.T) {
	r := ringWith(t, 100, 250)
	c := Calculator{Capacity: 100}

	s := view.NewState()
	s.TimeScale = 0.1
	f, ok := c.Compute(r, 250, s)
	require.True(t, ok)

	assert.Equal(t, 240.0, f.XMin)
	assert.Equal(t, 250.0, f.XMax)
	assert.Equal(t, int64(250), f.Latest)
	require.Len(t, f.Channels, 8)
	for ch, pts := range f.Channels {
		require.Len(t, pts, 100, "channel %d", ch)
		assert.Equal(t, int64(150), pts[0].T)
		assert.Equal(t, int64(249), pts[99].T)
		for _, p := range pts {
			assert.Equal(t, uint8((byte(p.T)>>ch)&1), p.Level)
		}
	}
}

func TestComputeClipped(t *testing.T) {
	r := ringWith(t, 100, 250)
	c := Calculator{Capacity: 100, Clip: true}

	s := view.NewState()
	s.TimeScale = 0.1
	s.XOffset = 5.5
	f, ok := c.Compute(r, 250, s)
	require.True(t, ok)

	assert.Equal(t, 234.5, f.XMin)
	assert.Equal(t, 244.5, f.XMax)
	for _, pts := range f.Channels {
		require.NotEmpty(t, pts)
		assert.Equal(t, int64(234), pts[0].T, "the point before the window is kept")
		assert.Equal(t, int64(245), pts[len(pts)-1].T, "the point after the window is kept")
	}
}

func TestComputePannedPastHistory(t *testing.T) {
	r := ringWith(t, 100, 250)
	s := view.NewState()
	s.XOffset = 1000

	f, ok := Calculator{Capacity: 100, Clip: true}.Compute(r, 250, s)
	require.True(t, ok, "a non-empty ring still produces a frame")
	assert.Equal(t, 0.0, f.XMin)
	assert.Equal(t, -750.0, f.XMax)
	assert.True(t, f.Empty())
}
