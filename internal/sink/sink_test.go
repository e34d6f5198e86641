package sink

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Geun-Oh/logix/internal/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func points(levels ...uint8) []window.Point {
	pts := make([]window.Point, len(levels))
	for i, l := range levels {
		pts[i] = window.Point{T: int64(i), Level: l}
	}
	return pts
}

func TestVisible(t *testing.T) {
	pts := points(0, 1, 0, 1, 0, 1)
	vis := Visible(pts, 1.5, 4)
	require.Len(t, vis, 3)
	assert.Equal(t, int64(2), vis[0].T)
	assert.Equal(t, int64(4), vis[2].T)

	assert.Empty(t, Visible(pts, 10, 20))
	assert.Empty(t, Visible(nil, 0, 1))
}

func TestRasterizeOnePointPerColumn(t *testing.T) {
	cells := Rasterize(points(0, 0, 1, 1), 0, 4, 4)
	assert.Equal(t, []Cell{CellLow, CellLow, CellEdge, CellHigh}, cells)
	assert.Equal(t, "▁▁│▔", TraceString(cells))
}

func TestRasterizeMixedColumnIsEdge(t *testing.T) {
	cells := Rasterize(points(0, 1, 1, 1), 0, 4, 2)
	assert.Equal(t, []Cell{CellEdge, CellHigh}, cells)
}

func TestRasterizeHoldsLevelAcrossGaps(t *testing.T) {
	pts := []window.Point{{T: 0, Level: 1}, {T: 10, Level: 1}}
	cells := Rasterize(pts, 0, 10, 5)
	for _, c := range cells {
		assert.Equal(t, CellHigh, c)
	}
}

func TestRasterizeHoldsLevelIntoWindow(t *testing.T) {
	pts := []window.Point{{T: 0, Level: 1}, {T: 8, Level: 0}}
	cells := Rasterize(pts, 4, 8, 4)
	assert.Equal(t, []Cell{CellHigh, CellHigh, CellHigh, CellEdge}, cells)
}

func TestRasterizeNothingPastLastPoint(t *testing.T) {
	cells := Rasterize(points(1, 1), 0, 8, 8)
	assert.Equal(t, CellHigh, cells[0])
	for _, c := range cells[2:] {
		assert.Equal(t, CellNone, c)
	}
}

func TestRasterizeLineCrossingWholeWindow(t *testing.T) {
	pts := []window.Point{{T: 0, Level: 0}, {T: 100, Level: 0}}
	cells := Rasterize(pts, 40, 60, 4)
	assert.Equal(t, []Cell{CellLow, CellLow, CellLow, CellLow}, cells)
}

func TestRasterizeDegenerate(t *testing.T) {
	assert.Nil(t, Rasterize(points(1), 0, 1, 0))
	assert.Equal(t, []Cell{CellNone, CellNone}, Rasterize(points(1), 5, 5, 2))
	assert.Equal(t, []Cell{CellNone, CellNone}, Rasterize(nil, 0, 5, 2))
	assert.Equal(t, []Cell{CellNone, CellNone}, Rasterize(points(1, 1), 10, 20, 2))
}

func TestJSONSinkWritesVisiblePoints(t *testing.T) {
	var buf bytes.Buffer
	s := NewJSONSink(&buf)

	f := window.Frame{
		XMin:     1,
		XMax:     2,
		Latest:   4,
		Channels: [][]window.Point{points(0, 1, 0, 1), points(1, 1, 1, 1)},
	}
	require.NoError(t, s.Draw(f))
	require.NoError(t, s.Flush())

	var got jsonFrame
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 1.0, got.XMin)
	assert.Equal(t, 2.0, got.XMax)
	assert.Equal(t, int64(4), got.Latest)
	require.Len(t, got.Channels, 2)
	assert.Equal(t, [][2]int64{{1, 1}, {2, 0}}, got.Channels[0].Points)
	assert.Equal(t, 1, got.Channels[1].Channel)
	assert.Equal(t, "json", s.Name())
}

func TestTextSinkPlain(t *testing.T) {
	var buf bytes.Buffer
	s := NewTextSink(&buf, 4, false)

	f := window.Frame{
		XMin:     0,
		XMax:     4,
		Channels: [][]window.Point{points(0, 0, 1, 1), points(1, 1, 1, 1)},
	}
	require.NoError(t, s.Draw(f))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "[0.0, 4.0]", lines[0])
	assert.Equal(t, "CH1 ▔▔▔▔", lines[1])
	assert.Equal(t, "CH0 ▁▁│▔", lines[2])
	require.NoError(t, s.Close())
}

func TestTextSinkColorRedraws(t *testing.T) {
	var buf bytes.Buffer
	s := NewTextSink(&buf, 0, true)
	require.NoError(t, s.Draw(window.Frame{XMax: 1, Channels: [][]window.Point{points(1)}}))
	assert.True(t, strings.HasPrefix(buf.String(), clearHome))
	assert.Contains(t, buf.String(), colorCyan)
}
