package sink

import (
	"strings"

	"github.com/Geun-Oh/logix/internal/window"
)

// Cell is one display column of a channel trace.
type Cell uint8

const (
	CellNone Cell = iota // no line passes through the column
	CellLow
	CellHigh
	CellEdge // the level changes inside the column
)

// Glyph returns the character used to draw c.
func (c Cell) Glyph() rune {
	switch c {
	case CellLow:
		return '▁'
	case CellHigh:
		return '▔'
	case CellEdge:
		return '│'
	default:
		return ' '
	}
}

// Rasterize maps a time-ordered trace onto width columns spanning
// [xMin, xMax]. Points outside the range only contribute the line that
// enters or leaves it: the level before xMin is held into the window, and
// nothing is drawn past the last point.
func Rasterize(pts []window.Point, xMin, xMax float64, width int) []Cell {
	if width <= 0 {
		return nil
	}
	cells := make([]Cell, width)
	span := xMax - xMin
	if span <= 0 || len(pts) == 0 {
		return cells
	}

	seen := make([]uint8, width) // bit 0: low seen, bit 1: high seen
	last := make([]uint8, width) // level of the last point in the column
	hold := -1                   // level entering the window
	end := -1                    // last column a line reaches

	for _, p := range pts {
		t := float64(p.T)
		if t < xMin {
			hold = int(p.Level)
			continue
		}
		if t > xMax {
			if hold >= 0 || end >= 0 {
				end = width - 1
			}
			break
		}
		col := int((t - xMin) / span * float64(width))
		if col >= width {
			col = width - 1
		}
		seen[col] |= 1 << (p.Level & 1)
		last[col] = p.Level & 1
		end = col
	}

	level := hold
	for c := 0; c <= end; c++ {
		switch {
		case seen[c] == 0:
			if level >= 0 {
				cells[c] = levelCell(level)
			}
		case seen[c] == 3 || (level >= 0 && seen[c] != 1<<level):
			cells[c] = CellEdge
			level = int(last[c])
		default:
			cells[c] = levelCell(int(last[c]))
			level = int(last[c])
		}
	}
	return cells
}

func levelCell(level int) Cell {
	if level == 1 {
		return CellHigh
	}
	return CellLow
}

// TraceString renders cells as glyphs.
func TraceString(cells []Cell) string {
	var sb strings.Builder
	for _, c := range cells {
		sb.WriteRune(c.Glyph())
	}
	return sb.String()
}
