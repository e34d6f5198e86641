package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/Geun-Oh/logix/internal/window"
)

// ANSI escape codes.
const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	clearHome  = "\033[H\033[2J"
)

// TextSink draws each frame as one text trace per channel.
type TextSink struct {
	w      *bufio.Writer
	width  int
	color  bool
	redraw bool
}

// NewTextSink creates a sink that writes traces of the given width.
// If color is true, output includes ANSI colors and each frame redraws
// the screen in place.
func NewTextSink(w io.Writer, width int, color bool) *TextSink {
	if w == nil {
		w = os.Stdout
	}
	if width <= 0 {
		width = 80
	}
	return &TextSink{
		w:      bufio.NewWriter(w),
		width:  width,
		color:  color,
		redraw: color,
	}
}

// Draw writes the range header and one line per channel.
func (s *TextSink) Draw(f window.Frame) error {
	if s.redraw {
		s.w.WriteString(clearHome)
	}
	if s.color {
		fmt.Fprintf(s.w, "%s[%.1f, %.1f]%s\n", colorGray, f.XMin, f.XMax, colorReset)
	} else {
		fmt.Fprintf(s.w, "[%.1f, %.1f]\n", f.XMin, f.XMax)
	}

	// Highest channel on top, like the plot.
	for ch := len(f.Channels) - 1; ch >= 0; ch-- {
		trace := TraceString(Rasterize(f.Channels[ch], f.XMin, f.XMax, s.width))
		if s.color {
			fmt.Fprintf(s.w, "CH%d %s%s%s\n", ch, colorCyan, trace, colorReset)
		} else {
			fmt.Fprintf(s.w, "CH%d %s\n", ch, trace)
		}
	}
	if !s.redraw {
		s.w.WriteString("\n")
	}
	return s.w.Flush()
}

// Flush writes buffered output.
func (s *TextSink) Flush() error { return s.w.Flush() }

// Close flushes the writer.
func (s *TextSink) Close() error { return s.Flush() }

// Name returns the sink identifier.
func (s *TextSink) Name() string { return "text" }
