package sink

import (
	"encoding/json"
	"io"
	"os"

	"github.com/Geun-Oh/logix/internal/window"
)

// jsonFrame is the serialization format for JSON Lines output.
type jsonFrame struct {
	XMin     float64     `json:"x_min"`
	XMax     float64     `json:"x_max"`
	Latest   int64       `json:"latest"`
	Channels []jsonTrace `json:"channels"`
}

type jsonTrace struct {
	Channel int        `json:"channel"`
	Points  [][2]int64 `json:"points"` // [time, level]
}

// JSONSink writes frames as JSON Lines (one JSON object per frame).
// Only points inside [x_min, x_max] are written.
type JSONSink struct {
	w   io.Writer
	enc *json.Encoder
}

// NewJSONSink creates a JSON Lines sink writing to the given writer.
func NewJSONSink(w io.Writer) *JSONSink {
	if w == nil {
		w = os.Stdout
	}
	return &JSONSink{
		w:   w,
		enc: json.NewEncoder(w),
	}
}

// Draw serializes a frame as a single JSON line.
func (s *JSONSink) Draw(f window.Frame) error {
	jf := jsonFrame{
		XMin:     f.XMin,
		XMax:     f.XMax,
		Latest:   f.Latest,
		Channels: make([]jsonTrace, len(f.Channels)),
	}
	for ch, pts := range f.Channels {
		vis := Visible(pts, f.XMin, f.XMax)
		tr := jsonTrace{Channel: ch, Points: make([][2]int64, len(vis))}
		for i, p := range vis {
			tr.Points[i] = [2]int64{p.T, int64(p.Level)}
		}
		jf.Channels[ch] = tr
	}
	return s.enc.Encode(jf)
}

// Flush is a no-op for JSON sink.
func (s *JSONSink) Flush() error { return nil }

// Close is a no-op for JSON sink.
func (s *JSONSink) Close() error { return nil }

// Name returns the sink identifier.
func (s *JSONSink) Name() string { return "json" }
