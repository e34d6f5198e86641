package monitor

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Geun-Oh/logix/internal/sample"
)

// EdgeCounter counts level transitions per channel.
type EdgeCounter struct {
	mu       sync.Mutex
	channels int
	last     sample.Levels
	primed   bool
	rising   [sample.MaxChannels]uint64
	falling  [sample.MaxChannels]uint64
}

// NewEdgeCounter creates a counter for the first channels channels.
func NewEdgeCounter(channels int) *EdgeCounter {
	if channels <= 0 || channels > sample.MaxChannels {
		channels = sample.MaxChannels
	}
	return &EdgeCounter{channels: channels}
}

// Observe compares lv with the previous sample. The first sample only
// sets the reference levels.
func (e *EdgeCounter) Observe(lv sample.Levels) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.primed {
		for c := 0; c < e.channels; c++ {
			switch {
			case lv[c] && !e.last[c]:
				e.rising[c]++
			case !lv[c] && e.last[c]:
				e.falling[c]++
			}
		}
	}
	e.last = lv
	e.primed = true
}

// Edges returns rising and falling counts for channel c.
func (e *EdgeCounter) Edges(c int) (rising, falling uint64) {
	if c < 0 || c >= sample.MaxChannels {
		return 0, 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rising[c], e.falling[c]
}

// Total returns all transitions seen on channel c.
func (e *EdgeCounter) Total(c int) uint64 {
	r, f := e.Edges(c)
	return r + f
}

// Summary returns a formatted per-channel edge table.
func (e *EdgeCounter) Summary() string {
	var sb strings.Builder
	sb.WriteString("── Edges ──\n")
	for c := 0; c < e.channels; c++ {
		r, f := e.Edges(c)
		sb.WriteString(fmt.Sprintf("  CH%d  %10d rising %10d falling\n", c, r, f))
	}
	sb.WriteString("───────────")
	return sb.String()
}
