// Package view holds the zoom, pan and freeze state of the waveform display
// and the input events that change it.
package view

import "sync"

// Zoom bounds for TimeScale. Every mutation clamps to them.
const (
	MinTimeScale = 0.01
	MaxTimeScale = 10.0
)

// State is the display state. It has no I/O and is only changed by Apply.
type State struct {
	TimeScale float64 // window width factor, smaller = zoomed in
	XOffset   float64 // pan distance subtracted from the right edge
	Panning   bool
	Frozen    bool

	// LastPointerX is the pointer position seen during the current drag.
	// Only meaningful when HasPointer is true.
	LastPointerX float64
	HasPointer   bool
}

// NewState returns the startup state.
func NewState() State {
	return State{TimeScale: 1.0}
}

// WithDefaults returns a state initialised from configured values.
// The time scale is clamped like any other mutation.
func WithDefaults(timeScale, xOffset float64, frozen bool) State {
	return State{
		TimeScale: clamp(timeScale),
		XOffset:   xOffset,
		Frozen:    frozen,
	}
}

// Apply returns the state that results from ev.
func Apply(s State, ev Event) State {
	if ev == nil {
		return s
	}
	return ev.apply(s)
}

func clamp(scale float64) float64 {
	if scale < MinTimeScale {
		return MinTimeScale
	}
	if scale > MaxTimeScale {
		return MaxTimeScale
	}
	return scale
}

func zoomIn(s State, factor float64) State {
	s.TimeScale = max(MinTimeScale, s.TimeScale/factor)
	return s
}

func zoomOut(s State, factor float64) State {
	s.TimeScale = min(MaxTimeScale, s.TimeScale*factor)
	return s
}

// Store guards a State for use from several goroutines.
type Store struct {
	mu sync.Mutex
	s  State
}

// NewStore creates a store holding s.
func NewStore(s State) *Store {
	return &Store{s: s}
}

// Dispatch applies ev and returns the new state.
func (st *Store) Dispatch(ev Event) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s = Apply(st.s, ev)
	return st.s
}

// Get returns a copy of the current state.
func (st *Store) Get() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s
}

// Reset replaces the current state.
func (st *Store) Reset(s State) {
	st.mu.Lock()
	st.s = s
	st.mu.Unlock()
}
