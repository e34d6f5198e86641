package view

import "fmt"

// Event is an input event. The set of implementations is closed.
type Event interface {
	apply(s State) State
	fmt.Stringer
}

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota + 1
	ButtonMiddle
	ButtonSecondary
)

// Direction is a scroll direction.
type Direction int

const (
	ScrollUp Direction = iota + 1
	ScrollDown
)

// Pointer is a position on the time axis. Defined is false when the
// pointer is outside the plot area.
type Pointer struct {
	X       float64
	Defined bool
}

// At returns a defined pointer at x.
func At(x float64) Pointer {
	return Pointer{X: x, Defined: true}
}

func (p Pointer) String() string {
	if !p.Defined {
		return "none"
	}
	return fmt.Sprintf("%g", p.X)
}

// KeyPress zooms on '+' and '-'. Other keys are ignored.
type KeyPress struct {
	Key rune
}

func (e KeyPress) apply(s State) State {
	switch e.Key {
	case '+':
		return zoomIn(s, 2)
	case '-':
		return zoomOut(s, 2)
	}
	return s
}

func (e KeyPress) String() string { return fmt.Sprintf("key(%q)", e.Key) }

// Scroll zooms by a factor of 1.5.
type Scroll struct {
	Direction Direction
}

func (e Scroll) apply(s State) State {
	switch e.Direction {
	case ScrollUp:
		return zoomIn(s, 1.5)
	case ScrollDown:
		return zoomOut(s, 1.5)
	}
	return s
}

func (e Scroll) String() string {
	if e.Direction == ScrollUp {
		return "scroll(up)"
	}
	return "scroll(down)"
}

// PointerDown starts a pan drag with the primary button.
type PointerDown struct {
	Button  Button
	Pointer Pointer
}

func (e PointerDown) apply(s State) State {
	if e.Button != ButtonPrimary {
		return s
	}
	s.Panning = true
	// Outside the plot there is no position; the first move inside the
	// plot supplies one.
	s.LastPointerX = e.Pointer.X
	s.HasPointer = e.Pointer.Defined
	return s
}

func (e PointerDown) String() string { return fmt.Sprintf("down(%v)", e.Pointer) }

// PointerUp ends a pan drag. The last pointer position is kept.
type PointerUp struct {
	Button Button
}

func (e PointerUp) apply(s State) State {
	if e.Button != ButtonPrimary {
		return s
	}
	s.Panning = false
	return s
}

func (e PointerUp) String() string { return "up" }

// PointerMove pans by the distance moved since the last position.
type PointerMove struct {
	Pointer Pointer
}

func (e PointerMove) apply(s State) State {
	if !s.Panning || !e.Pointer.Defined {
		return s
	}
	if !s.HasPointer {
		s.LastPointerX = e.Pointer.X
		s.HasPointer = true
		return s
	}
	s.XOffset += s.LastPointerX - e.Pointer.X
	s.LastPointerX = e.Pointer.X
	return s
}

func (e PointerMove) String() string { return fmt.Sprintf("move(%v)", e.Pointer) }

// FreezeToggle halts or resumes both intake and display refresh.
type FreezeToggle struct{}

func (FreezeToggle) apply(s State) State {
	s.Frozen = !s.Frozen
	return s
}

func (FreezeToggle) String() string { return "freeze" }
