// Package tui provides an interactive terminal waveform view for live captures.
package tui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Geun-Oh/logix/internal/monitor"
	"github.com/Geun-Oh/logix/internal/pipeline"
	"github.com/Geun-Oh/logix/internal/sink"
	"github.com/Geun-Oh/logix/internal/view"
	"github.com/Geun-Oh/logix/internal/window"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(1).
			PaddingRight(1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#353533"))

	frozenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4444")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	traceColors = []lipgloss.Color{"#44AAFF", "#FF6600", "#44DD66", "#FF44AA", "#DDDD44", "#AA66FF", "#44DDDD", "#FF4444"}
)

// Layout.
const (
	labelWidth  = 5 // "CH7 │"
	countWidth  = 9 // edge counter column
	headerLines = 1
)

// --- Messages ---

// TickMsg triggers one ingestion tick.
type TickMsg time.Time

// --- Frame sink ---

// FrameSink keeps the latest frame for the view. It is the render sink
// the engine draws into in TUI mode.
type FrameSink struct {
	mu    sync.Mutex
	frame window.Frame
	ok    bool
}

// NewFrameSink creates an empty frame holder.
func NewFrameSink() *FrameSink {
	return &FrameSink{}
}

// Draw stores f.
func (s *FrameSink) Draw(f window.Frame) error {
	s.mu.Lock()
	s.frame = f
	s.ok = true
	s.mu.Unlock()
	return nil
}

// Latest returns the last drawn frame, or false if nothing was drawn yet.
func (s *FrameSink) Latest() (window.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame, s.ok
}

// Flush is a no-op.
func (s *FrameSink) Flush() error { return nil }

// Close is a no-op.
func (s *FrameSink) Close() error { return nil }

// Name returns the sink identifier.
func (s *FrameSink) Name() string { return "tui" }

// --- Model ---

// Model is the bubbletea model for the waveform view.
type Model struct {
	engine  *pipeline.Engine
	frames  *FrameSink
	Rate    *monitor.RateDetector
	Edges   *monitor.EdgeCounter
	Source  string
	initial view.State
	tick    time.Duration

	keys keyMap
	help help.Model

	width  int
	height int

	err error
}

// NewModel creates a new TUI model around a running engine.
func NewModel(engine *pipeline.Engine, frames *FrameSink, rate *monitor.RateDetector, edges *monitor.EdgeCounter, tick time.Duration) Model {
	if tick <= 0 {
		tick = 30 * time.Millisecond
	}
	return Model{
		engine:  engine,
		frames:  frames,
		Rate:    rate,
		Edges:   edges,
		Source:  engine.Source().Name(),
		initial: engine.View(),
		tick:    tick,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

// Init starts the tick timer.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Err returns the error that stopped the view, if any.
func (m Model) Err() error {
	return m.err
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case TickMsg:
		if _, err := m.engine.OnTick(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, m.tickCmd()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.ZoomIn):
		m.engine.Dispatch(view.KeyPress{Key: '+'})
	case key.Matches(msg, m.keys.ZoomOut):
		m.engine.Dispatch(view.KeyPress{Key: '-'})
	case key.Matches(msg, m.keys.Freeze):
		m.engine.Dispatch(view.FreezeToggle{})
	case key.Matches(msg, m.keys.Reset):
		// Keep the freeze mode; only zoom and pan go back.
		s := m.initial
		s.Frozen = m.engine.View().Frozen
		m.engine.ResetView(s)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.engine.Dispatch(view.Scroll{Direction: view.ScrollUp})
		case tea.MouseButtonWheelDown:
			m.engine.Dispatch(view.Scroll{Direction: view.ScrollDown})
		case tea.MouseButtonLeft:
			m.engine.Dispatch(view.PointerDown{Button: view.ButtonPrimary, Pointer: m.pointerAt(msg.X, msg.Y)})
		}
	case tea.MouseActionRelease:
		// Some terminals do not report which button was released.
		if msg.Button == tea.MouseButtonLeft || msg.Button == tea.MouseButtonNone {
			m.engine.Dispatch(view.PointerUp{Button: view.ButtonPrimary})
		}
	case tea.MouseActionMotion:
		m.engine.Dispatch(view.PointerMove{Pointer: m.pointerAt(msg.X, msg.Y)})
	}
}

// plotWidth is the number of trace columns.
func (m Model) plotWidth() int {
	w := m.width - labelWidth - countWidth
	if w < 1 {
		w = 1
	}
	return w
}

func (m Model) channels() int {
	return m.engine.Ring().Channels()
}

// pointerAt maps a terminal cell to a time on the displayed axis. Cells
// outside the trace area, or before anything was drawn, have no position.
func (m Model) pointerAt(x, y int) view.Pointer {
	f, ok := m.frames.Latest()
	if !ok {
		return view.Pointer{}
	}
	if y < headerLines || y >= headerLines+m.channels() {
		return view.Pointer{}
	}
	col := x - labelWidth
	pw := m.plotWidth()
	if col < 0 || col >= pw {
		return view.Pointer{}
	}
	span := f.XMax - f.XMin
	return view.At(f.XMin + (float64(col)+0.5)/float64(pw)*span)
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sb strings.Builder
	st := m.engine.View()

	// Title bar.
	title := titleStyle.Render(fmt.Sprintf(" logix · %s ", m.Source))
	status := "▶ RUNNING"
	if st.Frozen {
		status = frozenStyle.Render("⏸ FROZEN")
	}
	statusText := statusBarStyle.Render(fmt.Sprintf(" %s  %d samples ", status, m.engine.SampleIndex()))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(statusText)
	if gap < 0 {
		gap = 0
	}
	sb.WriteString(title + statusBarStyle.Render(strings.Repeat(" ", gap)) + statusText)
	sb.WriteString("\n")

	// Channel rows, highest channel on top.
	f, haveFrame := m.frames.Latest()
	pw := m.plotWidth()
	for ch := m.channels() - 1; ch >= 0; ch-- {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("CH%d │", ch)))
		if haveFrame && ch < len(f.Channels) {
			cells := sink.Rasterize(f.Channels[ch], f.XMin, f.XMax, pw)
			color := traceColors[ch%len(traceColors)]
			sb.WriteString(lipgloss.NewStyle().Foreground(color).Render(sink.TraceString(cells)))
		} else {
			sb.WriteString(strings.Repeat(" ", pw))
		}
		if m.Edges != nil {
			sb.WriteString(dimStyle.Render(fmt.Sprintf(" %8d", m.Edges.Total(ch))))
		}
		sb.WriteString("\n")
	}

	// Axis.
	sb.WriteString(m.renderAxis(f, haveFrame, pw))
	sb.WriteString("\n")

	// Pad remaining space.
	used := headerLines + m.channels() + 1 + 2
	for i := used; i < m.height; i++ {
		sb.WriteString("\n")
	}

	// Stats bar.
	rate := 0.0
	if m.Rate != nil {
		rate = m.Rate.CurrentRate()
	}
	statsLine := fmt.Sprintf(" Rate: %.0f/s │ Zoom: ×%.3g │ Offset: %.1f │ Buffer: %d/%d │ Dropped: %d",
		rate, st.TimeScale, st.XOffset, m.engine.Ring().Len(), m.engine.Ring().Cap(), m.engine.Ring().Dropped())
	if m.err != nil {
		statsLine += " │ " + errorStyle.Render(m.err.Error())
	}
	sb.WriteString(statusBarStyle.Render(padRight(statsLine, m.width)))
	sb.WriteString("\n")

	// Help bar.
	sb.WriteString(m.help.View(m.keys))

	return sb.String()
}

// --- Helpers ---

func (m Model) renderAxis(f window.Frame, ok bool, width int) string {
	prefix := strings.Repeat(" ", labelWidth)
	if !ok {
		return prefix + dimStyle.Render("waiting for samples…")
	}
	left := fmt.Sprintf("%.0f", f.XMin)
	right := fmt.Sprintf("%.0f", f.XMax)
	gap := width - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	return prefix + dimStyle.Render(left+strings.Repeat("─", gap)+right)
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
