package tui

import (
	"context"
	"testing"
	"time"

	"github.com/Geun-Oh/logix/internal/buffer"
	"github.com/Geun-Oh/logix/internal/monitor"
	"github.com/Geun-Oh/logix/internal/pipeline"
	"github.com/Geun-Oh/logix/internal/sample"
	"github.com/Geun-Oh/logix/internal/sink"
	"github.com/Geun-Oh/logix/internal/view"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// onceSource returns its data on the first read and nothing afterwards.
type onceSource struct {
	data []byte
}

func (s *onceSource) Open(context.Context) error { return nil }

func (s *onceSource) Read(p []byte, _ time.Duration) (int, error) {
	n := copy(p, s.data)
	s.data = s.data[n:]
	return n, nil
}

func (s *onceSource) Close() error { return nil }
func (s *onceSource) Name() string { return "once" }

func newTestModel(t *testing.T, n int) Model {
	t.Helper()
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i)
	}
	dec, err := sample.NewDecoder(8)
	require.NoError(t, err)
	ring, err := buffer.NewRing(100, 8)
	require.NoError(t, err)
	frames := NewFrameSink()
	edges := monitor.NewEdgeCounter(8)
	e, err := pipeline.New(&pipeline.Config{
		Source:    &onceSource{data: data},
		Sinks:     []sink.Sink{frames},
		Ring:      ring,
		Decoder:   dec,
		ChunkSize: 500,
		Edges:     edges,
	})
	require.NoError(t, err)

	m := NewModel(e, frames, monitor.NewRateDetector(time.Second), edges, time.Millisecond)
	return update(t, m, tea.WindowSizeMsg{Width: labelWidth + 100 + countWidth, Height: 20})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeysZoom(t *testing.T) {
	m := newTestModel(t, 0)

	m = update(t, m, runes("+"))
	assert.Equal(t, 0.5, m.engine.View().TimeScale)
	m = update(t, m, runes("="))
	assert.Equal(t, 0.25, m.engine.View().TimeScale)
	m = update(t, m, runes("-"))
	assert.Equal(t, 0.5, m.engine.View().TimeScale)
}

func TestKeysFreezeAndReset(t *testing.T) {
	m := newTestModel(t, 0)

	m = update(t, m, runes("f"))
	assert.True(t, m.engine.View().Frozen)
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.False(t, m.engine.View().Frozen)

	m = update(t, m, runes("+"))
	m = update(t, m, runes("f"))
	m = update(t, m, runes("r"))
	st := m.engine.View()
	assert.Equal(t, 1.0, st.TimeScale)
	assert.True(t, st.Frozen, "reset keeps the freeze mode")
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t, 0)

	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(msg)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestTickDrawsFrame(t *testing.T) {
	m := newTestModel(t, 100)

	_, ok := m.frames.Latest()
	assert.False(t, ok)

	next, cmd := m.Update(TickMsg(time.Now()))
	assert.NotNil(t, cmd, "next tick is scheduled")
	m = next.(Model)

	f, ok := m.frames.Latest()
	require.True(t, ok)
	assert.Equal(t, 0.0, f.XMin)
	assert.Equal(t, 100.0, f.XMax)
	assert.Equal(t, int64(100), m.engine.SampleIndex())
}

func TestFrozenTickKeepsFrame(t *testing.T) {
	m := newTestModel(t, 100)
	m = update(t, m, runes("f"))
	m = update(t, m, TickMsg(time.Now()))

	_, ok := m.frames.Latest()
	assert.False(t, ok)
	assert.Zero(t, m.engine.SampleIndex())
}

func TestWheelZooms(t *testing.T) {
	m := newTestModel(t, 0)

	m = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.InDelta(t, 1.5, m.engine.View().TimeScale, 1e-9)
	m = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.InDelta(t, 1.0, m.engine.View().TimeScale, 1e-9)
}

func TestDragPans(t *testing.T) {
	m := newTestModel(t, 100)
	m = update(t, m, TickMsg(time.Now()))

	// Frame spans [0, 100] over 100 columns, one sample per column.
	m = update(t, m, tea.MouseMsg{X: labelWidth + 50, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.True(t, m.engine.View().Panning)
	m = update(t, m, tea.MouseMsg{X: labelWidth + 30, Y: 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	assert.InDelta(t, 20.0, m.engine.View().XOffset, 1e-9)

	m = update(t, m, tea.MouseMsg{X: labelWidth + 30, Y: 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.False(t, m.engine.View().Panning)

	m = update(t, m, tea.MouseMsg{X: labelWidth + 10, Y: 1, Action: tea.MouseActionMotion})
	assert.InDelta(t, 20.0, m.engine.View().XOffset, 1e-9, "no pan after release")
}

func TestPointerOutsidePlotIsUndefined(t *testing.T) {
	m := newTestModel(t, 100)
	m = update(t, m, TickMsg(time.Now()))

	assert.False(t, m.pointerAt(labelWidth+10, 0).Defined, "title row")
	assert.False(t, m.pointerAt(2, 1).Defined, "label column")
	assert.False(t, m.pointerAt(labelWidth+100, 1).Defined, "edge counter column")
	assert.False(t, m.pointerAt(labelWidth+10, 1+8).Defined, "axis row")
	assert.True(t, m.pointerAt(labelWidth, 8).Defined)

	// Press in the title bar: the first move inside the plot only anchors.
	m = update(t, m, tea.MouseMsg{X: 10, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: labelWidth + 40, Y: 2, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	assert.Zero(t, m.engine.View().XOffset)
	m = update(t, m, tea.MouseMsg{X: labelWidth + 30, Y: 2, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	assert.InDelta(t, 10.0, m.engine.View().XOffset, 1e-9)
}

func TestPointerBeforeFirstFrame(t *testing.T) {
	m := newTestModel(t, 0)
	assert.Equal(t, view.Pointer{}, m.pointerAt(labelWidth+10, 1))
}

func TestViewRendersChannels(t *testing.T) {
	m := newTestModel(t, 100)
	assert.Contains(t, m.View(), "waiting for samples")

	m = update(t, m, TickMsg(time.Now()))
	out := m.View()
	for _, label := range []string{"CH0", "CH7", "RUNNING", "once", "zoom in"} {
		assert.Contains(t, out, label)
	}

	m = update(t, m, runes("f"))
	assert.Contains(t, m.View(), "FROZEN")
}

func TestViewBeforeResize(t *testing.T) {
	m := newTestModel(t, 0)
	m.width, m.height = 0, 0
	assert.Equal(t, "Loading...", m.View())
}
