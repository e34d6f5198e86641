package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Geun-Oh/logix/internal/monitor"
	"github.com/Geun-Oh/logix/internal/pipeline"
	tea "github.com/charmbracelet/bubbletea"
)

// RunConfig holds configuration for the TUI.
type RunConfig struct {
	Engine       *pipeline.Engine
	Frames       *FrameSink // must be one of the engine's sinks
	Rate         *monitor.RateDetector
	Edges        *monitor.EdgeCounter
	TickInterval time.Duration
}

// Run opens the engine's source and starts the waveform view. Ticks and
// input events are both handled on the bubbletea update loop, so the
// engine is driven from a single goroutine.
// This function blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, cfg *RunConfig) (err error) {
	if err := cfg.Engine.Open(ctx); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	defer func() {
		if cerr := cfg.Engine.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("tui: %w", cerr)
		}
	}()

	model := NewModel(cfg.Engine, cfg.Frames, cfg.Rate, cfg.Edges, cfg.TickInterval)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	if m, ok := final.(Model); ok && m.Err() != nil {
		return fmt.Errorf("tui: %w", m.Err())
	}
	return nil
}
