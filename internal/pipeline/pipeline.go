// Package pipeline orchestrates Source → Decoder → Ring → Window → Sink processing.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Geun-Oh/logix/internal/buffer"
	"github.com/Geun-Oh/logix/internal/logging"
	"github.com/Geun-Oh/logix/internal/monitor"
	"github.com/Geun-Oh/logix/internal/sample"
	"github.com/Geun-Oh/logix/internal/sink"
	"github.com/Geun-Oh/logix/internal/source"
	"github.com/Geun-Oh/logix/internal/view"
	"github.com/Geun-Oh/logix/internal/window"
)

// Config holds pipeline configuration.
type Config struct {
	Source       source.Source
	Sinks        []sink.Sink
	Ring         *buffer.Ring
	Decoder      sample.Decoder
	View         *view.Store // optional, defaults to the startup state
	Clip         bool        // pre-slice frames to the visible range
	ChunkSize    int
	ReadTimeout  time.Duration
	TickInterval time.Duration
	Stats        *monitor.Stats        // optional
	Rate         *monitor.RateDetector // optional
	Edges        *monitor.EdgeCounter  // optional
	Logger       *slog.Logger          // optional
}

// Engine is the ingestion loop. It is the only writer of its ring.
type Engine struct {
	src    source.Source
	sinks  []sink.Sink
	ring   *buffer.Ring
	dec    sample.Decoder
	view   *view.Store
	calc   window.Calculator
	stats  *monitor.Stats
	rate   *monitor.RateDetector
	edges  *monitor.EdgeCounter
	log    *slog.Logger
	buf    []byte
	tick   time.Duration
	wait   time.Duration
	next   int64 // time index of the next sample
	eof    bool
	opened bool
}

// New validates cfg and builds an engine.
func New(cfg *Config) (*Engine, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("pipeline: source is required")
	}
	if cfg.Ring == nil {
		return nil, fmt.Errorf("pipeline: ring is required")
	}
	if len(cfg.Sinks) == 0 {
		return nil, fmt.Errorf("pipeline: at least one sink is required")
	}
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("pipeline: chunk size must be positive")
	}
	if cfg.Decoder.Channels() == 0 {
		return nil, fmt.Errorf("pipeline: decoder is required")
	}

	e := &Engine{
		src:   cfg.Source,
		sinks: cfg.Sinks,
		ring:  cfg.Ring,
		dec:   cfg.Decoder,
		view:  cfg.View,
		calc:  window.Calculator{Capacity: cfg.Ring.Cap(), Clip: cfg.Clip},
		stats: cfg.Stats,
		rate:  cfg.Rate,
		edges: cfg.Edges,
		log:   cfg.Logger,
		buf:   make([]byte, cfg.ChunkSize),
		tick:  cfg.TickInterval,
		wait:  cfg.ReadTimeout,
	}
	if e.view == nil {
		e.view = view.NewStore(view.NewState())
	}
	if e.stats == nil {
		e.stats = monitor.NewStats()
	}
	if e.log == nil {
		e.log = logging.Discard()
	}
	if e.tick <= 0 {
		e.tick = 30 * time.Millisecond
	}
	if e.wait <= 0 {
		e.wait = 10 * time.Millisecond
	}
	return e, nil
}

// Open opens the byte source. Failure is fatal for the capture.
func (e *Engine) Open(ctx context.Context) error {
	if err := e.src.Open(ctx); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	e.opened = true
	e.log.Info("source opened", "source", e.src.Name(), "capacity", e.ring.Cap(), "channels", e.dec.Channels())
	return nil
}

// Close closes the source, then flushes and closes every sink.
func (e *Engine) Close() error {
	var errs []error
	if e.opened {
		if err := e.src.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", e.src.Name(), err))
		}
		e.opened = false
		e.log.Info("source closed", "source", e.src.Name(), "samples", e.next)
	}
	for _, s := range e.sinks {
		if err := s.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("flush %s: %w", s.Name(), err))
		}
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// OnTick runs one refresh tick and reports whether a frame was drawn.
// While frozen nothing is read, stored or drawn.
func (e *Engine) OnTick() (bool, error) {
	st := e.view.Get()
	e.stats.RecordTick(st.Frozen)
	if st.Frozen {
		return false, nil
	}

	n, err := e.src.Read(e.buf, e.wait)
	e.stats.RecordRead(n, err)
	if err != nil {
		e.noteReadError(err)
	}
	e.ingest(e.buf[:n])

	if e.ring.Len() == 0 {
		return false, nil
	}
	f, ok := e.calc.Compute(e.ring, e.next, st)
	if !ok {
		return false, nil
	}
	for _, s := range e.sinks {
		if err := s.Draw(f); err != nil {
			return false, fmt.Errorf("pipeline: draw to %s: %w", s.Name(), err)
		}
	}
	e.stats.RecordFrame()
	return true, nil
}

// ingest decodes and stores bytes in arrival order.
func (e *Engine) ingest(data []byte) {
	var lv sample.Levels
	for _, b := range data {
		lv = e.dec.Decode(b)
		e.ring.Append(e.next, lv)
		if e.edges != nil {
			e.edges.Observe(lv)
		}
		e.next++
	}
	if e.rate != nil {
		e.rate.Record(len(data))
	}
	if len(data) > 0 && e.log.Enabled(context.Background(), slog.LevelDebug) {
		newest, _ := e.ring.Latest()
		e.log.Debug("ingested", "bytes", len(data), "newest", newest, "levels", lv.String())
	}
}

// noteReadError logs a failed read. A failed read counts as an empty one.
func (e *Engine) noteReadError(err error) {
	if errors.Is(err, io.EOF) {
		if !e.eof {
			e.eof = true
			e.log.Info("source exhausted", "source", e.src.Name(), "samples", e.next)
		}
		return
	}
	e.log.Debug("source read failed", "source", e.src.Name(), "err", err)
}

// Run opens the source and ticks until ctx is cancelled or a sink fails.
// Blocks until done.
func (e *Engine) Run(ctx context.Context) (err error) {
	if err := e.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if cerr := e.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := e.OnTick(); err != nil {
				return err
			}
		}
	}
}

// Dispatch applies an input event to the view.
func (e *Engine) Dispatch(ev view.Event) view.State {
	return e.view.Dispatch(ev)
}

// View returns the current view state.
func (e *Engine) View() view.State {
	return e.view.Get()
}

// ResetView replaces the view state.
func (e *Engine) ResetView(s view.State) {
	e.view.Reset(s)
}

// SampleIndex returns the time index the next sample will get, which is
// also the number of samples consumed so far.
func (e *Engine) SampleIndex() int64 {
	return e.next
}

// Ring returns the sample history.
func (e *Engine) Ring() *buffer.Ring {
	return e.ring
}

// Stats returns the ingestion counters.
func (e *Engine) Stats() *monitor.Stats {
	return e.stats
}

// Source returns the byte source.
func (e *Engine) Source() source.Source {
	return e.src
}
