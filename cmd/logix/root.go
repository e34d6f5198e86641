package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Geun-Oh/logix/internal/buffer"
	"github.com/Geun-Oh/logix/internal/config"
	"github.com/Geun-Oh/logix/internal/logging"
	"github.com/Geun-Oh/logix/internal/monitor"
	"github.com/Geun-Oh/logix/internal/pipeline"
	"github.com/Geun-Oh/logix/internal/sample"
	"github.com/Geun-Oh/logix/internal/sink"
	"github.com/Geun-Oh/logix/internal/source"
	"github.com/Geun-Oh/logix/internal/tui"
	"github.com/Geun-Oh/logix/internal/view"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// options holds the raw flag values. Only flags the user actually set are
// copied over the file configuration.
type options struct {
	configPath string
	flags      config.Config
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logix [flags] [-- command [args...]]",
		Short: "logix is a live viewer for 8-channel logic analyzer captures",
		Long: `logix reads one byte per sample from a capture device and plots each bit
as a digital trace that scrolls as data arrives.

Bit c of every byte is channel c. The view can be zoomed with +/- or the
mouse wheel, panned by dragging, and frozen with f.

Sources:
  serial      a USB serial device (default)
  file        a raw capture file, optionally followed as it grows
  stdin       bytes piped into logix
  exec        the stdout of a helper command (given after --)
  generator   a synthetic counter pattern`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts := bindFlags(cmd.Flags())
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := opts.load(cmd.Flags(), args)
		if err != nil {
			return err
		}
		return capture(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	cmd.AddCommand(newListPortsCmd())
	return cmd
}

// bindFlags registers the capture flags on fs with the built-in defaults.
func bindFlags(fs *pflag.FlagSet) *options {
	opts := &options{flags: config.Default()}
	f := &opts.flags
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.StringVarP(&f.Source, "source", "s", f.Source, "byte source (serial, file, stdin, exec, generator)")
	fs.StringVarP(&f.Port, "port", "p", f.Port, "serial device path")
	fs.IntVarP(&f.Baud, "baud", "b", f.Baud, "serial baud rate")
	fs.StringVar(&f.Path, "path", f.Path, "raw capture file for the file source")
	fs.BoolVar(&f.Follow, "follow", f.Follow, "keep reading bytes appended to the capture file")
	fs.IntVar(&f.GeneratorRate, "rate", f.GeneratorRate, "generator bytes per second")
	fs.IntVarP(&f.Channels, "channels", "c", f.Channels, "number of channels to decode (1-8)")
	fs.IntVarP(&f.BufferSize, "buffer-size", "n", f.BufferSize, "samples kept in history")
	fs.IntVar(&f.TickIntervalMS, "tick-interval", f.TickIntervalMS, "refresh interval in milliseconds")
	fs.IntVar(&f.ReadChunkBytes, "chunk", f.ReadChunkBytes, "maximum bytes read per tick")
	fs.IntVar(&f.ReadTimeoutMS, "read-timeout", f.ReadTimeoutMS, "source read timeout in milliseconds")
	fs.Float64Var(&f.TimeScale, "time-scale", f.TimeScale, "initial fraction of the history shown")
	fs.Float64Var(&f.XOffset, "x-offset", f.XOffset, "initial pan offset in samples")
	fs.BoolVar(&f.Frozen, "frozen", f.Frozen, "start with intake frozen")
	fs.BoolVar(&f.Clip, "clip", f.Clip, "hand only the visible samples to the renderer")
	fs.StringVarP(&f.Output, "output", "o", f.Output, "output mode (tui, json, text)")
	fs.IntVarP(&f.TraceWidth, "width", "w", f.TraceWidth, "trace width in columns for text output")
	fs.StringVar(&f.LogFile, "log-file", f.LogFile, "write logs to this file")
	fs.StringVar(&f.LogLevel, "log-level", f.LogLevel, "log level (debug, info, warn, error)")
	return opts
}

// load merges defaults, the config file and the flags the user set, then
// validates the result. Positional args are the exec source's command.
func (o *options) load(fs *pflag.FlagSet, args []string) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}

	f := &o.flags
	apply := map[string]func(){
		"source":        func() { cfg.Source = f.Source },
		"port":          func() { cfg.Port = f.Port },
		"baud":          func() { cfg.Baud = f.Baud },
		"path":          func() { cfg.Path = f.Path },
		"follow":        func() { cfg.Follow = f.Follow },
		"rate":          func() { cfg.GeneratorRate = f.GeneratorRate },
		"channels":      func() { cfg.Channels = f.Channels },
		"buffer-size":   func() { cfg.BufferSize = f.BufferSize },
		"tick-interval": func() { cfg.TickIntervalMS = f.TickIntervalMS },
		"chunk":         func() { cfg.ReadChunkBytes = f.ReadChunkBytes },
		"read-timeout":  func() { cfg.ReadTimeoutMS = f.ReadTimeoutMS },
		"time-scale":    func() { cfg.TimeScale = f.TimeScale },
		"x-offset":      func() { cfg.XOffset = f.XOffset },
		"frozen":        func() { cfg.Frozen = f.Frozen },
		"clip":          func() { cfg.Clip = f.Clip },
		"output":        func() { cfg.Output = f.Output },
		"width":         func() { cfg.TraceWidth = f.TraceWidth },
		"log-file":      func() { cfg.LogFile = f.LogFile },
		"log-level":     func() { cfg.LogLevel = f.LogLevel },
	}
	fs.Visit(func(fl *pflag.Flag) {
		if set, ok := apply[fl.Name]; ok {
			set()
		}
	})
	if len(args) > 0 {
		cfg.Command = args
		if !fs.Changed("source") {
			cfg.Source = config.SourceExec
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// capture wires a source, the engine and the chosen output, and runs until
// the user quits or a signal arrives.
func capture(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, closeLog, err := openLogger(cfg, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	src, err := buildSource(cfg)
	if err != nil {
		return err
	}
	dec, err := sample.NewDecoder(cfg.Channels)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}
	ring, err := buffer.NewRing(cfg.BufferSize, cfg.Channels)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}

	stats := monitor.NewStats()
	rate := monitor.NewRateDetector(0)
	edges := monitor.NewEdgeCounter(cfg.Channels)

	var frames *tui.FrameSink
	var sinks []sink.Sink
	switch cfg.Output {
	case config.OutputTUI:
		frames = tui.NewFrameSink()
		sinks = append(sinks, frames)
	case config.OutputJSON:
		sinks = append(sinks, sink.NewJSONSink(stdout))
	case config.OutputText:
		sinks = append(sinks, sink.NewTextSink(stdout, cfg.TraceWidth, isTerminal(stdout)))
	}

	engine, err := pipeline.New(&pipeline.Config{
		Source:       src,
		Sinks:        sinks,
		Ring:         ring,
		Decoder:      dec,
		View:         view.NewStore(cfg.InitialView()),
		Clip:         cfg.Clip,
		ChunkSize:    cfg.ReadChunkBytes,
		ReadTimeout:  cfg.ReadTimeout(),
		TickInterval: cfg.TickInterval(),
		Stats:        stats,
		Rate:         rate,
		Edges:        edges,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	if frames != nil {
		return tui.Run(ctx, &tui.RunConfig{
			Engine:       engine,
			Frames:       frames,
			Rate:         rate,
			Edges:        edges,
			TickInterval: cfg.TickInterval(),
		})
	}

	err = engine.Run(ctx)
	if !errors.Is(err, source.ErrIO) {
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, stats.Summary())
		fmt.Fprintln(stderr, edges.Summary())
	}
	return err
}

func buildSource(cfg config.Config) (source.Source, error) {
	switch cfg.Source {
	case config.SourceSerial:
		return source.NewSerialSource(cfg.Port, cfg.Baud), nil
	case config.SourceFile:
		return source.NewFileSource(cfg.Path, cfg.Follow), nil
	case config.SourceStdin:
		return source.NewStdinSource(), nil
	case config.SourceExec:
		return source.NewExecSource(cfg.Command[0], cfg.Command[1:]), nil
	case config.SourceGenerator:
		return source.NewGeneratorSource(cfg.GeneratorRate), nil
	}
	return nil, &config.ValidationError{Field: "source", Reason: fmt.Sprintf("unknown source %q", cfg.Source)}
}

// openLogger returns the capture logger. The TUI owns the terminal, so it
// only logs to a file; headless runs log to stderr by default.
func openLogger(cfg config.Config, stderr io.Writer) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		if cfg.Output == config.OutputTUI {
			return logging.Discard(), func() {}, nil
		}
		return logging.New(stderr, cfg.LogLevel), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logging.New(f, cfg.LogLevel), func() { f.Close() }, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "logix: %s\n", describe(err))
		os.Exit(1)
	}
}

// describe prefixes err with its category.
func describe(err error) string {
	switch {
	case errors.Is(err, config.ErrInvalid):
		return "configuration error: " + err.Error()
	case errors.Is(err, source.ErrIO):
		return "I/O error: " + err.Error()
	}
	return err.Error()
}
