package config

import (
	"errors"
	"fmt"

	"github.com/Geun-Oh/logix/internal/sample"
	"github.com/Geun-Oh/logix/internal/view"
)

// ValidationError describes one invalid field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalid.
func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks every field and returns all problems joined together.
func (c Config) Validate() error {
	var errs []error

	switch c.Source {
	case SourceSerial:
		if c.Port == "" {
			errs = append(errs, invalid("port", "required for the serial source"))
		}
		if c.Baud <= 0 {
			errs = append(errs, invalid("baud", "must be positive, got %d", c.Baud))
		}
	case SourceFile:
		if c.Path == "" {
			errs = append(errs, invalid("path", "required for the file source"))
		}
	case SourceExec:
		if len(c.Command) == 0 || c.Command[0] == "" {
			errs = append(errs, invalid("command", "required for the exec source"))
		}
	case SourceGenerator:
		if c.GeneratorRate <= 0 {
			errs = append(errs, invalid("generator_rate", "must be positive, got %d", c.GeneratorRate))
		}
	case SourceStdin:
	default:
		errs = append(errs, invalid("source", "unknown source %q", c.Source))
	}

	if c.Channels < 1 || c.Channels > sample.MaxChannels {
		errs = append(errs, invalid("channels", "must be between 1 and %d for one byte per sample, got %d", sample.MaxChannels, c.Channels))
	}
	if c.BufferSize <= 0 {
		errs = append(errs, invalid("buffer_size", "must be positive, got %d", c.BufferSize))
	}
	if c.TickIntervalMS <= 0 {
		errs = append(errs, invalid("tick_interval_ms", "must be positive, got %d", c.TickIntervalMS))
	}
	if c.ReadChunkBytes <= 0 {
		errs = append(errs, invalid("read_chunk_bytes", "must be positive, got %d", c.ReadChunkBytes))
	}
	if c.ReadTimeoutMS <= 0 {
		errs = append(errs, invalid("read_timeout_ms", "must be positive, got %d", c.ReadTimeoutMS))
	}
	if c.TimeScale < view.MinTimeScale || c.TimeScale > view.MaxTimeScale {
		errs = append(errs, invalid("time_scale", "must be between %g and %g, got %g", view.MinTimeScale, view.MaxTimeScale, c.TimeScale))
	}

	switch c.Output {
	case OutputTUI, OutputJSON:
	case OutputText:
		if c.TraceWidth <= 0 {
			errs = append(errs, invalid("trace_width", "must be positive, got %d", c.TraceWidth))
		}
	default:
		errs = append(errs, invalid("output", "unknown output %q", c.Output))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, invalid("log_level", "unknown level %q", c.LogLevel))
	}

	return errors.Join(errs...)
}
