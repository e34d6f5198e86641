package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Geun-Oh/logix/internal/config"
	"github.com/Geun-Oh/logix/internal/source"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()
	fs := pflag.NewFlagSet("logix", pflag.ContinueOnError)
	opts := bindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return opts.load(fs, fs.Args())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logix.yaml")
	require.NoError(t, os.WriteFile(path, []byte("channels: 4\nbuffer_size: 2000\nsource: generator\n"), 0o644))

	cfg, err := parse(t, "--config", path, "-n", "500", "--frozen")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Channels, "file value kept")
	assert.Equal(t, 500, cfg.BufferSize, "flag wins over file")
	assert.Equal(t, config.SourceGenerator, cfg.Source)
	assert.True(t, cfg.Frozen)
	assert.Equal(t, 30, cfg.TickIntervalMS, "default kept")
}

func TestUnsetFlagsDoNotOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logix.yaml")
	require.NoError(t, os.WriteFile(path, []byte("clip: false\nport: /dev/ttyUSB1\n"), 0o644))

	cfg, err := parse(t, "--config", path)
	require.NoError(t, err)
	assert.False(t, cfg.Clip)
	assert.Equal(t, "/dev/ttyUSB1", cfg.Port)
}

func TestPositionalArgsSelectExec(t *testing.T) {
	cfg, err := parse(t, "--", "capture-helper", "--rate", "1M")
	require.NoError(t, err)
	assert.Equal(t, config.SourceExec, cfg.Source)
	assert.Equal(t, []string{"capture-helper", "--rate", "1M"}, cfg.Command)
}

func TestInvalidFlagsAreConfigErrors(t *testing.T) {
	_, err := parse(t, "--channels", "9", "--time-scale", "20")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.Contains(t, err.Error(), "channels")
	assert.Contains(t, err.Error(), "time_scale")
	assert.True(t, strings.HasPrefix(describe(err), "configuration error"))
}

func TestDescribe(t *testing.T) {
	ioErr := &source.OpenError{Source: "serial", Err: errors.New("no such device")}
	assert.True(t, strings.HasPrefix(describe(ioErr), "I/O error"))
	assert.Equal(t, "boom", describe(errors.New("boom")))
}

func TestBuildSource(t *testing.T) {
	cases := map[string]config.Config{
		"serial:/dev/ttyACM0@1000000": config.Default(),
		"file:cap.bin":                {Source: config.SourceFile, Path: "cap.bin"},
		"stdin":                       {Source: config.SourceStdin},
		"exec:sh":                     {Source: config.SourceExec, Command: []string{"sh", "-c", "true"}},
		"generator:10/s":              {Source: config.SourceGenerator, GeneratorRate: 10},
	}
	for want, cfg := range cases {
		src, err := buildSource(cfg)
		require.NoError(t, err)
		assert.Equal(t, want, src.Name())
	}

	_, err := buildSource(config.Config{Source: "carrier-pigeon"})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestCaptureHeadlessJSON(t *testing.T) {
	cfg := config.Default()
	cfg.Source = config.SourceGenerator
	cfg.GeneratorRate = 10000
	cfg.Output = config.OutputJSON
	cfg.TickIntervalMS = 5

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var stdout, stderr bytes.Buffer
	require.NoError(t, capture(ctx, cfg, &stdout, &stderr))

	assert.Contains(t, stdout.String(), `"x_min"`)
	assert.Contains(t, stderr.String(), "Samples:")
	assert.Contains(t, stderr.String(), "CH7")
	assert.Contains(t, stderr.String(), "source opened")
}

func TestCaptureOpenFailure(t *testing.T) {
	cfg := config.Default()
	cfg.Source = config.SourceFile
	cfg.Path = filepath.Join(t.TempDir(), "missing.bin")
	cfg.Output = config.OutputText

	var stdout, stderr bytes.Buffer
	err := capture(context.Background(), cfg, &stdout, &stderr)
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrIO)
	assert.NotContains(t, stderr.String(), "Samples:")
}

func TestCaptureRejectsEmptyBuffer(t *testing.T) {
	cfg := config.Default()
	cfg.Source = config.SourceGenerator
	cfg.Output = config.OutputText
	cfg.BufferSize = 0

	var stdout, stderr bytes.Buffer
	err := capture(context.Background(), cfg, &stdout, &stderr)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.Contains(t, err.Error(), "capacity")
}

func TestListPorts(t *testing.T) {
	orig := listPorts
	defer func() { listPorts = orig }()

	listPorts = func() ([]string, error) { return []string{"/dev/ttyACM0", "/dev/ttyUSB0"}, nil }
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list-ports"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "/dev/ttyACM0\n/dev/ttyUSB0\n", out.String())

	listPorts = func() ([]string, error) { return nil, nil }
	out.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list-ports"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "No serial ports found.")
}
