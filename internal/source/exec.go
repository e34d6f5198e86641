package source

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// ExecSource runs a helper command and reads capture bytes from its stdout,
// for devices that need a vendor tool to stream.
type ExecSource struct {
	command string
	args    []string

	cmd    *exec.Cmd
	p      *pump
	cancel context.CancelFunc
	waited chan struct{}
}

// NewExecSource creates a source that runs the given command with arguments.
func NewExecSource(command string, args []string) *ExecSource {
	return &ExecSource{
		command: command,
		args:    args,
	}
}

// Name returns the source identifier.
func (s *ExecSource) Name() string {
	return fmt.Sprintf("exec:%s", s.command)
}

// Open starts the command. The command is killed when ctx is cancelled
// or the source is closed.
func (s *ExecSource) Open(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, s.command, s.args...)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		s.cancel()
		return openError(s.Name(), fmt.Errorf("stdout pipe: %w", err))
	}

	if err := cmd.Start(); err != nil {
		s.cancel()
		return openError(s.Name(), fmt.Errorf("start command: %w", err))
	}
	s.cmd = cmd
	s.p = newPump()
	s.waited = make(chan struct{})

	go func() {
		s.p.run(ctx, stdoutPipe, nil)
		_ = cmd.Wait()
		close(s.waited)
	}()
	return nil
}

// Read returns buffered command output, waiting at most timeout.
func (s *ExecSource) Read(p []byte, timeout time.Duration) (int, error) {
	if s.p == nil {
		return 0, fmt.Errorf("%s: %w: not open", s.Name(), ErrIO)
	}
	return s.p.Read(p, timeout)
}

// Close kills the command and waits for it to exit.
func (s *ExecSource) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.p != nil {
		s.p.stop()
	}
	if s.waited != nil {
		<-s.waited
	}
	return nil
}
