package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"
)

// port is the part of serial.Port the capture needs.
type port interface {
	Read(p []byte) (int, error)
	SetReadTimeout(t time.Duration) error
	Close() error
}

type portOpener func(name string, mode *serial.Mode) (port, error)

func openSerialPort(name string, mode *serial.Mode) (port, error) {
	return serial.Open(name, mode)
}

// SerialSource reads capture bytes from a serial device (8N1).
type SerialSource struct {
	device string
	baud   int
	open   portOpener

	port       port
	timeout    time.Duration
	timeoutSet bool // timeout has been applied to port
}

// NewSerialSource creates a source for the given device path and baud rate.
func NewSerialSource(device string, baud int) *SerialSource {
	return &SerialSource{
		device: device,
		baud:   baud,
		open:   openSerialPort,
	}
}

// Name returns the source identifier.
func (s *SerialSource) Name() string {
	return fmt.Sprintf("serial:%s@%d", s.device, s.baud)
}

// Open opens the device.
func (s *SerialSource) Open(_ context.Context) error {
	p, err := s.open(s.device, &serial.Mode{
		BaudRate: s.baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return openError(s.Name(), err)
	}
	s.port = p
	s.timeoutSet = false
	return nil
}

// Read reads what the device has buffered, waiting at most timeout.
func (s *SerialSource) Read(p []byte, timeout time.Duration) (int, error) {
	if s.port == nil {
		return 0, fmt.Errorf("%s: %w: not open", s.Name(), ErrIO)
	}
	if len(p) == 0 {
		return 0, nil
	}
	if !s.timeoutSet || timeout != s.timeout {
		if err := s.port.SetReadTimeout(timeout); err != nil {
			return 0, fmt.Errorf("%s: set read timeout: %w", s.Name(), err)
		}
		s.timeout = timeout
		s.timeoutSet = true
	}
	n, err := s.port.Read(p)
	if err != nil {
		return n, fmt.Errorf("%s: %w: %w", s.Name(), ErrIO, err)
	}
	return n, nil
}

// Close closes the device.
func (s *SerialSource) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	var perr *serial.PortError
	if errors.As(err, &perr) && perr.Code() == serial.PortClosed {
		return nil
	}
	return err
}

// ListPorts returns the serial devices present on the system.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
