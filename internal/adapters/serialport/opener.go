// Package serialport adapts go.bug.st/serial to ports.Opener.
package serialport

import (
	"context"
	"errors"
	"fmt"

	"go.bug.st/serial"

	"github.com/bft-labs/memship/internal/ports"
)

// Opener opens real serial ports.
type Opener struct{}

// NewOpener creates a new Opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open opens target as 8N1 at the requested baud rate and applies the read
// timeout. Both lines start de-asserted so opening alone does not reset the
// board.
func (o *Opener) Open(ctx context.Context, target ports.Target) (ports.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	port, err := serial.Open(target.Port, &serial.Mode{
		BaudRate: target.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
		InitialStatusBits: &serial.ModemOutputBits{
			DTR: false,
			RTS: false,
		},
	})
	if err != nil {
		return nil, &OpenError{Port: target.Port, Err: err}
	}

	if target.ReadTimeout > 0 {
		if err := port.SetReadTimeout(target.ReadTimeout); err != nil {
			_ = port.Close()
			return nil, &OpenError{Port: target.Port, Err: fmt.Errorf("set read timeout: %w", err)}
		}
	}

	return port, nil
}

// ListPorts returns the serial ports known to the OS.
func ListPorts() ([]string, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}
	return names, nil
}

// OpenError wraps a failure to open or configure a port and implements
// ports.Hinter.
type OpenError struct {
	Port string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Port, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// Hint returns an operator-facing suggestion for the failure.
func (e *OpenError) Hint() string {
	code, ok := portErrorCode(e.Err)
	if !ok {
		return "check that the device is connected and the port name is correct"
	}

	switch code {
	case serial.PortNotFound, serial.InvalidSerialPort:
		return "port not found; run 'memship ports' to list available ports"
	case serial.PortBusy:
		return "port is busy; close any serial monitor or other program using it"
	case serial.PermissionDenied:
		return "permission denied; add your user to the dialout/uucp group or run with sufficient rights"
	case serial.InvalidSpeed:
		return "baud rate not supported by this adapter"
	case serial.InvalidDataBits, serial.InvalidParity, serial.InvalidStopBits:
		return "adapter rejected the 8N1 framing"
	case serial.InvalidTimeoutValue:
		return "read timeout rejected; use a positive value"
	default:
		return "check that the device is connected and not in use"
	}
}

// portErrorCode extracts the go.bug.st/serial error code. The library
// returns *PortError from Open but PortError values from some setters.
func portErrorCode(err error) (serial.PortErrorCode, bool) {
	var ptr *serial.PortError
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Code(), true
	}
	var val serial.PortError
	if errors.As(err, &val) {
		return val.Code(), true
	}
	return 0, false
}
