package transfer

import (
	"errors"
	"fmt"
)

// Session errors. Check them with errors.Is.
var (
	// ErrCancelled is returned when the context ends before the transfer
	// completes. It is an outcome, not an I/O failure.
	ErrCancelled = errors.New("transfer cancelled")

	// ErrEmptyPayload is returned when there is nothing to send.
	ErrEmptyPayload = errors.New("transfer: empty payload")

	// ErrSessionUsed is returned by a second call to Run.
	ErrSessionUsed = errors.New("transfer: session already used")

	// ErrInvalidTransition indicates a state machine bug.
	ErrInvalidTransition = errors.New("transfer: invalid state transition")
)

// OpenError indicates the port could not be opened or prepared.
// No payload bytes were sent.
type OpenError struct {
	Port     string
	BaudRate int
	Hint     string
	Err      error
}

func (e *OpenError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("open %s @ %d baud: %v", e.Port, e.BaudRate, e.Err)
	}
	return fmt.Sprintf("open %s @ %d baud: %v (%s)", e.Port, e.BaudRate, e.Err, e.Hint)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// TransferError indicates an I/O failure on an open port. The transfer is
// not resumable; the whole image must be sent again.
type TransferError struct {
	// Op names the failing step: "assert reset", "write", "drain", ...
	Op string

	// Chunk is the 1-based chunk being sent, or 0 before sending started.
	Chunk int

	// BytesSent counts bytes fully written and drained before the failure.
	BytesSent int

	TotalBytes int
	Err        error
}

func (e *TransferError) Error() string {
	if e.Chunk > 0 {
		return fmt.Sprintf("%s chunk %d failed after %d/%d bytes: %v",
			e.Op, e.Chunk, e.BytesSent, e.TotalBytes, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}
