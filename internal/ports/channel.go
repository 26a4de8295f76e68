package ports

import (
	"context"
	"io"
	"time"
)

// Target identifies the serial endpoint of a transfer.
type Target struct {
	// Port is the OS device name, e.g. "/dev/ttyUSB0" or "COM9".
	Port string

	// BaudRate is the line speed. Framing is always 8N1.
	BaudRate int

	// ReadTimeout bounds every read on the channel. The loader never reads,
	// but the handle must not be able to block forever.
	ReadTimeout time.Duration
}

// Channel is an open serial handle. go.bug.st/serial.Port satisfies it.
type Channel interface {
	io.Writer

	// Drain blocks until everything written has left the host buffer.
	Drain() error

	// ResetInputBuffer discards unread input.
	ResetInputBuffer() error

	// ResetOutputBuffer discards unsent output.
	ResetOutputBuffer() error

	// SetDTR drives the Data Terminal Ready line.
	SetDTR(dtr bool) error

	// SetRTS drives the Request To Send line.
	SetRTS(rts bool) error

	// Close releases the handle.
	Close() error
}

// Opener opens channels. Implementations must honour the context only while
// opening; the returned Channel is owned by the caller.
type Opener interface {
	Open(ctx context.Context, target Target) (Channel, error)
}

// Hinter is implemented by open errors that carry an operator-facing hint,
// such as "port is in use by another program".
type Hinter interface {
	Hint() string
}

// PayloadWriter persists a packed payload, used when packing to a file
// instead of a port.
type PayloadWriter interface {
	Write(ctx context.Context, path string, payload []byte) error
}
