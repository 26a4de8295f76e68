package transfer

import (
	"fmt"
	"strings"
	"time"

	"github.com/bft-labs/memship/pkg/log"
)

// Defaults observed to work with the current loader bitstream.
const (
	DefaultChunkSize   = 2048
	DefaultResetPulse  = 100 * time.Millisecond
	DefaultResetSettle = 500 * time.Millisecond
	DefaultSyncDelay   = 500 * time.Millisecond
	DefaultReadTimeout = time.Second
	DefaultResetLine   = ResetLineDTR
)

// MaxChunkSize is the largest accepted bytes-per-write.
const MaxChunkSize = 1 << 20

// ResetLine selects the modem control line wired to the board's reset input.
type ResetLine int

const (
	ResetLineDTR ResetLine = iota
	ResetLineRTS
)

// String returns the line name in lower case.
func (l ResetLine) String() string {
	switch l {
	case ResetLineDTR:
		return "dtr"
	case ResetLineRTS:
		return "rts"
	default:
		return "unknown"
	}
}

// ParseResetLine parses "dtr" or "rts" (case-insensitive).
func ParseResetLine(s string) (ResetLine, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dtr", "":
		return ResetLineDTR, nil
	case "rts":
		return ResetLineRTS, nil
	default:
		return 0, fmt.Errorf("unknown reset line %q (want dtr or rts)", s)
	}
}

// Config holds the session configuration.
type Config struct {
	// ChunkSize is the number of bytes per write+drain.
	ChunkSize int

	// Reset enables the reset pulse before syncing.
	Reset bool

	// ResetLine is the control line pulsed when Reset is set.
	ResetLine ResetLine

	// ResetPulse is how long the reset line stays asserted.
	ResetPulse time.Duration

	// ResetSettle is the wait after releasing the reset line.
	ResetSettle time.Duration

	// SyncDelay is the wait before the first chunk, reset or not.
	SyncDelay time.Duration

	// ReadTimeout bounds reads on the opened port.
	ReadTimeout time.Duration

	ProgressCallback ProgressCallback
	StateObserver    StateObserver
	Logger           log.Logger
	Clock            Clock
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		ChunkSize:   DefaultChunkSize,
		ResetLine:   DefaultResetLine,
		ResetPulse:  DefaultResetPulse,
		ResetSettle: DefaultResetSettle,
		SyncDelay:   DefaultSyncDelay,
		ReadTimeout: DefaultReadTimeout,
		Logger:      log.NewNoopLogger(),
		Clock:       realClock{},
	}
}

// Option is a functional option for configuring a Session.
type Option func(*Config)

// WithChunkSize sets the bytes per write. Values outside 1..MaxChunkSize are ignored.
func WithChunkSize(size int) Option {
	return func(c *Config) {
		if size > 0 && size <= MaxChunkSize {
			c.ChunkSize = size
		}
	}
}

// WithReset enables or disables the reset handshake.
func WithReset(reset bool) Option {
	return func(c *Config) {
		c.Reset = reset
	}
}

// WithResetLine selects the line pulsed during the reset handshake.
func WithResetLine(line ResetLine) Option {
	return func(c *Config) {
		c.ResetLine = line
	}
}

// WithResetPulse sets how long the reset line is held.
func WithResetPulse(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.ResetPulse = d
		}
	}
}

// WithResetSettle sets the delay after the reset line is released.
func WithResetSettle(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.ResetSettle = d
		}
	}
}

// WithSyncDelay sets the delay before the first chunk.
func WithSyncDelay(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.SyncDelay = d
		}
	}
}

// WithReadTimeout sets the read timeout applied when the port opens.
// Non-positive values are ignored; reads are never unbounded.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.ReadTimeout = d
		}
	}
}

// WithProgressCallback sets the per-chunk progress callback.
//
// Example:
//
//	s := transfer.New(opener, port, baud,
//	    transfer.WithProgressCallback(func(p transfer.Progress) {
//	        fmt.Printf("\rSending: [%.1f%%] - %d/%d bytes", p.Percent, p.BytesSent, p.TotalBytes)
//	    }),
//	)
func WithProgressCallback(cb ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = cb
	}
}

// WithStateObserver sets an observer for state transitions.
func WithStateObserver(o StateObserver) Option {
	return func(c *Config) {
		c.StateObserver = o
	}
}

// WithLogger sets the session logger.
func WithLogger(logger log.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithClock replaces the time source.
func WithClock(clock Clock) Option {
	return func(c *Config) {
		if clock != nil {
			c.Clock = clock
		}
	}
}
