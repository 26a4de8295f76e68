package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bft-labs/memship/internal/ports"
	"github.com/bft-labs/memship/pkg/log"
)

// Result summarizes a finished Run.
type Result struct {
	State      State
	BytesSent  int
	TotalBytes int
	Chunks     int
	Elapsed    time.Duration
}

// Session delivers one payload over one serial channel. It is single-use
// and not safe for concurrent Run calls; State may be read concurrently.
type Session struct {
	opener ports.Opener
	target ports.Target
	config Config

	mu      sync.RWMutex
	state   State
	used    bool
	channel ports.Channel

	total  int
	sent   int
	chunks int
	opened time.Time
}

// New creates a Session for port at baud. The port is not opened until Run.
func New(opener ports.Opener, port string, baud int, opts ...Option) *Session {
	if opener == nil {
		panic("opener cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Session{
		opener: opener,
		target: ports.Target{
			Port:        port,
			BaudRate:    baud,
			ReadTimeout: cfg.ReadTimeout,
		},
		config: cfg,
		state:  StateClosed,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Run opens the port, performs the optional reset handshake, waits for the
// device, and sends payload in order, one chunk at a time.
//
// Run returns nil only when every byte was written and drained. Context
// cancellation yields an error matching ErrCancelled; any other failure is
// an *OpenError or *TransferError. The port is closed before Run returns.
func (s *Session) Run(ctx context.Context, payload []byte) (Result, error) {
	s.mu.Lock()
	if s.used {
		s.mu.Unlock()
		return s.result(), ErrSessionUsed
	}
	s.used = true
	s.mu.Unlock()

	if len(payload) == 0 {
		_ = s.transition(StateFailed, "empty payload")
		return s.result(), ErrEmptyPayload
	}

	s.total = len(payload)

	err := s.execute(ctx, payload)
	return s.conclude(err)
}

// execute runs every non-terminal state. The channel is released by the
// deferred close as soon as it returns, on every path.
func (s *Session) execute(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.config.Logger.Info("opening port",
		log.String("port", s.target.Port),
		log.Int("baud", s.target.BaudRate),
	)

	ch, err := s.opener.Open(ctx, s.target)
	if err != nil {
		if isContextErr(err) {
			return err
		}
		return s.openError(err)
	}
	s.setChannel(ch)
	defer s.release()

	s.opened = s.config.Clock.Now()

	if err := s.transition(StateOpening, "port open"); err != nil {
		return err
	}
	if s.config.Reset {
		if err := s.pulseReset(ctx, ch); err != nil {
			return err
		}
	}
	if err := ch.ResetInputBuffer(); err != nil {
		return &TransferError{Op: "reset input buffer", TotalBytes: s.total, Err: err}
	}
	if err := ch.ResetOutputBuffer(); err != nil {
		return &TransferError{Op: "reset output buffer", TotalBytes: s.total, Err: err}
	}

	if err := s.transition(StateSyncing, "buffers cleared"); err != nil {
		return err
	}
	if err := s.config.Clock.Sleep(ctx, s.config.SyncDelay); err != nil {
		return err
	}

	if err := s.transition(StateSending, "device ready"); err != nil {
		return err
	}
	return s.send(ctx, ch, payload)
}

// pulseReset asserts the reset line, holds it, releases it and waits for
// the board to settle.
func (s *Session) pulseReset(ctx context.Context, ch ports.Channel) error {
	set := ch.SetDTR
	if s.config.ResetLine == ResetLineRTS {
		set = ch.SetRTS
	}

	s.config.Logger.Debug("pulsing reset line",
		log.String("line", s.config.ResetLine.String()),
		log.Duration("pulse", s.config.ResetPulse),
		log.Duration("settle", s.config.ResetSettle),
	)

	if err := set(true); err != nil {
		return &TransferError{Op: "assert reset", TotalBytes: s.total, Err: err}
	}
	if err := s.config.Clock.Sleep(ctx, s.config.ResetPulse); err != nil {
		_ = set(false)
		return err
	}
	if err := set(false); err != nil {
		return &TransferError{Op: "release reset", TotalBytes: s.total, Err: err}
	}
	return s.config.Clock.Sleep(ctx, s.config.ResetSettle)
}

// send writes payload in ChunkSize pieces. A chunk is started only after
// the previous one was written and drained.
func (s *Session) send(ctx context.Context, ch ports.Channel, payload []byte) error {
	size := s.config.ChunkSize
	totalChunks := (len(payload) + size - 1) / size

	for off := 0; off < len(payload); off += size {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(off+size, len(payload))
		chunk := s.chunks + 1

		if err := writeFull(ch, payload[off:end]); err != nil {
			return &TransferError{Op: "write", Chunk: chunk, BytesSent: s.sent, TotalBytes: s.total, Err: err}
		}
		if err := ch.Drain(); err != nil {
			return &TransferError{Op: "drain", Chunk: chunk, BytesSent: s.sent, TotalBytes: s.total, Err: err}
		}

		s.sent = end
		s.chunks = chunk

		if s.config.ProgressCallback != nil {
			s.config.ProgressCallback(Progress{
				Chunk:       chunk,
				TotalChunks: totalChunks,
				BytesSent:   s.sent,
				TotalBytes:  s.total,
				Percent:     float64(s.sent) / float64(s.total) * 100,
				Elapsed:     s.config.Clock.Now().Sub(s.opened),
			})
		}
	}
	return nil
}

// conclude moves the session into its terminal state. The channel has
// already been closed by execute.
func (s *Session) conclude(err error) (Result, error) {
	switch {
	case err == nil:
		if terr := s.transition(StateDone, "all chunks sent"); terr != nil {
			return s.result(), terr
		}
		return s.result(), nil

	case isContextErr(err):
		_ = s.transition(StateCancelled, err.Error())
		return s.result(), fmt.Errorf("%w after %d/%d bytes: %w", ErrCancelled, s.sent, s.total, err)

	default:
		_ = s.transition(StateFailed, err.Error())
		return s.result(), err
	}
}

// transition validates and applies a state change, then notifies the observer.
func (s *Session) transition(to State, reason string) error {
	s.mu.Lock()
	from := s.state
	if !canTransition(from, to) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	s.state = to
	s.mu.Unlock()

	if s.config.StateObserver != nil {
		s.config.StateObserver.OnStateChange(from, to, reason)
	}

	s.config.Logger.Debug("state transition",
		log.String("from", from.String()),
		log.String("to", to.String()),
		log.String("reason", reason),
	)
	return nil
}

func (s *Session) openError(err error) error {
	oe := &OpenError{Port: s.target.Port, BaudRate: s.target.BaudRate, Err: err}
	var h ports.Hinter
	if errors.As(err, &h) {
		oe.Hint = h.Hint()
	}
	return oe
}

func (s *Session) setChannel(ch ports.Channel) {
	s.mu.Lock()
	s.channel = ch
	s.mu.Unlock()
}

// release closes the channel once. A close error is logged; it never
// replaces the outcome of the transfer.
func (s *Session) release() {
	s.mu.Lock()
	ch := s.channel
	s.channel = nil
	s.mu.Unlock()

	if ch == nil {
		return
	}
	if err := ch.Close(); err != nil {
		s.config.Logger.Warn("closing port failed",
			log.String("port", s.target.Port),
			log.Err(err),
		)
	}
}

func (s *Session) result() Result {
	res := Result{
		State:      s.State(),
		BytesSent:  s.sent,
		TotalBytes: s.total,
		Chunks:     s.chunks,
	}
	if !s.opened.IsZero() {
		res.Elapsed = s.config.Clock.Now().Sub(s.opened)
	}
	return res
}

// writeFull writes p completely. A write that accepts nothing without an
// error is reported as io.ErrShortWrite rather than retried forever.
func writeFull(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		if n <= 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
