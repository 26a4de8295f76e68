// Package progress renders transfer progress for the operator.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/bft-labs/memship/internal/transfer"
	"github.com/bft-labs/memship/pkg/log"
)

// Reporter receives the lifecycle of one transfer.
type Reporter interface {
	// Start is called once the payload size is known.
	Start(totalBytes int)

	// Update is called after every drained chunk.
	Update(p transfer.Progress)

	// Finish is called exactly once with the terminal state.
	Finish(state transfer.State)
}

// Mode selects a Reporter.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeBar   Mode = "bar"
	ModeLines Mode = "lines"
	ModeNone  Mode = "none"
)

// ParseMode parses a --progress value. Empty means auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeBar, ModeLines, ModeNone:
		return m, nil
	default:
		return "", fmt.Errorf("unknown progress mode %q (want auto, bar, lines or none)", s)
	}
}

// New returns the Reporter for mode. Bars are drawn on out; lines go
// through logger.
func New(mode Mode, out io.Writer, logger log.Logger) Reporter {
	switch mode {
	case ModeBar:
		return NewBar(out)
	case ModeLines:
		return NewLines(logger)
	case ModeNone:
		return Nop{}
	default:
		return Auto(out, logger)
	}
}

// Auto picks a Bar when out is a terminal and Lines otherwise.
func Auto(out io.Writer, logger log.Logger) Reporter {
	if isTerminal(out) {
		return NewBar(out)
	}
	return NewLines(logger)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Nop discards progress.
type Nop struct{}

func (Nop) Start(int)                {}
func (Nop) Update(transfer.Progress) {}
func (Nop) Finish(transfer.State)    {}
