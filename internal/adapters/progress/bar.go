package progress

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/bft-labs/memship/internal/transfer"
)

// Bar draws a single mpb progress bar in bytes.
type Bar struct {
	out      io.Writer
	progress *mpb.Progress
	bar      *mpb.Bar
}

// NewBar creates a Bar writing to out. Nothing is drawn until Start.
func NewBar(out io.Writer) *Bar {
	return &Bar{out: out}
}

// Start draws a bar sized to totalBytes. Rendering runs even when out is not
// a terminal so redirected output still records the final frame.
func (b *Bar) Start(totalBytes int) {
	b.progress = mpb.New(mpb.WithOutput(b.out), mpb.WithWidth(48), mpb.WithAutoRefresh())
	b.bar = b.progress.New(int64(totalBytes),
		mpb.BarStyle().Lbound("[").Filler("=").Tip(">").Padding(" ").Rbound("]"),
		mpb.PrependDecorators(
			decor.Name("Sending:", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
			decor.Name(" "),
			decor.OnComplete(decor.Elapsed(decor.ET_STYLE_GO), "done"),
		),
	)
}

func (b *Bar) Update(p transfer.Progress) {
	if b.bar == nil {
		return
	}
	b.bar.SetCurrent(int64(p.BytesSent))
}

// Finish completes the bar on Done and aborts it otherwise, then waits for
// the last frame to render.
func (b *Bar) Finish(state transfer.State) {
	if b.progress == nil {
		return
	}
	if state == transfer.StateDone {
		b.bar.SetTotal(-1, true)
	} else {
		b.bar.Abort(false)
	}
	b.progress.Wait()
	b.progress, b.bar = nil, nil
}
