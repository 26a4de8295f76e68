package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bft-labs/memship/internal/domain"
	"github.com/bft-labs/memship/internal/image"
	"github.com/bft-labs/memship/internal/memfile"
	"github.com/bft-labs/memship/internal/ports"
	"github.com/bft-labs/memship/internal/transfer"
	"github.com/bft-labs/memship/pkg/log"
)

// Outcome is how a pipeline run ended for the operator.
type Outcome int

const (
	OutcomeDone Outcome = iota
	OutcomeFailed
	OutcomeCancelled
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeFailed:
		return "failed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Reporter receives the progress of each transfer.
// progress.Bar, progress.Lines and progress.Nop satisfy it.
type Reporter interface {
	Start(totalBytes int)
	Update(p transfer.Progress)
	Finish(state transfer.State)
}

// PipelineConfig contains configuration for the pipeline.
type PipelineConfig struct {
	Layout domain.Layout
	Port   string
	Baud   int

	// Session is applied to every transfer session the pipeline creates.
	Session []transfer.Option

	// Debounce is the quiet period Watch waits for after a file change.
	Debounce time.Duration
}

// Pipeline loads a .mem file, builds the device image and sends it.
type Pipeline struct {
	config   PipelineConfig
	opener   ports.Opener
	writer   ports.PayloadWriter
	reporter Reporter
	logger   log.Logger
}

// NewPipeline creates a pipeline. opener is required for transfers and
// writer for Pack; either may be nil when the caller never uses it.
func NewPipeline(
	config PipelineConfig,
	opener ports.Opener,
	writer ports.PayloadWriter,
	reporter Reporter,
	logger log.Logger,
) *Pipeline {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Pipeline{
		config:   config,
		opener:   opener,
		writer:   writer,
		reporter: reporter,
		logger:   logger,
	}
}

// Prepare parses path and normalizes it into a device image. Only input
// errors are returned; bad tokens are logged and skipped.
func (p *Pipeline) Prepare(path string) (domain.Image, error) {
	res, err := memfile.Parse(path, p.config.Layout, p.logger)
	if err != nil {
		return domain.Image{}, err
	}

	p.logger.Info("parsed memory file",
		log.String("file", path),
		log.Int("words", len(res.Words)),
		log.Int("lines", res.Lines),
		log.Int("skipped", res.Skipped),
	)
	if len(res.Words) == 0 {
		p.logger.Warn("no valid words found; image will be all zeros", log.String("file", path))
	}

	img, err := image.Build(res.Words, p.config.Layout)
	if err != nil {
		return domain.Image{}, err
	}

	switch adj := img.Adjustment; adj.Kind {
	case domain.AdjustCrop:
		p.logger.Info("cropping to target size",
			log.Int("target", p.config.Layout.TargetWords),
			log.Int("dropped", adj.Delta),
		)
	case domain.AdjustPad:
		p.logger.Info("padding with zeros",
			log.Int("target", p.config.Layout.TargetWords),
			log.Int("zeros", adj.Delta),
		)
	default:
		p.logger.Info("size matches target", log.Int("target", p.config.Layout.TargetWords))
	}
	p.logger.Debug("payload ready", log.Int("bytes", img.Size()))

	return img, nil
}

// Transfer sends img over a fresh session.
func (p *Pipeline) Transfer(ctx context.Context, img domain.Image) (transfer.Result, error) {
	if p.opener == nil {
		return transfer.Result{}, errors.New("pipeline: no port opener configured")
	}

	opts := make([]transfer.Option, 0, len(p.config.Session)+2)
	opts = append(opts, p.config.Session...)
	opts = append(opts,
		transfer.WithLogger(p.logger),
		transfer.WithProgressCallback(p.reporter.Update),
	)

	session := transfer.New(p.opener, p.config.Port, p.config.Baud, opts...)

	p.reporter.Start(img.Size())
	res, err := session.Run(ctx, img.Payload)
	p.reporter.Finish(res.State)

	return res, err
}

// Run prepares path and transfers it. The returned error is non-nil only
// for input problems; transfer failures and cancellation are logged and
// reported through the Outcome.
func (p *Pipeline) Run(ctx context.Context, path string) (Outcome, error) {
	img, err := p.Prepare(path)
	if err != nil {
		return OutcomeFailed, err
	}

	res, err := p.Transfer(ctx, img)
	return p.report(res, err), nil
}

// Pack prepares path and writes the payload to out instead of a port.
func (p *Pipeline) Pack(ctx context.Context, path, out string) (domain.Image, error) {
	if p.writer == nil {
		return domain.Image{}, errors.New("pipeline: no payload writer configured")
	}

	img, err := p.Prepare(path)
	if err != nil {
		return domain.Image{}, err
	}
	if err := p.writer.Write(ctx, out, img.Payload); err != nil {
		return domain.Image{}, fmt.Errorf("write payload: %w", err)
	}

	p.logger.Info("payload written",
		log.String("output", out),
		log.Int("bytes", img.Size()),
	)
	return img, nil
}

func (p *Pipeline) report(res transfer.Result, err error) Outcome {
	switch {
	case err == nil:
		p.logger.Info("transfer complete",
			log.Int("bytes", res.BytesSent),
			log.Int("chunks", res.Chunks),
			log.Duration("elapsed", res.Elapsed.Round(time.Millisecond)),
		)
		return OutcomeDone

	case errors.Is(err, transfer.ErrCancelled):
		p.logger.Warn("transfer cancelled",
			log.Int("sent", res.BytesSent),
			log.Int("total", res.TotalBytes),
		)
		return OutcomeCancelled

	default:
		p.logger.Error("transfer failed",
			log.Err(err),
			log.Int("sent", res.BytesSent),
			log.Int("total", res.TotalBytes),
		)
		return OutcomeFailed
	}
}

type nopReporter struct{}

func (nopReporter) Start(int)                {}
func (nopReporter) Update(transfer.Progress) {}
func (nopReporter) Finish(transfer.State)    {}
