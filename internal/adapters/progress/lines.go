package progress

import (
	"github.com/bft-labs/memship/internal/transfer"
	"github.com/bft-labs/memship/pkg/log"
)

// Lines logs one info line per chunk. Used when stderr is not a terminal.
type Lines struct {
	logger log.Logger
}

// NewLines creates a Lines reporter. A nil logger discards everything.
func NewLines(logger log.Logger) *Lines {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Lines{logger: logger}
}

func (l *Lines) Start(totalBytes int) {
	l.logger.Debug("transfer started", log.Int("total", totalBytes))
}

func (l *Lines) Update(p transfer.Progress) {
	l.logger.Info("sending",
		log.Float64("percent", p.Percent),
		log.Int("sent", p.BytesSent),
		log.Int("total", p.TotalBytes),
		log.Int("chunk", p.Chunk),
		log.Int("chunks", p.TotalChunks),
	)
}

func (l *Lines) Finish(transfer.State) {}
