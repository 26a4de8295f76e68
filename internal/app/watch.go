package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/memship/pkg/log"
)

// DefaultDebounce is used when PipelineConfig.Debounce is not positive.
const DefaultDebounce = 250 * time.Millisecond

// Watch runs the pipeline once, then again every time path is written or
// recreated, until ctx ends. Runs never overlap and share no state.
//
// An input error on the first run is returned; later input errors are logged
// because the file may be caught mid-save. Watch returns nil when ctx ends.
func (p *Pipeline) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	if _, err := p.Run(ctx, path); err != nil {
		return err
	}

	delay := p.config.Debounce
	if delay <= 0 {
		delay = DefaultDebounce
	}

	d := newDebouncer(delay)
	defer d.stop()

	name := filepath.Base(path)
	p.logger.Info("watching for changes", log.String("file", path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			d.touch()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Error("watcher error", log.Err(err))

		case <-d.C:
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Info("file changed, sending again", log.String("file", path))
			if _, err := p.Run(ctx, path); err != nil {
				p.logger.Error("cannot load file", log.Err(err))
			}
		}
	}
}

// debouncer fires C once delay has passed since the last touch.
type debouncer struct {
	C chan struct{}

	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{C: make(chan struct{}, 1), delay: delay}
}

func (d *debouncer) touch() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		select {
		case d.C <- struct{}{}:
		default:
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
}
