// Package fs stores packed payloads on disk.
package fs

import (
	"context"
	"os"
	"path/filepath"
)

// PayloadFileWriter implements ports.PayloadWriter with an atomic
// write-then-rename so a half-written image never replaces a good one.
type PayloadFileWriter struct {
	perm os.FileMode
}

// NewPayloadFileWriter creates a writer producing files with mode 0o644.
func NewPayloadFileWriter() *PayloadFileWriter {
	return &PayloadFileWriter{perm: 0o644}
}

// Write stores payload at path.
func (w *PayloadFileWriter) Write(ctx context.Context, path string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, w.perm); err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
