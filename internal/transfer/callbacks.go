package transfer

import "time"

// Progress describes the transfer after a chunk has been written and drained.
type Progress struct {
	// Chunk is the 1-based index of the chunk just sent.
	Chunk int

	// TotalChunks is the number of chunks in the payload.
	TotalChunks int

	// BytesSent is the number of bytes written and drained so far.
	BytesSent int

	// TotalBytes is the payload size.
	TotalBytes int

	// Percent is BytesSent/TotalBytes*100.
	Percent float64

	// Elapsed is measured from the moment the port opened.
	Elapsed time.Duration
}

// ProgressCallback is called once per chunk from the send loop. It runs on
// the sending goroutine and must return quickly.
type ProgressCallback func(Progress)
