package memfile

import "fmt"

// InputError indicates the memory file could not be opened or read.
// It is fatal: nothing is sent when the input is unusable.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input file %q: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
