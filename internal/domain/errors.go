package domain

import "errors"

// Domain errors. Check them with errors.Is.
var (
	// ErrInvalidLayout is returned when a Layout cannot describe an image.
	ErrInvalidLayout = errors.New("memship: invalid layout")

	// ErrInvalidPayload is returned when a byte payload has an odd length.
	ErrInvalidPayload = errors.New("memship: invalid payload")
)
