package domain

import "fmt"

// Layout defaults for the current board revision. Older bitstreams expect
// 8160 words; the value must come from configuration, never from the file.
const (
	DefaultTargetWords = 8100
	DefaultWordBits    = 13

	// BytesPerWord is fixed by the loader: every word travels as a
	// big-endian 16-bit pair regardless of WordBits.
	BytesPerWord = 2

	// MaxWordBits is the widest word that fits a 16-bit pair.
	MaxWordBits = 16
)

// Word is one memory location. Only the low Layout.WordBits bits are used.
type Word uint16

// Layout describes the memory geometry of the target device.
type Layout struct {
	// TargetWords is the exact number of words the device expects.
	TargetWords int

	// WordBits is the declared width of a word; parsed values are masked to it.
	WordBits int
}

// DefaultLayout returns the layout of the current board revision.
func DefaultLayout() Layout {
	return Layout{
		TargetWords: DefaultTargetWords,
		WordBits:    DefaultWordBits,
	}
}

// Validate checks that the layout can describe a real image.
func (l Layout) Validate() error {
	if l.TargetWords <= 0 {
		return fmt.Errorf("%w: target word count must be positive, got %d", ErrInvalidLayout, l.TargetWords)
	}
	if l.WordBits < 1 || l.WordBits > MaxWordBits {
		return fmt.Errorf("%w: word width must be 1-%d bits, got %d", ErrInvalidLayout, MaxWordBits, l.WordBits)
	}
	return nil
}

// Mask returns the bit mask for a word, e.g. 0x1FFF for 13 bits.
func (l Layout) Mask() uint64 {
	if l.WordBits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(l.WordBits)) - 1
}

// PayloadSize is the number of bytes a normalized image occupies on the wire.
func (l Layout) PayloadSize() int {
	return l.TargetWords * BytesPerWord
}
