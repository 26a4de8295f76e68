// Package image turns a parsed word sequence into the fixed-size payload the
// loader firmware expects: crop or zero-pad to the target word count, then
// pack every word as a big-endian 16-bit pair.
package image

import (
	"encoding/binary"
	"fmt"

	"github.com/bft-labs/memship/internal/domain"
)

// Plan reports how a sequence of n words must be adjusted to reach target.
func Plan(n, target int) domain.Adjustment {
	switch {
	case n > target:
		return domain.Adjustment{Kind: domain.AdjustCrop, Delta: n - target}
	case n < target:
		return domain.Adjustment{Kind: domain.AdjustPad, Delta: target - n}
	default:
		return domain.Adjustment{Kind: domain.AdjustMatch}
	}
}

// Normalize returns a sequence of exactly target words: the first target
// words when longer, the original words followed by zeros when shorter.
// The input slice is never modified. A non-positive target yields an empty
// sequence.
func Normalize(words []domain.Word, target int) []domain.Word {
	if target <= 0 {
		return []domain.Word{}
	}
	out := make([]domain.Word, target)
	copy(out, words)
	return out
}

// Pack serializes words high byte first. The result is always
// 2*len(words) bytes long.
func Pack(words []domain.Word) []byte {
	payload := make([]byte, len(words)*domain.BytesPerWord)
	for i, w := range words {
		binary.BigEndian.PutUint16(payload[i*domain.BytesPerWord:], uint16(w))
	}
	return payload
}

// Unpack is the inverse of Pack.
func Unpack(payload []byte) ([]domain.Word, error) {
	if len(payload)%domain.BytesPerWord != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d",
			domain.ErrInvalidPayload, len(payload), domain.BytesPerWord)
	}
	words := make([]domain.Word, len(payload)/domain.BytesPerWord)
	for i := range words {
		words[i] = domain.Word(binary.BigEndian.Uint16(payload[i*domain.BytesPerWord:]))
	}
	return words, nil
}

// Build normalizes words to the layout and packs them.
func Build(words []domain.Word, layout domain.Layout) (domain.Image, error) {
	if err := layout.Validate(); err != nil {
		return domain.Image{}, err
	}

	normalized := Normalize(words, layout.TargetWords)
	return domain.Image{
		Words:      normalized,
		Payload:    Pack(normalized),
		Adjustment: Plan(len(words), layout.TargetWords),
	}, nil
}
