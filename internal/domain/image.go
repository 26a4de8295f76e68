package domain

// AdjustmentKind says what normalization had to do to reach the target size.
type AdjustmentKind int

const (
	AdjustMatch AdjustmentKind = iota
	AdjustCrop
	AdjustPad
)

// String returns a human-readable representation of the kind.
func (k AdjustmentKind) String() string {
	switch k {
	case AdjustMatch:
		return "match"
	case AdjustCrop:
		return "crop"
	case AdjustPad:
		return "pad"
	default:
		return "unknown"
	}
}

// Adjustment records the difference between the parsed and target lengths.
type Adjustment struct {
	Kind AdjustmentKind

	// Delta is the number of words dropped (crop) or appended (pad).
	Delta int
}

// Image is a normalized word sequence together with its wire payload.
// Payload is produced once and must not be modified afterwards.
type Image struct {
	Words      []Word
	Payload    []byte
	Adjustment Adjustment
}

// Size returns the payload length in bytes.
func (img Image) Size() int {
	return len(img.Payload)
}
