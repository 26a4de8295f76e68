package image

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bft-labs/memship/internal/domain"
)

func seq(n int) []domain.Word {
	words := make([]domain.Word, n)
	for i := range words {
		words[i] = domain.Word(i + 1)
	}
	return words
}

func TestNormalize_Length(t *testing.T) {
	for _, target := range []int{1, 3, 4, 8100, 8160} {
		for _, n := range []int{0, 1, target - 1, target, target + 1, target * 2} {
			if n < 0 {
				continue
			}
			got := Normalize(seq(n), target)
			if len(got) != target {
				t.Errorf("Normalize(len %d, %d) has length %d", n, target, len(got))
			}
		}
	}
}

func TestNormalize_Crop(t *testing.T) {
	const target = 10
	in := seq(target + 5)

	got := Normalize(in, target)

	for i := 0; i < target; i++ {
		if got[i] != in[i] {
			t.Errorf("word[%d] = %d, want %d", i, got[i], in[i])
		}
	}
	if len(in) != target+5 {
		t.Errorf("input was modified: len %d", len(in))
	}
}

func TestNormalize_Pad(t *testing.T) {
	const target = 10
	in := seq(target - 3)

	got := Normalize(in, target)

	for i := range in {
		if got[i] != in[i] {
			t.Errorf("word[%d] = %d, want %d", i, got[i], in[i])
		}
	}
	for i := len(in); i < target; i++ {
		if got[i] != 0 {
			t.Errorf("pad word[%d] = %d, want 0", i, got[i])
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	once := Normalize(seq(7), 5)
	twice := Normalize(once, 5)

	if len(twice) != len(once) {
		t.Fatalf("length changed: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("word[%d] changed: %d -> %d", i, once[i], twice[i])
		}
	}
}

func TestNormalize_NonPositiveTarget(t *testing.T) {
	if got := Normalize(seq(3), 0); len(got) != 0 {
		t.Errorf("Normalize(_, 0) = %v, want empty", got)
	}
	if got := Normalize(seq(3), -1); len(got) != 0 {
		t.Errorf("Normalize(_, -1) = %v, want empty", got)
	}
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		target int
		want   domain.Adjustment
	}{
		{"crop", 8105, 8100, domain.Adjustment{Kind: domain.AdjustCrop, Delta: 5}},
		{"pad", 8097, 8100, domain.Adjustment{Kind: domain.AdjustPad, Delta: 3}},
		{"match", 8100, 8100, domain.Adjustment{Kind: domain.AdjustMatch}},
		{"empty", 0, 3, domain.Adjustment{Kind: domain.AdjustPad, Delta: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Plan(tt.n, tt.target); got != tt.want {
				t.Errorf("Plan(%d, %d) = %+v, want %+v", tt.n, tt.target, got, tt.want)
			}
		})
	}
}

func TestPack_RoundTrip(t *testing.T) {
	words := []domain.Word{0, 1, 0x00FF, 0x0100, 0x1FFF, 0xFFFF, 0xABCD}

	payload := Pack(words)

	if len(payload) != 2*len(words) {
		t.Fatalf("payload length = %d, want %d", len(payload), 2*len(words))
	}
	for i, w := range words {
		got := domain.Word(payload[2*i])<<8 | domain.Word(payload[2*i+1])
		if got != w {
			t.Errorf("word[%d] round trip = 0x%04X, want 0x%04X", i, got, w)
		}
	}

	back, err := Unpack(payload)
	if err != nil {
		t.Fatalf("Unpack() unexpected error: %v", err)
	}
	for i := range words {
		if back[i] != words[i] {
			t.Errorf("Unpack word[%d] = 0x%04X, want 0x%04X", i, back[i], words[i])
		}
	}
}

func TestPack_BigEndian(t *testing.T) {
	got := Pack([]domain.Word{0x1234})
	if !bytes.Equal(got, []byte{0x12, 0x34}) {
		t.Errorf("Pack(0x1234) = % X, want 12 34", got)
	}
}

func TestUnpack_OddLength(t *testing.T) {
	_, err := Unpack([]byte{0x00, 0x01, 0x02})
	if !errors.Is(err, domain.ErrInvalidPayload) {
		t.Errorf("error = %v, want ErrInvalidPayload", err)
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		words   []domain.Word
		layout  domain.Layout
		want    []byte
		wantAdj domain.Adjustment
	}{
		{
			name:    "scenario from comment and directive file",
			words:   []domain.Word{7, 5},
			layout:  domain.Layout{TargetWords: 4, WordBits: 13},
			want:    []byte{0x00, 0x07, 0x00, 0x05, 0x00, 0x00, 0x00, 0x00},
			wantAdj: domain.Adjustment{Kind: domain.AdjustPad, Delta: 2},
		},
		{
			name:    "empty input pads entirely",
			words:   nil,
			layout:  domain.Layout{TargetWords: 3, WordBits: 13},
			want:    []byte{0, 0, 0, 0, 0, 0},
			wantAdj: domain.Adjustment{Kind: domain.AdjustPad, Delta: 3},
		},
		{
			name:    "crop keeps prefix",
			words:   []domain.Word{0x1FFF, 0x0101, 0x0002},
			layout:  domain.Layout{TargetWords: 2, WordBits: 13},
			want:    []byte{0x1F, 0xFF, 0x01, 0x01},
			wantAdj: domain.Adjustment{Kind: domain.AdjustCrop, Delta: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Build(tt.words, tt.layout)
			if err != nil {
				t.Fatalf("Build() unexpected error: %v", err)
			}
			if !bytes.Equal(img.Payload, tt.want) {
				t.Errorf("Payload = % X, want % X", img.Payload, tt.want)
			}
			if img.Adjustment != tt.wantAdj {
				t.Errorf("Adjustment = %+v, want %+v", img.Adjustment, tt.wantAdj)
			}
			if img.Size() != tt.layout.PayloadSize() {
				t.Errorf("Size() = %d, want %d", img.Size(), tt.layout.PayloadSize())
			}
		})
	}
}

func TestBuild_InvalidLayout(t *testing.T) {
	_, err := Build(seq(2), domain.Layout{TargetWords: 0, WordBits: 13})
	if !errors.Is(err, domain.ErrInvalidLayout) {
		t.Errorf("error = %v, want ErrInvalidLayout", err)
	}
}
