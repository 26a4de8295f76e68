package serialport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.bug.st/serial"

	"github.com/bft-labs/memship/internal/ports"
)

var _ ports.Opener = (*Opener)(nil)
var _ ports.Hinter = (*OpenError)(nil)

func TestOpen_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewOpener().Open(ctx, ports.Target{Port: "/dev/does-not-exist", BaudRate: 115200})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestOpenError_Hint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"library port error", &serial.PortError{}, ""},
		{"plain error", errors.New("weird"), "device is connected"},
		{"wrapped plain error", fmt.Errorf("ctx: %w", errors.New("weird")), "device is connected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &OpenError{Port: "COM9", Err: tt.err}
			hint := e.Hint()
			if hint == "" {
				t.Fatal("Hint() should never be empty")
			}
			if tt.want != "" && !strings.Contains(hint, tt.want) {
				t.Errorf("Hint() = %q, want it to contain %q", hint, tt.want)
			}
			if !strings.Contains(e.Error(), "COM9") {
				t.Errorf("Error() should name the port, got %s", e.Error())
			}
			if !errors.Is(e, tt.err) {
				t.Error("OpenError should unwrap to the cause")
			}
		})
	}
}
