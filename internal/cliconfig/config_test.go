package cliconfig

import (
	"runtime"
	"testing"
	"time"

	"github.com/bft-labs/memship/internal/transfer"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Baud != 115200 {
		t.Errorf("Baud = %v, want 115200", cfg.Baud)
	}
	if cfg.Words != 8100 || cfg.WordBits != 13 {
		t.Errorf("layout = %d x %d bits, want 8100 x 13", cfg.Words, cfg.WordBits)
	}
	if cfg.ChunkSize != 2048 {
		t.Errorf("ChunkSize = %v, want 2048", cfg.ChunkSize)
	}
	if cfg.ResetPulse != 100*time.Millisecond || cfg.ResetSettle != 500*time.Millisecond {
		t.Errorf("reset timing = %v/%v, want 100ms/500ms", cfg.ResetPulse, cfg.ResetSettle)
	}
	if cfg.Reset {
		t.Error("Reset should default to false")
	}

	wantPort := "/dev/ttyUSB0"
	if runtime.GOOS == "windows" {
		wantPort = "COM9"
	}
	if cfg.Port != wantPort {
		t.Errorf("Port = %v, want %v", cfg.Port, wantPort)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.File = "image.mem"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults with file", mutate: func(c *Config) {}},
		{name: "missing file", mutate: func(c *Config) { c.File = "" }, wantErr: true},
		{name: "missing port", mutate: func(c *Config) { c.Port = "" }, wantErr: true},
		{name: "zero baud", mutate: func(c *Config) { c.Baud = 0 }, wantErr: true},
		{name: "zero words", mutate: func(c *Config) { c.Words = 0 }, wantErr: true},
		{name: "word bits too wide", mutate: func(c *Config) { c.WordBits = 17 }, wantErr: true},
		{name: "sixteen bit words", mutate: func(c *Config) { c.WordBits = 16 }},
		{name: "zero chunk size", mutate: func(c *Config) { c.ChunkSize = 0 }, wantErr: true},
		{name: "chunk size above cap", mutate: func(c *Config) { c.ChunkSize = transfer.MaxChunkSize + 1 }, wantErr: true},
		{name: "chunk size at cap", mutate: func(c *Config) { c.ChunkSize = transfer.MaxChunkSize }},
		{name: "negative settle", mutate: func(c *Config) { c.ResetSettle = -time.Second }, wantErr: true},
		{name: "zero sync delay", mutate: func(c *Config) { c.SyncDelay = 0 }},
		{name: "zero read timeout", mutate: func(c *Config) { c.ReadTimeout = 0 }, wantErr: true},
		{name: "bad reset line", mutate: func(c *Config) { c.ResetLine = "cts" }, wantErr: true},
		{name: "bad progress", mutate: func(c *Config) { c.Progress = "spinner" }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "watch without debounce", mutate: func(c *Config) { c.Watch = true; c.WatchDebounce = 0 }, wantErr: true},
		{name: "debounce ignored without watch", mutate: func(c *Config) { c.WatchDebounce = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateNormalizes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.File = "image.mem"
	cfg.ResetLine = " RTS"
	cfg.Progress = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.ResetLine != "rts" {
		t.Errorf("ResetLine = %q, want rts", cfg.ResetLine)
	}
	if cfg.Progress != "auto" {
		t.Errorf("Progress = %q, want auto", cfg.Progress)
	}
}

func TestConfig_Layout(t *testing.T) {
	cfg := Config{Words: 8160, WordBits: 12}
	layout := cfg.Layout()

	if layout.TargetWords != 8160 || layout.WordBits != 12 {
		t.Errorf("Layout() = %+v", layout)
	}
}
