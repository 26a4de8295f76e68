package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"MEMSHIP_FILE":           "/img/a.mem",
				"MEMSHIP_PORT":           "COM4",
				"MEMSHIP_BAUD":           "57600",
				"MEMSHIP_WORDS":          "8160",
				"MEMSHIP_WORD_BITS":      "12",
				"MEMSHIP_CHUNK_SIZE":     "1024",
				"MEMSHIP_RESET":          "true",
				"MEMSHIP_RESET_LINE":     "rts",
				"MEMSHIP_RESET_PULSE":    "10ms",
				"MEMSHIP_RESET_SETTLE":   "20ms",
				"MEMSHIP_SYNC_DELAY":     "30ms",
				"MEMSHIP_READ_TIMEOUT":   "3s",
				"MEMSHIP_WATCH":          "1",
				"MEMSHIP_WATCH_DEBOUNCE": "1s",
				"MEMSHIP_PROGRESS":       "none",
				"MEMSHIP_LOG_LEVEL":      "warn",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				File:          "/img/a.mem",
				Port:          "COM4",
				Baud:          57600,
				Words:         8160,
				WordBits:      12,
				ChunkSize:     1024,
				Reset:         true,
				ResetLine:     "rts",
				ResetPulse:    10 * time.Millisecond,
				ResetSettle:   20 * time.Millisecond,
				SyncDelay:     30 * time.Millisecond,
				ReadTimeout:   3 * time.Second,
				Watch:         true,
				WatchDebounce: time.Second,
				Progress:      "none",
				LogLevel:      "warn",
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"MEMSHIP_PORT": "COM4",
				"MEMSHIP_BAUD": "57600",
			},
			changed:  map[string]bool{"port": true},
			initial:  Config{Port: "COM9"},
			expected: Config{Port: "COM9", Baud: 57600},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"MEMSHIP_RESET_PULSE": "not-a-duration"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"MEMSHIP_BAUD": "fast"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:     "non-positive int is ignored",
			envVars:  map[string]string{"MEMSHIP_WORDS": "0"},
			changed:  map[string]bool{},
			initial:  Config{Words: 8100},
			expected: Config{Words: 8100},
		},
		{
			name:     "handles bool 'false' as false",
			envVars:  map[string]string{"MEMSHIP_RESET": "false"},
			changed:  map[string]bool{},
			initial:  Config{Reset: true},
			expected: Config{Reset: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyEnvConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyEnvConfig() unexpected error: %v", err)
				return
			}

			if !tt.wantErr && cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() =\n%+v\nwant\n%+v", cfg, tt.expected)
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File > defaults)
func TestConfigPrecedence(t *testing.T) {
	trueVal := true

	fileConf := FileConfig{
		Port:      "/dev/ttyFILE",
		Baud:      9600,
		ChunkSize: 256,
		Reset:     &trueVal,
	}

	t.Setenv("MEMSHIP_PORT", "/dev/ttyENV")
	t.Setenv("MEMSHIP_BAUD", "57600")

	changed := map[string]bool{
		"port": true,
	}

	cfg := DefaultConfig()
	cfg.Port = "/dev/ttyCLI"

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.Port != "/dev/ttyCLI" {
		t.Errorf("Port = %v, want /dev/ttyCLI (CLI should win)", cfg.Port)
	}
	if cfg.Baud != 57600 {
		t.Errorf("Baud = %v, want 57600 (env should override file)", cfg.Baud)
	}
	if cfg.ChunkSize != 256 {
		t.Errorf("ChunkSize = %v, want 256 (file should override default)", cfg.ChunkSize)
	}
	if !cfg.Reset {
		t.Error("Reset = false, want true (file should set)")
	}
	if cfg.Words != 8100 {
		t.Errorf("Words = %v, want 8100 (default)", cfg.Words)
	}
}
