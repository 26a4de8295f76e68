package cliconfig

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/bft-labs/memship/internal/adapters/progress"
	"github.com/bft-labs/memship/internal/domain"
	"github.com/bft-labs/memship/internal/transfer"
	"github.com/bft-labs/memship/pkg/log"
)

// DefaultBaudRate is the loader's line speed.
const DefaultBaudRate = 115200

// DefaultWatchDebounce coalesces the burst of events editors emit on save.
const DefaultWatchDebounce = 250 * time.Millisecond

// Config holds CLI configuration for memship.
type Config struct {
	File string
	Port string
	Baud int

	Words    int
	WordBits int

	ChunkSize   int
	Reset       bool
	ResetLine   string
	ResetPulse  time.Duration
	ResetSettle time.Duration
	SyncDelay   time.Duration
	ReadTimeout time.Duration

	Watch         bool
	WatchDebounce time.Duration

	Progress string
	LogLevel string
}

// DefaultPort returns the conventional serial device for the host OS.
func DefaultPort() string {
	if runtime.GOOS == "windows" {
		return "COM9"
	}
	return "/dev/ttyUSB0"
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Port:          DefaultPort(),
		Baud:          DefaultBaudRate,
		Words:         domain.DefaultTargetWords,
		WordBits:      domain.DefaultWordBits,
		ChunkSize:     transfer.DefaultChunkSize,
		ResetLine:     transfer.DefaultResetLine.String(),
		ResetPulse:    transfer.DefaultResetPulse,
		ResetSettle:   transfer.DefaultResetSettle,
		SyncDelay:     transfer.DefaultSyncDelay,
		ReadTimeout:   transfer.DefaultReadTimeout,
		WatchDebounce: DefaultWatchDebounce,
		Progress:      string(progress.ModeAuto),
		LogLevel:      "info",
	}
}

// Layout returns the image layout described by the configuration.
func (c *Config) Layout() domain.Layout {
	return domain.Layout{TargetWords: c.Words, WordBits: c.WordBits}
}

// Validate checks the configuration for errors and normalizes enum values.
func (c *Config) Validate() error {
	if c.File == "" {
		return fmt.Errorf("file is required")
	}
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("baud must be positive")
	}
	if err := c.Layout().Validate(); err != nil {
		return err
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive")
	}
	if c.ChunkSize > transfer.MaxChunkSize {
		return fmt.Errorf("chunk size %d exceeds %d bytes", c.ChunkSize, transfer.MaxChunkSize)
	}

	if c.ResetPulse < 0 || c.ResetSettle < 0 || c.SyncDelay < 0 {
		return fmt.Errorf("reset pulse, reset settle and sync delay must not be negative")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.Watch && c.WatchDebounce <= 0 {
		return fmt.Errorf("watch debounce must be positive")
	}

	line, err := transfer.ParseResetLine(c.ResetLine)
	if err != nil {
		return err
	}
	c.ResetLine = line.String()

	mode, err := progress.ParseMode(c.Progress)
	if err != nil {
		return err
	}
	c.Progress = string(mode)

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
