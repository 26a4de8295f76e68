package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	File          string `toml:"file"`
	Port          string `toml:"port"`
	Baud          int    `toml:"baud"`
	Words         int    `toml:"words"`
	WordBits      int    `toml:"word_bits"`
	ChunkSize     int    `toml:"chunk_size"`
	Reset         *bool  `toml:"reset"`
	ResetLine     string `toml:"reset_line"`
	ResetPulse    string `toml:"reset_pulse"`
	ResetSettle   string `toml:"reset_settle"`
	SyncDelay     string `toml:"sync_delay"`
	ReadTimeout   string `toml:"read_timeout"`
	Watch         *bool  `toml:"watch"`
	WatchDebounce string `toml:"watch_debounce"`
	Progress      string `toml:"progress"`
	LogLevel      string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.memship/config.toml, or "" when the home
// directory cannot be determined.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".memship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("file", fc.File, &cfg.File)
	s.setString("port", fc.Port, &cfg.Port)
	s.setString("reset-line", fc.ResetLine, &cfg.ResetLine)
	s.setString("progress", fc.Progress, &cfg.Progress)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("baud", fc.Baud, &cfg.Baud)
	s.setInt("words", fc.Words, &cfg.Words)
	s.setInt("word-bits", fc.WordBits, &cfg.WordBits)
	s.setInt("chunk-size", fc.ChunkSize, &cfg.ChunkSize)

	if err := s.setDuration("reset-pulse", fc.ResetPulse, &cfg.ResetPulse); err != nil {
		return err
	}
	if err := s.setDuration("reset-settle", fc.ResetSettle, &cfg.ResetSettle); err != nil {
		return err
	}
	if err := s.setDuration("sync-delay", fc.SyncDelay, &cfg.SyncDelay); err != nil {
		return err
	}
	if err := s.setDuration("read-timeout", fc.ReadTimeout, &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("watch-debounce", fc.WatchDebounce, &cfg.WatchDebounce); err != nil {
		return err
	}

	s.setBool("reset", fc.Reset, &cfg.Reset)
	s.setBool("watch", fc.Watch, &cfg.Watch)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
