package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (MEMSHIP_*).
// Environment values override the config file; explicitly set flags win.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("file", os.Getenv("MEMSHIP_FILE"), &cfg.File)
	s.setString("port", os.Getenv("MEMSHIP_PORT"), &cfg.Port)
	s.setString("reset-line", os.Getenv("MEMSHIP_RESET_LINE"), &cfg.ResetLine)
	s.setString("progress", os.Getenv("MEMSHIP_PROGRESS"), &cfg.Progress)
	s.setString("log-level", os.Getenv("MEMSHIP_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("baud", os.Getenv("MEMSHIP_BAUD"), &cfg.Baud); err != nil {
		return err
	}
	if err := s.setIntFromString("words", os.Getenv("MEMSHIP_WORDS"), &cfg.Words); err != nil {
		return err
	}
	if err := s.setIntFromString("word-bits", os.Getenv("MEMSHIP_WORD_BITS"), &cfg.WordBits); err != nil {
		return err
	}
	if err := s.setIntFromString("chunk-size", os.Getenv("MEMSHIP_CHUNK_SIZE"), &cfg.ChunkSize); err != nil {
		return err
	}

	if err := s.setDuration("reset-pulse", os.Getenv("MEMSHIP_RESET_PULSE"), &cfg.ResetPulse); err != nil {
		return err
	}
	if err := s.setDuration("reset-settle", os.Getenv("MEMSHIP_RESET_SETTLE"), &cfg.ResetSettle); err != nil {
		return err
	}
	if err := s.setDuration("sync-delay", os.Getenv("MEMSHIP_SYNC_DELAY"), &cfg.SyncDelay); err != nil {
		return err
	}
	if err := s.setDuration("read-timeout", os.Getenv("MEMSHIP_READ_TIMEOUT"), &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("watch-debounce", os.Getenv("MEMSHIP_WATCH_DEBOUNCE"), &cfg.WatchDebounce); err != nil {
		return err
	}

	s.setBoolFromString("reset", os.Getenv("MEMSHIP_RESET"), &cfg.Reset)
	s.setBoolFromString("watch", os.Getenv("MEMSHIP_WATCH"), &cfg.Watch)

	return nil
}
