package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/memship/internal/adapters/fs"
	"github.com/bft-labs/memship/internal/adapters/progress"
	"github.com/bft-labs/memship/internal/adapters/serialport"
	"github.com/bft-labs/memship/internal/app"
	"github.com/bft-labs/memship/internal/cliconfig"
	"github.com/bft-labs/memship/internal/transfer"
	"github.com/bft-labs/memship/pkg/log"
)

const longHelp = `Load a .mem memory image and stream it to the board over a serial port.

Each line of the file holds binary words; // and -- start comments and lines
beginning with @ are ignored. The image is cropped or zero-padded to the
target word count, packed as big-endian 16-bit words and sent in chunks.

Configuration is read from $HOME/.memship/config.toml, then MEMSHIP_*
environment variables, then flags.`

var exampleUsage = strings.TrimSpace(`
  memship -f font.mem
  memship -f font.mem -p COM3 --reset
  memship -f font.mem --watch --progress lines
  memship pack -f font.mem -o font.bin
  memship ports
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "memship",
		Short:         "Send a .mem memory image to the board over serial",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := loadConfig(cmd, &cfg, cfgPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pipeline := newPipeline(cfg, logger)
			if cfg.Watch {
				return pipeline.Watch(ctx, cfg.File)
			}

			// Transfer failures and cancellation are reported by the
			// pipeline and do not change the exit status.
			_, err = pipeline.Run(ctx, cfg.File)
			return err
		},
	}

	// Shared by every command that reads a .mem file
	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.memship/config.toml)")
	pf.StringVarP(&cfg.File, "file", "f", "", "path to the .mem file (required)")
	pf.IntVar(&cfg.Words, "words", cfg.Words, "target image size in words")
	pf.IntVar(&cfg.WordBits, "word-bits", cfg.WordBits, "word width in bits; parsed values are masked to it")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	f := root.Flags()
	f.StringVarP(&cfg.Port, "port", "p", cfg.Port, "serial port")
	f.IntVarP(&cfg.Baud, "baud", "b", cfg.Baud, "baud rate")
	f.BoolVar(&cfg.Reset, "reset", cfg.Reset, "pulse the reset line before sending")
	f.StringVar(&cfg.ResetLine, "reset-line", cfg.ResetLine, "control line wired to reset (dtr or rts)")
	f.DurationVar(&cfg.ResetPulse, "reset-pulse", cfg.ResetPulse, "how long the reset line is held")
	f.DurationVar(&cfg.ResetSettle, "reset-settle", cfg.ResetSettle, "wait after releasing reset")
	f.DurationVar(&cfg.SyncDelay, "sync-delay", cfg.SyncDelay, "wait after opening the port before the first chunk")
	f.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "read timeout applied to the port")
	f.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "bytes per write")
	f.BoolVar(&cfg.Watch, "watch", cfg.Watch, "send again whenever the file changes")
	f.DurationVar(&cfg.WatchDebounce, "watch-debounce", cfg.WatchDebounce, "quiet period after a change before sending")
	f.StringVar(&cfg.Progress, "progress", cfg.Progress, "progress display (auto, bar, lines, none)")

	root.AddCommand(newPackCommand(&cfg, &cfgPath), newPortsCommand())

	if err := root.Execute(); err != nil {
		bootstrapLogger().Error("memship", log.Err(err))
		os.Exit(1)
	}
}

func newPackCommand(cfg *cliconfig.Config, cfgPath *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Write the packed image to a file instead of a port",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := loadConfig(cmd, cfg, *cfgPath)
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(cfg.File, filepath.Ext(cfg.File)) + ".bin"
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, err = newPipeline(*cfg, logger).Pack(ctx, cfg.File, output)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input with .bin extension)")
	return cmd
}

func newPortsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := serialport.ListPorts()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				bootstrapLogger().Info("no serial ports found")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

// loadConfig layers the config file and MEMSHIP_* environment under the
// flags set on cmd, validates the result and builds the logger.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) (log.Logger, error) {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgPath != "" && !cliconfig.FileExists(cfgPath) {
		return nil, fmt.Errorf("config file %s does not exist", cfgPath)
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return nil, err
		}
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := log.NewZerologAdapter(os.Stderr, level)
	logger.Debug("configuration", log.Any("config", *cfg))

	return logger, nil
}

func newPipeline(cfg cliconfig.Config, logger log.Logger) *app.Pipeline {
	// Validate has already normalized the reset line and progress mode.
	line, _ := transfer.ParseResetLine(cfg.ResetLine)
	mode, _ := progress.ParseMode(cfg.Progress)

	return app.NewPipeline(
		app.PipelineConfig{
			Layout: cfg.Layout(),
			Port:   cfg.Port,
			Baud:   cfg.Baud,
			Session: []transfer.Option{
				transfer.WithChunkSize(cfg.ChunkSize),
				transfer.WithReset(cfg.Reset),
				transfer.WithResetLine(line),
				transfer.WithResetPulse(cfg.ResetPulse),
				transfer.WithResetSettle(cfg.ResetSettle),
				transfer.WithSyncDelay(cfg.SyncDelay),
				transfer.WithReadTimeout(cfg.ReadTimeout),
			},
			Debounce: cfg.WatchDebounce,
		},
		serialport.NewOpener(),
		fs.NewPayloadFileWriter(),
		progress.New(mode, os.Stderr, logger),
		logger,
	)
}

func bootstrapLogger() log.Logger {
	level, _ := log.ParseLevel("")
	return log.NewZerologAdapter(os.Stderr, level)
}
