package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ismaiel54/itch50-decoder/internal/config"
	"github.com/ismaiel54/itch50-decoder/internal/itch"
	"github.com/ismaiel54/itch50-decoder/internal/logging"
	"github.com/ismaiel54/itch50-decoder/internal/mmap"
)

type globalOptions struct {
	configPath string
	logLevel   string
}

// rootCmd returns the itch command tree
func rootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:          "itch",
		Short:        "Decode, inspect and publish NASDAQ TotalView-ITCH 5.0 captures",
		SilenceUsage: true,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (TOML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.AddCommand(dumpCmd(opts))
	cmd.AddCommand(statsCmd(opts))
	cmd.AddCommand(publishCmd(opts))
	cmd.AddCommand(verifyCmd(opts))
	return cmd
}

// setup loads configuration and builds the logger for a subcommand
func (o *globalOptions) setup(service string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(service, o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	logger, err := logging.NewLogger(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

// decodeMode applies a --mode flag over the configured mode
func decodeMode(cmd *cobra.Command, cfg *config.Config, mode string) (itch.Mode, error) {
	if cmd.Flags().Changed("mode") {
		cfg.Mode = mode
	}
	return cfg.DecodeMode()
}

// openCapture maps path. An empty file yields no data and a nil file.
func openCapture(path string) (*mmap.File, []byte, error) {
	f, err := mmap.Open(path)
	if errors.Is(err, mmap.ErrEmpty) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return f, f.Bytes(), nil
}

func closeCapture(f *mmap.File, logger *zap.Logger) {
	if f == nil {
		return
	}
	if err := f.Close(); err != nil {
		logger.Warn("failed to close capture", zap.String("path", f.Path()), zap.Error(err))
	}
}

// fatalOnFraming ends the process on a framing violation. Other errors are
// returned unchanged.
func fatalOnFraming(logger *zap.Logger, path string, err error) error {
	var fe *itch.FramingError
	if !errors.As(err, &fe) {
		return err
	}
	logger.Fatal("framing violation",
		zap.String("path", path),
		zap.String("kind", fe.Kind.String()),
		zap.Int("offset", fe.Offset),
		zap.String("type", fe.Type.String()),
		zap.Uint16("length", fe.Length),
		zap.Uint16("expected", fe.Expected),
		zap.Int("remaining", fe.Remaining),
	)
	return err
}
