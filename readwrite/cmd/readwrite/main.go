//go:build !solution

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Rogov-KS/readwrite/config"
	"github.com/Rogov-KS/readwrite/readwrite"
)

func bindFlags(fs *pflag.FlagSet, cfg *config.Config) {
	fs.IntVar(&cfg.Readers, "readers", cfg.Readers, "number of reader agents")
	fs.IntVar(&cfg.Writers, "writers", cfg.Writers, "number of writer agents")
	fs.DurationVar(&cfg.ReadPacing, "read-pacing", cfg.ReadPacing, "delay between two reads of one agent")
	fs.DurationVar(&cfg.WritePacing, "write-pacing", cfg.WritePacing, "delay between two writes of one agent")
	fs.DurationVar(&cfg.ReadHold, "read-hold", cfg.ReadHold, "time a reader keeps shared access")
	fs.DurationVar(&cfg.WriteHold, "write-hold", cfg.WriteHold, "time a writer keeps exclusive access")
	fs.StringVar(&cfg.InitialValue, "initial", cfg.InitialValue, "initial value of the shared resource")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "address for /metrics and /healthz, disabled if empty")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
}

// applyChanged copies flags set on the command line over the file config.
func applyChanged(fs *pflag.FlagSet, from config.Config, to *config.Config) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "readers":
			to.Readers = from.Readers
		case "writers":
			to.Writers = from.Writers
		case "read-pacing":
			to.ReadPacing = from.ReadPacing
		case "write-pacing":
			to.WritePacing = from.WritePacing
		case "read-hold":
			to.ReadHold = from.ReadHold
		case "write-hold":
			to.WriteHold = from.WriteHold
		case "initial":
			to.InitialValue = from.InitialValue
		case "metrics-addr":
			to.MetricsAddr = from.MetricsAddr
		case "log-level":
			to.LogLevel = from.LogLevel
		}
	})
}

// resolveConfig merges the file at confPath with the flags set on the command
// line. Validation is left to readwrite.New so that a flag can repair a file
// that is invalid on its own.
func resolveConfig(fs *pflag.FlagSet, flagCfg config.Config, confPath string) (config.Config, error) {
	if confPath == "" {
		return flagCfg, nil
	}

	cfg, err := config.Decode(confPath)
	if err != nil {
		return config.Config{}, err
	}
	applyChanged(fs, flagCfg, &cfg)
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func newRootCmd() *cobra.Command {
	flagCfg := config.Default()
	var confPath string

	cmd := &cobra.Command{
		Use:          "readwrite",
		Short:        "Run reader and writer agents against one fairly locked resource",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd.Flags(), flagCfg, confPath)
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			runner, err := readwrite.New(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runner.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&confPath, "config", "", "path to .yaml config")
	bindFlags(cmd.Flags(), &flagCfg)
	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
