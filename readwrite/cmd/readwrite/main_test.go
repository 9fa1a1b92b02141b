//go:build !change

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/Rogov-KS/readwrite/config"
)

func TestApplyChanged(t *testing.T) {
	flagCfg := config.Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindFlags(fs, &flagCfg)
	require.NoError(t, fs.Parse([]string{"--writers=7", "--read-hold=0s"}))

	fileCfg := config.Default()
	fileCfg.Readers = 10
	fileCfg.Writers = 1
	applyChanged(fs, flagCfg, &fileCfg)

	// флаги из командной строки сильнее файла, остальное берётся из файла
	require.Equal(t, 10, fileCfg.Readers)
	require.Equal(t, 7, fileCfg.Writers)
	require.Equal(t, time.Duration(0), fileCfg.ReadHold)
	require.Equal(t, 2*time.Second, fileCfg.WriteHold)
}

func TestRootCmd_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("readers: 0\nwriters: 0\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", path})
	cmd.SilenceErrors = true
	require.ErrorIs(t, cmd.Execute(), config.ErrNoAgents)
}

func TestRootCmd_FlagsOverrideInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("readers: 0\nwriters: 0\n"), 0o644))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flagCfg := config.Default()
	bindFlags(fs, &flagCfg)
	require.NoError(t, fs.Parse([]string{"--readers", "2"}))

	cfg, err := resolveConfig(fs, flagCfg, path)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Readers)
	require.Equal(t, 0, cfg.Writers)
	require.NoError(t, cfg.Validate())

	// с отменённым контекстом агенты сразу завершаются, ошибки конфига нет
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", path, "--readers", "2", "--log-level", "error"})
	cmd.SilenceErrors = true
	require.NoError(t, cmd.ExecuteContext(ctx))
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("loud")
	require.Error(t, err)

	logger, err := newLogger("warn")
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
}
