//go:build !solution

// Package config loads the agent population and pacing settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

var (
	ErrNoAgents         = errors.New("at least one reader or writer is required")
	ErrNegativeCount    = errors.New("agent count must not be negative")
	ErrNegativeDuration = errors.New("duration must not be negative")
)

// Config describes how many agents to spawn and how they are paced.
type Config struct {
	Readers      int           `yaml:"readers"`
	Writers      int           `yaml:"writers"`
	ReadPacing   time.Duration `yaml:"read_pacing"`
	WritePacing  time.Duration `yaml:"write_pacing"`
	ReadHold     time.Duration `yaml:"read_hold"`
	WriteHold    time.Duration `yaml:"write_hold"`
	InitialValue string        `yaml:"initial_value"`
	MetricsAddr  string        `yaml:"metrics_addr"`
	LogLevel     string        `yaml:"log_level"`
}

// Default returns three readers and three writers paced every 1.5s,
// holding the lock for 1s on read and 2s on write.
func Default() Config {
	return Config{
		Readers:      3,
		Writers:      3,
		ReadPacing:   1500 * time.Millisecond,
		WritePacing:  1500 * time.Millisecond,
		ReadHold:     time.Second,
		WriteHold:    2 * time.Second,
		InitialValue: "Initial Data",
		LogLevel:     "info",
	}
}

// Decode reads a YAML file on top of Default without validating it, so that
// command-line flags can still fix the result. Missing keys keep their defaults.
func Decode(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	// Пустой файл - конфигурация по умолчанию
	if len(data) == 0 {
		return cfg, nil
	}

	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg, nil
}

// Load is Decode followed by Validate.
func Load(path string) (Config, error) {
	cfg, err := Decode(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first problem found in c.
func (c Config) Validate() error {
	if c.Readers < 0 || c.Writers < 0 {
		return ErrNegativeCount
	}
	if c.Readers == 0 && c.Writers == 0 {
		return ErrNoAgents
	}

	for name, d := range map[string]time.Duration{
		"read_pacing":  c.ReadPacing,
		"write_pacing": c.WritePacing,
		"read_hold":    c.ReadHold,
		"write_hold":   c.WriteHold,
	} {
		if d < 0 {
			return fmt.Errorf("%s: %w", name, ErrNegativeDuration)
		}
	}
	return nil
}
