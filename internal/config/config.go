package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"
)

// Config holds runtime settings for the server and the terminal game.
type Config struct {
	Addr              string        `yaml:"addr"`
	ComputerFirst     bool          `yaml:"computer_first"`
	Seed              int64         `yaml:"seed"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	LogLevel          string        `yaml:"log_level"`
	Dev               bool          `yaml:"dev"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:              ":8080",
		HeartbeatInterval: 15 * time.Second,
		LogLevel:          "info",
	}
}

// Load reads path (if non-empty) over the defaults, then applies environment
// overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	if port, ok := os.LookupEnv("PORT"); ok && port != "" {
		c.Addr = ":" + port
	}
	if addr, ok := os.LookupEnv("TICTOC_ADDR"); ok && addr != "" {
		c.Addr = addr
	}
	if lvl, ok := os.LookupEnv("TICTOC_LOG_LEVEL"); ok && lvl != "" {
		c.LogLevel = lvl
	}
}

// Validate checks the settings are usable.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr is required")
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("config: heartbeat_interval must be positive, got %s", c.HeartbeatInterval)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Logger builds a zap logger matching the settings.
func (c Config) Logger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Dev {
		zc = zap.NewDevelopmentConfig()
	}
	lvl, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc.Level = lvl
	return zc.Build()
}
