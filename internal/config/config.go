// Package config resolves runtime settings.
//
// Precedence, lowest to highest:
//
//	built-in defaults < TOML file < environment (.env included) < CLI flags
//
// CLI flags are applied by the caller; this package handles the rest.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DefaultMaxGuesses    = 6
	DefaultPort          = "5175"
	DefaultLogLevel      = "info"
	DefaultClientOrigin  = "http://localhost:5173"
	DefaultDailySalt     = "local_dev_salt"
	DefaultSessionTTL    = 30 * time.Minute
	DefaultSweepInterval = time.Minute
)

// Config is the fully resolved configuration.
type Config struct {
	AnswersFile string `env:"WORDS_ANSWERS_FILE"`
	AllowedFile string `env:"WORDS_ALLOWED_FILE"`
	MaxGuesses  int    `env:"BERTLE_MAX_GUESSES"`
	Daily       bool   `env:"BERTLE_DAILY"`
	DailySalt   string `env:"DAILY_SALT"`
	LogLevel    string `env:"LOG_LEVEL"`

	Server Server
}

// Server holds settings for `bertle serve`.
type Server struct {
	Port          string        `env:"PORT"`
	ClientOrigin  string        `env:"CLIENT_ORIGIN"`
	SessionTTL    time.Duration `env:"BERTLE_SESSION_TTL"`
	SweepInterval time.Duration `env:"BERTLE_SWEEP_INTERVAL"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxGuesses: DefaultMaxGuesses,
		DailySalt:  DefaultDailySalt,
		LogLevel:   DefaultLogLevel,
		Server: Server{
			Port:          DefaultPort,
			ClientOrigin:  DefaultClientOrigin,
			SessionTTL:    DefaultSessionTTL,
			SweepInterval: DefaultSweepInterval,
		},
	}
}

// Load layers the TOML file at path (missing is fine) and the process
// environment over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := fc.Apply(&cfg); err != nil {
			return Config{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.MaxGuesses <= 0 {
		return errors.New("max guesses must be > 0")
	}
	if c.AnswersFile != "" && c.AllowedFile == "" {
		return errors.New("an answers file requires an allowed file")
	}
	if c.Server.SessionTTL <= 0 {
		return errors.New("session ttl must be > 0")
	}
	if c.Server.SweepInterval <= 0 {
		return errors.New("sweep interval must be > 0")
	}
	return nil
}
