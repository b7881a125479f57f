package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Unset keys stay nil
// and leave the lower layer untouched.
type FileConfig struct {
	Game   GameFile   `toml:"game"`
	Words  WordsFile  `toml:"words"`
	Server ServerFile `toml:"server"`
	Log    LogFile    `toml:"log"`
}

// GameFile maps [game].
type GameFile struct {
	MaxGuesses *int    `toml:"max-guesses"`
	Daily      *bool   `toml:"daily"`
	DailySalt  *string `toml:"daily-salt"`
}

// WordsFile maps [words].
type WordsFile struct {
	Answers *string `toml:"answers"`
	Allowed *string `toml:"allowed"`
}

// ServerFile maps [server].
type ServerFile struct {
	Port          *string `toml:"port"`
	ClientOrigin  *string `toml:"client-origin"`
	SessionTTL    *string `toml:"session-ttl"`
	SweepInterval *string `toml:"sweep-interval"`
}

// LogFile maps [log].
type LogFile struct {
	Level *string `toml:"level"`
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var fc FileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return fc, nil
}

// Apply copies every set key onto cfg.
func (fc FileConfig) Apply(cfg *Config) error {
	setString(&cfg.AnswersFile, fc.Words.Answers)
	setString(&cfg.AllowedFile, fc.Words.Allowed)
	if fc.Game.MaxGuesses != nil {
		cfg.MaxGuesses = *fc.Game.MaxGuesses
	}
	if fc.Game.Daily != nil {
		cfg.Daily = *fc.Game.Daily
	}
	setString(&cfg.DailySalt, fc.Game.DailySalt)
	setString(&cfg.LogLevel, fc.Log.Level)
	setString(&cfg.Server.Port, fc.Server.Port)
	setString(&cfg.Server.ClientOrigin, fc.Server.ClientOrigin)
	if err := setDuration(&cfg.Server.SessionTTL, fc.Server.SessionTTL, "session-ttl"); err != nil {
		return err
	}
	return setDuration(&cfg.Server.SweepInterval, fc.Server.SweepInterval, "sweep-interval")
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string, key string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, *v, err)
	}
	*dst = d
	return nil
}

// Template is written by `bertle config init`.
func Template() string {
	return fmt.Sprintf(`# bertle configuration
# Uncomment a value to enable it. Environment variables and CLI flags override it.

[game]
# max-guesses = %d
# daily = false
# daily-salt = %q

[words]
# answers = "/path/to/answers.txt"
# allowed = "/path/to/allowed.txt"

[server]
# port = %q
# client-origin = %q
# session-ttl = %q
# sweep-interval = %q

[log]
# level = %q
`,
		DefaultMaxGuesses,
		DefaultDailySalt,
		DefaultPort,
		DefaultClientOrigin,
		DefaultSessionTTL.String(),
		DefaultSweepInterval.String(),
		DefaultLogLevel,
	)
}
