package config

import (
	"os"
	"time"

	"equationpoker-server/internal/util"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the equation poker server
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`

	StartingChips      int `yaml:"startingChips" envconfig:"starting_chips"`
	MaxPlayers         int `yaml:"maxPlayers" envconfig:"max_players"`
	BotDelayMS         int `yaml:"botDelayMs" envconfig:"bot_delay_ms"`
	SwapTimeoutSeconds int `yaml:"swapTimeoutSeconds" envconfig:"swap_timeout_seconds"`

	AllowedOrigins []string `yaml:"allowedOrigins" envconfig:"allowed_origins"`

	Log struct {
		Level             string `yaml:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
}

var config Config

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	cfg := Config{
		MigrationsPath:     "./sql",
		StartingChips:      1000,
		MaxPlayers:         8,
		BotDelayMS:         1000,
		SwapTimeoutSeconds: 0,
		AllowedOrigins:     []string{"*"},
	}

	cfg.Log.Level = "info"
	return cfg
}

// BotDelay is the pause before an automated player acts
func (c Config) BotDelay() time.Duration {
	return time.Duration(c.BotDelayMS) * time.Millisecond
}

// SwapTimeout is how long a deal waits on a multiply card decision, zero waits forever
func (c Config) SwapTimeout() time.Duration {
	return time.Duration(c.SwapTimeoutSeconds) * time.Second
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// A missing configuration file is not an error, the defaults are used instead
func Load() error {
	cfg := DefaultConfig()

	configFile := util.Getenv("EQP_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	if err == nil {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return err
		}
	}

	if err := envconfig.Process("eqp", &cfg); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}
