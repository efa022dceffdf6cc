package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the runtime configuration of the timetracker binary.
// Values come from the environment; command-line flags override them.
type Config struct {
	StoreDir        string        `env:"TIMETRACKER_STORE_DIR" envDefault:"."`
	Debug           bool          `env:"TIMETRACKER_DEBUG" envDefault:"false"`
	LogFile         string        `env:"TIMETRACKER_LOG_FILE"`
	Port            int           `env:"TIMETRACKER_PORT" envDefault:"8080"`
	AdminPort       int           `env:"TIMETRACKER_ADMIN_PORT" envDefault:"8383"`
	ShutdownTimeout time.Duration `env:"TIMETRACKER_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Port < 0 || cfg.AdminPort < 0 {
		return Config{}, fmt.Errorf("ports must not be negative")
	}
	return cfg, nil
}
