package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Config holds the runtime settings for the storefront client, parsed from
// the environment. Defaults match a local development API server.
type Config struct {
	AppName        string        `env:"BOOKSTORE_APP_NAME" envDefault:"Space Books"`
	APIBaseURL     string        `env:"BOOKSTORE_API_URL" envDefault:"http://localhost:3000"`
	RequestTimeout time.Duration `env:"BOOKSTORE_REQUEST_TIMEOUT" envDefault:"10s"`
	StateDir       string        `env:"BOOKSTORE_STATE_DIR"`
	Debug          bool          `env:"BOOKSTORE_DEBUG" envDefault:"false"`
}

// Load parses configuration from environment variables. When no state
// directory is configured, the session lands under the user config dir.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "[config.Load] env.Parse")
	}

	if cfg.StateDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(err, "[config.Load] os.UserConfigDir")
		}
		cfg.StateDir = filepath.Join(base, "bookstore")
	}

	return cfg, nil
}
