package config

import (
	"errors"
	"fmt"
	"net"
	"slices"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/stevemurr/bookshelf/logger"
	"github.com/stevemurr/bookshelf/store"
)

// Prefix is prepended to every environment variable name below.
const Prefix = "BOOKSHELF_"

type Config struct {
	Host string `env:"HOST" envDefault:"127.0.0.1"`
	Port int    `env:"PORT" envDefault:"3000"`

	DataPath     string `env:"DATA_PATH" envDefault:".data/data.json"`
	StoreBackend string `env:"STORE_BACKEND" envDefault:"json"`

	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Addr returns host:port for the HTTP listener.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%sPORT must be between 1 and 65535", Prefix)
	}

	if !slices.Contains(store.Backends, c.StoreBackend) {
		return fmt.Errorf("%sSTORE_BACKEND must be one of %v, got %q", Prefix, store.Backends, c.StoreBackend)
	}

	if c.DataPath == "" && c.StoreBackend != "memory" {
		return fmt.Errorf("%sDATA_PATH is required for the %s backend", Prefix, c.StoreBackend)
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%sLOG_LEVEL: %w", Prefix, err)
	}

	if c.ShutdownTimeout <= 0 {
		return errors.New(Prefix + "SHUTDOWN_TIMEOUT must be positive")
	}

	return nil
}

// Load reads an optional .env file, then parses the process environment.
// Variables already set in the environment win over the .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
