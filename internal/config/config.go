// Package config handles loading and parsing application configuration.
// It supports these sources (later ones win):
//  1. Built-in defaults (env-default tags below)
//  2. A YAML file named by CONFIG_PATH or the --config flag
//  3. Environment variables (env tags below)
//
// A config file is optional: with none at all the service listens on
// 127.0.0.1:8000 with an empty in-memory roster.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage backends understood by the server.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	HTTPServer `yaml:"http_server"`
	Storage    `yaml:"storage"`
	Roster     `yaml:"roster"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on.
	Addr         string        `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"127.0.0.1:8000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// Storage selects the roster backend.
type Storage struct {
	// Backend is "memory" or "sqlite".
	Backend string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"memory"`

	// Path is the SQLite data source; ignored by the memory backend.
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:":memory:"`
}

// Roster configures the initial contents of the roster.
type Roster struct {
	// Seed names are inserted at startup in order, getting ids 1..n.
	Seed []string `yaml:"seed" env:"ROSTER_SEED" env-separator:","`
}

// Load reads configuration from path, or from the environment and
// defaults alone when path is empty, and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from environment: %w", err)
		}
	} else {
		// Verify the file exists before trying to read it, for a clearer
		// message than a bare "open: no such file".
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q: want %q or %q",
			c.Storage.Backend, BackendMemory, BackendSQLite)
	}
	if c.HTTPServer.Addr == "" {
		return errors.New("http_server.address must not be empty")
	}
	return nil
}

// MustLoad reads, validates, and returns the application config.
//
// Functions prefixed with "Must" are allowed to fatal on failure: if
// this function returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}
