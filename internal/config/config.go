// Package config handles loading and parsing application configuration.
// It supports three sources (later sources override earlier ones):
//  1. A YAML file named by CONFIG_PATH or the --config flag (optional)
//  2. A .env file in the working directory (optional)
//  3. Real environment variables, e.g. PORT=8080
//
// With no file at all the service still starts: every key has a default,
// so `PORT=8080 ./subjects-api` is a complete invocation.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	HTTPServer `yaml:"http_server"`
	Storage    Storage `yaml:"storage"`
	CORS       CORS    `yaml:"cors"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Host is empty by default, meaning "listen on every interface".
	Host string `yaml:"host" env:"HTTP_HOST" env-default:""`
	Port string `yaml:"port" env:"PORT"      env-default:"5000"`
}

// Addr joins Host and Port into the form http.Server expects.
func (h HTTPServer) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// Storage selects the SQL driver and the data source name passed to it.
//
//	sqlite3 — DSN is a file path, e.g. storage/subjects.db
//	mysql   — DSN is user:pass@tcp(host:3306)/dbname
type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite3"`
	DSN    string `yaml:"dsn"    env:"STORAGE_DSN"    env-default:"storage/subjects.db"`
}

// CORS lists the origins allowed to call the API from a browser.
// "*" allows every origin.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

// Load reads the configuration. An empty path means "environment only".
func Load(path string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config.Load: read env: %w", err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: config file does not exist: %s", path)
	}

	// cleanenv.ReadConfig reads the YAML file first and then applies any
	// env:"..." overrides and env-default values on top.
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: read %s: %w", path, err)
	}

	return &cfg, nil
}

// MustLoad resolves the config path from CONFIG_PATH or --config and
// calls Load. It exits the process on failure: if this returns, the
// config is usable.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return cfg
}
