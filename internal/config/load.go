package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound reports that no config file exists.
var ErrConfigNotFound = errors.New("config not found")

// Environment variables that override config values.
const (
	EnvEndpoint  = "CHATCHECK_ENDPOINT"
	EnvTimeout   = "CHATCHECK_TIMEOUT"
	EnvWorkers   = "CHATCHECK_WORKERS"
	EnvOutputDir = "CHATCHECK_OUTPUT_DIR"
	EnvDB        = "CHATCHECK_DB"
)

// Load reads a config file, applies environment overrides, then normalizes
// and validates the result.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := ApplyEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}
	if err := Finalize(&cfg, BaseDirFromConfigPath(path)); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read parses a config file without applying defaults.
func Read(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes config YAML, rejecting unknown fields.
func Parse(data []byte) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if err == io.EOF {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Default returns the config used when no file exists.
func Default() Config {
	cfg := Config{Version: 1}
	Normalize(&cfg)
	return cfg
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error. Variables already set are kept.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config values from CHATCHECK_* variables.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvEndpoint)); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(getenv(EnvTimeout)); v != "" {
		cfg.Timeout = v
	}
	if v := strings.TrimSpace(getenv(EnvWorkers)); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvWorkers, err)
		}
		cfg.Workers = workers
	}
	if v := strings.TrimSpace(getenv(EnvOutputDir)); v != "" {
		cfg.OutputDir = v
	}
	if v := strings.TrimSpace(getenv(EnvDB)); v != "" {
		cfg.DB = v
	}
	return nil
}

// Finalize normalizes cfg, resolves relative paths against baseDir, and
// validates the result.
func Finalize(cfg *Config, baseDir string) error {
	Normalize(cfg)
	cfg.Suite = resolvePath(baseDir, cfg.Suite)
	cfg.OutputDir = resolvePath(baseDir, cfg.OutputDir)
	cfg.DB = resolvePath(baseDir, cfg.DB)
	return Validate(cfg)
}
