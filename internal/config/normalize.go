package config

import (
	"strings"

	"chatcheck/internal/assistant"
)

// Defaults applied by Normalize.
const (
	DefaultTimeout       = assistant.DefaultTimeout
	DefaultWorkers       = 1
	DefaultDynamicPolicy = "skip"
)

// Normalize trims values and fills defaults.
func Normalize(cfg *Config) {
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	if cfg.Endpoint == "" {
		cfg.Endpoint = assistant.DefaultEndpoint
	}
	cfg.Timeout = strings.TrimSpace(cfg.Timeout)
	if cfg.Timeout == "" {
		cfg.Timeout = DefaultTimeout.String()
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	cfg.Suite = strings.TrimSpace(cfg.Suite)
	cfg.OutputDir = strings.TrimSpace(cfg.OutputDir)
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	cfg.DB = strings.TrimSpace(cfg.DB)
	cfg.Timezone = strings.TrimSpace(cfg.Timezone)
	cfg.DynamicPolicy = strings.ToLower(strings.TrimSpace(cfg.DynamicPolicy))
	if cfg.DynamicPolicy == "" {
		cfg.DynamicPolicy = DefaultDynamicPolicy
	}
}
