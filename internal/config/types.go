package config

import (
	"time"
)

// Config is the contents of .chatcheck.yml.
type Config struct {
	Version       int               `yaml:"version"`
	Endpoint      string            `yaml:"endpoint"`
	Timeout       string            `yaml:"timeout"`
	Workers       int               `yaml:"workers"`
	Suite         string            `yaml:"suite"`
	OutputDir     string            `yaml:"output_dir"`
	DB            string            `yaml:"db"`
	Timezone      string            `yaml:"timezone"`
	DynamicPolicy string            `yaml:"dynamic_policy"`
	Headers       map[string]string `yaml:"headers"`
}

// RequestTimeout returns the parsed per-request timeout, or DefaultTimeout
// when the field does not parse.
func (c Config) RequestTimeout() time.Duration {
	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil || timeout <= 0 {
		return DefaultTimeout
	}
	return timeout
}

// Location returns the rendering time zone; empty means UTC.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}
