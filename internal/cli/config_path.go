package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"chatcheck/internal/config"
)

const configFileHint = config.ConfigFileName

// loadedConfig is a finalized config plus where it came from.
type loadedConfig struct {
	config.Config
	// Path is empty when no config file was found.
	Path    string
	BaseDir string
}

// loadConfig reads the config named by configPath, or the nearest one above
// the working directory. Without any config file the defaults apply.
func loadConfig(configPath string, getenv func(string) string) (loadedConfig, error) {
	path, err := resolveConfigPath(configPath)
	if errors.Is(err, config.ErrConfigNotFound) {
		cfg := config.Default()
		if err := config.ApplyEnv(&cfg, getenv); err != nil {
			return loadedConfig{}, err
		}
		if err := config.Finalize(&cfg, "."); err != nil {
			return loadedConfig{}, err
		}
		return loadedConfig{Config: cfg, BaseDir: "."}, nil
	}
	if err != nil {
		return loadedConfig{}, err
	}
	cfg, err := config.Load(path, getenv)
	if err != nil {
		return loadedConfig{}, err
	}
	return loadedConfig{Config: cfg, Path: path, BaseDir: config.BaseDirFromConfigPath(path)}, nil
}

// resolveConfigPath normalizes a config path or finds it from CWD.
func resolveConfigPath(configPath string) (string, error) {
	if strings.TrimSpace(configPath) == "" {
		return config.FindConfigPath("")
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

// suitePath picks the suite argument, then the configured suite, then the
// default file next to the config.
func (c loadedConfig) suitePath(arg string) string {
	if strings.TrimSpace(arg) != "" {
		return arg
	}
	if c.Suite != "" {
		return c.Suite
	}
	return filepath.Join(c.BaseDir, config.DefaultSuiteFile)
}
