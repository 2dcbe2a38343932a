package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ScaffoldOptions are the answers collected by `chatcheck init`.
type ScaffoldOptions struct {
	Endpoint  string
	OutputDir string
	Workers   int
}

const sampleSuite = `{
  "version": 1,
  "cases": [
    {
      "id": "open-tickets",
      "query": "How many open tickets are there?",
      "expected": 12,
      "match_type": "numeric"
    },
    {
      "id": "last-login",
      "query": "When did alice last log in?",
      "expected": "2024-01-02 03:04:05.000",
      "match_type": "temporal_range"
    },
    {
      "id": "sprint-summary",
      "query": "Summarise the current sprint.",
      "expected": "",
      "match_type": "dynamic",
      "tags": ["smoke"]
    }
  ]
}
`

// Scaffold writes a starter config at configPath and a sample suite next to
// it. Existing files are never overwritten.
func Scaffold(configPath string, opts ScaffoldOptions) error {
	if configPath == "" {
		return fmt.Errorf("config path is required")
	}
	suitePath := SuitePathFor(configPath)
	for _, path := range []string{configPath, suitePath} {
		if err := ensureAbsent(path); err != nil {
			return err
		}
	}

	cfg := Config{
		Version:   1,
		Endpoint:  opts.Endpoint,
		Workers:   opts.Workers,
		Suite:     DefaultSuiteFile,
		OutputDir: opts.OutputDir,
	}
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return err
	}
	data, err := renderScaffoldConfig(cfg)
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	if err := os.WriteFile(suitePath, []byte(sampleSuite), 0o644); err != nil {
		return fmt.Errorf("write suite file: %w", err)
	}
	return nil
}

// SuitePathFor returns where Scaffold places the sample suite.
func SuitePathFor(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), DefaultSuiteFile)
}

func ensureAbsent(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return fmt.Errorf("path %q is a directory", path)
		}
		return fmt.Errorf("file already exists at %q", path)
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return nil
}

// renderScaffoldConfig encodes cfg with two-space indentation.
func renderScaffoldConfig(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(scaffoldFile{
		Version:       cfg.Version,
		Endpoint:      cfg.Endpoint,
		Timeout:       cfg.Timeout,
		Workers:       cfg.Workers,
		Suite:         cfg.Suite,
		OutputDir:     cfg.OutputDir,
		DynamicPolicy: cfg.DynamicPolicy,
	}); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// scaffoldFile keeps optional fields out of the generated file.
type scaffoldFile struct {
	Version       int    `yaml:"version"`
	Endpoint      string `yaml:"endpoint"`
	Timeout       string `yaml:"timeout"`
	Workers       int    `yaml:"workers"`
	Suite         string `yaml:"suite"`
	OutputDir     string `yaml:"output_dir"`
	DynamicPolicy string `yaml:"dynamic_policy"`
}
