package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chatcheck/internal/assistant"
	"chatcheck/internal/testcase"
)

func writeConfig(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func noEnv(string) string { return "" }

func validConfig() Config {
	cfg := Config{Version: 1, Suite: "suite.json"}
	Normalize(&cfg)
	return cfg
}

func issueFields(err error) []string {
	var validation *ValidationError
	if !errors.As(err, &validation) {
		return nil
	}
	fields := make([]string, 0, len(validation.Issues))
	for _, issue := range validation.Issues {
		fields = append(fields, issue.Field)
	}
	return fields
}

// TestLoadAppliesDefaults verifies defaults and path resolution.
func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "version: 1\nsuite: cases/suite.yaml\n")

	cfg, err := Load(path, noEnv)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Endpoint != assistant.DefaultEndpoint {
		t.Fatalf("unexpected endpoint %q", cfg.Endpoint)
	}
	if cfg.RequestTimeout() != 30*time.Second || cfg.Workers != 1 || cfg.DynamicPolicy != "skip" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Suite != filepath.Join(dir, "cases", "suite.yaml") {
		t.Fatalf("unexpected suite path %q", cfg.Suite)
	}
	if cfg.OutputDir != filepath.Join(dir, DefaultOutputDir) {
		t.Fatalf("unexpected output dir %q", cfg.OutputDir)
	}
	if cfg.DB != "" {
		t.Fatalf("expected db to stay empty, got %q", cfg.DB)
	}
}

// TestLoadEnvOverrides verifies CHATCHECK_* variables win over the file.
func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "version: 1\nendpoint: http://file.example/assistant\nworkers: 2\n")
	env := map[string]string{
		EnvEndpoint:  "https://env.example/ask",
		EnvTimeout:   "5s",
		EnvWorkers:   "8",
		EnvOutputDir: "/tmp/results",
		EnvDB:        "history.duckdb",
	}

	cfg, err := Load(path, func(key string) string { return env[key] })
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Endpoint != "https://env.example/ask" || cfg.RequestTimeout() != 5*time.Second || cfg.Workers != 8 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.OutputDir != "/tmp/results" || cfg.DB != filepath.Join(dir, "history.duckdb") {
		t.Fatalf("unexpected paths: %+v", cfg)
	}
}

// TestLoadRejectsBadWorkerEnv verifies non-numeric worker overrides fail.
func TestLoadRejectsBadWorkerEnv(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "version: 1\n")
	_, err := Load(path, func(key string) string {
		if key == EnvWorkers {
			return "many"
		}
		return ""
	})
	if err == nil || !strings.Contains(err.Error(), EnvWorkers) {
		t.Fatalf("expected worker env error, got %v", err)
	}
}

// TestParseRejectsUnknownFields verifies strict decoding.
func TestParseRejectsUnknownFields(t *testing.T) {
	if _, err := Parse([]byte("version: 1\nendpiont: http://x\n")); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

// TestParseRejectsMultipleDocuments verifies a second YAML document fails.
func TestParseRejectsMultipleDocuments(t *testing.T) {
	_, err := Parse([]byte("version: 1\n---\nversion: 1\n"))
	if err == nil || !strings.Contains(err.Error(), "multiple YAML documents") {
		t.Fatalf("expected multiple documents error, got %v", err)
	}
}

// TestParseEmptyFile verifies an empty file decodes to a zero config.
func TestParseEmptyFile(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Version != 0 || cfg.Endpoint != "" {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

// TestDefaultIsValid verifies the built-in config passes validation.
func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := Validate(&cfg); err != nil {
		t.Fatalf("expected default config to validate: %v", err)
	}
}

// TestValidateCollectsIssues verifies every invalid field is reported.
func TestValidateCollectsIssues(t *testing.T) {
	cfg := validConfig()
	cfg.Version = 2
	cfg.Endpoint = "ftp://example.com"
	cfg.Timeout = "soon"
	cfg.Workers = -1
	cfg.Timezone = "Mars/Olympus"
	cfg.DynamicPolicy = "always"
	cfg.Headers = map[string]string{" ": "x"}

	err := Validate(&cfg)
	got := strings.Join(issueFields(err), ",")
	want := "version,endpoint,timeout,workers,timezone,dynamic_policy,headers"
	if got != want {
		t.Fatalf("expected issues %s, got %s (%v)", want, got, err)
	}
}

// TestValidateEndpointNeedsHost verifies relative endpoints are rejected.
func TestValidateEndpointNeedsHost(t *testing.T) {
	cfg := validConfig()
	cfg.Endpoint = "/assistant"
	err := Validate(&cfg)
	if err == nil || !strings.Contains(err.Error(), "endpoint: must use http or https") {
		t.Fatalf("expected endpoint issue, got %v", err)
	}
}

// TestValidateRejectsNonPositiveTimeout verifies zero timeouts fail.
func TestValidateRejectsNonPositiveTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Timeout = "0s"
	err := Validate(&cfg)
	if err == nil || !strings.Contains(err.Error(), "timeout: must be positive") {
		t.Fatalf("expected timeout issue, got %v", err)
	}
}

// TestValidationErrorFormatsLines verifies one issue per line.
func TestValidationErrorFormatsLines(t *testing.T) {
	err := &ValidationError{Issues: []Issue{{Field: "a", Message: "x"}, {Field: "b", Message: "y"}}}
	if err.Error() != "a: x\nb: y" {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

// TestFindConfigPathWalksUp verifies discovery from a nested directory.
func TestFindConfigPathWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "version: 1\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	found, err := FindConfigPath(nested)
	if err != nil {
		t.Fatalf("find config: %v", err)
	}
	if found != path {
		t.Fatalf("expected %s, got %s", path, found)
	}
}

// TestFindConfigPathNotFound verifies the sentinel error.
func TestFindConfigPathNotFound(t *testing.T) {
	_, err := FindConfigPath(t.TempDir())
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

// TestLoadEnvFile verifies .env values reach the environment.
func TestLoadEnvFile(t *testing.T) {
	const key = "CHATCHECK_TEST_ENV_FILE"
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(key+"=from-file\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Fatalf("expected from-file, got %q", got)
	}
}

// TestLoadEnvFileMissing verifies a missing file is ignored.
func TestLoadEnvFileMissing(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("expected missing .env to be ignored: %v", err)
	}
}

// TestScaffoldWritesLoadableFiles verifies the starter files load cleanly.
func TestScaffoldWritesLoadableFiles(t *testing.T) {
	dir := t.TempDir()
	path := ConfigPath(dir)
	opts := ScaffoldOptions{Endpoint: "http://localhost:9000/assistant", OutputDir: "out", Workers: 4}
	if err := Scaffold(path, opts); err != nil {
		t.Fatalf("scaffold: %v", err)
	}

	cfg, err := Load(path, noEnv)
	if err != nil {
		t.Fatalf("load scaffolded config: %v", err)
	}
	if cfg.Endpoint != opts.Endpoint || cfg.Workers != 4 || cfg.OutputDir != filepath.Join(dir, "out") {
		t.Fatalf("unexpected scaffolded config: %+v", cfg)
	}
	suite, err := testcase.Load(cfg.Suite)
	if err != nil {
		t.Fatalf("load sample suite: %v", err)
	}
	if len(suite.Cases) != 3 {
		t.Fatalf("expected 3 sample cases, got %d", len(suite.Cases))
	}

	if err := Scaffold(path, opts); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected scaffold to refuse overwrite, got %v", err)
	}
}

// TestScaffoldRejectsInvalidAnswers verifies answers are validated first.
func TestScaffoldRejectsInvalidAnswers(t *testing.T) {
	path := ConfigPath(t.TempDir())
	if err := Scaffold(path, ScaffoldOptions{Endpoint: "not a url"}); err == nil {
		t.Fatalf("expected invalid endpoint to fail")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no config file to be written")
	}
}
