package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chatcheck/internal/testutil"
)

// cliRun captures one command invocation.
type cliRun struct {
	code   int
	stdout string
	stderr string
}

// execute runs the CLI with an empty environment and no TTY.
func execute(t *testing.T, args ...string) cliRun {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(testutil.Context(t, 0), args, environment{
		stdin:  strings.NewReader(""),
		stdout: &stdout,
		stderr: &stderr,
		getenv: func(string) string { return "" },
	})
	return cliRun{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// project is a temp directory holding a config and suite.
type project struct {
	dir        string
	configPath string
	suitePath  string
	outputDir  string
}

// newProject writes a config pointing at endpoint and the given suite JSON.
func newProject(t *testing.T, endpoint, suite string) project {
	t.Helper()
	dir := t.TempDir()
	p := project{
		dir:        dir,
		configPath: filepath.Join(dir, ".chatcheck.yml"),
		suitePath:  filepath.Join(dir, "suite.json"),
		outputDir:  filepath.Join(dir, "out"),
	}
	cfg := "version: 1\nendpoint: " + endpoint + "\ntimeout: 2s\nsuite: suite.json\noutput_dir: out\n"
	if err := os.WriteFile(p.configPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(p.suitePath, []byte(suite), 0o644); err != nil {
		t.Fatalf("write suite: %v", err)
	}
	return p
}

// runArgs returns run arguments that avoid the working directory.
func (p project) runArgs(extra ...string) []string {
	args := []string{"run", "--config", p.configPath, "--ui", "plain", "--env-file", filepath.Join(p.dir, ".env")}
	return append(args, extra...)
}

// runDirs lists run directories written under the output dir.
func (p project) runDirs(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(p.outputDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(p.outputDir, entry.Name()))
		}
	}
	return dirs
}

