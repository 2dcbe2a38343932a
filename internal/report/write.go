package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"chatcheck/internal/runner"
)

// WriteRun writes results.json, run.json, and report.html for a run.
func WriteRun(ctx context.Context, outputDir string, results runner.Results) (OutputPaths, error) {
	paths, err := NewOutputPaths(outputDir, results.RunID)
	if err != nil {
		return OutputPaths{}, err
	}
	if err := os.MkdirAll(paths.RunDir(), 0o755); err != nil {
		return OutputPaths{}, fmt.Errorf("create output dir: %w", err)
	}
	if err := WriteResults(paths.ResultsPath(), results.Results); err != nil {
		return OutputPaths{}, err
	}
	if err := writeJSONAtomic(paths.RunPath(), results); err != nil {
		return OutputPaths{}, err
	}
	if err := WriteHTML(ctx, paths.ReportPath(), results); err != nil {
		return OutputPaths{}, err
	}
	return paths, nil
}

// WriteResults writes the ordered result array as indented JSON. The file is
// replaced atomically so readers never see a partial report.
func WriteResults(path string, results []runner.TestResult) error {
	if results == nil {
		results = []runner.TestResult{}
	}
	return writeJSONAtomic(path, results)
}

// WriteHTML renders and atomically writes the HTML report.
func WriteHTML(ctx context.Context, path string, results runner.Results) error {
	html, err := RenderHTML(ctx, results)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return writeFileAtomic(path, []byte(html))
}

func writeJSONAtomic(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	return writeFileAtomic(path, append(data, '\n'))
}

// writeFileAtomic writes to a temp file in the target directory and renames
// it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
