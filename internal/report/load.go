package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"chatcheck/internal/runner"
)

// ErrRunNotFound reports a run reference that matches nothing.
var ErrRunNotFound = errors.New("run not found")

// RunEntry describes one stored run.
type RunEntry struct {
	RunID   string
	Dir     string
	Results runner.Results
}

// LoadRun reads the run envelope from a run directory.
func LoadRun(dir string) (runner.Results, error) {
	data, err := os.ReadFile(filepath.Join(dir, runFile))
	if err != nil {
		return runner.Results{}, fmt.Errorf("read run: %w", err)
	}
	var results runner.Results
	if err := json.Unmarshal(data, &results); err != nil {
		return runner.Results{}, fmt.Errorf("parse %s: %w", runFile, err)
	}
	return results, nil
}

// LoadResults reads an ordered result array.
func LoadResults(path string) ([]runner.TestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	var results []runner.TestResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return results, nil
}

// ListRuns returns the runs stored under root, newest first. Directories
// without a readable run.json are skipped.
func ListRuns(root string) ([]RunEntry, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	runs := make([]RunEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		results, err := LoadRun(dir)
		if err != nil {
			continue
		}
		runs = append(runs, RunEntry{RunID: entry.Name(), Dir: dir, Results: results})
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].RunID > runs[j].RunID
	})
	return runs, nil
}

// ResolveRun finds a run by directory path, by run id under root, or as the
// newest run when ref is "latest" or empty.
func ResolveRun(root, ref string) (RunEntry, error) {
	ref = strings.TrimSpace(ref)
	if ref != "" && ref != "latest" {
		if info, err := os.Stat(filepath.Join(ref, runFile)); err == nil && !info.IsDir() {
			results, err := LoadRun(ref)
			if err != nil {
				return RunEntry{}, err
			}
			return RunEntry{RunID: results.RunID, Dir: ref, Results: results}, nil
		}
	}
	if root == "" {
		return RunEntry{}, fmt.Errorf("%w: %s", ErrRunNotFound, ref)
	}
	runs, err := ListRuns(root)
	if err != nil {
		return RunEntry{}, err
	}
	for _, run := range runs {
		if ref == "" || ref == "latest" || run.RunID == ref {
			return run, nil
		}
	}
	if ref == "" {
		ref = "latest"
	}
	return RunEntry{}, fmt.Errorf("%w: %s", ErrRunNotFound, ref)
}
