package report

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	resultsFile = "results.json"
	runFile     = "run.json"
	reportFile  = "report.html"
)

// OutputPaths locates the files of one run under the output root.
type OutputPaths struct {
	Root  string
	RunID string
}

// NewOutputPaths validates and returns the paths for runID under root.
func NewOutputPaths(root, runID string) (OutputPaths, error) {
	if strings.TrimSpace(root) == "" {
		return OutputPaths{}, fmt.Errorf("output directory is required")
	}
	if strings.TrimSpace(runID) == "" {
		return OutputPaths{}, fmt.Errorf("run id is required")
	}
	if strings.ContainsAny(runID, `/\`) || runID == "." || runID == ".." {
		return OutputPaths{}, fmt.Errorf("invalid run id %q", runID)
	}
	return OutputPaths{Root: root, RunID: runID}, nil
}

// RunDir returns the run directory.
func (p OutputPaths) RunDir() string {
	return filepath.Join(p.Root, p.RunID)
}

// ResultsPath returns the ordered result array path.
func (p OutputPaths) ResultsPath() string {
	return filepath.Join(p.RunDir(), resultsFile)
}

// RunPath returns the run envelope path.
func (p OutputPaths) RunPath() string {
	return filepath.Join(p.RunDir(), runFile)
}

// ReportPath returns the HTML report path.
func (p OutputPaths) ReportPath() string {
	return filepath.Join(p.RunDir(), reportFile)
}
