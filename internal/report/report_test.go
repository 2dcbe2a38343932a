package report

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"chatcheck/internal/match"
	"chatcheck/internal/runner"
	"chatcheck/internal/value"
)

func sampleResults() runner.Results {
	results := []runner.TestResult{
		{ID: "open-count", Query: "How many open tickets?", Expected: value.FromInt(12), Actual: value.FromInt(12), MatchType: match.Exact, Status: runner.StatusPass, NaturalResponse: "12"},
		{ID: "owner", Query: "Who owns <PROJ-1>?", Expected: value.FromString("bob@example.com"), Actual: value.FromString("alice@example.com"), MatchType: match.Substring, Status: runner.StatusFail, NaturalResponse: "alice@example.com"},
		{ID: "top", Query: "Top assignee?", Expected: value.NewArray(), MatchType: match.TopEntityThreshold, Status: runner.StatusHTTPError, HTTPStatus: http.StatusBadGateway, NaturalResponse: "bad gateway"},
		{ID: "summary", Query: "Summarise", Expected: value.FromString("x"), Actual: value.FromString("The"), MatchType: match.Dynamic, Status: runner.StatusSkipped, NaturalResponse: "The sprint went well."},
	}
	return runner.Results{
		RunID:      "20240102T030405Z-abc123",
		Endpoint:   "http://localhost:8080/assistant",
		Suite:      "suite.json",
		StartedAt:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		FinishedAt: time.Date(2024, 1, 2, 3, 4, 9, 0, time.UTC),
		Results:    results,
		Summary:    runner.Summarize(results),
	}
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// TestSummaryLineGolden verifies the console summary format.
func TestSummaryLineGolden(t *testing.T) {
	line := SummaryLine(runner.RunSummary{Success: 3, Failed: 1, Skipped: 2})
	newGoldie(t).Assert(t, "summary_line", []byte(line))
}

// TestWriteListingGolden verifies the plain-text run listing.
func TestWriteListingGolden(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteListing(&buf, sampleResults()); err != nil {
		t.Fatalf("write listing: %v", err)
	}
	newGoldie(t).Assert(t, "listing", buf.Bytes())
}

// TestWriteRunRoundTrip verifies all run files are written and reload.
func TestWriteRunRoundTrip(t *testing.T) {
	root := t.TempDir()
	results := sampleResults()
	paths, err := WriteRun(context.Background(), root, results)
	if err != nil {
		t.Fatalf("write run: %v", err)
	}
	for _, path := range []string{paths.ResultsPath(), paths.RunPath(), paths.ReportPath()} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s: %v", filepath.Base(path), err)
		}
	}
	entries, err := os.ReadDir(paths.RunDir())
	if err != nil {
		t.Fatalf("read run dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}

	loaded, err := LoadResults(paths.ResultsPath())
	if err != nil {
		t.Fatalf("load results: %v", err)
	}
	if len(loaded) != 4 || loaded[1].ID != "owner" || loaded[1].MatchType != match.Substring {
		t.Fatalf("unexpected results: %+v", loaded)
	}
	if !loaded[0].Actual.Equal(value.FromInt(12)) || !loaded[2].Actual.IsNull() {
		t.Fatalf("unexpected actual values: %+v %+v", loaded[0].Actual, loaded[2].Actual)
	}

	run, err := LoadRun(paths.RunDir())
	if err != nil {
		t.Fatalf("load run: %v", err)
	}
	if run.RunID != results.RunID || run.Summary != results.Summary {
		t.Fatalf("unexpected run: %+v", run)
	}
}

// TestWriteResultsFieldNames verifies the persisted field names.
func TestWriteResultsFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	if err := WriteResults(path, sampleResults().Results); err != nil {
		t.Fatalf("write results: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read results: %v", err)
	}
	text := string(data)
	for _, token := range []string{`"natural_response"`, `"match_type": "top_entity_and_threshold"`, `"http_status": 502`, `"status": "SKIPPED"`, `"actual": null`} {
		if !strings.Contains(text, token) {
			t.Fatalf("expected %s in results.json:\n%s", token, text)
		}
	}
	if strings.Count(text, `"http_status"`) != 1 {
		t.Fatalf("expected http_status only on the HTTP error result")
	}
}

// TestRenderHTMLEscapes verifies report content is escaped and complete.
func TestRenderHTMLEscapes(t *testing.T) {
	html, err := RenderHTML(context.Background(), sampleResults())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, token := range []string{"20240102T030405Z-abc123", "<table", "Who owns &lt;PROJ-1&gt;?", "status-HTTP_ERROR", "HTTP_ERROR 502", "1 passed"} {
		if !strings.Contains(html, token) {
			t.Fatalf("expected report to include %q", token)
		}
	}
	if strings.Contains(html, "<PROJ-1>") {
		t.Fatalf("expected query to be escaped")
	}
}

// TestResolveRun verifies lookup by id, by directory, and latest.
func TestResolveRun(t *testing.T) {
	root := t.TempDir()
	older := sampleResults()
	older.RunID = "20240101T000000Z-aaaaaaaaaaaa"
	newer := sampleResults()
	newer.RunID = "20240105T000000Z-bbbbbbbbbbbb"
	for _, results := range []runner.Results{older, newer} {
		if _, err := WriteRun(context.Background(), root, results); err != nil {
			t.Fatalf("write run: %v", err)
		}
	}
	if err := os.MkdirAll(filepath.Join(root, "not-a-run"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	runs, err := ListRuns(root)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != newer.RunID {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	latest, err := ResolveRun(root, "latest")
	if err != nil || latest.RunID != newer.RunID {
		t.Fatalf("expected latest run, got %+v (%v)", latest.RunID, err)
	}
	byID, err := ResolveRun(root, older.RunID)
	if err != nil || byID.RunID != older.RunID {
		t.Fatalf("expected run by id, got %+v (%v)", byID.RunID, err)
	}
	byDir, err := ResolveRun("", filepath.Join(root, older.RunID))
	if err != nil || byDir.RunID != older.RunID {
		t.Fatalf("expected run by dir, got %+v (%v)", byDir.RunID, err)
	}
	if _, err := ResolveRun(root, "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

// TestNewOutputPathsRejectsTraversal verifies run ids stay inside the root.
func TestNewOutputPathsRejectsTraversal(t *testing.T) {
	for _, runID := range []string{"", "..", "a/b"} {
		if _, err := NewOutputPaths("out", runID); err == nil {
			t.Fatalf("expected error for run id %q", runID)
		}
	}
}
