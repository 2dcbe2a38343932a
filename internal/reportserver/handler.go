package reportserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"chatcheck/internal/report"
	"chatcheck/internal/store"
)

// HistorySource answers case history lookups.
type HistorySource interface {
	History(ctx context.Context, caseID string) ([]store.HistoryEntry, error)
}

// servedFiles are the run files reachable over HTTP.
var servedFiles = map[string]string{
	"":             "report.html",
	"report.html":  "report.html",
	"results.json": "results.json",
	"run.json":     "run.json",
}

type handler struct {
	outputDir string
	history   HistorySource
	log       logrus.FieldLogger
}

// NewHandler builds the HTTP handler for an output directory. history may be
// nil, in which case the history endpoint answers 404.
func NewHandler(outputDir string, history HistorySource, log logrus.FieldLogger) (http.Handler, error) {
	if outputDir == "" {
		return nil, errors.New("reportserver: output dir is required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &handler{outputDir: outputDir, history: history, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.serveIndex)
	mux.HandleFunc("GET /runs/{id}/{$}", h.serveRunFile)
	mux.HandleFunc("GET /runs/{id}/{file}", h.serveRunFile)
	mux.HandleFunc("GET /history/{case}", h.serveHistory)
	return mux, nil
}

// serveIndex lists the runs in the output directory, newest first.
func (h *handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	runs, err := report.ListRuns(h.outputDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		h.log.WithError(err).Error("list runs")
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := IndexPage(runs).Render(r.Context(), w); err != nil {
		h.log.WithError(err).Warn("render index")
	}
}

// serveRunFile serves one file from a run directory.
func (h *handler) serveRunFile(w http.ResponseWriter, r *http.Request) {
	name, ok := servedFiles[r.PathValue("file")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	paths, err := report.NewOutputPaths(h.outputDir, r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(paths.RunDir(), name)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	if filepath.Ext(name) == ".json" {
		w.Header().Set("Content-Type", "application/json")
	}
	http.ServeFile(w, r, path)
}

// serveHistory answers the stored timeline of a case as JSON.
func (h *handler) serveHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		http.NotFound(w, r)
		return
	}
	entries, err := h.history.History(r.Context(), r.PathValue("case"))
	if err != nil {
		h.log.WithError(err).Error("load history")
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	out := make([]historyJSON, 0, len(entries))
	for _, entry := range entries {
		out = append(out, historyJSON{
			RunID:       entry.RunID,
			StartedAt:   entry.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
			MatchType:   entry.MatchType,
			ExpectedKey: entry.ExpectedKey,
			Actual:      json.RawMessage(entry.Actual),
			Status:      string(entry.Status),
			HTTPStatus:  entry.HTTPStatus,
			DurationMs:  entry.DurationMs,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		h.log.WithError(err).Warn("encode history")
	}
}

type historyJSON struct {
	RunID       string          `json:"run_id"`
	StartedAt   string          `json:"started_at"`
	MatchType   string          `json:"match_type"`
	ExpectedKey string          `json:"expected_key"`
	Actual      json.RawMessage `json:"actual"`
	Status      string          `json:"status"`
	HTTPStatus  int             `json:"http_status,omitempty"`
	DurationMs  int64           `json:"duration_ms"`
}
