package runner

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"chatcheck/internal/assistant"
	"chatcheck/internal/match"
	"chatcheck/internal/normalize"
	"chatcheck/internal/value"
)

// Status is the final classification of one test case.
type Status string

const (
	StatusPass          Status = "PASS"
	StatusFail          Status = "FAIL"
	StatusSkipped       Status = "SKIPPED"
	StatusRequestFailed Status = "REQUEST_FAILED"
	StatusHTTPError     Status = "HTTP_ERROR"
)

// DynamicPolicy decides how an indeterminate outcome is reported.
type DynamicPolicy string

const (
	// DynamicSkip reports indeterminate outcomes as SKIPPED.
	DynamicSkip DynamicPolicy = "skip"
	// DynamicPassOnResponse reports them as PASS when the response is non-empty.
	DynamicPassOnResponse DynamicPolicy = "pass_on_response"
)

// TestResult is the record of one executed case.
type TestResult struct {
	ID              string      `json:"id"`
	Query           string      `json:"query"`
	Expected        value.Value `json:"expected"`
	Actual          value.Value `json:"actual"`
	NaturalResponse string      `json:"natural_response"`
	MatchType       match.Type  `json:"match_type"`
	Status          Status      `json:"status"`
	HTTPStatus      int         `json:"http_status,omitempty"`
	Error           string      `json:"error,omitempty"`
	DurationMs      int64       `json:"duration_ms"`
}

// RunSummary counts results by outcome.
type RunSummary struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Total returns the number of counted results.
func (s RunSummary) Total() int {
	return s.Success + s.Failed + s.Skipped
}

// Results is everything recorded about a run.
type Results struct {
	RunID      string       `json:"run_id"`
	Endpoint   string       `json:"endpoint"`
	Suite      string       `json:"suite"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Results    []TestResult `json:"results"`
	Summary    RunSummary   `json:"summary"`
}

// Assistant answers one query.
type Assistant interface {
	Ask(ctx context.Context, query string) (assistant.Reply, error)
}

// Dependencies allows injecting clocks and id generators for a run.
type Dependencies struct {
	RunID func() (string, error)
	Now   func() time.Time
}

// Params configures a run invocation.
type Params struct {
	Assistant     Assistant
	Endpoint      string
	SuitePath     string
	Workers       int
	DynamicPolicy DynamicPolicy
	Normalizer    normalize.Normalizer
	Logger        logrus.FieldLogger
	Observer      Observer
	Deps          Dependencies
}
