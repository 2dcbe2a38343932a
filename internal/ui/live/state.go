package live

import (
	"time"

	"chatcheck/internal/runner"
)

// CaseRow holds UI state for a single case.
type CaseRow struct {
	Index      int
	ID         string
	Query      string
	MatchType  string
	Phase      runner.CaseEventType
	Status     runner.Status
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
}

// StatusCounts aggregates counts by status bucket.
type StatusCounts struct {
	Queued    int
	Requested int
	Done      int
	Passed    int
	Failed    int
	Skipped   int
	Errors    int
}

// State captures the live UI state for a run.
type State struct {
	RunID     string
	Endpoint  string
	Total     int
	StartedAt time.Time
	Finished  bool
	Summary   runner.RunSummary
	LastEvent string
	Rows      []CaseRow
	Counts    StatusCounts
}
