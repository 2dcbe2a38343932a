package runner

import "time"

// CaseEventType identifies a case status update for observers.
type CaseEventType string

const (
	// CaseQueued marks a case known but not yet sent.
	CaseQueued CaseEventType = "queued"
	// CaseRequested marks a query in flight.
	CaseRequested CaseEventType = "requested"
	// CaseFinished marks a case with a final status.
	CaseFinished CaseEventType = "finished"
)

// CaseEvent carries a single status update for a case.
type CaseEvent struct {
	Index     int
	CaseID    string
	Query     string
	MatchType string
	Type      CaseEventType
	Status    Status
	Duration  time.Duration
	EmittedAt time.Time
}

// Observer receives run lifecycle events for UI or logging. With more than
// one worker, OnCaseEvent is called from several goroutines.
type Observer interface {
	// OnRunStart signals the start of a run.
	OnRunStart(runID string, endpoint string, total int)
	// OnCaseEvent delivers a case status update.
	OnCaseEvent(event CaseEvent)
	// OnRunEnd signals run completion.
	OnRunEnd(results Results)
}
