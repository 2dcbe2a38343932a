package live

import "chatcheck/internal/runner"

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventRunStart signals the start of a run.
	EventRunStart EventKind = iota
	// EventCase delivers a case status update.
	EventCase
	// EventRunEnd signals run completion.
	EventRunEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind     EventKind
	RunID    string
	Endpoint string
	Total    int
	Case     runner.CaseEvent
	Summary  runner.RunSummary
}
