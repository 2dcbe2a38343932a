package live

import (
	"fmt"

	"chatcheck/internal/runner"
)

// Reduce applies a case event to the UI state.
func Reduce(state State, event runner.CaseEvent) State {
	state = ensureRow(state, event)
	state = applyCaseEvent(state, event)
	state.Counts = recount(state.Rows)
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// ensureRow grows the state rows to include the target index.
func ensureRow(state State, event runner.CaseEvent) State {
	if event.Index < 0 || event.Index < len(state.Rows) {
		return state
	}
	rows := make([]CaseRow, event.Index+1)
	copy(rows, state.Rows)
	for i := len(state.Rows); i < len(rows); i++ {
		rows[i] = CaseRow{Index: i, Phase: runner.CaseQueued}
	}
	state.Rows = rows
	return state
}

// applyCaseEvent updates a row with the given event. A finished row never
// moves back to an earlier phase.
func applyCaseEvent(state State, event runner.CaseEvent) State {
	if event.Index < 0 || event.Index >= len(state.Rows) {
		return state
	}
	row := state.Rows[event.Index]
	if row.ID == "" {
		row.ID = event.CaseID
	}
	if row.Query == "" {
		row.Query = event.Query
	}
	if row.MatchType == "" {
		row.MatchType = event.MatchType
	}
	if row.Phase == runner.CaseFinished {
		state.Rows[event.Index] = row
		return state
	}
	row.Phase = event.Type
	switch event.Type {
	case runner.CaseRequested:
		if row.StartedAt.IsZero() {
			row.StartedAt = event.EmittedAt
		}
	case runner.CaseFinished:
		row.Status = event.Status
		row.FinishedAt = event.EmittedAt
		row.Duration = event.Duration
	}
	state.Rows[event.Index] = row
	return state
}

// recount recomputes status counts for the current rows.
func recount(rows []CaseRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Phase {
		case runner.CaseQueued:
			counts.Queued++
		case runner.CaseRequested:
			counts.Requested++
		case runner.CaseFinished:
			counts.Done++
			switch row.Status {
			case runner.StatusPass:
				counts.Passed++
			case runner.StatusFail:
				counts.Failed++
			case runner.StatusSkipped:
				counts.Skipped++
			default:
				counts.Errors++
			}
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event runner.CaseEvent) string {
	if event.Type != runner.CaseFinished {
		return ""
	}
	label := event.CaseID
	if label == "" {
		label = formatIndex(event.Index)
	}
	return fmt.Sprintf("%s %s (%s)", label, event.Status, formatDuration(event.Duration))
}
