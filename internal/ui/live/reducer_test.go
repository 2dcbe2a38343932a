package live

import (
	"strings"
	"testing"
	"time"

	"chatcheck/internal/runner"
	"chatcheck/internal/testutil"
)

// TestReduceCaseLifecycle verifies core phase transitions are recorded.
func TestReduceCaseLifecycle(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		state := State{}
		state = Reduce(state, event(0, runner.CaseQueued, "", start))
		state = Reduce(state, event(0, runner.CaseRequested, "", start))
		if state.Counts.Requested != 1 || state.Rows[0].StartedAt != start {
			t.Fatalf("expected requested row, got %+v", state.Rows[0])
		}
		done := event(0, runner.CaseFinished, runner.StatusPass, start.Add(150*time.Millisecond))
		done.Duration = 150 * time.Millisecond
		state = Reduce(state, done)

		row := state.Rows[0]
		if row.Status != runner.StatusPass || row.Duration != 150*time.Millisecond {
			t.Fatalf("expected finished pass row, got %+v", row)
		}
		if state.Counts.Done != 1 || state.Counts.Passed != 1 || state.Counts.Requested != 0 {
			t.Fatalf("unexpected counts: %+v", state.Counts)
		}
		if state.LastEvent != "case-0 PASS (150ms)" {
			t.Fatalf("unexpected last event %q", state.LastEvent)
		}
	})
}

// TestReduceGrowsRows verifies out-of-order events fill missing rows.
func TestReduceGrowsRows(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		state := Reduce(State{}, event(2, runner.CaseRequested, "", time.Now()))
		if len(state.Rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(state.Rows))
		}
		if state.Counts.Queued != 2 || state.Counts.Requested != 1 {
			t.Fatalf("unexpected counts: %+v", state.Counts)
		}
		if formatCaseID(CaseRow{Index: 0}) != "#01" {
			t.Fatalf("expected index label for unnamed row")
		}
	})
}

// TestReduceFinishedIsSticky verifies a late event cannot reopen a case.
func TestReduceFinishedIsSticky(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		state := Reduce(State{}, event(0, runner.CaseFinished, runner.StatusHTTPError, time.Now()))
		state = Reduce(state, event(0, runner.CaseRequested, "", time.Now()))
		if state.Rows[0].Phase != runner.CaseFinished || state.Counts.Errors != 1 {
			t.Fatalf("expected finished error row, got %+v", state.Rows[0])
		}
	})
}

// TestReduceCountsStatuses verifies each final status has a bucket.
func TestReduceCountsStatuses(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		statuses := []runner.Status{runner.StatusPass, runner.StatusFail, runner.StatusSkipped, runner.StatusRequestFailed, runner.StatusHTTPError}
		state := State{}
		for i, status := range statuses {
			state = Reduce(state, event(i, runner.CaseFinished, status, time.Now()))
		}
		want := StatusCounts{Done: 5, Passed: 1, Failed: 1, Skipped: 1, Errors: 2}
		if state.Counts != want {
			t.Fatalf("expected %+v, got %+v", want, state.Counts)
		}
	})
}

// TestModelRendersRun verifies events flow through the model into the view.
func TestModelRendersRun(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		clock := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		model := NewModel(nil, Options{NoColor: true, Now: func() time.Time { return clock }})
		model = applyEvent(model, Event{Kind: EventRunStart, RunID: "run-1", Endpoint: "http://localhost:8080/assistant", Total: 2})
		model = applyEvent(model, Event{Kind: EventCase, Case: event(0, runner.CaseFinished, runner.StatusPass, clock)})
		model = applyEvent(model, Event{Kind: EventCase, Case: event(1, runner.CaseFinished, runner.StatusFail, clock)})
		model = applyEvent(model, Event{Kind: EventRunEnd, Summary: runner.RunSummary{Success: 1, Failed: 1}})

		view := model.View()
		for _, token := range []string{"Run run-1", "Done: 2/2", "Pass: 1", "Fail: 1", "Finished: 1 passed | 1 failed | 0 skipped"} {
			if !strings.Contains(view, token) {
				t.Fatalf("expected view to contain %q:\n%s", token, view)
			}
		}
		if !model.State().Finished {
			t.Fatalf("expected finished state")
		}
	})
}

// TestColumnsForWidth verifies the query column absorbs spare width.
func TestColumnsForWidth(t *testing.T) {
	wide := columnsForWidth(200)
	narrow := columnsForWidth(10)
	if wide[1].Width <= narrow[1].Width {
		t.Fatalf("expected wider query column, got %d and %d", wide[1].Width, narrow[1].Width)
	}
	if narrow[1].Width != minQueryWidth {
		t.Fatalf("expected minimum width, got %d", narrow[1].Width)
	}
	if got := formatQuery("a  very\nlong query text", 10); got != "a very ..." {
		t.Fatalf("unexpected truncation %q", got)
	}
}

// event builds a CaseEvent for testing.
func event(index int, kind runner.CaseEventType, status runner.Status, when time.Time) runner.CaseEvent {
	return runner.CaseEvent{
		Index:     index,
		CaseID:    "case-" + string(rune('0'+index)),
		Query:     "How many open tickets?",
		MatchType: "exact",
		Type:      kind,
		Status:    status,
		EmittedAt: when,
	}
}

// runWithTimeout executes a test body with a timeout.
func runWithTimeout(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()
	ctx := testutil.Context(t, timeout)
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatalf("test timed out")
	}
}
