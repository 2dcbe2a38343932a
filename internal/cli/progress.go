package cli

import (
	"fmt"
	"io"
	"sync"

	"chatcheck/internal/runner"
)

// plainObserver prints one line per finished case.
type plainObserver struct {
	mu sync.Mutex
	w  io.Writer
}

func newPlainObserver(w io.Writer) *plainObserver {
	return &plainObserver{w: w}
}

func (o *plainObserver) OnRunStart(runID string, endpoint string, total int) {
	o.printf("Run %s: %d cases against %s\n", runID, total, endpoint)
}

func (o *plainObserver) OnCaseEvent(event runner.CaseEvent) {
	if event.Type != runner.CaseFinished {
		return
	}
	o.printf("%-14s %s (%dms)\n", event.Status, event.CaseID, event.Duration.Milliseconds())
}

func (o *plainObserver) OnRunEnd(runner.Results) {}

func (o *plainObserver) printf(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.w, format, args...)
}
