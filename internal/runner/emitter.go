package runner

import (
	"time"

	"chatcheck/internal/testcase"
)

// emitter forwards lifecycle events to an optional observer.
type emitter struct {
	observer Observer
	now      func() time.Time
}

func newEmitter(observer Observer, now func() time.Time) *emitter {
	return &emitter{observer: observer, now: now}
}

func (e *emitter) runStart(runID, endpoint string, total int) {
	if e.observer == nil {
		return
	}
	e.observer.OnRunStart(runID, endpoint, total)
}

func (e *emitter) queuedAll(cases []testcase.Case) {
	for index, item := range cases {
		e.caseEvent(index, item, CaseQueued, "", 0)
	}
}

func (e *emitter) caseEvent(index int, item testcase.Case, eventType CaseEventType, status Status, duration time.Duration) {
	if e.observer == nil {
		return
	}
	e.observer.OnCaseEvent(CaseEvent{
		Index:     index,
		CaseID:    item.ID,
		Query:     item.Query,
		MatchType: item.MatchType.String(),
		Type:      eventType,
		Status:    status,
		Duration:  duration,
		EmittedAt: e.now(),
	})
}

func (e *emitter) runEnd(results Results) {
	if e.observer == nil {
		return
	}
	e.observer.OnRunEnd(results)
}
