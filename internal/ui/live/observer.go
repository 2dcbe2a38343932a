package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"chatcheck/internal/runner"
)

// Controller runs the live UI and implements runner.Observer.
type Controller struct {
	mu      sync.Mutex
	events  chan Event
	program *tea.Program
	done    chan struct{}
	closed  bool
	err     error
}

var _ runner.Observer = (*Controller)(nil)

// Start launches a live UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 256)
	program := tea.NewProgram(NewModel(events, opts), tea.WithOutput(stdout))
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_, err := program.Run()
		controller.err = err
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop once queued events are drawn.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.events)
}

// Wait blocks until the UI has exited and returns its error.
func (c *Controller) Wait() error {
	if c == nil {
		return nil
	}
	<-c.done
	return c.err
}

// OnRunStart forwards run start events to the UI.
func (c *Controller) OnRunStart(runID string, endpoint string, total int) {
	c.send(Event{Kind: EventRunStart, RunID: runID, Endpoint: endpoint, Total: total})
}

// OnCaseEvent forwards case status updates to the UI.
func (c *Controller) OnCaseEvent(event runner.CaseEvent) {
	c.send(Event{Kind: EventCase, Case: event})
}

// OnRunEnd forwards run completion to the UI and closes it.
func (c *Controller) OnRunEnd(results runner.Results) {
	c.send(Event{Kind: EventRunEnd, Summary: results.Summary})
	c.Close()
}

// send enqueues an event, giving up only when the UI has already exited.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.events <- event:
	case <-c.done:
	}
}
