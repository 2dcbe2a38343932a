package live

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the run header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	line := "Run " + state.RunID
	if state.Endpoint != "" {
		line += " | " + state.Endpoint
	}
	if !state.StartedAt.IsZero() {
		line += " | Elapsed: " + now.Sub(state.StartedAt).Round(100*time.Millisecond).String()
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the status counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := fmt.Sprintf("Done: %d/%d  Queued: %d  Requesting: %d  Pass: %d  Fail: %d  Skipped: %d  Errors: %d",
		counts.Done, state.Total, counts.Queued, counts.Requested, counts.Passed, counts.Failed, counts.Skipped, counts.Errors)
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderFooter renders the last event line, or the final summary once the
// run has ended.
func renderFooter(state State, noColor bool) string {
	if state.Finished {
		summary := state.Summary
		return stylize(fmt.Sprintf("Finished: %d passed | %d failed | %d skipped", summary.Success, summary.Failed, summary.Skipped),
			noColor, lipgloss.Color("42"))
	}
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last event: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
