package live

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"chatcheck/internal/runner"
)

// formatCaseID returns the display id for a case row.
func formatCaseID(row CaseRow) string {
	if row.ID != "" {
		return row.ID
	}
	return formatIndex(row.Index)
}

// formatIndex formats a case index.
func formatIndex(index int) string {
	return "#" + pad2(index+1)
}

// pad2 left-pads a number to two digits when needed.
func pad2(value int) string {
	if value >= 10 {
		return strconv.Itoa(value)
	}
	return "0" + strconv.Itoa(value)
}

// formatQuery collapses whitespace and truncates query text for display.
func formatQuery(text string, limit int) string {
	normalized := strings.Join(strings.Fields(text), " ")
	if limit <= 3 || len(normalized) <= limit {
		return normalized
	}
	return normalized[:limit-3] + "..."
}

// statusLabel maps a row to its display label.
func statusLabel(row CaseRow) string {
	switch row.Phase {
	case runner.CaseQueued:
		return "queued"
	case runner.CaseRequested:
		return "requesting"
	case runner.CaseFinished:
		return string(row.Status)
	default:
		return string(row.Phase)
	}
}

// formatStatus renders a styled status for a row.
func formatStatus(row CaseRow, noColor bool) string {
	label := statusLabel(row)
	if noColor {
		return label
	}
	return statusStyle(row).Render(label)
}

// statusStyle selects a style for a row.
func statusStyle(row CaseRow) lipgloss.Style {
	color := lipgloss.Color("246")
	switch row.Phase {
	case runner.CaseRequested:
		color = lipgloss.Color("33")
	case runner.CaseFinished:
		switch row.Status {
		case runner.StatusPass:
			color = lipgloss.Color("42")
		case runner.StatusFail:
			color = lipgloss.Color("220")
		case runner.StatusSkipped:
			color = lipgloss.Color("244")
		default:
			color = lipgloss.Color("196")
		}
	}
	return lipgloss.NewStyle().Foreground(color)
}

// formatRowDuration returns elapsed or total time for a row.
func formatRowDuration(row CaseRow, now time.Time) string {
	if row.Phase == runner.CaseFinished {
		return formatDuration(row.Duration)
	}
	if !row.StartedAt.IsZero() {
		return formatDuration(now.Sub(row.StartedAt))
	}
	return ""
}

// formatDuration renders a rounded duration for display.
func formatDuration(duration time.Duration) string {
	if duration <= 0 {
		return "0s"
	}
	return duration.Round(10 * time.Millisecond).String()
}
