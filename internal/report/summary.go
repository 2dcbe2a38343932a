package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"chatcheck/internal/runner"
)

// SummaryLine formats the console summary.
func SummaryLine(summary runner.RunSummary) string {
	return fmt.Sprintf("Summary: %d passed | %d failed | %d skipped", summary.Success, summary.Failed, summary.Skipped)
}

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
)

// StyledSummaryLine is SummaryLine with colored counts for terminals.
func StyledSummaryLine(summary runner.RunSummary) string {
	return fmt.Sprintf("Summary: %s | %s | %s",
		passStyle.Render(fmt.Sprintf("%d passed", summary.Success)),
		failStyle.Render(fmt.Sprintf("%d failed", summary.Failed)),
		skipStyle.Render(fmt.Sprintf("%d skipped", summary.Skipped)),
	)
}

// WriteListing prints one aligned line per result followed by the summary
// line.
func WriteListing(w io.Writer, results runner.Results) error {
	idWidth := 2
	for _, result := range results.Results {
		if n := len([]rune(result.ID)); n > idWidth {
			idWidth = n
		}
	}
	if _, err := fmt.Fprintf(w, "Run %s\n", results.RunID); err != nil {
		return err
	}
	for _, result := range results.Results {
		_, err := fmt.Fprintf(w, "%-14s  %-*s  %-24s  %s\n",
			statusLabel(result), idWidth, result.ID, result.MatchType, truncate(result.Actual.Key(), 60))
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, SummaryLine(results.Summary))
	return err
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}
