package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const (
	idColumnWidth       = 18
	matchColumnWidth    = 24
	statusColumnWidth   = 16
	durationColumnWidth = 9
	minQueryWidth       = 20
	defaultQueryWidth   = 48
)

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	if noColor {
		return styles
	}
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// defaultColumns returns the columns used before the terminal size is known.
func defaultColumns() []table.Column {
	return columns(defaultQueryWidth)
}

// columnsForWidth gives the query column whatever the fixed columns leave.
func columnsForWidth(width int) []table.Column {
	fixed := idColumnWidth + matchColumnWidth + statusColumnWidth + durationColumnWidth + 10
	return columns(max(width-fixed, minQueryWidth))
}

func columns(queryWidth int) []table.Column {
	return []table.Column{
		{Title: "Case", Width: idColumnWidth},
		{Title: "Query", Width: queryWidth},
		{Title: "Match", Width: matchColumnWidth},
		{Title: "Status", Width: statusColumnWidth},
		{Title: "Time", Width: durationColumnWidth},
	}
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, now time.Time, queryWidth int, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			formatCaseID(row),
			formatQuery(row.Query, queryWidth),
			row.MatchType,
			formatStatus(row, noColor),
			formatRowDuration(row, now),
		})
	}
	return rows
}
