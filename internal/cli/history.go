package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"chatcheck/internal/store"
)

func newHistoryCommand(env environment, root *rootOptions) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "history --db <path> <case-id>",
		Short: "Show how a case fared across ingested runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(env.stderr, root.verbose)
			st, err := store.Open(cmd.Context(), dbPath, log)
			if err != nil {
				return fail(ExitError, "History failed", err)
			}
			defer st.Close()

			entries, err := st.History(cmd.Context(), args[0])
			if err != nil {
				return fail(ExitError, "History failed", err)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No history for case %s\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "%-30s  %-20s  %-14s  %-8s  %s\n", "RUN", "STARTED", "STATUS", "EXPECTED", "ACTUAL")
			for _, entry := range entries {
				status := string(entry.Status)
				if entry.HTTPStatus != 0 {
					status = fmt.Sprintf("%s %d", entry.Status, entry.HTTPStatus)
				}
				fmt.Fprintf(out, "%-30s  %-20s  %-14s  %-8s  %s\n",
					entry.RunID,
					entry.StartedAt.UTC().Format("2006-01-02 15:04:05"),
					status,
					shortKey(entry.ExpectedKey),
					entry.Actual,
				)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB history file")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

// shortKey abbreviates an expectation fingerprint; a change in it marks a
// changed expectation.
func shortKey(key string) string {
	if len(key) > 8 {
		return key[:8]
	}
	return key
}
