package cli

import (
	"github.com/spf13/cobra"

	"chatcheck/internal/report"
	"chatcheck/internal/runner"
)

func newIngestCommand(env environment, root *rootOptions) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "ingest --db <path> <run-dir>...",
		Short: "Load stored runs into a DuckDB history database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs := make([]runner.Results, 0, len(args))
			for _, dir := range args {
				results, err := report.LoadRun(dir)
				if err != nil {
					return fail(ExitError, "Ingest failed", err)
				}
				runs = append(runs, results)
			}
			log := newLogger(env.stderr, root.verbose)
			if err := ingestRuns(cmd.Context(), dbPath, log, runs, cmd.OutOrStdout()); err != nil {
				return fail(ExitError, "Ingest failed", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB file to write")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}
