package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"chatcheck/internal/report"
)

func newReportCommand(env environment, root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report [run-dir|run-id|latest]",
		Short: "Print a stored run and regenerate its HTML report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := firstArg(args)
			outputDir := ""
			if cfg, err := loadConfig(root.configPath, env.getenv); err == nil {
				outputDir = cfg.OutputDir
			} else if ref == "" {
				return fail(ExitError, "Failed to load config", err)
			}

			entry, err := report.ResolveRun(outputDir, ref)
			if err != nil {
				return fail(ExitError, "Report failed", err)
			}
			out := cmd.OutOrStdout()
			if err := report.WriteListing(out, entry.Results); err != nil {
				return fail(ExitError, "Report failed", err)
			}
			paths, err := report.NewOutputPaths(filepath.Dir(entry.Dir), filepath.Base(entry.Dir))
			if err != nil {
				return fail(ExitError, "Report failed", err)
			}
			if err := report.WriteHTML(cmd.Context(), paths.ReportPath(), entry.Results); err != nil {
				return fail(ExitError, "Report failed", err)
			}
			fmt.Fprintf(out, "Report: %s\n", paths.ReportPath())
			return nil
		},
	}
}
