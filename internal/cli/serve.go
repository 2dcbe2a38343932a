package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"chatcheck/internal/reportserver"
)

// serveReport is a test seam for running the report server.
var serveReport = reportserver.Serve

func newServeCommand(env environment, root *rootOptions) *cobra.Command {
	var (
		addr   string
		dbPath string
	)
	cmd := &cobra.Command{
		Use:   "serve [output-dir]",
		Short: "Browse stored HTML reports",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputDir := firstArg(args)
			if outputDir == "" {
				cfg, err := loadConfig(root.configPath, env.getenv)
				if err != nil {
					return fail(ExitError, "Failed to load config", err)
				}
				outputDir = cfg.OutputDir
				if dbPath == "" {
					dbPath = cfg.DB
				}
			}
			if addr == "" {
				return &exitError{code: ExitUsage, err: fmt.Errorf("missing --addr")}
			}
			cfg := reportserver.Config{
				Addr:      addr,
				OutputDir: outputDir,
				DBPath:    dbPath,
				Logger:    newLogger(env.stderr, root.verbose),
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving reports from %s at http://%s\n", outputDir, addr)
			if err := serveReport(cmd.Context(), cfg); err != nil {
				return fail(ExitError, "Server error", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:5000", "Address to listen on")
	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB history file for the history endpoint")
	return cmd
}
