package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"chatcheck/internal/testcase"
)

func newValidateCommand(env environment, root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [suite]",
		Short: "Validate " + configFileHint + " and the test suite",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root.configPath, env.getenv)
			if err != nil {
				return fail(ExitError, "Validation failed", err)
			}
			suitePath := cfg.suitePath(firstArg(args))
			suite, err := testcase.Load(suitePath)
			if err != nil {
				return fail(ExitError, "Validation failed", err)
			}

			out := cmd.OutOrStdout()
			if cfg.Path != "" {
				fmt.Fprintf(out, "Config OK: %s\n", cfg.Path)
			} else {
				fmt.Fprintln(out, "Config OK: defaults (no "+configFileHint+" found)")
			}
			fmt.Fprintf(out, "Suite OK: %s (%d cases, %d enabled)\n", suitePath, len(suite.Cases), len(suite.Select(nil)))
			return nil
		},
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
