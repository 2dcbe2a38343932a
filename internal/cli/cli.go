// Package cli implements the chatcheck command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitOK       = 0
	ExitError    = 1
	ExitUsage    = 2
	ExitFailures = 3
)

// exitError carries an exit code through cobra. A nil err exits silently.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// fail wraps err so Run exits with code and prints prefix: err.
func fail(code int, prefix string, err error) error {
	if err == nil {
		return &exitError{code: code}
	}
	return &exitError{code: code, err: fmt.Errorf("%s: %w", prefix, err)}
}

// environment is what a command invocation reads from the process.
type environment struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
}

// Run executes the command line and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, args, environment{
		stdin:  os.Stdin,
		stdout: stdout,
		stderr: stderr,
		getenv: os.Getenv,
	})
}

func run(ctx context.Context, args []string, env environment) int {
	root := newRootCommand(env)
	root.SetArgs(args)
	root.SetOut(env.stdout)
	root.SetErr(env.stderr)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintln(env.stderr, exit.Error())
		}
		return exit.code
	}
	// Anything cobra reports itself is a usage problem.
	fmt.Fprintf(env.stderr, "%v\n\n", err)
	if cmd, _, findErr := root.Find(args); findErr == nil && cmd != nil {
		fmt.Fprint(env.stderr, cmd.UsageString())
	}
	return ExitUsage
}

// rootOptions are flags shared by every command.
type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCommand(env environment) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "chatcheck",
		Short: "Conformance tests for conversational assistants",
		Long: `chatcheck sends a suite of natural-language queries to an assistant endpoint,
extracts a structured answer from each reply, and scores it against the expected value.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to "+configFileHint+" (default: search upward from the working directory)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newInitCommand(env, opts),
		newValidateCommand(env, opts),
		newRunCommand(env, opts),
		newReportCommand(env, opts),
		newIngestCommand(env, opts),
		newHistoryCommand(env, opts),
		newServeCommand(env, opts),
	)
	return root
}
