package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"chatcheck/internal/assistant"
	"chatcheck/internal/config"
)

// errInitCancelled reports a declined confirmation prompt.
var errInitCancelled = errors.New("init cancelled")

// askInit collects scaffold answers interactively. Tests replace it.
var askInit = promptInit

type initOptions struct {
	endpoint  string
	outputDir string
	workers   int
	yes       bool
}

func newInitCommand(env environment, root *rootOptions) *cobra.Command {
	opts := &initOptions{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold " + configFileHint + " and a sample suite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, env, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.endpoint, "endpoint", assistant.DefaultEndpoint, "Assistant endpoint URL")
	f.StringVar(&opts.outputDir, "output-dir", config.DefaultOutputDir, "Results folder")
	f.IntVar(&opts.workers, "workers", config.DefaultWorkers, "Concurrent requests")
	f.BoolVarP(&opts.yes, "yes", "y", false, "Accept the flag values without prompting")
	return cmd
}

func runInit(cmd *cobra.Command, env environment, root *rootOptions, opts *initOptions) error {
	target := strings.TrimSpace(root.configPath)
	if target == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fail(ExitError, "Init failed", err)
		}
		target = config.ConfigPath(wd)
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return fail(ExitError, "Init failed", err)
	}

	answers := config.ScaffoldOptions{
		Endpoint:  opts.endpoint,
		OutputDir: opts.outputDir,
		Workers:   opts.workers,
	}
	if !opts.yes && isTerminal(env.stdin) {
		answers, err = askInit(target, answers)
		if errors.Is(err, errInitCancelled) {
			fmt.Fprintln(env.stderr, "Init cancelled.")
			return &exitError{code: ExitError}
		}
		if err != nil {
			return fail(ExitError, "Init failed", err)
		}
	}

	if err := config.Scaffold(target, answers); err != nil {
		return fail(ExitError, "Init failed", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s\n", target)
	fmt.Fprintf(out, "Wrote %s\n", config.SuitePathFor(target))
	return nil
}

// promptInit asks for each scaffold value, offering defaults.
func promptInit(target string, defaults config.ScaffoldOptions) (config.ScaffoldOptions, error) {
	answers := defaults
	confirm := false
	if err := survey.AskOne(&survey.Confirm{
		Message: fmt.Sprintf("Initialize chatcheck in %s?", filepath.Dir(target)),
		Default: true,
	}, &confirm); err != nil {
		return answers, err
	}
	if !confirm {
		return answers, errInitCancelled
	}
	if err := survey.AskOne(&survey.Input{
		Message: "Assistant endpoint",
		Default: defaults.Endpoint,
	}, &answers.Endpoint, survey.WithValidator(survey.Required)); err != nil {
		return answers, err
	}
	if err := survey.AskOne(&survey.Input{
		Message: "Results folder",
		Default: defaults.OutputDir,
	}, &answers.OutputDir, survey.WithValidator(survey.Required)); err != nil {
		return answers, err
	}
	workers := strconv.Itoa(defaults.Workers)
	if err := survey.AskOne(&survey.Input{
		Message: "Concurrent requests",
		Default: workers,
	}, &workers, survey.WithValidator(positiveInt)); err != nil {
		return answers, err
	}
	answers.Workers, _ = strconv.Atoi(strings.TrimSpace(workers))
	return answers, nil
}

func positiveInt(ans interface{}) error {
	text, _ := ans.(string)
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 {
		return fmt.Errorf("enter a whole number of at least 1")
	}
	return nil
}
