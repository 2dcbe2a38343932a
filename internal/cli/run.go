package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chatcheck/internal/assistant"
	"chatcheck/internal/config"
	"chatcheck/internal/normalize"
	"chatcheck/internal/report"
	"chatcheck/internal/runner"
	"chatcheck/internal/store"
	"chatcheck/internal/testcase"
	"chatcheck/internal/ui/live"
)

// runSuite is a test seam for the orchestrator.
var runSuite = runner.Run

type runOptions struct {
	endpoint  string
	workers   int
	timeout   string
	tags      []string
	outputDir string
	db        string
	uiMode    string
	envFile   string
}

func newRunCommand(env environment, root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [suite]",
		Short: "Send the suite to the assistant and write a report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, env, root, opts, firstArg(args))
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.endpoint, "endpoint", "", "Assistant endpoint URL")
	f.IntVar(&opts.workers, "workers", 0, "Concurrent requests")
	f.StringVar(&opts.timeout, "timeout", "", "Per-request timeout, e.g. 30s")
	f.StringArrayVar(&opts.tags, "tag", nil, "Only run cases with this tag (repeatable)")
	f.StringVar(&opts.outputDir, "output-dir", "", "Override output directory")
	f.StringVar(&opts.db, "db", "", "Also ingest the run into this DuckDB file")
	f.StringVar(&opts.uiMode, "ui", "auto", "Console UI: auto|live|plain")
	f.StringVar(&opts.envFile, "env-file", ".env", "Load environment variables from this file when present")
	return cmd
}

func runRun(cmd *cobra.Command, env environment, root *rootOptions, opts *runOptions, suiteArg string) error {
	decision, err := resolveUIMode(opts.uiMode, root.verbose, env.stdout)
	if err != nil {
		return &exitError{code: ExitUsage, err: err}
	}
	if decision.warning != "" {
		fmt.Fprintln(env.stderr, decision.warning)
	}
	if err := config.LoadEnvFile(opts.envFile); err != nil {
		return fail(ExitError, "Failed to load env file", err)
	}

	cfg, err := loadConfig(root.configPath, env.getenv)
	if err != nil {
		return fail(ExitError, "Failed to load config", err)
	}
	applyRunFlags(cmd, &cfg.Config, opts)
	if err := config.Validate(&cfg.Config); err != nil {
		return fail(ExitError, "Invalid settings", err)
	}
	location, err := cfg.Location()
	if err != nil {
		return fail(ExitError, "Invalid settings", err)
	}

	suitePath := cfg.suitePath(suiteArg)
	suite, err := testcase.Load(suitePath)
	if err != nil {
		return fail(ExitError, "Failed to load suite", err)
	}
	cases := suite.Select(opts.tags)

	logOutput := env.stderr
	if decision.useLive {
		logOutput = io.Discard
	}
	log := newLogger(logOutput, root.verbose)
	log.WithFields(logrus.Fields{"suite": suitePath, "cases": len(cases), "endpoint": cfg.Endpoint}).Debug("loaded suite")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client := assistant.New(cfg.Endpoint,
		assistant.WithTimeout(cfg.RequestTimeout()),
		assistant.WithHeaders(cfg.Headers),
	)
	params := runner.Params{
		Assistant:     client,
		Endpoint:      cfg.Endpoint,
		SuitePath:     suitePath,
		Workers:       cfg.Workers,
		DynamicPolicy: runner.DynamicPolicy(cfg.DynamicPolicy),
		Normalizer:    normalize.Normalizer{Location: location},
		Logger:        log,
	}

	var controller *live.Controller
	if decision.useLive {
		controller = live.Start(env.stdout, live.Options{OnInterrupt: cancel})
		params.Observer = controller
	} else {
		params.Observer = newPlainObserver(env.stdout)
	}

	results, runErr := runSuite(ctx, cases, params)
	if controller != nil {
		controller.Close()
		if err := controller.Wait(); err != nil {
			log.WithError(err).Warn("live ui exited with error")
		}
	}
	if runErr != nil {
		return fail(ExitError, "Run aborted", runErr)
	}

	paths, err := report.WriteRun(ctx, cfg.OutputDir, results)
	if err != nil {
		return fail(ExitError, "Failed to write report", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s completed\n", results.RunID)
	fmt.Fprintf(out, "Results: %s\n", paths.ResultsPath())
	fmt.Fprintf(out, "Report: %s\n", paths.ReportPath())

	if cfg.DB != "" {
		if err := ingestRuns(ctx, cfg.DB, log, []runner.Results{results}, out); err != nil {
			return fail(ExitError, "Failed to ingest run", err)
		}
	}

	if isTerminal(env.stdout) {
		fmt.Fprintln(out, report.StyledSummaryLine(results.Summary))
	} else {
		fmt.Fprintln(out, report.SummaryLine(results.Summary))
	}
	if results.Summary.Failed > 0 {
		return &exitError{code: ExitFailures}
	}
	return nil
}

// applyRunFlags lets explicit flags win over file and environment values.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, opts *runOptions) {
	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = strings.TrimSpace(opts.endpoint)
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("timeout") {
		cfg.Timeout = strings.TrimSpace(opts.timeout)
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = opts.outputDir
	}
	if flags.Changed("db") {
		cfg.DB = opts.db
	}
}

// ingestRuns stores runs in the history database at dbPath.
func ingestRuns(ctx context.Context, dbPath string, log logrus.FieldLogger, runs []runner.Results, out io.Writer) error {
	st, err := store.Open(ctx, dbPath, log)
	if err != nil {
		return err
	}
	defer st.Close()
	for _, run := range runs {
		inserted, err := st.IngestRun(ctx, run)
		if err != nil {
			return err
		}
		if inserted {
			fmt.Fprintf(out, "Ingested %s into %s\n", run.RunID, dbPath)
		} else {
			fmt.Fprintf(out, "Skipped %s (already in %s)\n", run.RunID, dbPath)
		}
	}
	return nil
}
