package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"chatcheck/internal/testcase"
)

// Run sends every case to the assistant and classifies the replies. Cases
// must already be filtered to the enabled set. The returned results keep the
// input order regardless of worker count.
//
// Per-case failures are recorded, not returned. Run returns an error only for
// configuration problems and for cancellation of ctx.
func Run(ctx context.Context, cases []testcase.Case, params Params) (Results, error) {
	if params.Assistant == nil {
		return Results{}, fmt.Errorf("assistant is required")
	}
	now := params.Deps.Now
	if now == nil {
		now = time.Now
	}
	runID, err := ensureRunID(params.Deps.RunID)
	if err != nil {
		return Results{}, fmt.Errorf("run id: %w", err)
	}
	log := params.Logger
	if log == nil {
		log = discardLogger()
	}
	log = log.WithFields(logrus.Fields{"component": "runner", "run_id": runID})
	if params.DynamicPolicy == "" {
		params.DynamicPolicy = DynamicSkip
	}

	results := Results{
		RunID:     runID,
		Endpoint:  params.Endpoint,
		Suite:     params.SuitePath,
		StartedAt: now(),
	}
	emit := newEmitter(params.Observer, now)
	emit.runStart(runID, params.Endpoint, len(cases))
	emit.queuedAll(cases)

	exec := caseExecutor{
		assistant:  params.Assistant,
		policy:     params.DynamicPolicy,
		normalizer: params.Normalizer,
		log:        log,
		emit:       emit,
		now:        now,
	}
	workers := params.Workers
	if workers < 1 {
		workers = 1
	}
	log.WithFields(logrus.Fields{"cases": len(cases), "workers": workers}).Info("starting run")

	var caseResults []TestResult
	if workers == 1 {
		caseResults, err = runSequential(ctx, cases, exec)
	} else {
		caseResults, err = runConcurrent(ctx, cases, exec, workers)
	}
	if err != nil {
		return Results{}, err
	}

	results.Results = caseResults
	results.FinishedAt = now()
	results.Summary = Summarize(caseResults)
	log.WithFields(logrus.Fields{
		"passed":  results.Summary.Success,
		"failed":  results.Summary.Failed,
		"skipped": results.Summary.Skipped,
	}).Info("run complete")
	emit.runEnd(results)
	return results, nil
}

// runSequential executes cases one at a time in input order.
func runSequential(ctx context.Context, cases []testcase.Case, exec caseExecutor) ([]TestResult, error) {
	results := make([]TestResult, 0, len(cases))
	for index, item := range cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := exec.execute(ctx, index, item)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// runConcurrent executes conversation groups on a bounded pool. Cases inside
// a group run in input order on one worker.
func runConcurrent(ctx context.Context, cases []testcase.Case, exec caseExecutor, workers int) ([]TestResult, error) {
	results := make([]TestResult, len(cases))
	g, gCtx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workers)
	for _, group := range conversationGroups(cases) {
		group := group
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gCtx.Done():
				return gCtx.Err()
			}
			for _, index := range group {
				if err := gCtx.Err(); err != nil {
					return err
				}
				result, err := exec.execute(gCtx, index, cases[index])
				if err != nil {
					return err
				}
				results[index] = result
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// conversationGroups returns case indices grouped by conversation, in order
// of first appearance. Cases without a conversation form their own group.
func conversationGroups(cases []testcase.Case) [][]int {
	var groups [][]int
	byConversation := map[string]int{}
	for index, item := range cases {
		if item.Conversation == "" {
			groups = append(groups, []int{index})
			continue
		}
		if at, ok := byConversation[item.Conversation]; ok {
			groups[at] = append(groups[at], index)
			continue
		}
		byConversation[item.Conversation] = len(groups)
		groups = append(groups, []int{index})
	}
	return groups
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
