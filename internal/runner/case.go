package runner

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"chatcheck/internal/extract"
	"chatcheck/internal/match"
	"chatcheck/internal/normalize"
	"chatcheck/internal/testcase"
)

// caseExecutor carries what every case needs to run.
type caseExecutor struct {
	assistant  Assistant
	policy     DynamicPolicy
	normalizer normalize.Normalizer
	log        logrus.FieldLogger
	emit       *emitter
	now        func() time.Time
}

// execute sends one case and classifies the reply. The only error is a
// configuration error from the matcher.
func (e caseExecutor) execute(ctx context.Context, index int, item testcase.Case) (TestResult, error) {
	start := e.now()
	log := e.log.WithFields(logrus.Fields{"case": item.ID, "match_type": item.MatchType.String()})
	e.emit.caseEvent(index, item, CaseRequested, "", 0)

	result := TestResult{
		ID:        item.ID,
		Query:     item.Query,
		Expected:  item.Expected,
		MatchType: item.MatchType,
	}
	reply, err := e.assistant.Ask(ctx, item.Query)
	switch {
	case err != nil:
		result.Status = StatusRequestFailed
		result.NaturalResponse = err.Error()
		result.Error = err.Error()
		log.WithError(err).Warn("request failed")
	case reply.StatusCode != http.StatusOK:
		result.Status = StatusHTTPError
		result.HTTPStatus = reply.StatusCode
		result.NaturalResponse = reply.Body
		log.WithField("http_status", reply.StatusCode).Warn("assistant returned an error status")
	default:
		response := e.normalizer.Rewrite(strings.TrimSpace(reply.Body))
		result.NaturalResponse = response
		result.Actual = extract.ForMatch(item.MatchType, response, item.Expected)
		outcome, err := match.Evaluate(item.MatchType, match.Input{
			Actual:   result.Actual,
			Expected: item.Expected,
			Query:    item.Query,
			Response: response,
		})
		if err != nil {
			return TestResult{}, fmt.Errorf("case %s: %w", item.ID, err)
		}
		result.Status = Classify(outcome, e.policy, response)
	}

	elapsed := e.now().Sub(start)
	result.DurationMs = elapsed.Milliseconds()
	log.WithFields(logrus.Fields{"status": result.Status, "duration_ms": result.DurationMs}).Debug("case finished")
	e.emit.caseEvent(index, item, CaseFinished, result.Status, elapsed)
	return result, nil
}
