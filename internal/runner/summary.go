package runner

import "chatcheck/internal/match"

// Summarize folds results into counts. Transport and protocol failures count
// as failed.
func Summarize(results []TestResult) RunSummary {
	var summary RunSummary
	for _, result := range results {
		switch result.Status {
		case StatusPass:
			summary.Success++
		case StatusSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}
	return summary
}

// Classify maps a match outcome to a status.
func Classify(outcome match.Outcome, policy DynamicPolicy, response string) Status {
	switch outcome {
	case match.Pass:
		return StatusPass
	case match.Indeterminate:
		if policy == DynamicPassOnResponse && response != "" {
			return StatusPass
		}
		return StatusSkipped
	default:
		return StatusFail
	}
}
