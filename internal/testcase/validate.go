package testcase

import (
	"fmt"
	"strings"

	"chatcheck/internal/match"
	"chatcheck/internal/value"
)

// Issue captures a validation problem in a test suite.
type Issue struct {
	Field   string
	Message string
}

// ValidationError reports one or more validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error returns a readable message for validation failures.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("test suite validation failed: %s", strings.Join(parts, "; "))
}

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: collector.issues}
}

// normalizeSuite applies defaults and aliases, then validates every case.
func normalizeSuite(file suiteFile) (Suite, error) {
	collector := &issueCollector{}
	if file.Version == 0 {
		collector.add("version", "is required")
	} else if file.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", file.Version))
	}
	if len(file.Cases) == 0 {
		collector.add("cases", "must include at least one entry")
	}

	suite := Suite{Version: file.Version, Cases: make([]Case, 0, len(file.Cases))}
	seenIDs := map[string]struct{}{}
	for i, raw := range file.Cases {
		prefix := fmt.Sprintf("cases[%d]", i)
		c := Case{
			ID:           strings.TrimSpace(string(raw.ID)),
			Query:        strings.TrimSpace(raw.Query),
			Expected:     expectedValue(raw),
			Enabled:      enabled(raw),
			Tags:         normalizeStringSlice(raw.Tags),
			Conversation: strings.TrimSpace(raw.Conversation),
		}
		if c.ID == "" {
			collector.add(prefix+".id", "is required")
		} else if _, exists := seenIDs[c.ID]; exists {
			collector.add(prefix+".id", fmt.Sprintf("duplicate id %q", c.ID))
		} else {
			seenIDs[c.ID] = struct{}{}
		}
		if c.Query == "" {
			collector.add(prefix+".query", "is required")
		}
		if raw.Enabled != nil && raw.Test != nil && *raw.Enabled != *raw.Test {
			collector.add(prefix+".enabled", "conflicts with test")
		}
		matchType := strings.TrimSpace(raw.MatchType)
		if matchType == "" {
			c.MatchType = match.Exact
		} else if parsed, err := match.ParseType(matchType); err != nil {
			collector.add(prefix+".match_type", fmt.Sprintf("unsupported match type %q", raw.MatchType))
		} else {
			c.MatchType = parsed
		}
		for tagIndex, tag := range c.Tags {
			if tag == "" {
				collector.add(fmt.Sprintf("%s.tags[%d]", prefix, tagIndex), "is required")
			}
		}
		suite.Cases = append(suite.Cases, c)
	}

	if err := collector.result(); err != nil {
		return Suite{}, err
	}
	return suite, nil
}

// expectedValue prefers expected and falls back to expected_result when
// expected is absent or null.
func expectedValue(raw rawCase) value.Value {
	if raw.Expected != nil && !raw.Expected.IsNull() {
		return *raw.Expected
	}
	if raw.ExpectedResult != nil {
		return *raw.ExpectedResult
	}
	return value.Value{}
}

// enabled defaults to true; test is the legacy name of the flag.
func enabled(raw rawCase) bool {
	if raw.Enabled != nil {
		return *raw.Enabled
	}
	if raw.Test != nil {
		return *raw.Test
	}
	return true
}

func normalizeStringSlice(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(values))
	for _, item := range values {
		normalized = append(normalized, strings.TrimSpace(item))
	}
	return normalized
}
