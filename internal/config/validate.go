package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// issueCollector accumulates validation issues.
type issueCollector struct {
	issues []Issue
}

// add records a new validation issue.
func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

// result returns a ValidationError when issues are present.
func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

var dynamicPolicies = []string{"skip", "pass_on_response"}

// Validate checks a normalized config for correctness.
func Validate(cfg *Config) error {
	collector := &issueCollector{}

	if cfg.Version == 0 {
		collector.add("version", "is required")
	} else if cfg.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}

	validateEndpoint(cfg.Endpoint, collector.add)

	if timeout, err := time.ParseDuration(cfg.Timeout); err != nil {
		collector.add("timeout", fmt.Sprintf("invalid duration %q", cfg.Timeout))
	} else if timeout <= 0 {
		collector.add("timeout", "must be positive")
	}

	if cfg.Workers < 1 {
		collector.add("workers", "must be at least 1")
	}

	if strings.TrimSpace(cfg.OutputDir) == "" {
		collector.add("output_dir", "is required")
	}

	if _, err := cfg.Location(); err != nil {
		collector.add("timezone", fmt.Sprintf("unknown time zone %q", cfg.Timezone))
	}

	if !contains(dynamicPolicies, cfg.DynamicPolicy) {
		collector.add("dynamic_policy", fmt.Sprintf("must be one of %s", strings.Join(dynamicPolicies, ", ")))
	}

	for key := range cfg.Headers {
		if strings.TrimSpace(key) == "" {
			collector.add("headers", "header names must not be empty")
		}
	}

	return collector.result()
}

// validateEndpoint requires an absolute http or https URL.
func validateEndpoint(endpoint string, add func(field, message string)) {
	if endpoint == "" {
		add("endpoint", "is required")
		return
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		add("endpoint", fmt.Sprintf("invalid url: %v", err))
		return
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		add("endpoint", "must use http or https")
	}
	if parsed.Host == "" {
		add("endpoint", "must include a host")
	}
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
