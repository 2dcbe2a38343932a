package testcase

import (
	"chatcheck/internal/match"
	"chatcheck/internal/value"
)

// Suite is a loaded and validated set of test cases.
type Suite struct {
	Version int
	Path    string
	Cases   []Case
}

// Case is one query sent to the assistant and the answer it should produce.
type Case struct {
	ID           string
	Query        string
	Expected     value.Value
	MatchType    match.Type
	Enabled      bool
	Tags         []string
	Conversation string
}

// HasAnyTag reports whether the case carries one of tags.
func (c Case) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range c.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Select returns the enabled cases, narrowed to those carrying any of tags
// when tags is non-empty. Input order is kept.
func (s Suite) Select(tags []string) []Case {
	selected := make([]Case, 0, len(s.Cases))
	for _, c := range s.Cases {
		if !c.Enabled {
			continue
		}
		if len(tags) > 0 && !c.HasAnyTag(tags) {
			continue
		}
		selected = append(selected, c)
	}
	return selected
}

// suiteFile is the envelope form of a suite document.
type suiteFile struct {
	Version int       `json:"version" yaml:"version"`
	Cases   []rawCase `json:"cases" yaml:"cases"`
}

// rawCase mirrors the on-disk case. Pointer fields distinguish absent from
// zero so defaults and aliases can be applied.
type rawCase struct {
	ID             caseID       `json:"id" yaml:"id"`
	Query          string       `json:"query" yaml:"query"`
	Expected       *value.Value `json:"expected" yaml:"expected"`
	ExpectedResult *value.Value `json:"expected_result" yaml:"expected_result"`
	MatchType      string       `json:"match_type" yaml:"match_type"`
	Enabled        *bool        `json:"enabled" yaml:"enabled"`
	Test           *bool        `json:"test" yaml:"test"`
	Tags           []string     `json:"tags" yaml:"tags"`
	Conversation   string       `json:"conversation" yaml:"conversation"`
}
