// Package match judges an extracted value against a test expectation.
//
// Each match type has exactly one Strategy. Two preconditions apply to every
// strategy: a null actual value fails, and a string actual value that appears
// verbatim in the query fails (the response only echoed the question).
package match

import (
	"errors"
	"strings"

	"chatcheck/internal/value"
)

// ErrUnknownMatchType reports a match type outside the closed set.
var ErrUnknownMatchType = errors.New("unknown match type")

// Outcome is the tri-state result of an evaluation.
type Outcome int

const (
	Fail Outcome = iota
	Pass
	Indeterminate
)

// String returns a lowercase label.
func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Indeterminate:
		return "indeterminate"
	default:
		return "fail"
	}
}

// Input carries everything a strategy may look at.
type Input struct {
	Actual   value.Value
	Expected value.Value
	Query    string
	Response string
}

// Strategy is one comparison policy.
type Strategy interface {
	Evaluate(in Input) Outcome
}

var strategies = [...]Strategy{
	Exact:              equalStrategy{},
	Subset:             subsetStrategy{},
	Minimum:            minimumStrategy{},
	MostRecent:         equalStrategy{},
	Earliest:           equalStrategy{},
	TemporalRange:      temporalRangeStrategy{window: TemporalWindow},
	TopK:               topKStrategy{},
	TopEntityThreshold: topEntityStrategy{},
	Substring:          substringStrategy{},
	Numeric:            numericStrategy{},
	Dynamic:            dynamicStrategy{},
}

var _ [len(strategies) - int(typeCount)]struct{}
var _ [int(typeCount) - len(strategies)]struct{}

// StrategyFor returns the strategy registered for t.
func StrategyFor(t Type) (Strategy, error) {
	if !t.Valid() || strategies[t] == nil {
		return nil, ErrUnknownMatchType
	}
	return strategies[t], nil
}

// Evaluate applies the universal preconditions and then the strategy for t.
// The only error is ErrUnknownMatchType.
func Evaluate(t Type, in Input) (Outcome, error) {
	strategy, err := StrategyFor(t)
	if err != nil {
		return Fail, err
	}
	if in.Actual.IsNull() {
		return Fail, nil
	}
	if echoed(in.Actual, in.Query) {
		return Fail, nil
	}
	return strategy.Evaluate(in), nil
}

func echoed(actual value.Value, query string) bool {
	text, ok := actual.StringValue()
	if !ok {
		return false
	}
	return strings.Contains(query, text)
}
