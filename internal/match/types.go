package match

import (
	"fmt"
	"strings"
)

// Type selects the comparison policy for a test case.
type Type int

const (
	Exact Type = iota
	Subset
	Minimum
	MostRecent
	Earliest
	TemporalRange
	TopK
	TopEntityThreshold
	Substring
	Numeric
	Dynamic

	typeCount
)

var typeNames = [...]string{
	Exact:              "exact",
	Subset:             "subset",
	Minimum:            "minimum",
	MostRecent:         "most_recent",
	Earliest:           "earliest",
	TemporalRange:      "temporal_range",
	TopK:               "top_k_match",
	TopEntityThreshold: "top_entity_and_threshold",
	Substring:          "string",
	Numeric:            "numeric",
	Dynamic:            "dynamic",
}

var _ [len(typeNames) - int(typeCount)]struct{}
var _ [int(typeCount) - len(typeNames)]struct{}

// Types returns every match type in declaration order.
func Types() []Type {
	out := make([]Type, 0, typeCount)
	for t := Exact; t < typeCount; t++ {
		out = append(out, t)
	}
	return out
}

// ParseType resolves a wire name such as "top_k_match".
func ParseType(name string) (Type, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for t, typeName := range typeNames {
		if typeName == normalized {
			return Type(t), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownMatchType, name)
}

// Valid reports whether t is a declared match type.
func (t Type) Valid() bool {
	return t >= Exact && t < typeCount
}

// String returns the wire name.
func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("match.Type(%d)", int(t))
	}
	return typeNames[t]
}

// MarshalText encodes the wire name.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w %d", ErrUnknownMatchType, int(t))
	}
	return []byte(typeNames[t]), nil
}

// UnmarshalText decodes a wire name.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
