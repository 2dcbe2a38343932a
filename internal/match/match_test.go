package match

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"chatcheck/internal/value"
)

func record(entity string, count int64) value.Value {
	return value.NewObject(map[string]value.Value{
		"assignee": value.FromString(entity),
		"count":    value.FromInt(count),
	})
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		typ   Type
		input Input
		want  Outcome
	}{
		{
			name:  "exact number",
			typ:   Exact,
			input: Input{Actual: value.FromInt(4), Expected: value.FromInt(4)},
			want:  Pass,
		},
		{
			name:  "exact mismatch",
			typ:   Exact,
			input: Input{Actual: value.FromInt(5), Expected: value.FromInt(4)},
			want:  Fail,
		},
		{
			name:  "subset passes",
			typ:   Subset,
			input: Input{Actual: value.Strings("u1", "u2", "u3"), Expected: value.Strings("u3", "u1")},
			want:  Pass,
		},
		{
			name:  "subset missing element",
			typ:   Subset,
			input: Input{Actual: value.Strings("u1"), Expected: value.Strings("u1", "u2")},
			want:  Fail,
		},
		{
			name:  "subset requires list actual",
			typ:   Subset,
			input: Input{Actual: value.FromInt(1), Expected: value.NewArray(value.FromInt(1))},
			want:  Fail,
		},
		{
			name:  "minimum number",
			typ:   Minimum,
			input: Input{Actual: value.FromInt(12), Expected: value.FromInt(10)},
			want:  Pass,
		},
		{
			name:  "minimum number below",
			typ:   Minimum,
			input: Input{Actual: value.FromInt(9), Expected: value.FromInt(10)},
			want:  Fail,
		},
		{
			name:  "minimum list passes",
			typ:   Minimum,
			input: Input{Actual: value.Strings("u1", "u2", "u3"), Expected: value.Strings("u1", "u2")},
			want:  Pass,
		},
		{
			name:  "minimum list fails",
			typ:   Minimum,
			input: Input{Actual: value.Strings("u1"), Expected: value.Strings("u1", "u2")},
			want:  Fail,
		},
		{
			name: "minimum record",
			typ:  Minimum,
			input: Input{
				Actual:   value.NewObject(map[string]value.Value{"status": value.FromString("open"), "owner": value.FromString("bob")}),
				Expected: value.NewObject(map[string]value.Value{"status": value.FromString("open")}),
			},
			want: Pass,
		},
		{
			name: "minimum record wrong value",
			typ:  Minimum,
			input: Input{
				Actual:   value.NewObject(map[string]value.Value{"status": value.FromString("closed")}),
				Expected: value.NewObject(map[string]value.Value{"status": value.FromString("open")}),
			},
			want: Fail,
		},
		{
			name:  "minimum shape mismatch",
			typ:   Minimum,
			input: Input{Actual: value.FromString("ten"), Expected: value.FromInt(10)},
			want:  Fail,
		},
		{
			name:  "most recent equality",
			typ:   MostRecent,
			input: Input{Actual: value.FromString("2024-01-01 10:00:00.000"), Expected: value.FromString("2024-01-01 10:00:00.000")},
			want:  Pass,
		},
		{
			name:  "earliest inequality",
			typ:   Earliest,
			input: Input{Actual: value.FromString("2024-01-02 10:00:00.000"), Expected: value.FromString("2024-01-01 10:00:00.000")},
			want:  Fail,
		},
		{
			name:  "temporal within window",
			typ:   TemporalRange,
			input: Input{Actual: value.FromString("2024-01-01 10:00:00"), Expected: value.FromString("2024-01-01 10:04:00")},
			want:  Pass,
		},
		{
			name:  "temporal outside window",
			typ:   TemporalRange,
			input: Input{Actual: value.FromString("2024-01-01 10:00:00"), Expected: value.FromString("2024-01-01 10:06:00")},
			want:  Fail,
		},
		{
			name:  "temporal boundary",
			typ:   TemporalRange,
			input: Input{Actual: value.FromString("2024-01-01 10:05:00.000"), Expected: value.FromString("2024-01-01 10:00:00")},
			want:  Pass,
		},
		{
			name:  "temporal parse failure",
			typ:   TemporalRange,
			input: Input{Actual: value.FromString("yesterday"), Expected: value.FromString("2024-01-01 10:00:00")},
			want:  Fail,
		},
		{
			name:  "top k member",
			typ:   TopK,
			input: Input{Actual: value.FromString("bob"), Expected: value.Strings("alice", "bob")},
			want:  Pass,
		},
		{
			name:  "top k non member",
			typ:   TopK,
			input: Input{Actual: value.FromString("carol"), Expected: value.Strings("alice", "bob")},
			want:  Fail,
		},
		{
			name: "top entity passes above floor",
			typ:  TopEntityThreshold,
			input: Input{
				Actual:   value.NewArray(record("A", 210)),
				Expected: value.NewArray(record("A", 250), record("B", 90)),
			},
			want: Pass,
		},
		{
			name: "top entity fails below floor",
			typ:  TopEntityThreshold,
			input: Input{
				Actual:   value.NewArray(record("A", 150)),
				Expected: value.NewArray(record("A", 250), record("B", 90)),
			},
			want: Fail,
		},
		{
			name: "top entity wrong entity",
			typ:  TopEntityThreshold,
			input: Input{
				Actual:   value.NewArray(record("B", 900)),
				Expected: value.NewArray(record("A", 250), record("B", 90)),
			},
			want: Fail,
		},
		{
			name: "top entity count alias",
			typ:  TopEntityThreshold,
			input: Input{
				Actual: value.NewArray(value.NewObject(map[string]value.Value{
					"assignee":    value.FromString("A"),
					"issue_count": value.FromInt(200),
				})),
				Expected: value.NewArray(record("A", 250)),
			},
			want: Pass,
		},
		{
			name: "top entity no reference",
			typ:  TopEntityThreshold,
			input: Input{
				Actual:   value.NewArray(record("A", 250)),
				Expected: value.NewArray(value.NewObject(map[string]value.Value{"assignee": value.FromString("A")})),
			},
			want: Fail,
		},
		{
			name:  "top entity empty actual",
			typ:   TopEntityThreshold,
			input: Input{Actual: value.NewArray(), Expected: value.NewArray(record("A", 250))},
			want:  Fail,
		},
		{
			name:  "string in response",
			typ:   Substring,
			input: Input{Actual: value.FromString("x"), Expected: value.FromString("Sprint 12"), Response: "The active sprint is Sprint 12."},
			want:  Pass,
		},
		{
			name:  "string missing",
			typ:   Substring,
			input: Input{Actual: value.FromString("x"), Expected: value.FromString("Sprint 12"), Response: "No sprint."},
			want:  Fail,
		},
		{
			name:  "numeric above",
			typ:   Numeric,
			input: Input{Actual: value.FromInt(7), Expected: value.FromInt(5), Response: "There are 7 open tickets."},
			want:  Pass,
		},
		{
			name:  "numeric below",
			typ:   Numeric,
			input: Input{Actual: value.FromInt(3), Expected: value.FromInt(5), Response: "There are 3 open tickets."},
			want:  Fail,
		},
		{
			name:  "numeric uses first integer",
			typ:   Numeric,
			input: Input{Actual: value.FromInt(9), Expected: value.FromInt(5), Response: "Only 2 of 9 tickets are open."},
			want:  Fail,
		},
		{
			name:  "dynamic is indeterminate",
			typ:   Dynamic,
			input: Input{Actual: value.FromString("anything"), Expected: value.FromString("x")},
			want:  Indeterminate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.typ, tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateNullActualAlwaysFails(t *testing.T) {
	for _, typ := range Types() {
		got, err := Evaluate(typ, Input{Expected: value.FromInt(1), Response: "1"})
		require.NoError(t, err)
		require.Equal(t, Fail, got, typ.String())
	}
}

func TestEvaluateAntiEchoAlwaysFails(t *testing.T) {
	query := "Who is assigned to PROJ-7?"
	for _, typ := range Types() {
		in := Input{
			Actual:   value.FromString("PROJ-7"),
			Expected: value.FromString("PROJ-7"),
			Query:    query,
			Response: "PROJ-7 is assigned to nobody",
		}
		got, err := Evaluate(typ, in)
		require.NoError(t, err)
		require.Equal(t, Fail, got, typ.String())
	}
}

func TestEvaluateUnknownType(t *testing.T) {
	_, err := Evaluate(Type(99), Input{Actual: value.FromInt(1)})
	require.True(t, errors.Is(err, ErrUnknownMatchType))
}

func TestEveryTypeHasStrategy(t *testing.T) {
	for _, typ := range Types() {
		strategy, err := StrategyFor(typ)
		require.NoError(t, err)
		require.NotNil(t, strategy, typ.String())
	}
}

func TestParseTypeRoundTrip(t *testing.T) {
	for _, typ := range Types() {
		parsed, err := ParseType(typ.String())
		require.NoError(t, err)
		require.Equal(t, typ, parsed)
	}
	_, err := ParseType("fuzzy")
	require.ErrorIs(t, err, ErrUnknownMatchType)
}

func TestFloorHundred(t *testing.T) {
	require.Equal(t, 200.0, floorHundred(250))
	require.Equal(t, 0.0, floorHundred(90))
	require.Equal(t, 300.0, floorHundred(300))
}
