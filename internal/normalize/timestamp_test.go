package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "epoch millis", input: "1700000000000", want: "2023-11-14 22:13:20"},
		{name: "twelve digits", input: "170000000000", want: "170000000000"},
		{name: "fourteen digits", input: "17000000000000", want: "17000000000000"},
		{name: "non digit", input: "17000000000x0", want: "17000000000x0"},
		{name: "word", input: "alice", want: "alice"},
		{name: "empty", input: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NormalizeTimestamp(tt.input))
		})
	}
}

func TestRewriteTimestamps(t *testing.T) {
	text := "Created at 1700000000000, updated 1700000060000. Ticket 12345 and id 2700000000000 stay."
	got := RewriteTimestamps(text)
	require.Equal(t,
		"Created at 2023-11-14 22:13:20, updated 2023-11-14 22:14:20. Ticket 12345 and id 2700000000000 stay.",
		got,
	)
}

func TestRewriteTimestampsIsIdempotent(t *testing.T) {
	once := RewriteTimestamps("last seen 1700000000000")
	require.Equal(t, once, RewriteTimestamps(once))
}

func TestRewriteTimestampsIgnoresEmbeddedDigits(t *testing.T) {
	text := "order ab1700000000000 and 1700000000000ms"
	require.Equal(t, text, RewriteTimestamps(text))
}

func TestNormalizerLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	n := Normalizer{Location: loc}
	require.Equal(t, "2023-11-15 00:13:20", n.Timestamp("1700000000000"))
	require.Equal(t, "at 2023-11-15 00:13:20", n.Rewrite("at 1700000000000"))
}
