// Package normalize rewrites epoch-millisecond timestamps in assistant
// responses into readable date-times before extraction runs.
package normalize

import (
	"regexp"
	"strconv"
	"time"
)

// Layout is the rendered date-time form.
const Layout = "2006-01-02 15:04:05"

var epochMillisToken = regexp.MustCompile(`\b1\d{12,13}\b`)

// Normalizer renders epoch-millisecond values in a fixed location.
// The zero value renders in UTC.
type Normalizer struct {
	Location *time.Location
}

// Timestamp converts a 13-digit epoch-millisecond string into Layout form and
// returns any other input unchanged.
func (n Normalizer) Timestamp(value string) string {
	if len(value) != 13 || !allDigits(value) {
		return value
	}
	millis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return value
	}
	return n.render(millis)
}

// Rewrite replaces every standalone 13-14 digit token starting with 1 with its
// rendered date-time.
func (n Normalizer) Rewrite(text string) string {
	return epochMillisToken.ReplaceAllStringFunc(text, func(token string) string {
		millis, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return token
		}
		return n.render(millis)
	})
}

func (n Normalizer) render(millis int64) string {
	loc := n.Location
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(millis).In(loc).Format(Layout)
}

// NormalizeTimestamp is Normalizer{}.Timestamp.
func NormalizeTimestamp(value string) string {
	return Normalizer{}.Timestamp(value)
}

// RewriteTimestamps is Normalizer{}.Rewrite.
func RewriteTimestamps(text string) string {
	return Normalizer{}.Rewrite(text)
}

func allDigits(value string) bool {
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
