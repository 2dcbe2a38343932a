// Package extract pulls a typed answer out of an assistant's free-text
// response. The shape of the expected value decides what is searched for.
package extract

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"chatcheck/internal/match"
	"chatcheck/internal/normalize"
	"chatcheck/internal/value"
)

var (
	integerToken  = regexp.MustCompile(`\b\d+\b`)
	dateTimeToken = regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?`)
	emailToken    = regexp.MustCompile(`[\w.-]+@[\w.-]+`)
	uuidToken     = regexp.MustCompile(`\b\w{8}-\w{4}-\w{4}-\w{4}-\w{12}\b`)
	wordToken     = regexp.MustCompile(`\b\w[\w-]+`)
	listMarker    = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)
	trailingJoin  = regexp.MustCompile(`(?i)\s+(?:and|&)$`)
)

// Entity names shorter than this are matched case-sensitively so that a
// name like "A" does not match the article "a".
const shortEntityName = 3

// Extract returns the value found in response for an expectation shaped like
// expected, or null when nothing usable is present.
func Extract(response string, expected value.Value) value.Value {
	switch expected.Kind {
	case value.KindNumber:
		return Integer(response, expected)
	case value.KindString:
		return String(response)
	case value.KindArray:
		return List(response, expected)
	case value.KindObject:
		return Record(response, expected)
	default:
		return value.Value{}
	}
}

// ForMatch is Extract for a specific match type. A top_k_match expectation
// lists acceptable answers, so the response is read as one answer shaped like
// the first candidate.
func ForMatch(matchType match.Type, response string, expected value.Value) value.Value {
	if matchType == match.TopK {
		if items, ok := expected.ArrayValue(); ok && len(items) > 0 {
			return Extract(response, items[0])
		}
	}
	return Extract(response, expected)
}

// Integer returns the last standalone integer in response. Earlier integers
// are usually the question being restated. Non-integral expectations never
// match.
func Integer(response string, expected value.Value) value.Value {
	if !expected.IsInteger() {
		return value.Value{}
	}
	tokens := integerToken.FindAllString(response, -1)
	if len(tokens) == 0 {
		return value.Value{}
	}
	n, err := strconv.ParseInt(tokens[len(tokens)-1], 10, 64)
	if err != nil {
		return value.Value{}
	}
	return value.FromInt(n)
}

// String returns the most specific token in response: a date-time, then an
// email address, then a UUID, then the first word.
func String(response string) value.Value {
	if token := dateTimeToken.FindString(response); token != "" {
		if !strings.Contains(token, ".") {
			token += ".000"
		}
		return value.FromString(token)
	}
	if token := email(response); token != "" {
		return value.FromString(normalize.NormalizeTimestamp(token))
	}
	if ids := uuids(response); len(ids) > 0 {
		return value.FromString(normalize.NormalizeTimestamp(ids[0]))
	}
	if token := wordToken.FindString(response); token != "" {
		return value.FromString(normalize.NormalizeTimestamp(token))
	}
	return value.Value{}
}

// List returns every UUID in response in order of appearance, duplicates
// included. When the expectation is a list of records the response is read
// as ranked entity rows instead.
func List(response string, expected value.Value) value.Value {
	if records, ok := recordExpectations(expected); ok {
		return entityRows(response, records)
	}
	ids := uuids(response)
	if len(ids) == 0 {
		return value.Value{}
	}
	return value.Strings(ids...)
}

// email returns the first address in text without sentence punctuation.
func email(text string) string {
	return strings.TrimRight(emailToken.FindString(text), ".")
}

func uuids(response string) []string {
	var out []string
	for _, token := range uuidToken.FindAllString(response, -1) {
		if _, err := uuid.Parse(token); err != nil {
			continue
		}
		out = append(out, token)
	}
	return out
}

func recordExpectations(expected value.Value) ([]value.Value, bool) {
	items, ok := expected.ArrayValue()
	if !ok || len(items) == 0 {
		return nil, false
	}
	for _, item := range items {
		if item.Kind != value.KindObject {
			return nil, false
		}
	}
	return items, true
}

// entityRows reads {<entity key>: name, count: n} records from the response.
// Each known entity named on a line is paired with the first integer after
// it. Lines naming no known entity yield one row from the identifier ahead of
// the first integer.
func entityRows(response string, expected []value.Value) value.Value {
	key := "entity"
	var known []string
	for _, record := range expected {
		if k, ok := match.EntityKey(record); ok {
			if key == "entity" {
				key = k
			}
			if name, ok := record.Object[k].StringValue(); ok && name != "" {
				known = append(known, name)
			}
		}
	}
	patterns := entityPatterns(known)

	var rows []value.Value
	row := func(entity string, count int64) {
		rows = append(rows, value.NewObject(map[string]value.Value{
			key:            value.FromString(entity),
			match.CountKey: value.FromInt(count),
		}))
	}
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		spans := findEntities(line, patterns)
		if len(spans) == 0 {
			loc := integerToken.FindStringIndex(line)
			if loc == nil {
				continue
			}
			count, err := strconv.ParseInt(line[loc[0]:loc[1]], 10, 64)
			if err != nil {
				continue
			}
			if entity := identifier(line[:loc[0]]); entity != "" {
				row(entity, count)
			}
			continue
		}
		for i, span := range spans {
			end := len(line)
			if i+1 < len(spans) {
				end = spans[i+1].start
			}
			count, ok := firstInteger(line[span.end:end])
			if !ok && len(spans) == 1 {
				count, ok = lastInteger(line[:span.start])
			}
			if ok {
				row(span.name, count)
			}
		}
	}
	if len(rows) == 0 {
		return value.Value{}
	}
	return value.NewArray(rows...)
}

type entityPattern struct {
	name    string
	pattern *regexp.Regexp
}

type entitySpan struct {
	name       string
	start, end int
}

func entityPatterns(known []string) []entityPattern {
	out := make([]entityPattern, 0, len(known))
	for _, name := range known {
		flags := "(?i)"
		if utf8.RuneCountInString(name) < shortEntityName {
			flags = ""
		}
		out = append(out, entityPattern{
			name:    name,
			pattern: regexp.MustCompile(flags + `(?:^|\W)(` + regexp.QuoteMeta(name) + `)(?:$|\W)`),
		})
	}
	return out
}

// findEntities returns the known names on line in order of appearance. A
// longer name wins over a shorter one at the same position.
func findEntities(line string, patterns []entityPattern) []entitySpan {
	var spans []entitySpan
	for _, p := range patterns {
		for _, m := range p.pattern.FindAllStringSubmatchIndex(line, -1) {
			spans = append(spans, entitySpan{name: p.name, start: m[2], end: m[3]})
		}
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})
	out := spans[:0]
	lastEnd := -1
	for _, span := range spans {
		if span.start < lastEnd {
			continue
		}
		out = append(out, span)
		lastEnd = span.end
	}
	return out
}

// identifier returns the most specific identifier token in text.
func identifier(text string) string {
	if token := email(text); token != "" {
		return token
	}
	if ids := uuids(text); len(ids) > 0 {
		return ids[0]
	}
	if token := wordToken.FindString(text); token != "" {
		return strings.TrimRight(token, "-")
	}
	return ""
}

func firstInteger(text string) (int64, bool) {
	token := integerToken.FindString(text)
	if token == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(token, 10, 64)
	return n, err == nil
}

func lastInteger(text string) (int64, bool) {
	tokens := integerToken.FindAllString(text, -1)
	if len(tokens) == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(tokens[len(tokens)-1], 10, 64)
	return n, err == nil
}

// Record extracts each expected key from "key: value" or "key=value" text.
// A value ends at the next expected label or at a delimiter. A key whose
// labelled form is missing still counts when the expected value appears
// verbatim in the response. Missing keys are omitted.
func Record(response string, expected value.Value) value.Value {
	fields, ok := expected.ObjectValue()
	if !ok {
		return value.Value{}
	}
	keys := expected.Keys()
	labels := make(map[string]*regexp.Regexp, len(keys))
	for _, key := range keys {
		labels[key] = labelPattern(key)
	}
	out := make(map[string]value.Value, len(fields))
	for _, key := range keys {
		want := fields[key]
		if got, ok := labelled(response, key, labels, want); ok {
			out[key] = got
			continue
		}
		if literal := want.Text(); literal != "" && !want.IsNull() && strings.Contains(response, literal) {
			out[key] = want
		}
	}
	if len(out) == 0 {
		return value.Value{}
	}
	return value.NewObject(out)
}

func labelPattern(key string) *regexp.Regexp {
	label := strings.ReplaceAll(regexp.QuoteMeta(key), "_", "[_ ]")
	return regexp.MustCompile(`(?i)\b` + label + `\s*[:=]\s*`)
}

func labelled(response, key string, labels map[string]*regexp.Regexp, want value.Value) (value.Value, bool) {
	loc := labels[key].FindStringIndex(response)
	if loc == nil {
		return value.Value{}, false
	}
	rest := strings.TrimPrefix(response[loc[1]:], `"`)
	end := len(rest)
	if i := strings.IndexAny(rest, "\",;\n"); i >= 0 {
		end = i
	}
	if i := strings.Index(rest[:end], ". "); i >= 0 {
		end = i
	}
	for other, pattern := range labels {
		if other == key {
			continue
		}
		if next := pattern.FindStringIndex(rest[:end]); next != nil {
			end = next[0]
		}
	}
	token := trailingJoin.ReplaceAllString(strings.TrimSpace(rest[:end]), "")
	return coerce(token, want)
}

// coerce converts a captured token to the kind of the expected field.
func coerce(token string, want value.Value) (value.Value, bool) {
	if token == "" {
		return value.Value{}, false
	}
	switch want.Kind {
	case value.KindNumber:
		numeric := strings.TrimRight(token, ".")
		if fields := strings.Fields(numeric); len(fields) > 0 {
			numeric = fields[0]
		}
		n, err := strconv.ParseFloat(numeric, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return value.Value{}, false
		}
		return value.FromFloat(n), true
	case value.KindBool:
		b, err := strconv.ParseBool(strings.ToLower(token))
		if err != nil {
			return value.Value{}, false
		}
		return value.FromBool(b), true
	case value.KindString:
		return value.FromString(normalize.NormalizeTimestamp(strings.TrimRight(token, "."))), true
	default:
		return value.Value{}, false
	}
}
