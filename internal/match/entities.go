package match

import "chatcheck/internal/value"

// CountKey is the canonical count field of a ranked entity record.
const CountKey = "count"

// EntityKeys are the identifier fields recognised on ranked entity records,
// in lookup order.
var EntityKeys = []string{"assignee", "entity", "name", "user", "id"}

// CountAliases are alternate count fields folded into CountKey.
var CountAliases = []string{"total", "issue_count", "ticket_count", "num_issues", "tickets"}

// topEntityStrategy picks the highest-count expected record and accepts an
// actual record for the same entity whose count reaches the reference count
// rounded down to the nearest hundred.
type topEntityStrategy struct{}

func (topEntityStrategy) Evaluate(in Input) Outcome {
	actual, ok := recordList(in.Actual)
	if !ok {
		return Fail
	}
	expected, ok := recordList(in.Expected)
	if !ok {
		return Fail
	}
	key, entity, count, ok := referenceRecord(expected)
	if !ok {
		return Fail
	}
	floor := floorHundred(count)
	for _, record := range actual {
		record = NormalizeCount(record)
		got, ok := record.Field(key)
		if !ok || !got.Equal(entity) {
			continue
		}
		gotCount, ok := record.Field(CountKey)
		if !ok {
			continue
		}
		if n, ok := gotCount.NumberValue(); ok && n >= floor {
			return Pass
		}
	}
	return Fail
}

// EntityKey returns the first recognised identifier field of a record.
func EntityKey(record value.Value) (string, bool) {
	for _, key := range EntityKeys {
		if _, ok := record.Field(key); ok {
			return key, true
		}
	}
	return "", false
}

// NormalizeCount copies the first count alias into CountKey when the record
// has no CountKey of its own.
func NormalizeCount(record value.Value) value.Value {
	fields, ok := record.ObjectValue()
	if !ok {
		return record
	}
	if _, ok := fields[CountKey]; ok {
		return record
	}
	for _, alias := range CountAliases {
		aliased, ok := fields[alias]
		if !ok {
			continue
		}
		out := make(map[string]value.Value, len(fields)+1)
		for key, field := range fields {
			out[key] = field
		}
		out[CountKey] = aliased
		return value.NewObject(out)
	}
	return record
}

// referenceRecord selects the expected record with the highest count among
// those carrying both an identifier and a numeric count.
func referenceRecord(records []value.Value) (string, value.Value, float64, bool) {
	var (
		bestKey    string
		bestEntity value.Value
		bestCount  float64
		found      bool
	)
	for _, record := range records {
		key, ok := EntityKey(record)
		if !ok {
			continue
		}
		countField, ok := record.Field(CountKey)
		if !ok {
			continue
		}
		count, ok := countField.NumberValue()
		if !ok {
			continue
		}
		if !found || count > bestCount {
			entity, _ := record.Field(key)
			bestKey, bestEntity, bestCount, found = key, entity, count, true
		}
	}
	return bestKey, bestEntity, bestCount, found
}

// recordList returns a non-empty list whose elements are all records.
func recordList(v value.Value) ([]value.Value, bool) {
	items, ok := v.ArrayValue()
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
