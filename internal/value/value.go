package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Kind identifies the concrete type stored in a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "record"
	case KindArray:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a JSON-shaped expected or extracted value. The zero Value is null.
type Value struct {
	Kind   Kind
	String string
	Number float64
	Bool   bool
	Object map[string]Value
	Array  []Value
}

// FromString wraps a string.
func FromString(s string) Value {
	return Value{Kind: KindString, String: s}
}

// FromInt wraps an integer.
func FromInt(n int64) Value {
	return Value{Kind: KindNumber, Number: float64(n)}
}

// FromFloat wraps a number.
func FromFloat(n float64) Value {
	return Value{Kind: KindNumber, Number: n}
}

// FromBool wraps a bool.
func FromBool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// NewObject wraps a record. A nil map yields an empty record.
func NewObject(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{Kind: KindObject, Object: fields}
}

// NewArray wraps a list.
func NewArray(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindArray, Array: items}
}

// Strings builds a list of string values.
func Strings(items ...string) Value {
	out := make([]Value, 0, len(items))
	for _, item := range items {
		out = append(out, FromString(item))
	}
	return NewArray(out...)
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// ObjectValue returns the object map when the value is an object.
func (v Value) ObjectValue() (map[string]Value, bool) {
	if v.Kind != KindObject {
		return nil, false
	}
	return v.Object, true
}

// ArrayValue returns the array slice when the value is an array.
func (v Value) ArrayValue() ([]Value, bool) {
	if v.Kind != KindArray {
		return nil, false
	}
	return v.Array, true
}

// StringValue returns the string when the value is a string.
func (v Value) StringValue() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.String, true
}

// NumberValue returns the number when the value is numeric.
func (v Value) NumberValue() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Number, true
}

// BoolValue returns the boolean when the value is a bool.
func (v Value) BoolValue() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.Bool, true
}

// IntValue returns the number as an int64 when it is integral.
func (v Value) IntValue() (int64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) || v.Number != math.Trunc(v.Number) {
		return 0, false
	}
	if v.Number > math.MaxInt64 || v.Number < math.MinInt64 {
		return 0, false
	}
	return int64(v.Number), true
}

// IsInteger reports whether the value is an integral number.
func (v Value) IsInteger() bool {
	_, ok := v.IntValue()
	return ok
}

// Field returns a record field.
func (v Value) Field(key string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	field, ok := v.Object[key]
	return field, ok
}

// Keys returns the record keys in sorted order.
func (v Value) Keys() []string {
	if v.Kind != KindObject {
		return nil
	}
	keys := make([]string, 0, len(v.Object))
	for key := range v.Object {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports structural equality. Numbers compare by value.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindString:
		return v.String == other.String
	case KindNumber:
		return v.Number == other.Number
	case KindBool:
		return v.Bool == other.Bool
	case KindObject:
		if len(v.Object) != len(other.Object) {
			return false
		}
		for key, field := range v.Object {
			otherField, ok := other.Object[key]
			if !ok || !field.Equal(otherField) {
				return false
			}
		}
		return true
	case KindArray:
		if len(v.Array) != len(other.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(other.Array[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Contains reports whether an array holds an element equal to item.
func (v Value) Contains(item Value) bool {
	for _, element := range v.Array {
		if element.Equal(item) {
			return true
		}
	}
	return false
}

// Text renders the value the way it would read in prose: strings raw,
// numbers without exponent, everything else as compact JSON.
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.String
	case KindNumber:
		return formatNumber(v.Number)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNull:
		return ""
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// Key returns a canonical string usable as a set key.
func (v Value) Key() string {
	data, err := json.Marshal(v)
	if err != nil {
		return v.Kind.String()
	}
	return string(data)
}

// ToInterface converts the Value into standard Go JSON types.
func (v Value) ToInterface() interface{} {
	switch v.Kind {
	case KindObject:
		out := make(map[string]interface{}, len(v.Object))
		for key, value := range v.Object {
			out[key] = value.ToInterface()
		}
		return out
	case KindArray:
		out := make([]interface{}, 0, len(v.Array))
		for _, value := range v.Array {
			out = append(out, value.ToInterface())
		}
		return out
	case KindString:
		return v.String
	case KindNumber:
		return v.Number
	case KindBool:
		return v.Bool
	default:
		return nil
	}
}

// MarshalJSON encodes the value; integral numbers are written without a fraction.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.String)
	case KindNumber:
		if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
			return nil, fmt.Errorf("unsupported number %v", v.Number)
		}
		return []byte(formatNumber(v.Number)), nil
	case KindBool:
		return json.Marshal(v.Bool)
	case KindObject:
		fields := v.Object
		if fields == nil {
			fields = map[string]Value{}
		}
		return json.Marshal(fields)
	case KindArray:
		items := v.Array
		if items == nil {
			items = []Value{}
		}
		return json.Marshal(items)
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.Kind)
	}
}

// UnmarshalJSON decodes a JSON value into the typed Value representation.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty json value")
	}
	switch trimmed[0] {
	case '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		*v = Value{Kind: KindObject, Object: make(map[string]Value, len(raw))}
		for key, value := range raw {
			var child Value
			if err := json.Unmarshal(value, &child); err != nil {
				return err
			}
			v.Object[key] = child
		}
		return nil
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		*v = Value{Kind: KindArray, Array: make([]Value, 0, len(raw))}
		for _, value := range raw {
			var child Value
			if err := json.Unmarshal(value, &child); err != nil {
				return err
			}
			v.Array = append(v.Array, child)
		}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = FromString(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = FromBool(b)
		return nil
	case 'n':
		if string(trimmed) != "null" {
			return fmt.Errorf("invalid json literal")
		}
		*v = Value{}
		return nil
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return err
		}
		*v = FromFloat(n)
		return nil
	}
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
