package object

import (
	"encoding/json"
	"strconv"

	"github.com/NatyaLunenok/telegram-aggregator/internal/errs"
)

// Object is the canonical shape for every payload coming back from the
// messaging client. Results are normalized into it exactly once at the
// client boundary; the rest of the pipeline never branches on shape again.
type Object map[string]any

// Normalize converts any accepted external result shape into an Object.
// Accepted shapes: Object, map[string]any, raw JSON bytes, or any value
// that survives a JSON round-trip into a mapping.
func Normalize(v any) (Object, error) {
	switch value := v.(type) {
	case nil:
		return nil, errs.WrapUnexpectedType("mapping", v)
	case Object:
		return value, nil
	case map[string]any:
		return Object(value), nil
	case json.RawMessage:
		return decode([]byte(value))
	case []byte:
		return decode(value)
	default:
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, errs.WrapUnexpectedType("mapping", v)
		}
		return decode(raw)
	}
}

func decode(raw []byte) (Object, error) {
	var obj Object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, errs.WrapUnexpectedType("mapping", string(raw))
	}
	return obj, nil
}

// Has reports whether every given key is present.
func (obj Object) Has(keys ...string) bool {
	for _, key := range keys {
		if _, ok := obj[key]; !ok {
			return false
		}
	}
	return true
}

// Child returns a nested mapping under the key.
func (obj Object) Child(key string) (Object, bool) {
	switch value := obj[key].(type) {
	case Object:
		return value, true
	case map[string]any:
		return Object(value), true
	default:
		return nil, false
	}
}

// Slice returns a list of nested mappings under the key.
func (obj Object) Slice(key string) []Object {
	raw, ok := obj[key].([]any)
	if !ok {
		return nil
	}
	items := make([]Object, 0, len(raw))
	for _, item := range raw {
		switch value := item.(type) {
		case Object:
			items = append(items, value)
		case map[string]any:
			items = append(items, Object(value))
		}
	}
	return items
}

// Int64 returns an integer value under the key. JSON numbers arrive as
// float64, identifiers may also come through as strings or native ints.
func (obj Object) Int64(key string) (int64, bool) {
	switch value := obj[key].(type) {
	case int64:
		return value, true
	case int:
		return int64(value), true
	case float64:
		return int64(value), true
	case json.Number:
		parsed, err := value.Int64()
		return parsed, err == nil
	case string:
		parsed, err := strconv.ParseInt(value, 10, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

// String returns a string value under the key, or empty.
func (obj Object) String(key string) string {
	value, _ := obj[key].(string)
	return value
}

// Bool returns a boolean value under the key, or false.
func (obj Object) Bool(key string) bool {
	value, _ := obj[key].(bool)
	return value
}

// Strings returns a list of string values under the key.
func (obj Object) Strings(key string) []string {
	raw, ok := obj[key].([]any)
	if !ok {
		return nil
	}
	items := make([]string, 0, len(raw))
	for _, item := range raw {
		if value, ok := item.(string); ok {
			items = append(items, value)
		}
	}
	return items
}
