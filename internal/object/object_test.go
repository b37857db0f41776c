package object

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeShapes(t *testing.T) {
	testcases := []struct {
		Name  string
		Input any
	}{
		{
			Name:  "Plain mapping",
			Input: map[string]any{"id": float64(1)},
		},
		{
			Name:  "Already canonical",
			Input: Object{"id": float64(1)},
		},
		{
			Name:  "Raw JSON bytes",
			Input: []byte(`{"id": 1}`),
		},
		{
			Name:  "JSON raw message",
			Input: json.RawMessage(`{"id": 1}`),
		},
		{
			Name: "Struct via round-trip",
			Input: struct {
				ID int64 `json:"id"`
			}{ID: 1},
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.Name, func(t *testing.T) {
			obj, err := Normalize(testcase.Input)
			require.NoError(t, err)

			id, ok := obj.Int64("id")
			require.True(t, ok)
			require.Equal(t, int64(1), id)
		})
	}
}

func TestNormalizeRejectsNonMappings(t *testing.T) {
	_, err := Normalize(nil)
	require.Error(t, err)

	_, err = Normalize([]byte(`[1, 2, 3]`))
	require.Error(t, err)
}

func TestInt64Coercion(t *testing.T) {
	obj := Object{
		"float":  float64(42),
		"int":    42,
		"int64":  int64(42),
		"string": "42",
		"number": json.Number("42"),
		"junk":   "not a number",
	}

	for _, key := range []string{"float", "int", "int64", "string", "number"} {
		value, ok := obj.Int64(key)
		require.True(t, ok, key)
		require.Equal(t, int64(42), value, key)
	}

	_, ok := obj.Int64("junk")
	require.False(t, ok)
	_, ok = obj.Int64("absent")
	require.False(t, ok)
}

func TestChildAndSlice(t *testing.T) {
	obj := Object{
		"nested": map[string]any{"inner": "value"},
		"items":  []any{map[string]any{"a": "1"}, Object{"a": "2"}, "not a mapping"},
	}

	nested, ok := obj.Child("nested")
	require.True(t, ok)
	require.Equal(t, "value", nested.String("inner"))

	_, ok = obj.Child("absent")
	require.False(t, ok)

	items := obj.Slice("items")
	require.Len(t, items, 2)
	require.Equal(t, "1", items[0].String("a"))
	require.Equal(t, "2", items[1].String("a"))
}

func TestHasAndStrings(t *testing.T) {
	obj := Object{
		"id":    float64(1),
		"type":  "chat",
		"names": []any{"one", "two", float64(3)},
	}

	require.True(t, obj.Has("id", "type"))
	require.False(t, obj.Has("id", "missing"))
	require.Equal(t, []string{"one", "two"}, obj.Strings("names"))
}
