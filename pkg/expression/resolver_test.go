package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	scope := map[string]any{
		"a": map[string]any{
			"b":    "x",
			"nil":  nil,
			"list": []any{1, 2},
		},
		"labels": map[string]string{"env": "prod"},
		"scores": map[string]int{"alice": 10},
		"name":   "root",
	}

	testCases := []struct {
		name      string
		path      string
		wantValue any
		wantFound bool
	}{
		{name: "top level", path: "name", wantValue: "root", wantFound: true},
		{name: "nested", path: "a.b", wantValue: "x", wantFound: true},
		{name: "present null", path: "a.nil", wantValue: nil, wantFound: true},
		{name: "missing leaf", path: "a.c", wantValue: nil, wantFound: false},
		{name: "missing intermediate", path: "x.y.z", wantValue: nil, wantFound: false},
		{name: "through null", path: "a.nil.deeper", wantValue: nil, wantFound: false},
		{name: "through scalar", path: "name.length", wantValue: nil, wantFound: false},
		{name: "array index unsupported", path: "a.list.0", wantValue: nil, wantFound: false},
		{name: "string map", path: "labels.env", wantValue: "prod", wantFound: true},
		{name: "typed map", path: "scores.alice", wantValue: 10, wantFound: true},
		{name: "empty path", path: "", wantValue: nil, wantFound: false},
		{name: "trailing dot", path: "a.", wantValue: nil, wantFound: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			value, found := Evaluate(tc.path, scope)
			assert.Equal(t, tc.wantFound, found)
			assert.Equal(t, tc.wantValue, value)
		})
	}
}

func TestEvaluate_NonMapScope(t *testing.T) {
	assert.NotPanics(t, func() {
		_, found := Evaluate("a.b", nil)
		assert.False(t, found)

		_, found = Evaluate("a", 42)
		assert.False(t, found)

		_, found = Evaluate("a", []any{"a"})
		assert.False(t, found)
	})
}

func TestLookup(t *testing.T) {
	scope := map[string]any{"data": map[string]any{"id": "42"}}

	assert.Equal(t, "42", Lookup("data.id", scope))
	assert.Nil(t, Lookup("data.missing", scope))
}

func TestAsSlice(t *testing.T) {
	items, ok := AsSlice([]any{1, 2, 3})
	assert.True(t, ok)
	assert.Equal(t, []any{1, 2, 3}, items)

	items, ok = AsSlice([]int{4, 5})
	assert.True(t, ok)
	assert.Equal(t, []any{4, 5}, items)

	items, ok = AsSlice([]map[string]any{{"a": 1}})
	assert.True(t, ok)
	assert.Len(t, items, 1)

	items, ok = AsSlice([]any{})
	assert.True(t, ok)
	assert.Empty(t, items)

	for _, v := range []any{nil, "abc", []byte("abc"), 3, map[string]any{"0": 1}} {
		_, ok := AsSlice(v)
		assert.False(t, ok, "%#v", v)
	}
}
