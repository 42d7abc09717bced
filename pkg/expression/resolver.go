// Package expression resolves dotted property paths and single-comparison conditions
// against a data scope.
package expression

import (
	"reflect"
	"strings"
)

// Evaluate walks scope one property at a time following the dotted path.
// The boolean reports whether the path resolved: a present nil value returns (nil, true),
// an absent segment returns (nil, false). Evaluate never panics.
func Evaluate(path string, scope any) (value any, found bool) {
	if path == "" {
		return nil, false
	}

	defer func() {
		if recover() != nil {
			value, found = nil, false
		}
	}()

	current := scope

	for _, segment := range strings.Split(path, ".") {
		next, ok := property(current, segment)
		if !ok {
			return nil, false
		}

		current = next
	}

	return current, true
}

// Lookup is Evaluate without the presence flag.
func Lookup(path string, scope any) any {
	v, _ := Evaluate(path, scope)

	return v
}

func property(container any, key string) (any, bool) {
	switch m := container.(type) {
	case nil:
		return nil, false
	case map[string]any:
		v, ok := m[key]

		return v, ok
	case map[string]string:
		v, ok := m[key]

		return v, ok
	}

	rv := reflect.ValueOf(container)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}

	return v.Interface(), true
}

// AsSlice reports whether v is an array value and returns its elements.
func AsSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case []any:
		return s, true
	case []map[string]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}

		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	// []byte is a string payload, not a list of items
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out, true
}
