package expression

import (
	"encoding/json"
	"math"
	"strconv"
)

// Stringify renders a value the way it appears inside interpolated text.
// Absent values render as "undefined", nil as "null", and whole floats without a fraction.
// Objects and arrays render as JSON.
func Stringify(v any) string {
	switch val := v.(type) {
	case undefined:
		return "undefined"
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case json.Number:
		return val.String()
	}

	if f, ok := ToFloat(v); ok {
		return formatFloat(f)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "undefined"
	}

	return string(b)
}

// Undefined returns the marker for an absent value, for callers that need to tell it apart
// from an explicit nil.
func Undefined() any {
	return undefined{}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
