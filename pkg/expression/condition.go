package expression

import (
	"math"
	"strconv"
	"strings"
)

// Operators in match order. Two-character operators come first so ">=" is not read as ">".
var operators = []string{"===", "!==", ">=", "<=", ">", "<"}

// undefined marks a path that did not resolve.
type undefined struct{}

// EvaluateCondition evaluates "<path> <op> <literal>" against scope. Without an operator
// it reports the truthiness of the resolved path. Malformed input evaluates to false.
func EvaluateCondition(expr string, scope any) (result bool) {
	defer func() {
		if recover() != nil {
			result = false
		}
	}()

	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false
	}

	for _, op := range operators {
		idx := strings.Index(expr, op)
		if idx < 0 {
			continue
		}

		left := strings.TrimSpace(expr[:idx])
		right := strings.TrimSpace(expr[idx+len(op):])

		var leftValue any = undefined{}
		if v, ok := Evaluate(left, scope); ok {
			leftValue = v
		}

		return compare(leftValue, op, ParseLiteral(right))
	}

	v, ok := Evaluate(expr, scope)
	if !ok {
		return false
	}

	return Truthy(v)
}

// ParseLiteral converts the right-hand side of a condition into a value:
// true/false, null, a quoted string, or a float64 (NaN when unparseable).
func ParseLiteral(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}

	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return raw[1 : len(raw)-1]
		}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}

	return f
}

func compare(left any, op string, right any) bool {
	switch op {
	case "===":
		return StrictEqual(left, right)
	case "!==":
		return !StrictEqual(left, right)
	}

	ls, lok := left.(string)
	rs, rok := right.(string)

	if lok && rok {
		switch op {
		case ">=":
			return ls >= rs
		case "<=":
			return ls <= rs
		case ">":
			return ls > rs
		case "<":
			return ls < rs
		}

		return false
	}

	lf, lok := toNumber(left)
	rf, rok := toNumber(right)

	if !lok || !rok {
		return false
	}

	switch op {
	case ">=":
		return lf >= rf
	case "<=":
		return lf <= rf
	case ">":
		return lf > rf
	case "<":
		return lf < rf
	}

	return false
}

// StrictEqual compares without type coercion. All numeric kinds compare as numbers;
// NaN never equals anything.
func StrictEqual(left, right any) bool {
	if _, ok := left.(undefined); ok {
		_, ok := right.(undefined)

		return ok
	}

	if lf, ok := ToFloat(left); ok {
		rf, ok := ToFloat(right)

		return ok && lf == rf
	}

	switch l := left.(type) {
	case nil:
		return right == nil
	case string:
		r, ok := right.(string)

		return ok && l == r
	case bool:
		r, ok := right.(bool)

		return ok && l == r
	}

	return false
}

// ToFloat converts numeric values to float64. Strings and booleans are not numbers.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}

	return 0, false
}

// toNumber is ToFloat that also reads numeric strings, so "20" > 10 holds.
func toNumber(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)

		return f, err == nil
	}

	return ToFloat(v)
}

// Truthy applies loose truthiness: nil, false, 0, NaN and "" are false, everything else true.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil, undefined:
		return false
	case bool:
		return val
	case string:
		return val != ""
	}

	if f, ok := ToFloat(v); ok {
		return f != 0 && !math.IsNaN(f)
	}

	return true
}
