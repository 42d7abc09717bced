// Package template provides {{field}} interpolation for text-producing nodes.
package template

import (
	"regexp"

	"github.com/dukex/flowgraph/pkg/expression"
)

var tokenPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Render replaces each {{name}} token with the string form of data[name].
// Only top-level keys are looked up; a dotted name is not a token and stays as written.
// Keys missing from data, or data that is not an object, render as "undefined".
func Render(text string, data any) string {
	return tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		name := tokenPattern.FindStringSubmatch(token)[1]

		value, ok := expression.Evaluate(name, data)
		if !ok {
			return expression.Stringify(expression.Undefined())
		}

		return expression.Stringify(value)
	})
}

// Fields lists the token names referenced by text, in order of first appearance.
func Fields(text string) []string {
	seen := map[string]bool{}

	var fields []string

	for _, match := range tokenPattern.FindAllStringSubmatch(text, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			fields = append(fields, match[1])
		}
	}

	return fields
}
