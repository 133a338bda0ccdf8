package jsontree

import (
	"fmt"
	"strings"

	"github.com/jmespath/go-jmespath"
)

// Query evaluates a JMESPath expression against v. An empty expression
// returns v unchanged.
func Query(v Value, expr string) (Value, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return v, nil
	}
	compiled, err := jmespath.Compile(expr)
	if err != nil {
		return NullValue(), fmt.Errorf("compile query: %w", err)
	}
	result, err := compiled.Search(v.Interface())
	if err != nil {
		return NullValue(), fmt.Errorf("run query: %w", err)
	}
	return FromValue(result), nil
}
