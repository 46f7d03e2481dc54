// Package filter selects decoded records with boolean expressions such as
// "type == 'A' && shares > 100". Field names are the JSON keys produced by
// the render package.
package filter

import (
	"fmt"
	"strings"

	"github.com/casbin/govaluate"

	"github.com/ismaiel54/itch50-decoder/internal/itch"
	"github.com/ismaiel54/itch50-decoder/internal/render"
)

// Filter is a compiled expression. A nil *Filter matches everything.
type Filter struct {
	source string
	expr   *govaluate.EvaluableExpression
	vars   []string
}

// Compile parses expr. An empty expression yields a nil filter.
func Compile(expr string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}
	compiled, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse filter %q: %w", expr, err)
	}
	return &Filter{source: expr, expr: compiled, vars: compiled.Vars()}, nil
}

// String returns the expression source.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}

// Match evaluates the filter against rec. A record that lacks a field the
// expression names does not match.
func (f *Filter) Match(rec itch.Record) (bool, error) {
	if f == nil {
		return true, nil
	}
	params := render.Fields(rec)
	for _, name := range f.vars {
		if _, ok := params[name]; !ok {
			return false, nil
		}
	}

	result, err := f.expr.Evaluate(params)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter %q: %w", f.source, err)
	}
	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %T, want bool", f.source, result)
	}
	return matched, nil
}
