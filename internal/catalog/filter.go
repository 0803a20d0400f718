package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
)

// Filter is a compiled CEL predicate over an item. A nil *Filter matches
// everything.
type Filter struct {
	expr string
	prog cel.Program
}

var (
	filterEnvOnce sync.Once
	filterEnv     *cel.Env
	filterEnvErr  error

	// compiled programs keyed by expression; search typing recompiles the
	// same few expressions for every page.
	filterCache sync.Map
)

func env() (*cel.Env, error) {
	filterEnvOnce.Do(func() {
		filterEnv, filterEnvErr = cel.NewEnv(
			cel.Variable("name", cel.StringType),
			cel.Variable("id", cel.StringType),
			cel.Variable("created_ms", cel.IntType),
			cel.Variable("attrs", cel.MapType(cel.StringType, cel.StringType)),
		)
	})
	return filterEnv, filterEnvErr
}

// CompileFilter parses and type-checks expr. Blank expressions yield nil.
func CompileFilter(expr string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}
	if f, ok := filterCache.Load(expr); ok {
		return f.(*Filter), nil
	}
	e, err := env()
	if err != nil {
		return nil, err
	}
	ast, iss := e.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: filter must be boolean, got %v", ErrInvalidQuery, ast.OutputType())
	}
	prog, err := e.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	f := &Filter{expr: expr, prog: prog}
	filterCache.Store(expr, f)
	return f, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expr
}

// Match evaluates the filter against it. Evaluation errors count as no match.
func (f *Filter) Match(it Item) bool {
	if f == nil {
		return true
	}
	attrs := it.Attrs
	if attrs == nil {
		attrs = map[string]string{}
	}
	out, _, err := f.prog.Eval(map[string]any{
		"name":       it.Name,
		"id":         it.ID,
		"created_ms": it.CreatedMs,
		"attrs":      attrs,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

// SearchFilter returns the filter for a name substring search. Blank text
// means no filter. Invalid UTF-8 is replaced with U+FFFD before quoting, so
// the literal always reads back as the same text.
func SearchFilter(text string) string {
	if text == "" {
		return ""
	}
	return "name.contains(" + strconv.Quote(strings.ToValidUTF8(text, "\uFFFD")) + ")"
}
