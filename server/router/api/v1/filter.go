package v1

import (
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	apierrors "github.com/hrygo/timenorm/server/internal/errors"
	"github.com/hrygo/timenorm/server/internal/timeout"
)

const (
	filterCostLimit  = 10000
	maxCachedFilters = 256
)

// filterEnv compiles annotation filters. Compiled programs are cached by
// expression text.
type filterEnv struct {
	env *cel.Env

	mu       sync.RWMutex
	programs map[string]cel.Program
}

// annotationFilter is a compiled filter expression.
type annotationFilter struct {
	expr    string
	program cel.Program
}

func newFilterEnv() (*filterEnv, error) {
	env, err := cel.NewEnv(
		cel.Variable("annotation", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create filter env")
	}
	return &filterEnv{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

func (f *filterEnv) compile(expr string) (*annotationFilter, error) {
	f.mu.RLock()
	program, ok := f.programs[expr]
	f.mu.RUnlock()
	if ok {
		return &annotationFilter{expr: expr, program: program}, nil
	}

	ast, issues := f.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, apierrors.InvalidArgument("invalid filter", issues.Err()).WithContext("filter", timeout.Truncate(expr))
	}
	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, apierrors.InvalidArgument("filter must be a boolean expression", nil).WithContext("filter", timeout.Truncate(expr))
	}
	program, err := f.env.Program(ast,
		cel.CostLimit(filterCostLimit),
		cel.InterruptCheckFrequency(100),
	)
	if err != nil {
		return nil, apierrors.InvalidArgument("invalid filter", err).WithContext("filter", timeout.Truncate(expr))
	}

	f.mu.Lock()
	if len(f.programs) >= maxCachedFilters {
		clear(f.programs)
	}
	f.programs[expr] = program
	f.mu.Unlock()
	return &annotationFilter{expr: expr, program: program}, nil
}

func (f *annotationFilter) match(a *Annotation) (bool, error) {
	out, _, err := f.program.Eval(map[string]any{
		"annotation": map[string]any{
			"seq":        a.Seq,
			"text":       a.Text,
			"tid":        a.TID,
			"type":       a.Type,
			"value":      a.Value,
			"alt_value":  a.AltValue,
			"mod":        a.Mod,
			"grounded":   a.Grounded,
			"expression": a.Expression,
			"error":      a.Error,
		},
	})
	if err != nil {
		return false, apierrors.InvalidArgument("failed to evaluate filter", err).WithContext("filter", timeout.Truncate(f.expr))
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, apierrors.InvalidArgument("filter did not return a boolean", nil).WithContext("filter", timeout.Truncate(f.expr))
	}
	return matched, nil
}
