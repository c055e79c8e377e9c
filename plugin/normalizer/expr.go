// Package normalizer builds temporal expressions from their JSON construction
// trees, resolves them against a document's reference time and annotates
// the results with TIMEX3 attributes.
package normalizer

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/timenorm/plugin/temporal"
)

// ErrMalformedExpr is returned for construction trees that do not describe a
// temporal expression.
var ErrMalformedExpr = errors.New("malformed expression")

// Expr is the JSON construction tree of a temporal expression. Exactly one
// of the forms is set:
//
//	{"op":"NEXT","args":[{"const":"FRIDAY"}]}
//	{"const":"JUNE"}
//	{"date":"2020-06-15"}
//	{"duration":{"unit":"DAY","n":3}}
//	{"set":{"base":{"const":"MONDAY"},"quant":"every","scale":2}}
//	{"range":[{"date":"2020-06-01"},{"date":"2020-06-30"}]}
//	{"mod":"APPROX","of":{"duration":{"unit":"HOUR","n":2}}}
type Expr struct {
	Op    string   `json:"op,omitempty"`
	Args  []*Expr  `json:"args,omitempty"`
	N     *int     `json:"n,omitempty"`
	Flags []string `json:"flags,omitempty"`

	Const    string        `json:"const,omitempty"`
	Date     string        `json:"date,omitempty"`
	Duration *DurationExpr `json:"duration,omitempty"`
	Set      *SetExpr      `json:"set,omitempty"`
	Range    []*Expr       `json:"range,omitempty"`

	Mod string `json:"mod,omitempty"`
	Of  *Expr  `json:"of,omitempty"`
}

// DurationExpr is "n units". With Max set it is the range "n to max units";
// with neither count it is an unspecified number of units.
type DurationExpr struct {
	Unit string `json:"unit"`
	N    *int   `json:"n,omitempty"`
	Max  *int   `json:"max,omitempty"`
}

// SetExpr is a recurring set, either of a base value ("every other Monday")
// or of a bare unit ("every 2 weeks").
type SetExpr struct {
	Base  *Expr  `json:"base,omitempty"`
	Unit  string `json:"unit,omitempty"`
	Quant string `json:"quant,omitempty"`
	Freq  string `json:"freq,omitempty"`
	Scale int    `json:"scale,omitempty"`
}

// Decode reads a construction tree, rejecting unknown keys.
func Decode(data []byte) (*Expr, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var e Expr
	if err := dec.Decode(&e); err != nil {
		return nil, errors.Wrap(ErrMalformedExpr, err.Error())
	}
	return &e, nil
}

func (e *Expr) kinds() int {
	n := 0
	for _, set := range []bool{
		e.Op != "", e.Const != "", e.Date != "", e.Duration != nil,
		e.Set != nil, len(e.Range) > 0, e.Mod != "",
	} {
		if set {
			n++
		}
	}
	return n
}

// Build turns the tree into a temporal value. A nil value with a nil error
// means the expression is well formed but denotes nothing, e.g. an empty
// intersection.
func Build(e *Expr) (temporal.Temporal, error) {
	if e == nil {
		return nil, errors.Wrap(ErrMalformedExpr, "empty expression")
	}
	if e.kinds() != 1 {
		return nil, errors.Wrap(ErrMalformedExpr, "expression must have exactly one form")
	}
	switch {
	case e.Const != "":
		c, ok := temporal.Constant(strings.ToUpper(e.Const))
		if !ok {
			return nil, errors.Wrapf(ErrMalformedExpr, "unknown constant %q", e.Const)
		}
		return c, nil
	case e.Date != "":
		t, err := temporal.ParseDateTime(e.Date)
		if err != nil {
			return nil, err
		}
		return t, nil
	case e.Duration != nil:
		return buildDuration(e.Duration)
	case e.Set != nil:
		return buildSet(e.Set)
	case len(e.Range) > 0:
		return buildRange(e.Range)
	case e.Mod != "":
		if e.Of == nil {
			return nil, errors.Wrap(ErrMalformedExpr, "mod without operand")
		}
		of, err := Build(e.Of)
		if err != nil || of == nil {
			return of, err
		}
		return temporal.WithMod(of, strings.ToUpper(e.Mod)), nil
	}
	return buildOp(e)
}

func buildOp(e *Expr) (temporal.Temporal, error) {
	op, ok := temporal.LookupOp(strings.ToUpper(e.Op))
	if !ok {
		return nil, errors.Wrapf(temporal.ErrUnsupportedOperation, "unknown operator %q", e.Op)
	}
	flags, err := ParseFlags(e.Flags)
	if err != nil {
		return nil, err
	}
	args := make([]temporal.Temporal, len(e.Args))
	for i, a := range e.Args {
		t, err := Build(a)
		if err != nil {
			return nil, errors.Wrapf(err, "%s argument %d", op, i)
		}
		if t == nil {
			return nil, nil
		}
		args[i] = t
	}

	switch op {
	case temporal.OpMultiply, temporal.OpDivide, temporal.OpCreate:
		if len(args) != 1 || e.N == nil {
			return nil, errors.Wrapf(ErrMalformedExpr, "%s takes one argument and n", op)
		}
		return op.ApplyArgs(args[0], *e.N)
	case temporal.OpAddModifier:
		return nil, errors.Wrapf(ErrMalformedExpr, "%s is written as {\"mod\",\"of\"}", op)
	}
	switch len(args) {
	case 1:
		// relative to the reference time, resolved later
		return temporal.NewRelativeTime(nil, op, args[0], flags), nil
	case 2:
		return op.Apply(args[0], args[1], flags)
	}
	return nil, errors.Wrapf(ErrMalformedExpr, "%s takes one or two arguments, got %d", op, len(args))
}

func buildDuration(d *DurationExpr) (temporal.Temporal, error) {
	unit, err := unitDuration(d.Unit)
	if err != nil {
		return nil, err
	}
	return temporal.DurationFromCounts(unit, countOrUnknown(d.N), countOrUnknown(d.Max)), nil
}

func countOrUnknown(n *int) int {
	if n == nil {
		return temporal.Unknown
	}
	return *n
}

// unitDuration accepts unit names (DAY) and duration constants (FORTNIGHT).
func unitDuration(name string) (temporal.Duration, error) {
	name = strings.ToUpper(name)
	if u, ok := temporal.LookupUnit(name); ok {
		return temporal.UnitDuration(u), nil
	}
	if c, ok := temporal.Constant(name); ok {
		if d, ok := c.(temporal.Duration); ok {
			return d, nil
		}
	}
	return nil, errors.Wrapf(ErrMalformedExpr, "unknown unit %q", name)
}

func buildSet(s *SetExpr) (temporal.Temporal, error) {
	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	quant := strings.ToUpper(s.Quant)
	switch {
	case s.Base != nil && s.Unit != "":
		return nil, errors.Wrap(ErrMalformedExpr, "set takes a base or a unit, not both")
	case s.Base != nil:
		base, err := Build(s.Base)
		if err != nil || base == nil {
			return base, err
		}
		set, err := temporal.MakePeriodicTemporalSet(base, quant, scale)
		if err != nil {
			return nil, err
		}
		return set, nil
	case s.Unit != "":
		unit, err := unitDuration(s.Unit)
		if err != nil {
			return nil, err
		}
		return temporal.NewPeriodicTemporalSet(nil, unit.MultiplyBy(scale), quant, s.Freq), nil
	}
	return nil, errors.Wrap(ErrMalformedExpr, "set without base or unit")
}

// buildRange reads [begin, end] or [begin, end, duration]; null endpoints
// are open.
func buildRange(parts []*Expr) (temporal.Temporal, error) {
	if len(parts) < 2 || len(parts) > 3 {
		return nil, errors.Wrapf(ErrMalformedExpr, "range takes 2 or 3 parts, got %d", len(parts))
	}
	var ends [2]temporal.Time
	for i := range ends {
		if parts[i] == nil {
			continue
		}
		t, err := Build(parts[i])
		if err != nil {
			return nil, err
		}
		tm, ok := t.(temporal.Time)
		if !ok {
			return nil, errors.Wrapf(ErrMalformedExpr, "range endpoint %d is not a time", i)
		}
		ends[i] = tm
	}
	var dur temporal.Duration
	if len(parts) == 3 && parts[2] != nil {
		t, err := Build(parts[2])
		if err != nil {
			return nil, err
		}
		d, ok := t.(temporal.Duration)
		if !ok {
			return nil, errors.Wrap(ErrMalformedExpr, "range duration is not a duration")
		}
		dur = d
	}
	if ends[0] == nil && ends[1] == nil && dur == nil {
		return nil, errors.Wrap(ErrMalformedExpr, "empty range")
	}
	return temporal.NewRange(ends[0], ends[1], dur), nil
}

var flagNames = map[string]int{
	"now":       temporal.ResolveNow,
	"this":      temporal.ResolveToThis,
	"past":      temporal.ResolveToPast,
	"future":    temporal.ResolveToFuture,
	"closest":   temporal.ResolveToClosest,
	"range_ref": temporal.RangeResolveTimeRef,
}

// ParseFlags ORs together named resolution flags.
func ParseFlags(names []string) (int, error) {
	flags := 0
	for _, n := range names {
		f, ok := flagNames[strings.ToLower(n)]
		if !ok {
			return 0, errors.Wrapf(ErrMalformedExpr, "unknown flag %q", n)
		}
		flags |= f
	}
	return flags, nil
}

// ParseDirection maps a resolution direction (past, future, closest, this)
// to its flag. The empty string and "none" are 0.
func ParseDirection(dir string) (int, error) {
	switch strings.ToLower(dir) {
	case "", "none":
		return 0, nil
	case "past":
		return temporal.ResolveToPast, nil
	case "future":
		return temporal.ResolveToFuture, nil
	case "closest":
		return temporal.ResolveToClosest, nil
	case "this":
		return temporal.ResolveToThis, nil
	}
	return 0, errors.Errorf("unknown resolution direction %q", dir)
}
