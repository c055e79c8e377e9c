package temporal

import (
	"github.com/pkg/errors"

	"github.com/hrygo/timenorm/internal/calendar"
)

// Op is a deferred temporal operation.
type Op int

const (
	OpNone Op = iota
	OpNext
	OpNextImmediate
	OpThis
	OpPrev
	OpPrevImmediate
	OpUnion
	OpIntersect
	OpIn
	OpOffset
	OpMinus
	OpPlus
	OpMin
	OpMax
	OpMultiply
	OpDivide
	OpCreate
	OpAddModifier
)

var opNames = [...]string{
	OpNone:          "",
	OpNext:          "NEXT",
	OpNextImmediate: "NEXT_IMMEDIATE",
	OpThis:          "THIS",
	OpPrev:          "PREV",
	OpPrevImmediate: "PREV_IMMEDIATE",
	OpUnion:         "UNION",
	OpIntersect:     "INTERSECT",
	OpIn:            "IN",
	OpOffset:        "OFFSET",
	OpMinus:         "MINUS",
	OpPlus:          "PLUS",
	OpMin:           "MIN",
	OpMax:           "MAX",
	OpMultiply:      "MULTIPLY",
	OpDivide:        "DIVIDE",
	OpCreate:        "CREATE",
	OpAddModifier:   "ADD_MODIFIER",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "Op(?)"
	}
	return opNames[op]
}

// LookupOp returns the operation with the given name.
func LookupOp(name string) (Op, bool) {
	for op, n := range opNames {
		if n != "" && n == name {
			return Op(op), true
		}
	}
	return OpNone, false
}

// Apply evaluates op on two temporal operands. A nil result with a nil error
// means the operation has no value for these operands, e.g. an empty
// intersection. MULTIPLY, DIVIDE, CREATE and ADD_MODIFIER take non-temporal
// operands and are only available through ApplyArgs.
func (op Op) Apply(arg1, arg2 Temporal, flags int) (Temporal, error) {
	switch op {
	case OpNext:
		return applyStep(op, arg1, arg2, 1)
	case OpPrev:
		return applyStep(op, arg1, arg2, -1)
	case OpNextImmediate:
		return applyImmediate(op, arg1, arg2, flags, 1)
	case OpPrevImmediate:
		return applyImmediate(op, arg1, arg2, flags, -1)
	case OpThis:
		if arg1 == nil {
			return NewRelativeTime(nil, OpThis, arg2, flags), nil
		}
		t, ok := arg1.(Time)
		if !ok {
			return nil, misuse(op, arg1, arg2)
		}
		switch a := arg2.(type) {
		case nil:
			return arg1, nil
		case Duration:
			return ToTime(a, t, flags)
		}
		return arg2.Resolve(t, flags|ResolveToThis)
	case OpUnion:
		switch {
		case arg1 == nil:
			return arg2, nil
		case arg2 == nil:
			return arg1, nil
		}
		return nil, errors.Wrapf(ErrUnsupportedOperation, "%s(%s, %s)", op, kindOf(arg1), kindOf(arg2))
	case OpIntersect:
		switch {
		case arg1 == nil:
			return arg2, nil
		case arg2 == nil:
			return arg1, nil
		}
		if t := arg1.Intersect(arg2); t != nil {
			return t, nil
		}
		return arg2.Intersect(arg1), nil
	case OpIn:
		switch {
		case arg1 == nil:
			return arg2, nil
		case arg2 == nil:
			return arg1, nil
		}
		if _, ok := arg1.(Time); !ok {
			return nil, misuse(op, arg1, arg2)
		}
		return arg2.Intersect(arg1), nil
	case OpOffset:
		if arg1 == nil {
			return NewRelativeTime(nil, OpOffset, arg2, 0), nil
		}
		if arg2 == nil {
			return arg1, nil
		}
		d, ok := arg2.(Duration)
		if !ok {
			return nil, misuse(op, arg1, arg2)
		}
		switch a := arg1.(type) {
		case Time:
			return a.Add(d), nil
		case *Range:
			return a.Offset(d, 0), nil
		}
		return nil, misuse(op, arg1, arg2)
	case OpMinus, OpPlus:
		switch {
		case arg1 == nil:
			return arg2, nil
		case arg2 == nil:
			return arg1, nil
		}
		d, ok := arg2.(Duration)
		if !ok {
			return nil, misuse(op, arg1, arg2)
		}
		if op == OpMinus {
			d = d.MultiplyBy(-1)
		}
		switch a := arg1.(type) {
		case Duration:
			return a.Add(d), nil
		case Time:
			return a.Add(d), nil
		case *Range:
			return a.Add(d, 0), nil
		}
		return nil, misuse(op, arg1, arg2)
	case OpMin, OpMax:
		switch {
		case arg1 == nil:
			return arg2, nil
		case arg2 == nil:
			return arg1, nil
		}
		switch a := arg1.(type) {
		case Time:
			if b, ok := arg2.(Time); ok {
				if op == OpMin {
					return MinTime(a, b), nil
				}
				return MaxTime(a, b), nil
			}
		case Duration:
			if b, ok := arg2.(Duration); ok {
				if op == OpMin {
					return MinDuration(a, b), nil
				}
				return MaxDuration(a, b), nil
			}
		}
		return nil, misuse(op, arg1, arg2)
	}
	return nil, misuse(op, arg1, arg2)
}

// applyStep finds the occurrence of arg2 strictly after arg1 (or strictly
// before, for sign < 0). Durations step to the adjacent unit: "next week".
func applyStep(op Op, arg1, arg2 Temporal, sign int) (Temporal, error) {
	if arg2 == nil {
		return arg1, nil
	}
	step := stepPeriod(arg2, sign)
	if arg1 == nil {
		return step, nil
	}
	t, ok := arg1.(Time)
	if !ok {
		return nil, misuse(op, arg1, arg2)
	}
	if _, isDuration := arg2.(Duration); !isDuration {
		dir := ResolveToFuture
		if sign < 0 {
			dir = ResolveToPast
		}
		r, err := arg2.Resolve(t, dir)
		if err != nil {
			return nil, err
		}
		if strictlyOnSide(r, t, sign) || step == nil {
			return r, nil
		}
	}
	if step == nil {
		return nil, nil
	}
	return step.Resolve(t, 0)
}

// applyImmediate resolves arg2 in the direction of sign and moves on to the
// following occurrence when the result does not lie strictly on that side of
// arg1.
func applyImmediate(op Op, arg1, arg2 Temporal, flags, sign int) (Temporal, error) {
	if arg1 == nil {
		return NewRelativeTime(nil, op, arg2, 0), nil
	}
	if arg2 == nil {
		return arg1, nil
	}
	t, ok := arg1.(Time)
	if !ok {
		return nil, misuse(op, arg1, arg2)
	}
	dir, fallback := ResolveToFuture, OpNext
	if sign < 0 {
		dir, fallback = ResolveToPast, OpPrev
	}
	if d, ok := arg2.(Duration); ok {
		return ToTime(d, t, flags|dir)
	}
	r, err := arg2.Resolve(t, dir)
	if err != nil {
		return nil, err
	}
	if rt, ok := r.(Time); ok {
		if c, ok := CompareTimes(rt, t); ok && c*sign <= 0 {
			return fallback.Apply(arg1, arg2, 0)
		}
	}
	return r, nil
}

// strictlyOnSide reports whether r starts after ref (sign > 0) or is over
// before ref (sign < 0). A value whose range still covers ref, like the
// current month or this weekend, lies on neither side.
func strictlyOnSide(r Temporal, ref Time, sign int) bool {
	t, ok := r.(Time)
	if !ok {
		return false
	}
	if sign < 0 {
		if rng := t.Range(RangeFlagsPadFinest, nil); rng != nil && rng.End() != nil {
			t = rng.End()
		}
	}
	c, ok := CompareTimes(t, ref)
	return ok && c*sign > 0
}

// ApplyArgs evaluates op on loosely typed operands as produced by a grammar
// layer:
//
//	MULTIPLY, DIVIDE   (Duration | *PeriodicTemporalSet, int)
//	CREATE             (calendar.Unit | StandardType | Temporal, int)
//	ADD_MODIFIER       (Temporal, string)
//
// Every other operator takes two temporal operands and optional int flags.
func (op Op) ApplyArgs(args ...any) (Temporal, error) {
	switch op {
	case OpMultiply, OpDivide:
		if len(args) != 2 {
			break
		}
		n, ok := toInt(args[1])
		if !ok {
			break
		}
		switch a := args[0].(type) {
		case Duration:
			if n == 1 {
				return a, nil
			}
			if op == OpMultiply {
				return a.MultiplyBy(n), nil
			}
			return a.DivideBy(n)
		case *PeriodicTemporalSet:
			if n == 1 {
				return a, nil
			}
			if op == OpMultiply {
				return a.MultiplyDurationBy(n), nil
			}
			return a.DivideDurationBy(n)
		}
	case OpCreate:
		if len(args) != 2 {
			break
		}
		n, ok := toInt(args[1])
		if !ok {
			break
		}
		switch a := args[0].(type) {
		case calendar.Unit:
			return UnitDuration(a).MultiplyBy(n), nil
		case StandardType:
			if t := a.Create(n); t != nil {
				return t, nil
			}
		case Temporal:
			return NewOrdinalTime(a, n), nil
		}
	case OpAddModifier:
		if len(args) != 2 {
			break
		}
		t, ok1 := args[0].(Temporal)
		mod, ok2 := args[1].(string)
		if ok1 && ok2 {
			return WithMod(t, mod), nil
		}
	default:
		if len(args) < 2 || len(args) > 3 {
			break
		}
		a1, ok1 := toTemporal(args[0])
		a2, ok2 := toTemporal(args[1])
		flags := 0
		ok3 := true
		if len(args) == 3 {
			flags, ok3 = toInt(args[2])
		}
		if ok1 && ok2 && ok3 {
			return op.Apply(a1, a2, flags)
		}
	}
	var a1, a2 any
	if len(args) > 0 {
		a1 = args[0]
	}
	if len(args) > 1 {
		a2 = args[1]
	}
	return nil, misuse(op, a1, a2)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	}
	return 0, false
}

func toTemporal(v any) (Temporal, bool) {
	if v == nil {
		return nil, true
	}
	t, ok := v.(Temporal)
	return t, ok
}
