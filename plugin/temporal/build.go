package temporal

import (
	"github.com/pkg/errors"
)

// Compose applies the operator with the given name to loosely typed
// operands. See Op.ApplyArgs for the accepted forms.
func Compose(name string, args ...any) (Temporal, error) {
	op, ok := LookupOp(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedOperation, "unknown operator %q", name)
	}
	return op.ApplyArgs(args...)
}

// MakePeriodicTemporalSet returns t recurring with its natural period
// stretched by scale: "every other Monday" is MONDAY with scale 2.
func MakePeriodicTemporalSet(t Temporal, quant string, scale int) (*PeriodicTemporalSet, error) {
	if t == nil {
		return nil, errors.Wrap(ErrOperatorMisuse, "periodic set of nil")
	}
	period := t.Period()
	if period != nil && scale != 1 {
		period = period.MultiplyBy(scale)
	}
	return NewPeriodicTemporalSet(t, period, quant, ""), nil
}

// DurationFromCounts builds the duration of "3 to 5 days" (a DurationRange),
// "3 days" or, with both counts Unknown, "days" (an InexactDuration of one
// unit).
func DurationFromCounts(unit Duration, from, to int) Duration {
	if unit == nil {
		return nil
	}
	switch {
	case from != Unknown && to != Unknown:
		return NewDurationRange(unit.MultiplyBy(from), unit.MultiplyBy(to))
	case from != Unknown:
		return unit.MultiplyBy(from)
	case to != Unknown:
		return unit.MultiplyBy(to)
	}
	return makeInexact(unit)
}

// AnchorDuration places d between begin and end, either of which may be
// nil. Unknown endpoints are replaced by fresh placeholders so that each
// range gets endpoints of its own.
func AnchorDuration(d Duration, begin, end Time) Temporal {
	if d == nil || (begin == nil && end == nil) {
		return d
	}
	return NewRange(freshUnknown(begin), freshUnknown(end), d)
}

func freshUnknown(t Time) Time {
	switch v := t.(type) {
	case *RefTime:
		if v != timeRef && v != timeNow && v.name == "UNKNOWN" {
			return NewRefTime("UNKNOWN")
		}
	case *SimpleTime:
		if v == timeUnknown {
			return NewSimpleTime("UNKNOWN")
		}
	}
	return t
}

// DetermineRelFlags returns the default resolution flags for an extracted
// expression: a bare partial date resolves to the closest match, everything
// else uses no direction.
func DetermineRelFlags(t Temporal) int {
	if _, ok := t.(*PartialTime); ok {
		return ResolveToClosest
	}
	return 0
}
