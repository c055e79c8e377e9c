// Package temporal implements an algebra of temporal expressions: points in
// time (possibly partial or relative), durations, ranges and recurring sets.
//
// Values are immutable. Every operation returns a new value; nothing mutates a
// value after construction. Unresolved expressions such as "next Friday" are
// represented as RelativeTime nodes and grounded against a reference time with
// Resolve.
//
// The set of variants is closed: Temporal carries an unexported method, so
// only the types of this package implement it.
package temporal

import (
	"github.com/hrygo/timenorm/internal/calendar"
)

// Resolution flags.
const (
	ResolveNow       = 0x01
	ResolveToThis    = 0x20
	ResolveToPast    = 0x40
	ResolveToFuture  = 0x80
	ResolveToClosest = 0x200

	DurResolveToAsRef   = 0x1000
	DurResolveFromAsRef = 0x2000

	RangeResolveTimeRef = 0x100000
)

// Range padding policies, selected with RangeFlagsPadMask.
const (
	RangeFlagsPadMask      = 0x000f
	RangeFlagsPadNone      = 0x0001
	RangeFlagsPadAuto      = 0x0002
	RangeFlagsPadFinest    = 0x0003
	RangeFlagsPadSpecified = 0x0004
)

// Range offset and expansion selectors.
const (
	RangeOffsetBegin    = 0x0001
	RangeOffsetEnd      = 0x0002
	RangeExpandFixBegin = 0x0010
	RangeExpandFixEnd   = 0x0020
)

// Formatting flags.
const (
	FormatISO         = 0x01
	FormatTimex3Value = 0x02
	FormatFull        = 0x04
	FormatPadUnknown  = 0x1000
)

// Placeholders for unknown fields.
const (
	padUnknown  = "X"
	padUnknown2 = "XX"
	padUnknown4 = "XXXX"
)

// Temporal is any value of the algebra. See Time, Duration, TemporalSet and
// Range for the four families.
type Temporal interface {
	// IsGrounded reports whether the value has no symbolic or relative part left.
	IsGrounded() bool
	Time() Time
	Duration() Duration
	// Range returns the interval covered by the value under the padding policy
	// in flags. Granularity is used by RangeFlagsPadSpecified.
	Range(flags int, granularity Duration) *Range
	// Period is how often this kind of value recurs; nil if it does not.
	Period() Duration
	Granularity() Duration
	// Resolve grounds the value against ref. A nil result with a nil error
	// means there is no interpretation.
	Resolve(ref Time, flags int) (Temporal, error)
	// Intersect returns nil when the values have no intersection.
	Intersect(other Temporal) Temporal
	// Format renders the value; an empty string means no representation
	// exists for the requested flags.
	Format(flags int) string
	TimexType() TimexType
	// WithModApprox returns a copy with the modifier and approximate flag
	// replaced.
	WithModApprox(mod string, approx bool) Temporal
	String() string

	Mod() string
	IsApprox() bool
	StandardType() StandardType
	Label() string

	attributes() attrs
}

// attrs holds what every variant carries.
type attrs struct {
	mod    string
	approx bool
	std    StandardType
	label  string
}

func (a attrs) Mod() string                { return a.mod }
func (a attrs) IsApprox() bool             { return a.approx }
func (a attrs) StandardType() StandardType { return a.std }
func (a attrs) Label() string              { return a.label }
func (a attrs) attributes() attrs          { return a }

// derived keeps the modifier and approximate flag only; derived values lose
// their standard type and label.
func (a attrs) derived() attrs {
	return attrs{mod: a.mod, approx: a.approx}
}

func (a attrs) withApprox() attrs {
	a.approx = true
	return a
}

func (a attrs) withModApprox(mod string, approx bool) attrs {
	a.mod = mod
	a.approx = approx
	return a
}

// WithMod returns a copy of t with the modifier replaced.
func WithMod(t Temporal, mod string) Temporal {
	if t == nil {
		return nil
	}
	return t.WithModApprox(mod, t.IsApprox())
}

// WithLabel returns a copy of t carrying the standard type and label.
func WithLabel(t Temporal, std StandardType, label string) Temporal {
	if t == nil {
		return nil
	}
	return withAttrs(t, func(a attrs) attrs {
		a.std = std
		a.label = label
		return a
	})
}

// IsDefinite reports whether t covers a known stretch of the time line: both
// ends of its range fall on an instant. Durations, sets and pending
// operations are never definite.
func IsDefinite(t Temporal) bool {
	switch t.(type) {
	case nil, Duration, TemporalSet, *RelativeTime:
		return false
	}
	r := t.Range(RangeFlagsPadAuto, nil)
	if r == nil {
		return false
	}
	_, begin := instantOf(r.Begin())
	_, end := instantOf(r.End())
	return begin && end
}

// Next shifts t forward by one period. It returns nil when t has no period.
func Next(t Temporal) Temporal {
	return stepPeriod(t, 1)
}

// Prev shifts t back by one period. It returns nil when t has no period.
func Prev(t Temporal) Temporal {
	return stepPeriod(t, -1)
}

func stepPeriod(t Temporal, sign int) Temporal {
	if t == nil {
		return nil
	}
	per := t.Period()
	if per == nil {
		return nil
	}
	if sign < 0 {
		per = per.MultiplyBy(-1)
	}
	if d, ok := t.(Duration); ok {
		anchor := DurResolveToAsRef
		if sign < 0 {
			anchor = DurResolveFromAsRef
		}
		return NewRelativeTime(NewRelativeTime(nil, OpThis, d, anchor), OpOffset, per, 0)
	}
	out, err := OpOffset.Apply(t, per, 0)
	if err != nil {
		return nil
	}
	return out
}

// ISO renders t with FormatISO.
func ISO(t Temporal) string {
	if t == nil {
		return ""
	}
	return t.Format(FormatISO)
}

// TimexValue renders t with FormatTimex3Value.
func TimexValue(t Temporal) string {
	if t == nil {
		return ""
	}
	return t.Format(FormatTimex3Value)
}

// IncludeTimexAltValue reports whether TIMEX3 output should carry the full
// form next to the value.
func IncludeTimexAltValue(t Temporal) bool {
	_, ok := t.(*DurationRange)
	return ok
}

// periodOf is the period of a single unit of the most specific field of p.
func periodOf(p calendar.Partial) Duration {
	per, ok := p.Period()
	if !ok {
		return nil
	}
	return NewDurationWithFields(per)
}

// standardPeriod returns the period dictated by the standard type, if any.
func standardPeriod(a attrs) Duration {
	if a.std == TypeNone {
		return nil
	}
	return a.std.Period()
}

func standardGranularity(a attrs) Duration {
	if a.std == TypeNone {
		return nil
	}
	return a.std.Granularity()
}
