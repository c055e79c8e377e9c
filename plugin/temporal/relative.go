package temporal

import (
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/timenorm/internal/calendar"
)

// DefaultMaxResolveDepth bounds how many times resolution retries an
// operator on an unresolved base.
const DefaultMaxResolveDepth = 4

// RelativeTime is a deferred operation on a base time: "next Friday" is
// NEXT applied to FRIDAY with the reference time as base.
type RelativeTime struct {
	attrs
	base  Time
	op    Op
	arg   Temporal
	flags int
}

// NewRelativeTime returns the deferred application of op to base and arg. A
// nil base stands for the reference time.
func NewRelativeTime(base Time, op Op, arg Temporal, flags int) *RelativeTime {
	if base == nil {
		base = timeRef
	}
	return &RelativeTime{base: base, op: op, arg: arg, flags: flags}
}

func (r *RelativeTime) Base() Time    { return r.base }
func (r *RelativeTime) Op() Op        { return r.op }
func (r *RelativeTime) Arg() Temporal { return r.arg }
func (r *RelativeTime) Flags() int    { return r.flags }

func (r *RelativeTime) isTime() {}

func (r *RelativeTime) IsGrounded() bool                          { return false }
func (r *RelativeTime) Time() Time                                { return r }
func (r *RelativeTime) Duration() Duration                        { return nil }
func (r *RelativeTime) Range(int, Duration) *Range                { return timeRange(r) }
func (r *RelativeTime) Period() Duration                          { return standardPeriod(r.attrs) }
func (r *RelativeTime) Granularity() Duration                     { return standardGranularity(r.attrs) }
func (r *RelativeTime) TimexType() TimexType                      { return timeTimexType(r.attrs, false) }
func (r *RelativeTime) Instant() (time.Time, bool)                { return time.Time{}, false }
func (r *RelativeTime) Partial() (calendar.Partial, bool)         { return calendar.Partial{}, false }
func (r *RelativeTime) HasTime() bool                             { return false }
func (r *RelativeTime) String() string                            { return r.Format(FormatFull) }
func (r *RelativeTime) WithModApprox(mod string, a bool) Temporal { c := *r; c.attrs = c.withModApprox(mod, a); return &c }

// Add folds d into a pending offset; any other operation gets an offset
// node on top.
func (r *RelativeTime) Add(d Duration) Time {
	if d == nil {
		return r
	}
	switch r.op {
	case OpNone:
		out := NewRelativeTime(r.base, OpOffset, d, 0)
		out.attrs = attrs{mod: r.mod, approx: r.approx}
		return out
	case OpOffset:
		if cur, ok := r.arg.(Duration); ok {
			out := NewRelativeTime(r.base, OpOffset, cur.Add(d), 0)
			out.attrs = attrs{mod: r.mod, approx: r.approx}
			return out
		}
	}
	return NewRelativeTime(r, OpOffset, d, 0)
}

func (r *RelativeTime) Intersect(t Temporal) Temporal {
	return NewRelativeTime(r, OpIntersect, t, 0)
}

// Resolve applies the operation against ref with the default resolver.
func (r *RelativeTime) Resolve(ref Time, flags int) (Temporal, error) {
	return Resolver{}.resolveRelative(r, ref, flags)
}

// Format renders "base OP arg" with the reference base left out. Relative
// times have no ISO or TIMEX3 value.
func (r *RelativeTime) Format(flags int) string {
	if r.label != "" {
		return r.label
	}
	if flags&(FormatISO|FormatTimex3Value) != 0 {
		return ""
	}
	var parts []string
	if r.base != nil && r.base != Time(timeRef) {
		parts = append(parts, r.base.Format(flags))
	}
	if r.op != OpNone {
		parts = append(parts, r.op.String())
		if r.arg != nil {
			parts = append(parts, r.arg.Format(flags))
		}
	}
	return strings.Join(parts, " ")
}

// sameAs reports whether o denotes the same pending operation as r.
func (r *RelativeTime) sameAs(o *RelativeTime) bool {
	return r == o || (r.op == o.op && r.flags == o.flags && r.base == o.base && r.arg == o.arg)
}

// inherit attaches the modifier and approximate flag of r to a result.
func (r *RelativeTime) inherit(t Temporal) Temporal {
	if t == nil || (r.mod == "" && !r.approx) {
		return t
	}
	mod := r.mod
	if mod == "" {
		mod = t.Mod()
	}
	return t.WithModApprox(mod, r.approx || t.IsApprox())
}

// Resolver grounds expressions against a reference time. When an operator
// yields nothing on the resolved base, the resolver applies it to the
// unresolved base and resolves the outcome, at most MaxDepth times. It never
// loops: when the limit is hit or an operator makes no progress it returns
// the furthest expression reached together with an *UnresolvedError.
type Resolver struct {
	MaxDepth int
	Logger   *slog.Logger
}

// Resolve is Resolver{}.Resolve.
func Resolve(t Temporal, ref Time, flags int) (Temporal, error) {
	return Resolver{}.Resolve(t, ref, flags)
}

// Resolve grounds t against ref.
func (rs Resolver) Resolve(t Temporal, ref Time, flags int) (Temporal, error) {
	if t == nil {
		return nil, nil
	}
	if rt, ok := t.(*RelativeTime); ok {
		return rs.resolveRelative(rt, ref, flags)
	}
	return t.Resolve(ref, flags)
}

func (rs Resolver) maxDepth() int {
	if rs.MaxDepth <= 0 {
		return DefaultMaxResolveDepth
	}
	return rs.MaxDepth
}

func (rs Resolver) logger() *slog.Logger {
	if rs.Logger == nil {
		return slog.Default()
	}
	return rs.Logger
}

func (rs Resolver) resolveRelative(rt *RelativeTime, ref Time, flags int) (Temporal, error) {
	cur := rt
	for depth := 0; ; depth++ {
		base, err := rs.resolveBase(cur, ref, flags)
		if err != nil {
			var ue *UnresolvedError
			if errors.As(err, &ue) {
				return cur, err
			}
			return nil, err
		}
		if cur.op == OpNone {
			return cur.inherit(base), nil
		}
		out, err := cur.op.Apply(base, cur.arg, cur.flags)
		if err != nil {
			return nil, err
		}
		if out != nil {
			return cur.inherit(out), nil
		}

		alt, err := cur.op.Apply(cur.base, cur.arg, cur.flags)
		if err != nil || alt == nil {
			return nil, err
		}
		alt = cur.inherit(alt)
		next, relative := alt.(*RelativeTime)
		if !relative {
			return alt.Resolve(ref, flags)
		}
		if next.sameAs(cur) {
			return cur, rs.unresolved(cur, depth+1, "operator made no progress")
		}
		if depth+1 >= rs.maxDepth() {
			return next, rs.unresolved(next, depth+1, "resolution depth limit reached")
		}
		cur = next
	}
}

func (rs Resolver) resolveBase(rt *RelativeTime, ref Time, flags int) (Temporal, error) {
	switch rt.base {
	case nil:
		return nil, nil
	case Time(timeRef):
		if ref == nil {
			return nil, nil
		}
		return ref, nil
	}
	return rs.Resolve(rt.base, ref, flags)
}

func (rs Resolver) unresolved(t Temporal, depth int, reason string) error {
	rs.logger().Debug("temporal expression left unresolved",
		slog.String("expr", t.String()),
		slog.Int("depth", depth),
		slog.String("reason", reason))
	return &UnresolvedError{Expr: t, Depth: depth, Reason: reason}
}
