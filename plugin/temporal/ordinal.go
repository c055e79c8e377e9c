package temporal

import (
	"strconv"
	"time"

	"github.com/hrygo/timenorm/internal/calendar"
)

// OrdinalTime is the n-th occurrence of a recurring value, as in "the third
// Friday of June".
type OrdinalTime struct {
	attrs
	base Temporal
	n    int
}

// NewOrdinalTime returns the n-th occurrence of base, counting from 1.
func NewOrdinalTime(base Temporal, n int) *OrdinalTime {
	return &OrdinalTime{base: base, n: n}
}

// Base returns the recurring value.
func (o *OrdinalTime) Base() Temporal { return o.base }

// N returns the ordinal.
func (o *OrdinalTime) N() int { return o.n }

func (o *OrdinalTime) isTime() {}

func (o *OrdinalTime) IsGrounded() bool                          { return false }
func (o *OrdinalTime) Time() Time                                { return o }
func (o *OrdinalTime) Duration() Duration                        { return nil }
func (o *OrdinalTime) Range(int, Duration) *Range                { return timeRange(o) }
func (o *OrdinalTime) Period() Duration                          { return standardPeriod(o.attrs) }
func (o *OrdinalTime) Granularity() Duration                     { return standardGranularity(o.attrs) }
func (o *OrdinalTime) TimexType() TimexType                      { return timeTimexType(o.attrs, false) }
func (o *OrdinalTime) Instant() (time.Time, bool)                { return time.Time{}, false }
func (o *OrdinalTime) Partial() (calendar.Partial, bool)         { return calendar.Partial{}, false }
func (o *OrdinalTime) HasTime() bool                             { return false }
func (o *OrdinalTime) Add(d Duration) Time                       { return NewRelativeTime(o, OpOffset, d, 0) }
func (o *OrdinalTime) String() string                            { return o.Format(FormatFull) }
func (o *OrdinalTime) WithModApprox(mod string, a bool) Temporal { c := *o; c.attrs = c.withModApprox(mod, a); return &c }

// Intersect narrows a partial base ("the first Monday" in "June 2023");
// anything else is deferred.
func (o *OrdinalTime) Intersect(t Temporal) Temporal {
	if bp, ok := o.base.(*PartialTime); ok {
		if tp, ok := t.(*PartialTime); ok {
			b := bp.Intersect(tp)
			if b == nil {
				return nil
			}
			return &OrdinalTime{attrs: o.attrs, base: b, n: o.n}
		}
	}
	if t == nil {
		return o
	}
	return NewRelativeTime(o, OpIntersect, t, 0)
}

// Resolve borrows the year from ref and picks the n-th date of the month
// that matches a partial base. It stays unresolved when the base does not
// enumerate to n values.
func (o *OrdinalTime) Resolve(ref Time, flags int) (Temporal, error) {
	pt, ok := o.base.(*PartialTime)
	if !ok || o.n < 1 {
		return o, nil
	}
	if ref != nil && ref != Time(timeRef) && ref != Time(timeUnknown) {
		if rp, ok := ref.Partial(); ok {
			pt = pt.with(pt.p.CombineMoreGeneral(rp, nil))
		}
	}
	list := pt.ToList()
	if len(list) < o.n {
		return o, nil
	}
	return list[o.n-1], nil
}

// Format renders "base-#n"; there is no ISO or TIMEX3 value.
func (o *OrdinalTime) Format(flags int) string {
	if o.label != "" {
		return o.label
	}
	if flags&(FormatISO|FormatTimex3Value) != 0 || o.base == nil {
		return ""
	}
	s := o.base.Format(flags)
	if s == "" {
		return ""
	}
	return s + "-#" + strconv.Itoa(o.n)
}
