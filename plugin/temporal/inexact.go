package temporal

import (
	"strings"
	"time"

	"github.com/hrygo/timenorm/internal/calendar"
)

// InexactTime is a time known only approximately: a best guess, how long it
// lasts and the range it falls in. Any of the three may be missing.
type InexactTime struct {
	attrs
	base Time
	dur  Duration
	rng  *Range
}

// NewInexactTime returns an approximate time.
func NewInexactTime(base Time, dur Duration, rng *Range) *InexactTime {
	return &InexactTime{attrs: attrs{approx: true}, base: base, dur: dur, rng: rng}
}

// NewInexactRange returns an approximate time somewhere in r, guessed at its
// middle.
func NewInexactRange(r *Range) *InexactTime {
	return NewInexactTime(r.Mid(), nil, r)
}

// NewInexactPartial returns an approximate time around the fields of p.
func NewInexactPartial(p calendar.Partial) *InexactTime {
	base := NewPartialTime(p)
	return NewInexactTime(base, nil, base.Range(RangeFlagsPadAuto, nil))
}

// Base returns the best guess, or nil.
func (i *InexactTime) Base() Time { return i.base }

func (i *InexactTime) isTime() {}

func (i *InexactTime) IsGrounded() bool      { return false }
func (i *InexactTime) Time() Time            { return i }
func (i *InexactTime) Period() Duration      { return standardPeriod(i.attrs) }
func (i *InexactTime) Granularity() Duration { return standardGranularity(i.attrs) }
func (i *InexactTime) String() string        { return i.Format(FormatFull) }

func (i *InexactTime) HasTime() bool {
	return i.base != nil && i.base.HasTime()
}

func (i *InexactTime) TimexType() TimexType { return timeTimexType(i.attrs, i.HasTime()) }

func (i *InexactTime) WithModApprox(mod string, approx bool) Temporal {
	c := *i
	c.attrs = c.withModApprox(mod, approx)
	return &c
}

func (i *InexactTime) Duration() Duration {
	switch {
	case i.dur != nil:
		return i.dur
	case i.rng != nil:
		return i.rng.Duration()
	case i.base != nil:
		return i.base.Duration()
	}
	return nil
}

func (i *InexactTime) Range(flags int, granularity Duration) *Range {
	switch {
	case i.rng != nil:
		return i.rng.Range(flags, granularity)
	case i.base != nil:
		return i.base.Range(flags, granularity)
	}
	return nil
}

func (i *InexactTime) Instant() (time.Time, bool) {
	if t, ok := instantOf(i.base); ok {
		return t, true
	}
	if i.rng != nil {
		return instantOf(i.rng.Mid())
	}
	return time.Time{}, false
}

func (i *InexactTime) Partial() (calendar.Partial, bool) {
	if i.base != nil {
		if p, ok := i.base.Partial(); ok {
			return p, true
		}
	}
	if i.rng != nil {
		if mid := i.rng.Mid(); mid != nil {
			return mid.Partial()
		}
	}
	return calendar.Partial{}, false
}

// Add defers the offset for named values ("morning" + 1 day) and otherwise
// moves every part.
func (i *InexactTime) Add(d Duration) Time {
	if i.std != TypeNone {
		return NewRelativeTime(i, OpOffset, d, 0)
	}
	out := &InexactTime{attrs: i.derived().withApprox(), dur: i.dur}
	if i.base != nil {
		out.base = i.base.Add(d)
	}
	if i.rng != nil {
		out.rng = i.rng.Offset(d, 0)
	}
	return out
}

// Resolve grounds the guess and the range against ref. Named parts of the
// day, week or year resolve as parts of the date they fall on.
func (i *InexactTime) Resolve(ref Time, flags int) (Temporal, error) {
	if c := makeComposite(&PartialTime{attrs: i.derived()}, i); c != nil {
		return c.Resolve(ref, flags)
	}
	out := &InexactTime{attrs: i.attrs.withApprox(), dur: i.dur}
	switch {
	case i.base == Time(timeRef):
		out.base = ref
	case i.base != nil:
		r, err := i.base.Resolve(ref, flags)
		if err != nil {
			return nil, err
		}
		if r != nil {
			out.base = r.Time()
		}
	}
	if i.rng != nil {
		r, err := i.rng.Resolve(ref, flags)
		if err != nil {
			return nil, err
		}
		if r != nil {
			out.rng = r.Range(RangeFlagsPadAuto, nil)
		}
	}
	return out, nil
}

// Intersect narrows the guess with a partial time; the duration and range
// are kept.
func (i *InexactTime) Intersect(o Temporal) Temporal {
	switch o.(type) {
	case *PartialTime, *CompositePartialTime:
		if i.base == nil {
			return nil
		}
		b, ok := i.base.Intersect(o).(Time)
		if !ok || b == nil {
			return nil
		}
		out := *i
		out.base = b
		return &out
	}
	return intersectTime(i, o)
}

func (i *InexactTime) Format(flags int) string {
	if i.label != "" {
		return i.label
	}
	if flags&(FormatISO|FormatTimex3Value) != 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("~(")
	if i.base != nil {
		b.WriteString(i.base.Format(flags))
	}
	if i.dur != nil {
		b.WriteString(":" + i.dur.Format(flags))
	}
	if i.rng != nil {
		b.WriteString(" IN " + i.rng.Format(flags))
	}
	b.WriteString(")")
	return b.String()
}

// TimeWithRange is a time that is only known to lie within a range, as in
// "the weekend" or "the last three days".
type TimeWithRange struct {
	attrs
	rng *Range
}

// NewTimeWithRange returns the time within r.
func NewTimeWithRange(r *Range) *TimeWithRange {
	return &TimeWithRange{rng: r}
}

func (t *TimeWithRange) isTime() {}

func (t *TimeWithRange) IsGrounded() bool      { return t.rng != nil && t.rng.IsGrounded() }
func (t *TimeWithRange) Time() Time            { return t }
func (t *TimeWithRange) Period() Duration      { return standardPeriod(t.attrs) }
func (t *TimeWithRange) Granularity() Duration { return standardGranularity(t.attrs) }
func (t *TimeWithRange) TimexType() TimexType  { return timeTimexType(t.attrs, t.HasTime()) }
func (t *TimeWithRange) String() string        { return t.Format(FormatFull) }

func (t *TimeWithRange) WithModApprox(mod string, approx bool) Temporal {
	c := *t
	c.attrs = c.withModApprox(mod, approx)
	return &c
}

func (t *TimeWithRange) HasTime() bool {
	return t.rng != nil && t.rng.begin != nil && t.rng.begin.HasTime()
}

func (t *TimeWithRange) Duration() Duration {
	if t.rng == nil {
		return nil
	}
	return t.rng.Duration()
}

func (t *TimeWithRange) Range(flags int, granularity Duration) *Range {
	if t.rng == nil {
		return nil
	}
	return t.rng.Range(flags, granularity)
}

// Instant is the start of the range.
func (t *TimeWithRange) Instant() (time.Time, bool) {
	if t.rng == nil {
		return time.Time{}, false
	}
	return instantOf(t.rng.begin)
}

func (t *TimeWithRange) Partial() (calendar.Partial, bool) { return calendar.Partial{}, false }

func (t *TimeWithRange) Add(d Duration) Time {
	if t.std != TypeNone || t.rng == nil {
		return NewRelativeTime(t, OpOffset, d, 0)
	}
	return &TimeWithRange{attrs: t.derived(), rng: t.rng.Offset(d, 0)}
}

func (t *TimeWithRange) Intersect(o Temporal) Temporal {
	if isUnknownTime(o) {
		return t
	}
	switch o.(type) {
	case *PartialTime, *CompositePartialTime, *GroundedTime:
		return o.Intersect(t)
	}
	if t.rng == nil {
		return nil
	}
	r := t.rng.Intersect(o)
	if rr, ok := r.(*Range); ok {
		return NewTimeWithRange(rr)
	}
	return r
}

func (t *TimeWithRange) Resolve(ref Time, flags int) (Temporal, error) {
	if c := makeComposite(&PartialTime{}, t); c != nil {
		return c.Resolve(ref, flags)
	}
	out := &TimeWithRange{attrs: t.attrs}
	if t.rng != nil {
		r, err := t.rng.Resolve(ref, flags)
		if err != nil {
			return nil, err
		}
		if r != nil {
			out.rng = r.Range(RangeFlagsPadAuto, nil)
		}
	}
	return out, nil
}

// Format renders the range; TIMEX3 values use the ISO form.
func (t *TimeWithRange) Format(flags int) string {
	if t.label != "" {
		return t.label
	}
	if t.rng == nil {
		return ""
	}
	if flags&FormatTimex3Value != 0 {
		flags |= FormatISO
	}
	return t.rng.Format(flags)
}
