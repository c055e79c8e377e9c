package temporal

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/timenorm/internal/calendar"
)

// PartialTime is a time given by some calendar fields only: "June 2020",
// "Friday", "14:30".
type PartialTime struct {
	attrs
	p    calendar.Partial
	zone *time.Location
}

// NewPartialTime returns the time denoted by p.
func NewPartialTime(p calendar.Partial) *PartialTime {
	return &PartialTime{p: p}
}

// WithZone returns a copy of t in the given zone.
func (t *PartialTime) WithZone(loc *time.Location) *PartialTime {
	c := *t
	c.zone = loc
	return &c
}

// Zone returns the zone of t, or nil.
func (t *PartialTime) Zone() *time.Location { return t.zone }

func (t *PartialTime) location() *time.Location {
	if t.zone == nil {
		return time.UTC
	}
	return t.zone
}

func (t *PartialTime) with(p calendar.Partial) *PartialTime {
	c := *t
	c.p = p
	return &c
}

func (t *PartialTime) isTime() {}

func (t *PartialTime) Partial() (calendar.Partial, bool) { return t.p, true }

func (t *PartialTime) Instant() (time.Time, bool) { return t.p.Instant(t.location()) }

// HasTime reports whether a field finer than a day is assigned.
func (t *PartialTime) HasTime() bool { return hasTimeFields(t.p) }

func (t *PartialTime) IsGrounded() bool { return false }
func (t *PartialTime) Time() Time       { return t }

// Duration is the span of one value of the most specific field.
func (t *PartialTime) Duration() Duration {
	if t.std != TypeNone {
		return t.std.Duration()
	}
	return periodOf(t.p)
}

// Period is one cycle of the most general field: a year for "June", a week
// for "Friday".
func (t *PartialTime) Period() Duration      { return timePeriod(t.attrs, t.p) }
func (t *PartialTime) Granularity() Duration { return timeGranularity(t.attrs, t.p) }
func (t *PartialTime) TimexType() TimexType  { return timeTimexType(t.attrs, t.HasTime()) }
func (t *PartialTime) String() string        { return t.Format(FormatFull) }

func (t *PartialTime) WithModApprox(mod string, approx bool) Temporal {
	c := *t
	c.attrs = c.withModApprox(mod, approx)
	return &c
}

// Range pads the fields finer than the value according to the policy in flags
// and spans one Duration from there. The end is the last value at the padding
// granularity, e.g. June 2020 under RangeFlagsPadAuto runs from 2020-06-01 to
// 2020-06-30.
func (t *PartialTime) Range(flags int, granularity Duration) *Range {
	d := t.Duration()
	if d == nil {
		return timeRange(t)
	}
	start := t
	switch flags & RangeFlagsPadMask {
	case RangeFlagsPadNone:
	case RangeFlagsPadFinest:
		granularity = UnitDuration(calendar.UnitMillis)
		start = t.pad(granularity)
	case RangeFlagsPadSpecified:
		start = t.pad(granularity)
	default:
		granularity = UnitDuration(calendar.UnitDays)
		if t.HasTime() {
			granularity = UnitDuration(calendar.UnitMillis)
		}
		start = t.pad(granularity)
	}
	start = start.with(start.p.Standardize(start.location()))
	end := start.Add(d)
	if granularity != nil {
		end = Subtract(end, granularity)
	}
	return NewRange(start, end, d)
}

func (t *PartialTime) pad(granularity Duration) *PartialTime {
	u := calendar.UnitNone
	if granularity != nil {
		if per, ok := granularity.Fields(); ok {
			u, _ = per.Finest()
		}
	}
	return &PartialTime{p: t.p.Pad(u), zone: t.zone}
}

// Resolve fills in the fields t lacks from ref. Under a direction flag the
// result is moved by one period when it lies on the wrong side of ref.
func (t *PartialTime) Resolve(ref Time, flags int) (Temporal, error) {
	if ref == nil || ref == Time(timeUnknown) || ref == Time(timeRef) {
		return t, nil
	}
	rp, ok := ref.Partial()
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedReference, "cannot resolve %s against %s", t, kindOf(ref))
	}
	p := t.p.CombineMoreGeneral(rp, nil).ResolveDayOfWeek(rp, t.location())
	// nothing was borrowed from ref, so there is no other occurrence to pick
	if p == t.p {
		return t, nil
	}
	resolved := t.with(p)

	rg, refG := resolved.Granularity(), ref.Granularity()
	if rg == nil || refG == nil || CompareDurations(rg, refG) < 0 {
		return resolved, nil
	}
	c, ok := CompareTimes(resolved, ref)
	if !ok {
		return resolved, nil
	}
	switch {
	case flags&ResolveToPast != 0:
		if c > 0 {
			if alt := t.stepResolve(ref, -1); alt != nil {
				return alt, nil
			}
		}
	case flags&ResolveToFuture != 0:
		if c < 0 {
			if alt := t.stepResolve(ref, 1); alt != nil {
				return alt, nil
			}
		}
	case flags&ResolveToClosest != 0:
		if c > 0 {
			if alt := t.stepResolve(ref, -1); alt != nil {
				return Closest(ref, alt, resolved), nil
			}
		} else if c < 0 {
			if alt := t.stepResolve(ref, 1); alt != nil {
				return Closest(ref, resolved, alt), nil
			}
		}
	}
	return resolved, nil
}

// stepResolve resolves the neighbor of t one period away.
func (t *PartialTime) stepResolve(ref Time, sign int) Time {
	n := stepPeriod(t, sign)
	if n == nil {
		return nil
	}
	r, err := n.Resolve(ref, 0)
	if err != nil {
		return nil
	}
	rt, _ := r.(Time)
	return rt
}

func (t *PartialTime) Intersect(o Temporal) Temporal {
	if isUnknownTime(o) || o == Temporal(durationUnknown) {
		return t
	}
	if t.p.IsEmpty() {
		return o
	}
	switch o := o.(type) {
	case *CompositePartialTime, *GroundedTime, *RelativeTime, *Range, TemporalSet:
		return o.Intersect(t)
	case *PartialTime:
		if !t.p.Compatible(o.p) {
			return nil
		}
		out := NewPartialTime(t.p.Combine(o.p))
		out.zone = t.zone
		if out.zone == nil {
			out.zone = o.zone
		}
		return out
	case Duration:
		return NewRelativeTime(t, OpIntersect, o, 0)
	case Time:
		if c := makeComposite(t, o); c != nil {
			return c
		}
		if _, ok := o.(*InexactTime); ok {
			return o.Intersect(t)
		}
	}
	return nil
}

// Add applies d to the assigned fields. Whatever cannot be applied stays as
// an offset to be carried out once the time is resolved.
func (t *PartialTime) Add(d Duration) Time {
	if d == nil || t.p.IsEmpty() {
		return t
	}
	per, ok := d.Fields()
	if !ok {
		return offsetNode(t, d, t.attrs)
	}
	p, rest := t.p.Add(per)
	out := &PartialTime{attrs: t.derived(), p: p, zone: t.zone}
	if rest.IsZero() {
		return out
	}
	return offsetNode(out, NewDurationWithFields(rest), t.attrs)
}

// offsetNode defers base + d, keeping the modifier of a.
func offsetNode(base Time, d Duration, a attrs) Time {
	rt := NewRelativeTime(base, OpOffset, d, 0)
	rt.attrs = rt.withModApprox(a.mod, a.approx)
	return rt
}

// ToList returns every date in the month that falls on the day of week,
// e.g. the Fridays of June 2023. It is nil unless year, month and day of
// week are set.
func (t *PartialTime) ToList() []Time {
	days := t.p.WeekdaysInMonth()
	if days == nil {
		return nil
	}
	out := make([]Time, len(days))
	for i, p := range days {
		out[i] = t.with(p)
	}
	return out
}

func (t *PartialTime) Format(flags int) string {
	if t.label != "" {
		return t.label
	}
	s := formatPartial(t.p, flags)
	if t.zone != nil {
		s += time.Unix(0, 0).In(t.zone).Format("-0700")
	}
	return s
}

func formatPartial(p calendar.Partial, flags int) string {
	date, hasDate := formatDate(p, flags)
	if !hasTimeFields(p) {
		return date
	}
	if !hasDate {
		date = ""
	}
	return date + formatClock(p, flags&FormatPadUnknown != 0)
}

// formatDate renders the date fields of p. It reports false when p carries
// no date at all.
func formatDate(p calendar.Partial, flags int) (string, bool) {
	var b strings.Builder
	pad := flags&FormatPadUnknown != 0
	compact := flags&(FormatISO|FormatTimex3Value) != 0
	hasDate := true

	if era, ok := p.Get(calendar.Era); ok {
		if era == calendar.EraBC {
			b.WriteByte('-')
		} else {
			b.WriteByte('+')
		}
	}
	switch {
	case p.Has(calendar.Century) || p.Has(calendar.Decade) || p.Has(calendar.YearOfCentury):
		writeField(&b, p, calendar.Century, "%02d", padUnknown2)
		if v, ok := p.Get(calendar.Decade); ok {
			fmt.Fprintf(&b, "%d%s", v, padUnknown)
		} else {
			writeField(&b, p, calendar.YearOfCentury, "%02d", padUnknown2)
		}
	case p.Has(calendar.Year):
		fmt.Fprintf(&b, "%04d", p.Value(calendar.Year))
	default:
		b.WriteString(padUnknown4)
		hasDate = false
	}

	quarter, monthDay, weekDay := !compact, !compact, !compact
	if compact {
		switch {
		case p.Has(calendar.MonthOfYear) && p.Has(calendar.DayOfMonth):
			monthDay = true
		case p.Has(calendar.WeekOfYear) || p.Has(calendar.DayOfWeek):
			weekDay = true
		case p.Has(calendar.MonthOfYear) || p.Has(calendar.DayOfMonth):
			monthDay = true
		case p.Has(calendar.Quarter):
			quarter = true
		}
	}
	if v, ok := p.Get(calendar.Quarter); ok && quarter {
		fmt.Fprintf(&b, "-Q%d", v)
	}
	if monthDay && (p.Has(calendar.MonthOfYear) || p.Has(calendar.DayOfMonth)) {
		hasDate = true
		b.WriteByte('-')
		writeField(&b, p, calendar.MonthOfYear, "%02d", padUnknown2)
		if v, ok := p.Get(calendar.DayOfMonth); ok {
			fmt.Fprintf(&b, "-%02d", v)
		} else if pad {
			b.WriteString("-" + padUnknown2)
		}
	}
	if weekDay && (p.Has(calendar.WeekOfYear) || p.Has(calendar.DayOfWeek)) {
		hasDate = true
		b.WriteString("-W")
		writeField(&b, p, calendar.WeekOfYear, "%02d", padUnknown2)
		if v, ok := p.Get(calendar.DayOfWeek); ok {
			fmt.Fprintf(&b, "-%d", v)
		}
	}
	return b.String(), hasDate
}

func formatClock(p calendar.Partial, pad bool) string {
	var b strings.Builder
	msf, _ := p.MostSpecific()
	b.WriteByte('T')
	writeField(&b, p, calendar.HourOfDay, "%02d", padUnknown2)
	for _, f := range []calendar.Field{calendar.MinuteOfHour, calendar.SecondOfMinute} {
		if v, ok := p.Get(f); ok {
			fmt.Fprintf(&b, ":%02d", v)
		} else if pad || f.MoreGeneral(msf) {
			b.WriteString(":" + padUnknown2)
		}
	}
	if v, ok := p.Get(calendar.MillisOfSecond); ok {
		fmt.Fprintf(&b, ".%03d", v)
	}
	return b.String()
}

func writeField(b *strings.Builder, p calendar.Partial, f calendar.Field, format, unknown string) {
	if v, ok := p.Get(f); ok {
		fmt.Fprintf(b, format, v)
		return
	}
	b.WriteString(unknown)
}
