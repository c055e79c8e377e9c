package temporal

import (
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/timenorm/internal/calendar"
)

// CompositePartialTime is a partial time refined by named parts that have no
// calendar field of their own: a part of the year ("summer"), a group of days
// ("the weekend") or a time of day ("morning").
type CompositePartialTime struct {
	attrs
	p    calendar.Partial
	zone *time.Location

	poy Time // part of year
	dow Time // days of week
	tod Time // time of day
}

// NewCompositePartialTime returns base refined by the given parts. Any of the
// parts may be nil.
func NewCompositePartialTime(base *PartialTime, poy, dow, tod Time) *CompositePartialTime {
	c := &CompositePartialTime{poy: poy, dow: dow, tod: tod}
	if base != nil {
		c.attrs, c.p, c.zone = base.attrs, base.p, base.zone
	}
	return c
}

func (c *CompositePartialTime) with(p calendar.Partial) *CompositePartialTime {
	out := *c
	out.p = p
	return &out
}

func (c *CompositePartialTime) location() *time.Location {
	if c.zone == nil {
		return time.UTC
	}
	return c.zone
}

// PartOfYear, DaysOfWeek and TimeOfDay return the parts; nil when unset.
func (c *CompositePartialTime) PartOfYear() Time { return c.poy }
func (c *CompositePartialTime) DaysOfWeek() Time { return c.dow }
func (c *CompositePartialTime) TimeOfDay() Time  { return c.tod }

func (c *CompositePartialTime) isTime() {}

func (c *CompositePartialTime) Partial() (calendar.Partial, bool) { return c.p, true }

// Instant folds in every part whose fields agree with the base. A part that
// is only known as a range, like the weekend, contributes its first value.
func (c *CompositePartialTime) Instant() (time.Time, bool) {
	p := c.p
	for _, part := range []Time{c.tod, c.dow, c.poy} {
		if part == nil {
			continue
		}
		q, ok := part.Partial()
		if !ok {
			if r := part.Range(RangeFlagsPadNone, nil); r != nil && r.Begin() != nil {
				q, ok = r.Begin().Partial()
			}
		}
		if ok && p.Compatible(q) {
			p = p.Combine(q)
		}
	}
	return p.Instant(c.location())
}

func (c *CompositePartialTime) HasTime() bool    { return hasTimeFields(c.p) }
func (c *CompositePartialTime) IsGrounded() bool { return false }
func (c *CompositePartialTime) Time() Time       { return c }

// Duration is the shorter of the base span and the span of the finest part.
func (c *CompositePartialTime) Duration() Duration {
	if c.std != TypeNone {
		return c.std.Duration()
	}
	bd := periodOf(c.p)
	for _, part := range []Time{c.tod, c.dow, c.poy} {
		if part != nil {
			return MinDuration(bd, part.Duration())
		}
	}
	return bd
}

// Period is the longer of the base cycle and the cycle of the coarsest part.
func (c *CompositePartialTime) Period() Duration {
	if c.std != TypeNone {
		return c.std.Period()
	}
	var bd Duration
	if f, ok := c.p.MostGeneral(); ok {
		u := f.RangeUnit()
		if !u.Valid() || u == calendar.UnitEras {
			u = f.Unit()
		}
		if u.Valid() && u != calendar.UnitEras {
			bd = DurationOf(u, 1)
		}
	}
	for _, part := range []Time{c.poy, c.dow, c.tod} {
		if part != nil {
			return MaxDuration(bd, part.Period())
		}
	}
	return bd
}

func (c *CompositePartialTime) Granularity() Duration { return timeGranularity(c.attrs, c.p) }

func (c *CompositePartialTime) TimexType() TimexType {
	if c.HasTime() || c.tod != nil {
		return TimexTime
	}
	return TimexDate
}

func (c *CompositePartialTime) String() string { return c.Format(FormatFull) }

func (c *CompositePartialTime) WithModApprox(mod string, approx bool) Temporal {
	out := *c
	out.attrs = out.withModApprox(mod, approx)
	return &out
}

// Range takes the range of the finest part and intersects its endpoints with
// the rest of the value.
func (c *CompositePartialTime) Range(flags int, granularity Duration) *Range {
	d := c.Duration()
	var part Time
	var rest *CompositePartialTime
	switch {
	case c.tod != nil:
		part, rest = c.tod, NewCompositePartialTime(c.base(), c.poy, c.dow, nil)
	case c.dow != nil:
		part, rest = c.dow, NewCompositePartialTime(c.base(), c.poy, nil, nil)
	case c.poy != nil:
		part, rest = c.poy, NewCompositePartialTime(c.base(), nil, nil, nil)
	default:
		return c.base().Range(flags, granularity)
	}
	r := part.Range(flags, granularity)
	if r == nil {
		return c.base().Range(flags, granularity)
	}
	begin, _ := rest.Intersect(r.Begin()).(Time)
	end, _ := rest.Intersect(r.End()).(Time)
	return NewRange(c.standardized(begin), c.standardized(end), d)
}

func (c *CompositePartialTime) standardized(t Time) Time {
	switch t := t.(type) {
	case *PartialTime:
		return t.with(t.p.Standardize(t.location()))
	case *CompositePartialTime:
		return t.with(t.p.Standardize(t.location()))
	}
	return t
}

func (c *CompositePartialTime) base() *PartialTime {
	return &PartialTime{attrs: c.attrs, p: c.p, zone: c.zone}
}

func (c *CompositePartialTime) Intersect(o Temporal) Temporal {
	if isUnknownTime(o) || o == Temporal(durationUnknown) {
		return c
	}
	switch o := o.(type) {
	case *CompositePartialTime:
		if !c.p.Compatible(o.p) {
			return nil
		}
		poy, ok1 := intersectPart(c.poy, o.poy)
		dow, ok2 := intersectPart(c.dow, o.dow)
		tod, ok3 := intersectPart(c.tod, o.tod)
		if !ok1 || !ok2 || !ok3 {
			return nil
		}
		out := &CompositePartialTime{attrs: c.attrs, p: c.p.Combine(o.p), zone: c.zone, poy: poy, dow: dow, tod: tod}
		return out
	case *PartialTime:
		if !c.p.Compatible(o.p) {
			return nil
		}
		return c.with(c.p.Combine(o.p))
	case *GroundedTime, *RelativeTime, *Range, TemporalSet:
		return o.Intersect(c)
	case Duration:
		return NewRelativeTime(c, OpIntersect, o, 0)
	case Time:
		out := *c
		switch o.StandardType().composable() {
		case slotTimeOfDay:
			out.tod = o
			return &out
		case slotPartOfYear:
			out.poy = o
			return &out
		case slotDayOfWeek:
			out.dow = o
			return &out
		}
		if _, ok := o.(*InexactTime); ok {
			return o.Intersect(c)
		}
	}
	return nil
}

// intersectPart merges two optional parts. It reports false when both are
// set and do not intersect.
func intersectPart(a, b Time) (Time, bool) {
	switch {
	case a == nil:
		return b, true
	case b == nil:
		return a, true
	}
	t, _ := a.Intersect(b).(Time)
	return t, t != nil
}

func (c *CompositePartialTime) Add(d Duration) Time {
	if d == nil {
		return c
	}
	per, ok := d.Fields()
	if !ok {
		return offsetNode(c, d, c.attrs)
	}
	p, rest := c.p.Add(per)
	out := c.with(p)
	out.attrs = c.derived()
	if rest.IsZero() {
		return out
	}
	return offsetNode(out, NewDurationWithFields(rest), c.attrs)
}

// Resolve borrows from ref the fields coarser than the finest part: the year
// for a season, the week for the weekend, the day for the morning. Under a
// direction flag the result is moved by one period when it lies on the wrong
// side of ref.
func (c *CompositePartialTime) Resolve(ref Time, flags int) (Temporal, error) {
	if ref == nil || ref == Time(timeUnknown) || ref == Time(timeRef) {
		return c, nil
	}
	rp, ok := ref.Partial()
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedReference, "cannot resolve %s against %s", c, kindOf(ref))
	}
	var limit *calendar.Field
	switch {
	case c.poy != nil:
		limit = fieldPtr(calendar.Quarter)
	case c.dow != nil:
		limit = fieldPtr(calendar.DayOfWeek)
	case c.tod != nil:
		limit = fieldPtr(calendar.Halfday)
	}
	p := c.p.CombineMoreGeneral(rp, limit)
	switch {
	case p.Has(calendar.DayOfWeek):
		p = p.ResolveDayOfWeek(rp, c.location())
	case c.dow != nil && !c.p.Has(calendar.MonthOfYear):
		p = resolveWeek(p, ref)
	}
	if p == c.p {
		return c, nil
	}
	return c.with(p).directed(ref, flags, c.Period()), nil
}

// directed steps c by per, the cycle of the unresolved value, when c lies on
// the wrong side of ref for the direction in flags.
func (c *CompositePartialTime) directed(ref Time, flags int, per Duration) Time {
	if per == nil || flags&(ResolveToPast|ResolveToFuture|ResolveToClosest) == 0 {
		return c
	}
	cmp, ok := CompareTimes(c, ref)
	if !ok {
		return c
	}
	switch {
	case flags&ResolveToPast != 0:
		if cmp > 0 {
			return c.Add(per.MultiplyBy(-1))
		}
	case flags&ResolveToFuture != 0:
		if cmp < 0 {
			return c.Add(per)
		}
	case flags&ResolveToClosest != 0:
		if cmp > 0 {
			return Closest(ref, c.Add(per.MultiplyBy(-1)), c)
		} else if cmp < 0 {
			return Closest(ref, c, c.Add(per))
		}
	}
	return c
}

func fieldPtr(f calendar.Field) *calendar.Field { return &f }

// resolveWeek replaces the month of p by the ISO week of ref.
func resolveWeek(p calendar.Partial, ref Time) calendar.Partial {
	if p.Has(calendar.WeekOfYear) {
		return p
	}
	inst, ok := ref.Instant()
	if !ok {
		return p
	}
	wy, w := inst.ISOWeek()
	return p.Without(calendar.MonthOfYear, calendar.DayOfMonth).With(calendar.Year, wy).With(calendar.WeekOfYear, w)
}

func (c *CompositePartialTime) Format(flags int) string {
	if c.label != "" {
		return c.label
	}
	date, hasDate := formatDate(c.p, flags)
	if c.poy != nil && !c.p.Has(calendar.MonthOfYear) {
		date += "-" + ISO(c.poy)
		hasDate = true
	}
	if c.dow != nil && !c.p.Has(calendar.MonthOfYear) && !c.p.Has(calendar.DayOfWeek) {
		date += "-" + ISO(c.dow)
		hasDate = true
	}
	switch {
	case hasTimeFields(c.p):
		if !hasDate {
			date = ""
		}
		date += formatClock(c.p, flags&FormatPadUnknown != 0)
	case c.tod != nil:
		if !hasDate {
			date = ""
		}
		date += "T" + ISO(c.tod)
	}
	if c.zone != nil {
		date += time.Unix(0, 0).In(c.zone).Format("-0700")
	}
	return date
}
