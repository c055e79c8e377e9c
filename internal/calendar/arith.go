package calendar

import (
	"time"
)

// Add moves the partial by per. Counts that the partial has no field for are
// returned as the remainder instead of being dropped.
//
// Full dates are moved through their instant, so weeks and days always apply.
// Other partials are stepped field by field: finer fields carry into coarser
// ones when those are present and wrap around otherwise; quarters, decades and
// centuries step their own fields when the partial carries them.
func (p Partial) Add(per Period) (Partial, Period) {
	if per.IsZero() || p.IsEmpty() {
		return p, per
	}
	if p.HasDate() {
		return p.addThroughInstant(per)
	}
	return p.addFields(per)
}

func (p Partial) addThroughInstant(per Period) (Partial, Period) {
	msf, _ := p.MostSpecific()
	applied := per.TruncateBelow(msf.Unit())
	rest := per.Plus(applied.Negate())
	if applied.IsZero() {
		return p, rest
	}
	t, ok := p.Instant(time.UTC)
	if !ok {
		return p, per
	}
	return p.reassign(applied.AddTo(t)), rest
}

// reassign copies the value of every field p carries from t.
func (p Partial) reassign(t time.Time) Partial {
	out := p
	for _, f := range p.Fields() {
		if f == Era {
			continue
		}
		v := ValueAt(t, f)
		if f == Year && p.Has(Era) {
			era := EraAD
			if v <= 0 {
				era, v = EraBC, 1-v
			}
			out = out.With(Era, era)
		}
		out = out.With(f, v)
	}
	return out
}

// step adds n to f, wrapping within the field's range, and returns the carry
// into the next coarser unit.
func (p Partial) step(f Field, n, lo, span int) (Partial, int) {
	v := p.values[f] - lo + n
	return p.With(f, floorMod(v, span)+lo), floorDiv(v, span)
}

func (p Partial) addFields(per Period) (Partial, Period) {
	var rest Period
	out := p

	// Clock fields, finest first, carrying upward.
	carry := 0
	clock := []struct {
		unit  Unit
		field Field
		span  int
	}{
		{UnitMillis, MillisOfSecond, 1000},
		{UnitSeconds, SecondOfMinute, 60},
		{UnitMinutes, MinuteOfHour, 60},
	}
	for _, c := range clock {
		n := per.Get(c.unit) + carry
		carry = 0
		if n == 0 {
			continue
		}
		if !out.Has(c.field) {
			rest = rest.With(c.unit, n)
			continue
		}
		out, carry = out.step(c.field, n, 0, c.span)
	}

	hours := per.Get(UnitHours) + carry
	carry = 0
	halfdays := per.Get(UnitHalfdays)
	switch {
	case out.Has(HourOfDay):
		out, carry = out.step(HourOfDay, hours+12*halfdays, 0, 24)
	case out.Has(Halfday) && hours%12 == 0:
		out, carry = out.step(Halfday, halfdays+hours/12, 0, 2)
	default:
		rest = rest.With(UnitHours, hours).With(UnitHalfdays, halfdays)
	}

	days := per.Get(UnitDays) + carry
	carry = 0
	weeks := per.Get(UnitWeeks)
	switch {
	case days == 0:
	case out.Has(DayOfMonth):
		span := 31
		if out.Has(MonthOfYear) {
			span = daysIn(2001, out.values[MonthOfYear])
		}
		out, carry = out.step(DayOfMonth, days, 1, span)
		if out.Has(MonthOfYear) {
			out, _ = out.step(MonthOfYear, carry, 1, 12)
		}
		carry = 0
	case out.Has(DayOfWeek):
		out, carry = out.step(DayOfWeek, days, 1, 7)
		weeks += carry
		carry = 0
	case out.Has(DayOfYear):
		out, carry = out.step(DayOfYear, days, 1, 365)
	case out.Has(MonthOfYear) && days > 0:
		out = out.With(DayOfMonth, days)
	default:
		rest = rest.With(UnitDays, days)
	}

	switch {
	case weeks == 0:
	case out.Has(WeekOfYear):
		out, carry = out.step(WeekOfYear, weeks, 1, 52)
	default:
		rest = rest.With(UnitWeeks, weeks)
	}

	months := per.Get(UnitMonths)
	quarters := per.Get(UnitQuarters)
	yearCarry := carry
	switch {
	case months == 0 && quarters == 0:
	case out.Has(MonthOfYear):
		var c int
		out, c = out.step(MonthOfYear, months+3*quarters, 1, 12)
		yearCarry += c
	case out.Has(Quarter) && months%3 == 0:
		var c int
		out, c = out.step(Quarter, quarters+months/3, 1, 4)
		yearCarry += c
	default:
		rest = rest.With(UnitMonths, months).With(UnitQuarters, quarters)
	}

	years := per.Get(UnitYears) + 10*per.Get(UnitDecades) + 100*per.Get(UnitCenturies) + 1000*per.Get(UnitMillennia)
	if out.Has(Year) {
		out = out.With(Year, out.values[Year]+years+yearCarry)
		return out, rest
	}
	years += yearCarry
	switch {
	case years == 0:
	case out.Has(YearOfCentury):
		var c int
		out, c = out.step(YearOfCentury, years, 0, 100)
		if out.Has(Century) {
			out = out.With(Century, out.values[Century]+c)
		}
	case years%100 == 0 && out.Has(Century):
		out = out.With(Century, out.values[Century]+years/100)
	case years%10 == 0 && out.Has(Decade):
		var c int
		out, c = out.step(Decade, years/10, 0, 10)
		if out.Has(Century) {
			out = out.With(Century, out.values[Century]+c)
		}
	default:
		rest = rest.
			With(UnitYears, per.Get(UnitYears)).
			With(UnitDecades, per.Get(UnitDecades)).
			With(UnitCenturies, per.Get(UnitCenturies)).
			With(UnitMillennia, per.Get(UnitMillennia))
	}
	return out, rest
}
