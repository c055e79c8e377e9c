package calendar

import (
	"time"

	"golang.org/x/exp/constraints"
)

// FromTime returns the standard full partial (year down to millisecond) of t.
func FromTime(t time.Time) Partial {
	return Of(
		FieldValue{Year, t.Year()},
		FieldValue{MonthOfYear, int(t.Month())},
		FieldValue{DayOfMonth, t.Day()},
		FieldValue{HourOfDay, t.Hour()},
		FieldValue{MinuteOfHour, t.Minute()},
		FieldValue{SecondOfMinute, t.Second()},
		FieldValue{MillisOfSecond, t.Nanosecond() / int(time.Millisecond)},
	)
}

// FromDate returns a year/month/day partial of t.
func FromDate(t time.Time) Partial {
	return Of(
		FieldValue{Year, t.Year()},
		FieldValue{MonthOfYear, int(t.Month())},
		FieldValue{DayOfMonth, t.Day()},
	)
}

// ResolvedYear returns the proleptic (astronomical) year the partial denotes,
// built from year, or century plus decade or year of century.
func (p Partial) ResolvedYear() (int, bool) {
	var y int
	switch {
	case p.Has(Year):
		y = p.values[Year]
	case p.Has(Century):
		y = p.values[Century] * 100
		if p.Has(YearOfCentury) {
			y += p.values[YearOfCentury]
		} else if p.Has(Decade) {
			y += p.values[Decade] * 10
		}
	default:
		return 0, false
	}
	if p.Has(Era) && p.values[Era] == EraBC {
		y = 1 - y
	}
	return y, true
}

// Instant returns the earliest instant the partial denotes in loc. Missing
// fields finer than the year take their minimum. It fails when no year can
// be derived.
func (p Partial) Instant(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	year, ok := p.ResolvedYear()
	if !ok {
		return time.Time{}, false
	}

	var date time.Time
	switch {
	case p.Has(WeekOfYear) && !p.Has(DayOfMonth):
		dow := 1
		if p.Has(DayOfWeek) {
			dow = p.values[DayOfWeek]
		}
		date = isoWeekDate(year, p.values[WeekOfYear], dow, loc)
	case p.Has(DayOfYear) && !p.Has(DayOfMonth):
		date = time.Date(year, time.January, p.values[DayOfYear], 0, 0, 0, 0, loc)
	default:
		month := 1
		switch {
		case p.Has(MonthOfYear):
			month = p.values[MonthOfYear]
		case p.Has(Quarter):
			month = (p.values[Quarter]-1)*3 + 1
		}
		day := 1
		if p.Has(DayOfMonth) {
			day = p.values[DayOfMonth]
		}
		date = time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
		if p.Has(DayOfWeek) {
			date = sameWeekday(date, p.values[DayOfWeek])
		}
	}

	hour := 0
	switch {
	case p.Has(HourOfDay):
		hour = p.values[HourOfDay]
	case p.Has(Halfday):
		hour = 12 * p.values[Halfday]
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour,
		p.values[MinuteOfHour], p.values[SecondOfMinute],
		p.values[MillisOfSecond]*int(time.Millisecond), loc), true
}

// Pad fills the fields finer than the most specific assigned field with their
// minimum values, then drops everything finer than granularity (when it is a
// real unit). Decade and century only values are first converted to years.
func (p Partial) Pad(granularity Unit) Partial {
	msf, ok := p.MostSpecific()
	if !ok {
		return p
	}
	if msf.Unit() > UnitYears && !p.Has(YearOfCentury) && !p.Has(Year) {
		switch {
		case p.Has(Decade) && p.Has(Century):
			y := p.values[Century]*100 + p.values[Decade]*10
			p = p.Without(Decade, Century).With(Year, y)
		case p.Has(Decade):
			p = p.Without(Decade).With(YearOfCentury, p.values[Decade]*10)
		case p.Has(Century):
			p = p.Without(Century).With(Year, p.values[Century]*100)
		}
	}

	chain := []Field{MonthOfYear, DayOfMonth, HourOfDay, MinuteOfHour, SecondOfMinute, MillisOfSecond}
	if p.Has(WeekOfYear) {
		if !p.Has(DayOfMonth) && !p.Has(DayOfWeek) {
			p = p.With(DayOfWeek, 1).Without(MonthOfYear)
		}
		chain = []Field{WeekOfYear, DayOfWeek, HourOfDay, MinuteOfHour, SecondOfMinute, MillisOfSecond}
	}
	for _, f := range chain {
		if p.Has(f) || !f.MoreSpecific(msf) {
			continue
		}
		switch {
		case f == DayOfMonth && p.Has(DayOfWeek):
			continue
		case f == MonthOfYear && p.Has(Quarter):
			p = p.With(MonthOfYear, (p.values[Quarter]-1)*3+1)
		case f == HourOfDay && p.Has(Halfday):
			p = p.With(HourOfDay, 12*p.values[Halfday])
		default:
			p = p.With(f, f.Min())
		}
	}
	if granularity.Valid() {
		p = p.DiscardFinerThan(granularity)
	}
	return p
}

// Standardize rewrites week based dates into year/month/day when the week
// can be pinned down, and drops redundant week fields from full dates.
func (p Partial) Standardize(loc *time.Location) Partial {
	if p.Has(DayOfWeek) && p.Has(WeekOfYear) && !p.Has(DayOfMonth) {
		if t, ok := p.Instant(loc); ok {
			return p.Without(DayOfWeek, WeekOfYear).withDate(t)
		}
	}
	if p.Has(MonthOfYear) && p.Has(DayOfMonth) {
		p = p.Without(WeekOfYear, DayOfWeek)
	}
	return p
}

// ResolveDayOfWeek pins a day-of-week partial to a concrete day, using the
// week that contains ref's date. Year and month already set on p override
// those of ref.
func (p Partial) ResolveDayOfWeek(ref Partial, loc *time.Location) Partial {
	if !p.Has(DayOfWeek) || p.Has(DayOfMonth) {
		return p
	}
	if p.Has(WeekOfYear) && p.Has(Year) {
		return p.Standardize(loc)
	}
	if !ref.HasDate() {
		return p
	}
	year, month, day := ref.values[Year], ref.values[MonthOfYear], ref.values[DayOfMonth]
	if p.Has(Year) {
		year = p.values[Year]
	}
	if p.Has(MonthOfYear) {
		month = p.values[MonthOfYear]
	}
	if n := daysIn(year, month); day > n {
		day = n
	}
	t := sameWeekday(time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), p.values[DayOfWeek])
	return p.Without(DayOfWeek, WeekOfYear).withDate(t)
}

func (p Partial) withDate(t time.Time) Partial {
	return p.With(Year, t.Year()).With(MonthOfYear, int(t.Month())).With(DayOfMonth, t.Day())
}

// WeekdaysInMonth lists the dates in p's year and month that fall on p's day
// of week. p must carry year, month and day of week.
func (p Partial) WeekdaysInMonth() []Partial {
	if !p.Has(Year) || !p.Has(MonthOfYear) || !p.Has(DayOfWeek) {
		return nil
	}
	year, month := p.values[Year], time.Month(p.values[MonthOfYear])
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := floorMod(p.values[DayOfWeek]-isoWeekday(first), 7)
	var out []Partial
	for d := first.AddDate(0, 0, offset); d.Month() == month; d = d.AddDate(0, 0, 7) {
		out = append(out, p.Without(DayOfWeek, WeekOfYear).withDate(d))
	}
	return out
}

// isoWeekday returns 1 for Monday through 7 for Sunday.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// sameWeekday moves t to the given ISO weekday within its Monday-based week.
func sameWeekday(t time.Time, dow int) time.Time {
	return t.AddDate(0, 0, dow-isoWeekday(t))
}

func isoWeekDate(weekyear, week, dow int, loc *time.Location) time.Time {
	jan4 := time.Date(weekyear, time.January, 4, 0, 0, 0, 0, loc)
	monday := jan4.AddDate(0, 0, 1-isoWeekday(jan4))
	return monday.AddDate(0, 0, (week-1)*7+dow-1)
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv[T constraints.Integer](a, b T) T {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod[T constraints.Integer](a, b T) T {
	return a - floorDiv(a, b)*b
}

// ValueAt returns the value field f takes at t. Week of year is the ISO week.
func ValueAt(t time.Time, f Field) int {
	switch f {
	case Era:
		if t.Year() <= 0 {
			return EraBC
		}
		return EraAD
	case Century:
		return floorDiv(t.Year(), 100)
	case Decade:
		return floorMod(t.Year(), 100) / 10
	case YearOfCentury:
		return floorMod(t.Year(), 100)
	case Year:
		return t.Year()
	case Quarter:
		return (int(t.Month())-1)/3 + 1
	case MonthOfYear:
		return int(t.Month())
	case WeekOfYear:
		_, w := t.ISOWeek()
		return w
	case DayOfYear:
		return t.YearDay()
	case DayOfMonth:
		return t.Day()
	case DayOfWeek:
		return isoWeekday(t)
	case Halfday:
		return t.Hour() / 12
	case HourOfDay:
		return t.Hour()
	case MinuteOfHour:
		return t.Minute()
	case SecondOfMinute:
		return t.Second()
	case MillisOfSecond:
		return t.Nanosecond() / int(time.Millisecond)
	}
	return 0
}

// AtField returns the partial of t truncated to field f: every field of the
// standard full partial that is coarser than f, plus f itself. Week based
// fields use the ISO week year in place of month and day.
func AtField(t time.Time, f Field) Partial {
	if f == WeekOfYear {
		wy, w := t.ISOWeek()
		return Of(FieldValue{Year, wy}, FieldValue{WeekOfYear, w})
	}
	switch f {
	case Century, Decade, YearOfCentury:
		return Of(FieldValue{Century, ValueAt(t, Century)}, FieldValue{f, ValueAt(t, f)})
	}
	p := FromTime(t).With(f, ValueAt(t, f))
	return p.DiscardMoreSpecific(f)
}
