package rrule

import (
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/timenorm/internal/calendar"
	"github.com/hrygo/timenorm/plugin/temporal"
	"github.com/hrygo/timenorm/server/timezone"
)

var (
	// ErrUnsupportedSet is returned for sets whose recurrence has no RRULE
	// form, e.g. a periodicity mixing units.
	ErrUnsupportedSet = errors.New("set has no recurrence rule")
	// ErrUnbounded is returned when expanding a set without a start.
	ErrUnbounded = errors.New("set has no start to expand from")
)

var unitFrequencies = map[calendar.Unit]struct {
	freq  Frequency
	scale int
}{
	calendar.UnitSeconds:   {Secondly, 1},
	calendar.UnitMinutes:   {Minutely, 1},
	calendar.UnitHours:     {Hourly, 1},
	calendar.UnitHalfdays:  {Hourly, 12},
	calendar.UnitDays:      {Daily, 1},
	calendar.UnitWeeks:     {Weekly, 1},
	calendar.UnitMonths:    {Monthly, 1},
	calendar.UnitQuarters:  {Monthly, 3},
	calendar.UnitYears:     {Yearly, 1},
	calendar.UnitDecades:   {Yearly, 10},
	calendar.UnitCenturies: {Yearly, 100},
}

// FromSet returns the recurrence rule of a periodic set. The periodicity
// gives FREQ and INTERVAL; calendar fields of the base become BY* parts and
// the end of the set's range becomes UNTIL.
func FromSet(set *temporal.PeriodicTemporalSet) (*Rule, error) {
	if set == nil || set.Periodicity() == nil {
		return nil, errors.Wrap(ErrUnsupportedSet, "no periodicity")
	}
	per, ok := set.Periodicity().Fields()
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedSet, "periodicity %s", temporal.ISO(set.Periodicity()))
	}
	units := per.Units()
	if len(units) != 1 {
		return nil, errors.Wrapf(ErrUnsupportedSet, "periodicity %s", per)
	}
	f, ok := unitFrequencies[units[0]]
	n := per.Get(units[0])
	if !ok || n <= 0 {
		return nil, errors.Wrapf(ErrUnsupportedSet, "periodicity %s", per)
	}
	rule := &Rule{Frequency: f.freq, Interval: n * f.scale}

	if base, ok := set.Base().(temporal.Time); ok {
		if p, ok := base.Partial(); ok {
			applyFields(rule, p)
		}
	}
	if until, ok := untilOf(set.OccursIn(), nil); ok {
		rule.Until = until.UTC()
	}
	return rule, nil
}

// instantIn reads t in loc. Partial times are wall-clock times there.
func instantIn(t temporal.Time, loc *time.Location) (time.Time, bool) {
	if p, ok := t.Partial(); ok && loc != nil && !t.IsGrounded() {
		return p.Instant(loc)
	}
	return t.Instant()
}

// untilOf is the last instant of the range; a date end includes the whole
// day.
func untilOf(r *temporal.Range, loc *time.Location) (time.Time, bool) {
	if r == nil || r.End() == nil {
		return time.Time{}, false
	}
	end, ok := instantIn(r.End(), loc)
	if !ok {
		return time.Time{}, false
	}
	if !r.End().HasTime() {
		end = timezone.EndOfDay(end, end.Location())
	}
	return end, true
}

func applyFields(rule *Rule, p calendar.Partial) {
	if v, ok := p.Get(calendar.MonthOfYear); ok {
		rule.ByMonth = []int{v}
	}
	if v, ok := p.Get(calendar.DayOfMonth); ok {
		rule.ByMonthDay = []int{v}
	}
	if v, ok := p.Get(calendar.DayOfWeek); ok {
		// ISO day of week: 1 is Monday, 7 is Sunday
		rule.ByDay = []Weekday{weekdayOf(time.Weekday(v % 7))}
	}
	if v, ok := p.Get(calendar.HourOfDay); ok {
		rule.ByHour = []int{v}
	}
	if v, ok := p.Get(calendar.MinuteOfHour); ok {
		rule.ByMinute = []int{v}
	}
	if v, ok := p.Get(calendar.SecondOfMinute); ok {
		rule.BySecond = []int{v}
	}
}

// Expand lists the occurrences of a set within its range, at most max of
// them. Without a range end it stops at max.
func Expand(set *temporal.PeriodicTemporalSet, loc *time.Location, max int) ([]time.Time, error) {
	rule, err := FromSet(set)
	if err != nil {
		return nil, err
	}
	r := set.OccursIn()
	if r == nil || r.Begin() == nil {
		return nil, ErrUnbounded
	}
	start, ok := instantIn(r.Begin(), loc)
	if !ok {
		return nil, errors.Wrapf(ErrUnbounded, "range start %s", temporal.ISO(r.Begin()))
	}
	if until, ok := untilOf(r, loc); ok {
		rule.Until = until
	}
	return NewGenerator(rule, start, loc).All(max), nil
}

// Bound restricts set to the range from..until, both written as dates or
// date-times. An empty end stays open.
func Bound(set *temporal.PeriodicTemporalSet, from, until string) (*temporal.PeriodicTemporalSet, error) {
	if from == "" && until == "" {
		return set, nil
	}
	var begin, end temporal.Time
	if from != "" {
		t, err := temporal.ParseDateTime(from)
		if err != nil {
			return nil, err
		}
		begin = t
	}
	if until != "" {
		t, err := temporal.ParseDateTime(until)
		if err != nil {
			return nil, err
		}
		end = t
	}
	return set.WithOccursIn(temporal.NewRange(begin, end, nil)), nil
}
