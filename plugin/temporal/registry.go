package temporal

import (
	"sort"

	"github.com/hrygo/timenorm/internal/calendar"
)

// Anchors used by the algebra itself. Resolution recognizes them by
// identity.
var (
	timeRef     = &RefTime{name: "REF"}
	timeNow     = &RefTime{attrs: attrs{std: TypeRefTime, label: "PRESENT_REF"}, name: "NOW"}
	timeUnknown = &SimpleTime{name: "UNKNOWN"}
)

// TimeRef returns the anchor that stands for the reference time of a
// document.
func TimeRef() Time { return timeRef }

// TimeUnknown returns the placeholder for an unknown time.
func TimeUnknown() Time { return timeUnknown }

// DurationUnknown returns the placeholder for an unknown duration.
func DurationUnknown() Duration { return durationUnknown }

var unitNames = map[string]calendar.Unit{
	"MILLIS":     calendar.UnitMillis,
	"SECOND":     calendar.UnitSeconds,
	"MINUTE":     calendar.UnitMinutes,
	"HOUR":       calendar.UnitHours,
	"DAY":        calendar.UnitDays,
	"WEEK":       calendar.UnitWeeks,
	"MONTH":      calendar.UnitMonths,
	"QUARTER":    calendar.UnitQuarters,
	"YEAR":       calendar.UnitYears,
	"DECADE":     calendar.UnitDecades,
	"CENTURY":    calendar.UnitCenturies,
	"MILLENNIUM": calendar.UnitMillennia,
}

// LookupUnit returns the unit with the given name (DAY, WEEK, ...).
func LookupUnit(name string) (calendar.Unit, bool) {
	u, ok := unitNames[name]
	return u, ok
}

// constants is built once and never modified.
var constants = buildConstants()

// Constant returns the named value, e.g. "FRIDAY", "WINTER" or "TIME_REF".
func Constant(name string) (Temporal, bool) {
	t, ok := constants[name]
	return t, ok
}

// Constants returns the names of all constants in sorted order.
func Constants() []string {
	names := make([]string, 0, len(constants))
	for n := range constants {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func tag[T Temporal](t T, std StandardType, label, mod string) T {
	return withAttrs(t, func(a attrs) attrs {
		a.std, a.label, a.mod = std, label, mod
		return a
	}).(T)
}

func hourOfDay(h int) *InexactTime {
	return NewInexactPartial(calendar.Partial{}.With(calendar.HourOfDay, h))
}

func approxBetween(begin, end Time) *InexactTime {
	return NewInexactRange(NewRange(begin, end, nil))
}

func buildConstants() map[string]Temporal {
	m := make(map[string]Temporal)

	units := map[string]Duration{
		"HALFHOUR":    DurationOf(calendar.UnitMinutes, 30),
		"QUARTERHOUR": DurationOf(calendar.UnitMinutes, 15),
		"FORTNIGHT":   DurationOf(calendar.UnitWeeks, 2),
	}
	for name, u := range unitNames {
		units[name] = unitDurations[u]
	}
	for name, d := range units {
		m[name] = d
	}
	day := unitDurations[calendar.UnitDays]
	quarter := unitDurations[calendar.UnitQuarters]

	m["TIME_REF"] = timeRef
	m["TIME_REF_UNKNOWN"] = NewRefTime("UNKNOWN")
	m["TIME_UNKNOWN"] = timeUnknown
	m["TIME_NONE_OK"] = NewSimpleTime("NOTIME")
	m["TIME_NOW"] = timeNow
	m["TIME_PRESENT"] = tag(approxBetween(timeNow, timeNow), TypeRefDate, "PRESENT_REF", "")
	m["TIME_PAST"] = tag(approxBetween(timeUnknown, timeNow), TypeRefDate, "PAST_REF", "")
	m["TIME_FUTURE"] = tag(approxBetween(timeNow, timeUnknown), TypeRefDate, "FUTURE_REF", "")
	m["DURATION_UNKNOWN"] = durationUnknown
	m["DURATION_NONE"] = durationNone

	weekdays := []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"}
	dow := make([]*PartialTime, len(weekdays))
	for i, name := range weekdays {
		dow[i] = tag(NewPartialTime(calendar.Partial{}.With(calendar.DayOfWeek, i+1)), TypeDayOfWeek, "", "")
		m[name] = dow[i]
	}
	m["WEEKDAY"] = tag(NewInexactTime(nil, day, NewRange(dow[0], dow[4], nil)), TypeDaysOfWeek, "WD", "")
	m["WEEKEND"] = tag(NewTimeWithRange(NewRange(dow[5], dow[6], day.MultiplyBy(2))), TypeDaysOfWeek, "WE", "")

	months := []string{"JANUARY", "FEBRUARY", "MARCH", "APRIL", "MAY", "JUNE", "JULY",
		"AUGUST", "SEPTEMBER", "OCTOBER", "NOVEMBER", "DECEMBER"}
	month := make([]*PartialTime, len(months))
	for i, name := range months {
		month[i] = tag(IsoDate(Unknown, i+1, Unknown), TypeMonthOfYear, "", "")
		m[name] = month[i]
	}

	seasons := []struct {
		season, marker, label string
		markerFrom, markerTo  *PartialTime
		from, to              int
	}{
		{"SPRING", "SPRING_EQUINOX", "SP", IsoDate(Unknown, 3, 20), IsoDate(Unknown, 3, 21), 2, 5},
		{"SUMMER", "SUMMER_SOLSTICE", "SU", IsoDate(Unknown, 6, 20), IsoDate(Unknown, 6, 21), 5, 8},
		{"FALL", "FALL_EQUINOX", "FA", IsoDate(Unknown, 9, 22), IsoDate(Unknown, 9, 23), 8, 11},
		{"WINTER", "WINTER_SOLSTICE", "WI", IsoDate(Unknown, 12, 21), IsoDate(Unknown, 12, 22), 11, 2},
	}
	for _, s := range seasons {
		marker := tag(approxBetween(s.markerFrom, s.markerTo), TypeDayOfYear, s.label, "")
		m[s.marker] = marker
		m[s.season] = tag(NewInexactTime(marker, quarter, NewRange(month[s.from], month[s.to], quarter)),
			TypeSeasonOfYear, s.label, "")
	}

	noon := tag(IsoTime(12, 0, Unknown, Unknown, HalfdayUnknown), TypeTimeOfDay, "MI", "")
	m["NOON"] = noon
	m["MIDNIGHT"] = tag(IsoTime(0, 0, Unknown, Unknown, HalfdayUnknown), TypeTimeOfDay, "", "")
	m["MORNING"] = tag(approxBetween(hourOfDay(6), noon), TypeTimeOfDay, "MO", "")
	m["AFTERNOON"] = tag(approxBetween(noon, hourOfDay(18)), TypeTimeOfDay, "AF", "")
	m["EVENING"] = tag(approxBetween(hourOfDay(18), hourOfDay(20)), TypeTimeOfDay, "EV", "")
	night := tag(approxBetween(hourOfDay(19), hourOfDay(5)), TypeTimeOfDay, "NI", "")
	m["NIGHT"] = night

	sunrise := tag(NewPartialTime(calendar.Partial{}), TypeTimeOfDay, "MO", string(ModEarly))
	sunset := tag(NewPartialTime(calendar.Partial{}), TypeTimeOfDay, "EV", string(ModEarly))
	dawn := tag(NewPartialTime(calendar.Partial{}), TypeTimeOfDay, "MO", string(ModEarly))
	dusk := tag(NewPartialTime(calendar.Partial{}), TypeTimeOfDay, "EV", "")
	m["SUNRISE"], m["SUNSET"], m["DAWN"], m["DUSK"] = sunrise, sunset, dawn, dusk
	m["DAYTIME"] = tag(approxBetween(sunrise, sunset), TypeTimeOfDay, "DT", "")
	m["LUNCHTIME"] = tag(approxBetween(hourOfDay(12), hourOfDay(14)), TypeTimeOfDay, "MI", "")
	m["TEATIME"] = tag(approxBetween(hourOfDay(15), hourOfDay(17)), TypeTimeOfDay, "AF", "")
	m["DINNERTIME"] = tag(approxBetween(hourOfDay(18), hourOfDay(20)), TypeTimeOfDay, "EV", "")
	morningTwilight := tag(approxBetween(dawn, sunrise), TypeTimeOfDay, "MO", "")
	eveningTwilight := tag(approxBetween(sunset, dusk), TypeTimeOfDay, "EV", "")
	m["MORNING_TWILIGHT"] = morningTwilight
	m["EVENING_TWILIGHT"] = eveningTwilight
	m["TWILIGHT"] = tag(NewExplicitTemporalSet(eveningTwilight, morningTwilight), TypeTimeOfDay, "NI", "")

	m["YESTERDAY"] = NewRelativeTime(timeRef, OpOffset, day.MultiplyBy(-1), 0)
	m["TOMORROW"] = NewRelativeTime(timeRef, OpOffset, day, 0)
	m["TODAY"] = NewRelativeTime(timeRef, OpThis, day, 0)
	m["TONIGHT"] = NewRelativeTime(timeRef, OpThis, night, 0)

	m["HOURLY"] = NewPeriodicTemporalSet(nil, unitDurations[calendar.UnitHours], "EVERY", "P1X")
	m["NIGHTLY"] = NewPeriodicTemporalSet(night, day, "EVERY", "P1X")
	m["DAILY"] = NewPeriodicTemporalSet(nil, day, "EVERY", "P1X")
	m["WEEKLY"] = NewPeriodicTemporalSet(nil, unitDurations[calendar.UnitWeeks], "EVERY", "P1X")
	m["MONTHLY"] = NewPeriodicTemporalSet(nil, unitDurations[calendar.UnitMonths], "EVERY", "P1X")
	m["QUARTERLY"] = NewPeriodicTemporalSet(nil, quarter, "EVERY", "P1X")
	m["YEARLY"] = NewPeriodicTemporalSet(nil, unitDurations[calendar.UnitYears], "EVERY", "P1X")
	return m
}
