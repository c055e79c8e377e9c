package temporal

import (
	"github.com/hrygo/timenorm/internal/calendar"
)

// TimexType is the TIMEX3 type attribute.
type TimexType string

const (
	TimexNone     TimexType = ""
	TimexDate     TimexType = "DATE"
	TimexTime     TimexType = "TIME"
	TimexDuration TimexType = "DURATION"
	TimexSet      TimexType = "SET"
)

// TimexMod is a TIMEX3 modifier. Modifiers on values are free-form strings;
// the known ones have a symbol used by the full format.
type TimexMod string

const (
	ModBefore      TimexMod = "BEFORE"
	ModAfter       TimexMod = "AFTER"
	ModOnOrBefore  TimexMod = "ON_OR_BEFORE"
	ModOnOrAfter   TimexMod = "ON_OR_AFTER"
	ModLessThan    TimexMod = "LESS_THAN"
	ModMoreThan    TimexMod = "MORE_THAN"
	ModEqualOrLess TimexMod = "EQUAL_OR_LESS"
	ModEqualOrMore TimexMod = "EQUAL_OR_MORE"
	ModStart       TimexMod = "START"
	ModMid         TimexMod = "MID"
	ModEnd         TimexMod = "END"
	ModApprox      TimexMod = "APPROX"
	ModEarly       TimexMod = "EARLY"
	ModLate        TimexMod = "LATE"
)

var modSymbols = map[TimexMod]string{
	ModBefore:      "<",
	ModAfter:       ">",
	ModOnOrBefore:  "<=",
	ModOnOrAfter:   ">=",
	ModLessThan:    "<",
	ModMoreThan:    ">",
	ModEqualOrLess: "<=",
	ModEqualOrMore: ">=",
	ModApprox:      "~",
}

// Symbol returns the short symbol of the modifier, or "".
func (m TimexMod) Symbol() string {
	return modSymbols[m]
}

// Era and half day markers accepted by the constructors.
const (
	EraBC          = calendar.EraBC
	EraAD          = calendar.EraAD
	EraUnknown     = -1
	HalfdayAM      = calendar.AM
	HalfdayPM      = calendar.PM
	HalfdayUnknown = -1
)

// StandardType tags values that belong to a well known category (a day of
// the week, a season) and gives them a natural period and granularity.
type StandardType int

const (
	TypeNone StandardType = iota
	TypeRefDate
	TypeRefTime
	TypeTimeOfDay
	TypeDayOfYear
	TypeDayOfWeek
	TypeDaysOfWeek
	TypeWeekOfYear
	TypeMonthOfYear
	TypePartOfYear
	TypeSeasonOfYear
	TypeQuarterOfYear
)

type standardInfo struct {
	name   string
	timex  TimexType
	unit   calendar.Unit
	period calendar.Unit
	// inexact overrides the duration with an approximate one of this unit.
	inexact calendar.Unit
}

var standardTypes = map[StandardType]standardInfo{
	TypeRefDate:       {"REFDATE", TimexDate, calendar.UnitNone, calendar.UnitNone, calendar.UnitNone},
	TypeRefTime:       {"REFTIME", TimexTime, calendar.UnitNone, calendar.UnitNone, calendar.UnitNone},
	TypeTimeOfDay:     {"TIME_OF_DAY", TimexTime, calendar.UnitHours, calendar.UnitDays, calendar.UnitHours},
	TypeDayOfYear:     {"DAY_OF_YEAR", TimexDate, calendar.UnitDays, calendar.UnitYears, calendar.UnitNone},
	TypeDayOfWeek:     {"DAY_OF_WEEK", TimexDate, calendar.UnitDays, calendar.UnitWeeks, calendar.UnitNone},
	TypeDaysOfWeek:    {"DAYS_OF_WEEK", TimexDate, calendar.UnitDays, calendar.UnitWeeks, calendar.UnitDays},
	TypeWeekOfYear:    {"WEEK_OF_YEAR", TimexDate, calendar.UnitWeeks, calendar.UnitYears, calendar.UnitNone},
	TypeMonthOfYear:   {"MONTH_OF_YEAR", TimexDate, calendar.UnitMonths, calendar.UnitYears, calendar.UnitNone},
	TypePartOfYear:    {"PART_OF_YEAR", TimexDate, calendar.UnitDays, calendar.UnitYears, calendar.UnitDays},
	TypeSeasonOfYear:  {"SEASON_OF_YEAR", TimexDate, calendar.UnitQuarters, calendar.UnitYears, calendar.UnitNone},
	TypeQuarterOfYear: {"QUARTER_OF_YEAR", TimexDate, calendar.UnitQuarters, calendar.UnitYears, calendar.UnitNone},
}

func (s StandardType) String() string {
	if info, ok := standardTypes[s]; ok {
		return info.name
	}
	return ""
}

// ParseStandardType looks a standard type up by name.
func ParseStandardType(name string) (StandardType, bool) {
	for s, info := range standardTypes {
		if info.name == name {
			return s, true
		}
	}
	return TypeNone, false
}

// TimexType returns the TIMEX3 type of values of this category.
func (s StandardType) TimexType() TimexType {
	return standardTypes[s].timex
}

// Unit returns the unit of the category.
func (s StandardType) Unit() calendar.Unit {
	return standardTypes[s].unit
}

// Duration is how long one value of the category lasts.
func (s StandardType) Duration() Duration {
	info, ok := standardTypes[s]
	if !ok {
		return nil
	}
	if info.inexact != calendar.UnitNone {
		return makeInexact(UnitDuration(info.inexact))
	}
	return UnitDuration(info.unit)
}

// Period is how often values of the category recur. Reference categories
// recur with a zero period.
func (s StandardType) Period() Duration {
	info, ok := standardTypes[s]
	if !ok {
		return nil
	}
	if info.period == calendar.UnitNone {
		return durationNone
	}
	return UnitDuration(info.period)
}

// Granularity is the unit of the category.
func (s StandardType) Granularity() Duration {
	info, ok := standardTypes[s]
	if !ok {
		return nil
	}
	return UnitDuration(info.unit)
}

// composable reports which component of a CompositePartialTime a value of
// this category occupies.
func (s StandardType) composable() compositeSlot {
	switch s {
	case TypeTimeOfDay:
		return slotTimeOfDay
	case TypePartOfYear, TypeQuarterOfYear, TypeSeasonOfYear:
		return slotPartOfYear
	case TypeDaysOfWeek:
		return slotDayOfWeek
	}
	return slotNone
}

// Create returns the n-th value of the category, e.g. the third month of the
// year. It returns nil for categories not backed by a single calendar field.
func (s StandardType) Create(n int) Temporal {
	var f calendar.Field
	switch s {
	case TypeDayOfYear:
		f = calendar.DayOfYear
	case TypeDayOfWeek:
		f = calendar.DayOfWeek
	case TypeWeekOfYear:
		f = calendar.WeekOfYear
	case TypeMonthOfYear:
		f = calendar.MonthOfYear
	case TypeQuarterOfYear:
		f = calendar.Quarter
	default:
		return nil
	}
	return &PartialTime{attrs: attrs{std: s}, p: calendar.Partial{}.With(f, n)}
}
