package calendar

// Field is a named calendar field of a Partial.
type Field int

const (
	Era Field = iota
	Century
	Decade
	YearOfCentury
	Year
	Quarter
	MonthOfYear
	WeekOfYear
	DayOfYear
	DayOfMonth
	DayOfWeek
	Halfday
	HourOfDay
	MinuteOfHour
	SecondOfMinute
	MillisOfSecond

	numFields
)

// Era values.
const (
	EraBC = 0
	EraAD = 1
)

// Halfday values.
const (
	AM = 0
	PM = 1
)

type fieldInfo struct {
	name      string
	unit      Unit
	rangeUnit Unit
	min, max  int
}

var fields = [numFields]fieldInfo{
	Era:            {"era", UnitEras, UnitNone, 0, 1},
	Century:        {"centuryOfEra", UnitCenturies, UnitEras, 0, 2921},
	Decade:         {"decadeOfCentury", UnitDecades, UnitCenturies, 0, 9},
	YearOfCentury:  {"yearOfCentury", UnitYears, UnitCenturies, 0, 99},
	Year:           {"year", UnitYears, UnitEras, -292275054, 292278993},
	Quarter:        {"quarterOfYear", UnitQuarters, UnitYears, 1, 4},
	MonthOfYear:    {"monthOfYear", UnitMonths, UnitYears, 1, 12},
	WeekOfYear:     {"weekOfWeekyear", UnitWeeks, UnitYears, 1, 53},
	DayOfYear:      {"dayOfYear", UnitDays, UnitYears, 1, 366},
	DayOfMonth:     {"dayOfMonth", UnitDays, UnitMonths, 1, 31},
	DayOfWeek:      {"dayOfWeek", UnitDays, UnitWeeks, 1, 7},
	Halfday:        {"halfdayOfDay", UnitHalfdays, UnitDays, 0, 1},
	HourOfDay:      {"hourOfDay", UnitHours, UnitDays, 0, 24},
	MinuteOfHour:   {"minuteOfHour", UnitMinutes, UnitHours, 0, 59},
	SecondOfMinute: {"secondOfMinute", UnitSeconds, UnitMinutes, 0, 59},
	MillisOfSecond: {"millisOfSecond", UnitMillis, UnitSeconds, 0, 999},
}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return "unknown"
	}
	return fields[f].name
}

// Unit is the duration spanned by one value of the field.
func (f Field) Unit() Unit { return fields[f].unit }

// RangeUnit is the duration over which the field cycles; UnitNone or UnitEras
// for fields that do not cycle.
func (f Field) RangeUnit() Unit { return fields[f].rangeUnit }

// Min returns the smallest legal value of the field.
func (f Field) Min() int { return fields[f].min }

// Max returns the largest legal value of the field.
func (f Field) Max() int { return fields[f].max }

// MoreGeneral reports whether f is strictly coarser than g. Fields that share a
// unit (dayOfMonth and dayOfWeek) are never more general than each other.
func (f Field) MoreGeneral(g Field) bool {
	return f.Unit() > g.Unit()
}

// MoreSpecific reports whether f is strictly finer than g.
func (f Field) MoreSpecific(g Field) bool {
	return f.Unit() < g.Unit()
}

// before orders fields from most general to most specific, breaking unit ties
// on the range unit.
func (f Field) before(g Field) bool {
	if f.Unit() != g.Unit() {
		return f.Unit() > g.Unit()
	}
	if f.RangeUnit() != g.RangeUnit() {
		return f.RangeUnit() > g.RangeUnit()
	}
	return f < g
}

// FieldsForUnit lists the fields whose unit is u.
func FieldsForUnit(u Unit) []Field {
	var out []Field
	for f := Field(0); f < numFields; f++ {
		if fields[f].unit == u {
			out = append(out, f)
		}
	}
	return out
}
