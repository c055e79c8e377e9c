package calendar

import (
	"time"
)

// Unit is a calendar duration unit, ordered from finest to coarsest.
type Unit int

const (
	UnitNone Unit = iota
	UnitMillis
	UnitSeconds
	UnitMinutes
	UnitHours
	UnitHalfdays
	UnitDays
	UnitWeeks
	UnitMonths
	UnitQuarters
	UnitYears
	UnitDecades
	UnitCenturies
	UnitMillennia
	UnitEras

	numUnits
)

// Nominal lengths used when a calendar unit has to be compared or converted
// without an anchor instant.
const (
	millisPerDay   = int64(24 * time.Hour / time.Millisecond)
	millisPerMonth = 30 * millisPerDay
	millisPerYear  = 365 * millisPerDay
)

var unitNames = [numUnits]string{
	UnitNone:      "none",
	UnitMillis:    "millis",
	UnitSeconds:   "seconds",
	UnitMinutes:   "minutes",
	UnitHours:     "hours",
	UnitHalfdays:  "halfdays",
	UnitDays:      "days",
	UnitWeeks:     "weeks",
	UnitMonths:    "months",
	UnitQuarters:  "quarters",
	UnitYears:     "years",
	UnitDecades:   "decades",
	UnitCenturies: "centuries",
	UnitMillennia: "millennia",
	UnitEras:      "eras",
}

var unitMillis = [numUnits]int64{
	UnitMillis:    1,
	UnitSeconds:   1000,
	UnitMinutes:   60 * 1000,
	UnitHours:     60 * 60 * 1000,
	UnitHalfdays:  12 * 60 * 60 * 1000,
	UnitDays:      millisPerDay,
	UnitWeeks:     7 * millisPerDay,
	UnitMonths:    millisPerMonth,
	UnitQuarters:  3 * millisPerMonth,
	UnitYears:     millisPerYear,
	UnitDecades:   10 * millisPerYear,
	UnitCenturies: 100 * millisPerYear,
	UnitMillennia: 1000 * millisPerYear,
}

func (u Unit) String() string {
	if u < 0 || u >= numUnits {
		return "unknown"
	}
	return unitNames[u]
}

// Millis returns the nominal length of one unit in milliseconds.
// Eras and UnitNone have no length and report 0.
func (u Unit) Millis() int64 {
	if u < 0 || u >= numUnits {
		return 0
	}
	return unitMillis[u]
}

// Valid reports whether u names a real unit.
func (u Unit) Valid() bool {
	return u > UnitNone && u < numUnits
}

// ParseUnit maps a unit name ("day", "days", "DAY") to a Unit.
func ParseUnit(name string) (Unit, bool) {
	switch name {
	case "millis", "MILLIS", "ms":
		return UnitMillis, true
	case "second", "seconds", "SECOND":
		return UnitSeconds, true
	case "minute", "minutes", "MINUTE":
		return UnitMinutes, true
	case "hour", "hours", "HOUR":
		return UnitHours, true
	case "halfday", "halfdays", "HALFDAY":
		return UnitHalfdays, true
	case "day", "days", "DAY":
		return UnitDays, true
	case "week", "weeks", "WEEK":
		return UnitWeeks, true
	case "month", "months", "MONTH":
		return UnitMonths, true
	case "quarter", "quarters", "QUARTER":
		return UnitQuarters, true
	case "year", "years", "YEAR":
		return UnitYears, true
	case "decade", "decades", "DECADE":
		return UnitDecades, true
	case "century", "centuries", "CENTURY":
		return UnitCenturies, true
	case "millennium", "millennia", "MILLENNIUM":
		return UnitMillennia, true
	}
	return UnitNone, false
}
