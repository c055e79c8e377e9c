package calendar

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrUnsupportedUnit is returned when a period operation has no rule for a unit.
var ErrUnsupportedUnit = errors.New("unsupported period unit")

// Period is a signed count per calendar unit. The zero value is an empty
// (zero length) period. Periods are comparable values.
type Period struct {
	v [numUnits]int
}

// PeriodOf returns a period of n units.
func PeriodOf(u Unit, n int) Period {
	var p Period
	if u.Valid() && u != UnitEras {
		p.v[u] = n
	}
	return p
}

// Get returns the count for u.
func (p Period) Get(u Unit) int {
	if !u.Valid() {
		return 0
	}
	return p.v[u]
}

// Has reports whether u has a non-zero count.
func (p Period) Has(u Unit) bool {
	return p.Get(u) != 0
}

// With returns a copy of p with the count for u replaced.
func (p Period) With(u Unit, n int) Period {
	if u.Valid() && u != UnitEras {
		p.v[u] = n
	}
	return p
}

// IsZero reports whether every count is zero.
func (p Period) IsZero() bool {
	return p == Period{}
}

// Plus adds two periods unit by unit.
func (p Period) Plus(o Period) Period {
	for u := range p.v {
		p.v[u] += o.v[u]
	}
	return p
}

// Scale multiplies every count by n.
func (p Period) Scale(n int) Period {
	for u := range p.v {
		p.v[u] *= n
	}
	return p
}

// Negate is Scale(-1).
func (p Period) Negate() Period {
	return p.Scale(-1)
}

// Units lists the units with non-zero counts, coarsest first.
func (p Period) Units() []Unit {
	var out []Unit
	for u := numUnits - 1; u > UnitNone; u-- {
		if p.v[u] != 0 {
			out = append(out, u)
		}
	}
	return out
}

// Finest returns the finest unit with a non-zero count.
func (p Period) Finest() (Unit, bool) {
	for u := UnitMillis; u < numUnits; u++ {
		if p.v[u] != 0 {
			return u, true
		}
	}
	return UnitNone, false
}

// Coarsest returns the coarsest unit with a non-zero count.
func (p Period) Coarsest() (Unit, bool) {
	units := p.Units()
	if len(units) == 0 {
		return UnitNone, false
	}
	return units[0], true
}

// Millis returns the nominal length of the period in milliseconds.
func (p Period) Millis() int64 {
	var total int64
	for u, n := range p.v {
		total += int64(n) * Unit(u).Millis()
	}
	return total
}

// TruncateBelow drops every count finer than u.
func (p Period) TruncateBelow(u Unit) Period {
	for f := UnitMillis; f < u && f < numUnits; f++ {
		p.v[f] = 0
	}
	return p
}

// dateParts folds the period into AddDate arguments and a clock offset.
func (p Period) dateParts() (years, months, days int, clock time.Duration) {
	years = p.v[UnitYears] + 10*p.v[UnitDecades] + 100*p.v[UnitCenturies] + 1000*p.v[UnitMillennia]
	months = p.v[UnitMonths] + 3*p.v[UnitQuarters]
	days = p.v[UnitDays] + 7*p.v[UnitWeeks]
	clock = time.Duration(p.v[UnitHalfdays])*12*time.Hour +
		time.Duration(p.v[UnitHours])*time.Hour +
		time.Duration(p.v[UnitMinutes])*time.Minute +
		time.Duration(p.v[UnitSeconds])*time.Second +
		time.Duration(p.v[UnitMillis])*time.Millisecond
	return years, months, days, clock
}

// AddTo moves t by the period.
func (p Period) AddTo(t time.Time) time.Time {
	y, m, d, clock := p.dateParts()
	return t.AddDate(y, m, d).Add(clock)
}

// Between returns the exact distance from t covered by p, as a period of
// milliseconds.
func (p Period) Between(t time.Time) int64 {
	return p.AddTo(t).Sub(t).Milliseconds()
}

// divideRatios is the remainder chain used by Divide: a remainder in the key
// unit is carried into the finer unit at the given ratio.
var divideRatios = map[Unit]struct {
	into  Unit
	ratio int
}{
	UnitCenturies: {UnitYears, 100},
	UnitYears:     {UnitMonths, 12},
	UnitMonths:    {UnitDays, 30},
	UnitWeeks:     {UnitDays, 7},
	UnitDays:      {UnitHours, 24},
	UnitHalfdays:  {UnitHours, 12},
	UnitHours:     {UnitMinutes, 60},
	UnitMinutes:   {UnitSeconds, 60},
	UnitSeconds:   {UnitMillis, 1000},
	UnitMillis:    {UnitMillis, 0},
}

// Divide splits the period into n equal parts. Units are divided coarsest
// first and each remainder is carried into the next finer unit; a remainder
// of milliseconds is dropped.
func (p Period) Divide(n int) (Period, error) {
	if n == 0 {
		return p, errors.New("division of period by zero")
	}
	if n == 1 {
		return p, nil
	}
	var out Period
	work := p
	for u := numUnits - 1; u > UnitNone; u-- {
		v := work.v[u]
		if v == 0 {
			continue
		}
		out.v[u] = v / n
		rem := v % n
		if rem == 0 {
			continue
		}
		r, ok := divideRatios[u]
		if !ok {
			return p, errors.Wrapf(ErrUnsupportedUnit, "cannot divide remainder of %d %s", rem, u)
		}
		work.v[r.into] += r.ratio * rem
	}
	return out, nil
}

// String renders the period in ISO 8601 form, e.g. P1Y2M3DT4H.
func (p Period) String() string {
	if p.IsZero() {
		return "PT0S"
	}
	y, m, _, _ := p.dateParts()
	var b strings.Builder
	b.WriteString("P")
	writeCount(&b, y, "Y")
	writeCount(&b, m, "M")
	writeCount(&b, p.v[UnitWeeks], "W")
	writeCount(&b, p.v[UnitDays], "D")
	hours := p.v[UnitHours] + 12*p.v[UnitHalfdays]
	secs, millis := p.v[UnitSeconds], p.v[UnitMillis]
	if hours != 0 || p.v[UnitMinutes] != 0 || secs != 0 || millis != 0 {
		b.WriteString("T")
		writeCount(&b, hours, "H")
		writeCount(&b, p.v[UnitMinutes], "M")
		if millis != 0 {
			b.WriteString(formatSeconds(secs, millis))
			b.WriteString("S")
		} else {
			writeCount(&b, secs, "S")
		}
	}
	return b.String()
}

func writeCount(b *strings.Builder, n int, suffix string) {
	if n == 0 {
		return
	}
	b.WriteString(strconv.Itoa(n))
	b.WriteString(suffix)
}

func formatSeconds(secs, millis int) string {
	total := secs*1000 + millis
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	frac := strconv.Itoa(1000 + total%1000)[1:]
	frac = strings.TrimRight(frac, "0")
	return sign + strconv.Itoa(total/1000) + "." + frac
}

// PeriodFromMillis splits an exact length into hours, minutes, seconds and
// milliseconds. Days are not used since their length is not fixed.
func PeriodFromMillis(ms int64) Period {
	var p Period
	p.v[UnitHours] = int(ms / unitMillis[UnitHours])
	ms %= unitMillis[UnitHours]
	p.v[UnitMinutes] = int(ms / unitMillis[UnitMinutes])
	ms %= unitMillis[UnitMinutes]
	p.v[UnitSeconds] = int(ms / unitMillis[UnitSeconds])
	p.v[UnitMillis] = int(ms % unitMillis[UnitSeconds])
	return p
}
