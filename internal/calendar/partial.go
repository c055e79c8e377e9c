// Package calendar models partially specified calendar values: a set of
// field assignments (year, month, day of week, quarter, ...) that may be
// incomplete, together with the field arithmetic the temporal algebra needs.
//
// A Partial is a small comparable value. Every method returns a new value and
// never mutates its receiver, so partials can be shared freely.
package calendar

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrFieldRange is returned by Validate for a field value that no calendar
// date can carry.
var ErrFieldRange = errors.New("calendar field out of range")

// Partial is a set of calendar field assignments.
type Partial struct {
	set    uint32
	values [numFields]int
}

// Of builds a partial from alternating field/value pairs.
func Of(pairs ...FieldValue) Partial {
	var p Partial
	for _, fv := range pairs {
		p = p.With(fv.Field, fv.Value)
	}
	return p
}

// FieldValue is a single field assignment.
type FieldValue struct {
	Field Field
	Value int
}

// Has reports whether f is assigned.
func (p Partial) Has(f Field) bool {
	return f >= 0 && f < numFields && p.set&(1<<uint(f)) != 0
}

// Get returns the value of f and whether it is assigned.
func (p Partial) Get(f Field) (int, bool) {
	if !p.Has(f) {
		return 0, false
	}
	return p.values[f], true
}

// Value returns the value of f, or zero when f is not assigned.
func (p Partial) Value(f Field) int {
	v, _ := p.Get(f)
	return v
}

// With returns a copy of p with f set to v.
func (p Partial) With(f Field, v int) Partial {
	if f < 0 || f >= numFields {
		return p
	}
	p.set |= 1 << uint(f)
	p.values[f] = v
	return p
}

// Without returns a copy of p with the given fields removed.
func (p Partial) Without(fs ...Field) Partial {
	for _, f := range fs {
		if f >= 0 && f < numFields {
			p.set &^= 1 << uint(f)
			p.values[f] = 0
		}
	}
	return p
}

// IsEmpty reports whether no field is assigned.
func (p Partial) IsEmpty() bool { return p.set == 0 }

// Len returns the number of assigned fields.
func (p Partial) Len() int {
	n := 0
	for f := Field(0); f < numFields; f++ {
		if p.Has(f) {
			n++
		}
	}
	return n
}

// Fields lists the assigned fields, most general first.
func (p Partial) Fields() []Field {
	var out []Field
	for f := Field(0); f < numFields; f++ {
		if p.Has(f) {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].before(out[j]) })
	return out
}

// MostGeneral returns the coarsest assigned field.
func (p Partial) MostGeneral() (Field, bool) {
	fs := p.Fields()
	if len(fs) == 0 {
		return 0, false
	}
	return fs[0], true
}

// MostSpecific returns the finest assigned field.
func (p Partial) MostSpecific() (Field, bool) {
	fs := p.Fields()
	if len(fs) == 0 {
		return 0, false
	}
	return fs[len(fs)-1], true
}

// HasDate reports whether year, month and day of month are all assigned.
func (p Partial) HasDate() bool {
	return p.Has(Year) && p.Has(MonthOfYear) && p.Has(DayOfMonth)
}

// Compatible reports whether no field assigned in both partials disagrees.
func (p Partial) Compatible(o Partial) bool {
	common := p.set & o.set
	for f := Field(0); f < numFields; f++ {
		if common&(1<<uint(f)) != 0 && p.values[f] != o.values[f] {
			return false
		}
	}
	return true
}

// Combine merges o into p. Fields already assigned in p win.
func (p Partial) Combine(o Partial) Partial {
	for f := Field(0); f < numFields; f++ {
		if o.Has(f) && !p.Has(f) {
			p = p.With(f, o.values[f])
		}
	}
	return p
}

// CombineMoreGeneral borrows from ref every field that is more general than
// the most general field of p (or than limit, when limit is coarser) and that
// p does not assign. Years are folded into century when p already carries a
// decade or year of century.
func (p Partial) CombineMoreGeneral(ref Partial, limit *Field) Partial {
	mgf, ok := p.MostGeneral()
	if limit != nil && (!ok || limit.MoreGeneral(mgf) || *limit == mgf) {
		mgf, ok = *limit, true
	}
	out := p
	for _, f := range ref.Fields() {
		if f == Year {
			switch {
			case out.Has(Decade) || out.Has(YearOfCentury):
				if !out.Has(Century) {
					out = out.With(Century, floorDiv(ref.values[Year], 100))
				}
				continue
			case out.Has(Century):
				continue
			}
		}
		if ok && !f.MoreGeneral(mgf) {
			continue
		}
		if out.Has(f) {
			continue
		}
		if f == MonthOfYear && out.Has(Quarter) {
			continue
		}
		out = out.With(f, ref.values[f])
	}
	return out
}

// DiscardMoreSpecific drops every field finer than f.
func (p Partial) DiscardMoreSpecific(f Field) Partial {
	for g := Field(0); g < numFields; g++ {
		if p.Has(g) && g.MoreSpecific(f) {
			p = p.Without(g)
		}
	}
	return p
}

// DiscardFinerThan drops every field whose unit is finer than u.
func (p Partial) DiscardFinerThan(u Unit) Partial {
	for g := Field(0); g < numFields; g++ {
		if p.Has(g) && g.Unit() < u {
			p = p.Without(g)
		}
	}
	return p
}

// Period returns a period of one unit of the most specific field.
func (p Partial) Period() (Period, bool) {
	f, ok := p.MostSpecific()
	if !ok {
		return Period{}, false
	}
	return PeriodOf(f.Unit(), 1), true
}

// Validate checks every assigned field against its legal range and the day
// of month against the length of its month. February 29 passes when the year
// is unknown. Hour 24 is only accepted as the end of the day, with no minutes
// or seconds.
func (p Partial) Validate() error {
	for _, f := range p.Fields() {
		if v := p.values[f]; v < f.Min() || v > f.Max() {
			return errors.Wrapf(ErrFieldRange, "%s=%d", f, v)
		}
	}
	if p.Has(MonthOfYear) && p.Has(DayOfMonth) {
		year, ok := p.ResolvedYear()
		if !ok {
			year = 2000
		}
		if n := daysIn(year, p.values[MonthOfYear]); p.values[DayOfMonth] > n {
			return errors.Wrapf(ErrFieldRange, "%s=%d in a month of %d days", DayOfMonth, p.values[DayOfMonth], n)
		}
	}
	if p.Value(HourOfDay) == 24 && p.Value(MinuteOfHour)+p.Value(SecondOfMinute)+p.Value(MillisOfSecond) != 0 {
		return errors.Wrapf(ErrFieldRange, "%s=24 past midnight", HourOfDay)
	}
	return nil
}

// String renders the partial as field=value pairs, most general first.
func (p Partial) String() string {
	parts := make([]string, 0, p.Len())
	for _, f := range p.Fields() {
		parts = append(parts, f.String()+"="+strconv.Itoa(p.values[f]))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
