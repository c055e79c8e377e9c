package temporal

import (
	"cmp"
	"regexp"

	"github.com/pkg/errors"

	"github.com/hrygo/timenorm/internal/calendar"
)

// Duration is an amount of time. Four variants exist: counts per calendar
// unit (DurationWithFields), an exact number of milliseconds
// (DurationWithMillis), an approximate count (InexactDuration) and a span
// between two durations (DurationRange).
type Duration interface {
	Temporal
	// Fields returns the duration as counts per calendar unit. It reports
	// false for the unknown duration.
	Fields() (calendar.Period, bool)
	// Millis returns the nominal length in milliseconds.
	Millis() (int64, bool)
	Add(d Duration) Duration
	MultiplyBy(n int) Duration
	// DivideBy splits the duration in n parts. Remainders move to the next
	// finer unit; a millisecond remainder is dropped.
	DivideBy(n int) (Duration, error)

	// dateTimeFields lists the calendar fields a unit duration lines up
	// with, e.g. a day with day of month, week and year.
	dateTimeFields() []calendar.Field
}

// DurationWithFields is a signed count per calendar unit ("3 days",
// "1 year 2 months").
type DurationWithFields struct {
	attrs
	period calendar.Period
	known  bool
	// unit is set on the predefined single unit durations.
	unit calendar.Unit
}

// NewDurationWithFields returns a duration of the given period.
func NewDurationWithFields(p calendar.Period) *DurationWithFields {
	return &DurationWithFields{period: p, known: true}
}

// DurationOf returns a duration of n units. Quarters and the multi-year
// units are counted in months and years.
func DurationOf(u calendar.Unit, n int) *DurationWithFields {
	return NewDurationWithFields(unitPeriod(u, n))
}

func unitPeriod(u calendar.Unit, n int) calendar.Period {
	switch u {
	case calendar.UnitQuarters:
		return calendar.PeriodOf(calendar.UnitMonths, 3*n)
	case calendar.UnitDecades:
		return calendar.PeriodOf(calendar.UnitYears, 10*n)
	case calendar.UnitCenturies:
		return calendar.PeriodOf(calendar.UnitYears, 100*n)
	case calendar.UnitMillennia:
		return calendar.PeriodOf(calendar.UnitYears, 1000*n)
	}
	return calendar.PeriodOf(u, n)
}

var (
	durationNone    = &DurationWithFields{known: true}
	durationUnknown = &DurationWithFields{}
)

var unitFields = map[calendar.Unit][]calendar.Field{
	calendar.UnitMillis:    {calendar.MillisOfSecond},
	calendar.UnitSeconds:   {calendar.SecondOfMinute},
	calendar.UnitMinutes:   {calendar.MinuteOfHour},
	calendar.UnitHours:     {calendar.HourOfDay},
	calendar.UnitHalfdays:  {calendar.Halfday},
	calendar.UnitDays:      {calendar.DayOfMonth, calendar.DayOfWeek, calendar.DayOfYear},
	calendar.UnitWeeks:     {calendar.WeekOfYear},
	calendar.UnitMonths:    {calendar.MonthOfYear},
	calendar.UnitQuarters:  {calendar.Quarter},
	calendar.UnitYears:     {calendar.Year, calendar.YearOfCentury},
	calendar.UnitDecades:   {calendar.Decade},
	calendar.UnitCenturies: {calendar.Century},
	calendar.UnitMillennia: nil,
}

var unitDurations = func() map[calendar.Unit]*DurationWithFields {
	out := make(map[calendar.Unit]*DurationWithFields, len(unitFields))
	for u := range unitFields {
		out[u] = &DurationWithFields{period: unitPeriod(u, 1), known: true, unit: u}
	}
	return out
}()

// UnitDuration returns the shared duration of one unit. Unknown units map to
// the unknown duration.
func UnitDuration(u calendar.Unit) Duration {
	if d, ok := unitDurations[u]; ok {
		return d
	}
	return durationUnknown
}

func (d *DurationWithFields) Fields() (calendar.Period, bool) { return d.period, d.known }

func (d *DurationWithFields) Millis() (int64, bool) {
	if !d.known {
		return 0, false
	}
	return d.period.Millis(), true
}

func (d *DurationWithFields) Add(o Duration) Duration {
	if o == nil {
		return d
	}
	if _, ok := o.(*DurationRange); ok {
		return o.Add(d)
	}
	op, ok := o.Fields()
	if !d.known || !ok {
		return &DurationWithFields{attrs: d.derived()}
	}
	if _, inexact := o.(*InexactDuration); inexact {
		return &InexactDuration{attrs: d.derived().withApprox(), period: d.period.Plus(op)}
	}
	return &DurationWithFields{attrs: d.derived(), period: d.period.Plus(op), known: true}
}

func (d *DurationWithFields) MultiplyBy(n int) Duration {
	if n == 1 || !d.known {
		return d
	}
	return &DurationWithFields{period: d.period.Scale(n), known: true}
}

func (d *DurationWithFields) DivideBy(n int) (Duration, error) {
	if n == 1 || !d.known {
		return d, nil
	}
	per, err := divide(d.period, n)
	if err != nil {
		return nil, err
	}
	return &DurationWithFields{period: per, known: true}, nil
}

func divide(p calendar.Period, n int) (calendar.Period, error) {
	if n == 0 {
		return p, errors.Wrap(ErrOperatorMisuse, "division by zero")
	}
	out, err := p.Divide(n)
	if err != nil {
		return p, errors.Wrapf(ErrUnsupportedField, "divide %s by %d: %v", p, n, err)
	}
	return out, nil
}

// Resolve converts the duration into exact milliseconds when it is anchored
// at ref (DurResolveFromAsRef or DurResolveToAsRef).
func (d *DurationWithFields) Resolve(ref Time, flags int) (Temporal, error) {
	if ref == nil || !d.known {
		return d, nil
	}
	inst, ok := ref.Instant()
	if !ok {
		return d, nil
	}
	switch {
	case flags&DurResolveFromAsRef != 0:
		return &DurationWithMillis{attrs: d.derived(), ms: d.period.AddTo(inst).Sub(inst).Milliseconds()}, nil
	case flags&DurResolveToAsRef != 0:
		return &DurationWithMillis{attrs: d.derived(), ms: inst.Sub(d.period.Negate().AddTo(inst)).Milliseconds()}, nil
	}
	return d, nil
}

func (d *DurationWithFields) dateTimeFields() []calendar.Field {
	if d.unit == calendar.UnitNone {
		return nil
	}
	return unitFields[d.unit]
}

func (d *DurationWithFields) IsGrounded() bool                          { return false }
func (d *DurationWithFields) Time() Time                                { return nil }
func (d *DurationWithFields) Duration() Duration                        { return d }
func (d *DurationWithFields) Range(int, Duration) *Range                { return &Range{dur: d} }
func (d *DurationWithFields) Period() Duration                          { return durationPeriod(d) }
func (d *DurationWithFields) Granularity() Duration                     { return standardGranularity(d.attrs) }
func (d *DurationWithFields) Intersect(t Temporal) Temporal             { return intersectDuration(d, t) }
func (d *DurationWithFields) TimexType() TimexType                      { return TimexDuration }
func (d *DurationWithFields) Format(flags int) string                   { return formatDuration(d, flags) }
func (d *DurationWithFields) String() string                            { return d.Format(FormatFull) }
func (d *DurationWithFields) WithModApprox(mod string, a bool) Temporal { c := *d; c.attrs = c.withModApprox(mod, a); return &c }

// InexactDuration is a duration whose counts are only an estimate, as in
// "several days". It always reports IsApprox.
type InexactDuration struct {
	attrs
	period calendar.Period
}

// NewInexactDuration returns an approximate duration of the given period.
func NewInexactDuration(p calendar.Period) *InexactDuration {
	return &InexactDuration{attrs: attrs{approx: true}, period: p}
}

// makeInexact returns the approximate version of d.
func makeInexact(d Duration) Duration {
	if d == nil {
		return nil
	}
	per, ok := d.Fields()
	if !ok {
		return d
	}
	return NewInexactDuration(per)
}

func (d *InexactDuration) Fields() (calendar.Period, bool) { return d.period, true }
func (d *InexactDuration) Millis() (int64, bool)           { return d.period.Millis(), true }

func (d *InexactDuration) Add(o Duration) Duration {
	if o == nil {
		return d
	}
	if _, ok := o.(*DurationRange); ok {
		return o.Add(d)
	}
	op, ok := o.Fields()
	if !ok {
		return &DurationWithFields{attrs: d.derived()}
	}
	return &InexactDuration{attrs: d.derived().withApprox(), period: d.period.Plus(op)}
}

func (d *InexactDuration) MultiplyBy(n int) Duration {
	if n == 1 {
		return d
	}
	return NewInexactDuration(d.period.Scale(n))
}

func (d *InexactDuration) DivideBy(n int) (Duration, error) {
	if n == 1 {
		return d, nil
	}
	per, err := divide(d.period, n)
	if err != nil {
		return nil, err
	}
	return NewInexactDuration(per), nil
}

var digits = regexp.MustCompile(`\d+`)

// Format replaces every count with the unknown placeholder: PXD, PTXH.
func (d *InexactDuration) Format(flags int) string {
	return digits.ReplaceAllString(formatDuration(d, flags), padUnknown)
}

func (d *InexactDuration) Resolve(Time, int) (Temporal, error)          { return d, nil }
func (d *InexactDuration) dateTimeFields() []calendar.Field             { return nil }
func (d *InexactDuration) IsGrounded() bool                             { return false }
func (d *InexactDuration) Time() Time                                   { return nil }
func (d *InexactDuration) Duration() Duration                           { return d }
func (d *InexactDuration) Range(int, Duration) *Range                   { return &Range{dur: d} }
func (d *InexactDuration) Period() Duration                             { return durationPeriod(d) }
func (d *InexactDuration) Granularity() Duration                        { return standardGranularity(d.attrs) }
func (d *InexactDuration) Intersect(t Temporal) Temporal                { return intersectDuration(d, t) }
func (d *InexactDuration) TimexType() TimexType                         { return TimexDuration }
func (d *InexactDuration) String() string                               { return d.Format(FormatFull) }
func (d *InexactDuration) WithModApprox(mod string, a bool) Temporal    { c := *d; c.attrs = c.withModApprox(mod, a); return &c }

// DurationWithMillis is an exact length of time.
type DurationWithMillis struct {
	attrs
	ms int64
}

// NewDurationWithMillis returns an exact duration of ms milliseconds.
func NewDurationWithMillis(ms int64) *DurationWithMillis {
	return &DurationWithMillis{ms: ms}
}

// Fields splits the length into hours, minutes, seconds and milliseconds.
func (d *DurationWithMillis) Fields() (calendar.Period, bool) {
	return calendar.PeriodFromMillis(d.ms), true
}

func (d *DurationWithMillis) Millis() (int64, bool) { return d.ms, true }

func (d *DurationWithMillis) Add(o Duration) Duration {
	if o == nil {
		return d
	}
	if m, ok := o.(*DurationWithMillis); ok {
		return &DurationWithMillis{attrs: d.derived(), ms: d.ms + m.ms}
	}
	return o.Add(d)
}

func (d *DurationWithMillis) MultiplyBy(n int) Duration {
	if n == 1 {
		return d
	}
	return NewDurationWithMillis(d.ms * int64(n))
}

func (d *DurationWithMillis) DivideBy(n int) (Duration, error) {
	switch n {
	case 0:
		return nil, errors.Wrap(ErrOperatorMisuse, "division by zero")
	case 1:
		return d, nil
	}
	return NewDurationWithMillis(d.ms / int64(n)), nil
}

func (d *DurationWithMillis) Resolve(Time, int) (Temporal, error)       { return d, nil }
func (d *DurationWithMillis) dateTimeFields() []calendar.Field          { return nil }
func (d *DurationWithMillis) IsGrounded() bool                          { return false }
func (d *DurationWithMillis) Time() Time                                { return nil }
func (d *DurationWithMillis) Duration() Duration                        { return d }
func (d *DurationWithMillis) Range(int, Duration) *Range                { return &Range{dur: d} }
func (d *DurationWithMillis) Period() Duration                          { return durationPeriod(d) }
func (d *DurationWithMillis) Granularity() Duration                     { return standardGranularity(d.attrs) }
func (d *DurationWithMillis) Intersect(t Temporal) Temporal             { return intersectDuration(d, t) }
func (d *DurationWithMillis) TimexType() TimexType                      { return TimexDuration }
func (d *DurationWithMillis) Format(flags int) string                   { return formatDuration(d, flags) }
func (d *DurationWithMillis) String() string                            { return d.Format(FormatFull) }
func (d *DurationWithMillis) WithModApprox(mod string, a bool) Temporal { c := *d; c.attrs = c.withModApprox(mod, a); return &c }

// DurationRange is a duration known to lie between two bounds ("2 to 3
// days"). Either bound may be nil. Its length is the midpoint of the bounds.
type DurationRange struct {
	attrs
	min, max Duration
}

// NewDurationRange returns the span [min, max]. A bound that is itself a
// range contributes its own outer bound.
func NewDurationRange(min, max Duration) *DurationRange {
	return &DurationRange{min: lowerBound(min), max: upperBound(max)}
}

func lowerBound(d Duration) Duration {
	if r, ok := d.(*DurationRange); ok {
		return r.min
	}
	return d
}

func upperBound(d Duration) Duration {
	if r, ok := d.(*DurationRange); ok {
		return r.max
	}
	return d
}

// Min returns the lower bound.
func (d *DurationRange) Min() Duration { return d.min }

// Max returns the upper bound.
func (d *DurationRange) Max() Duration { return d.max }

// Fields is the midpoint of the bound periods, falling back to the exact
// midpoint when the sum cannot be halved per field.
func (d *DurationRange) Fields() (calendar.Period, bool) {
	switch {
	case d.min == nil && d.max == nil:
		return calendar.Period{}, false
	case d.min == nil:
		return d.max.Fields()
	case d.max == nil:
		return d.min.Fields()
	}
	lo, lok := d.min.Fields()
	hi, hok := d.max.Fields()
	if !lok || !hok {
		return calendar.Period{}, false
	}
	if per, err := lo.Plus(hi).Divide(2); err == nil {
		return per, true
	}
	ms, _ := d.Millis()
	return calendar.PeriodFromMillis(ms), true
}

// Millis is the midpoint of the bounds' lengths.
func (d *DurationRange) Millis() (int64, bool) {
	switch {
	case d.min == nil && d.max == nil:
		return 0, false
	case d.min == nil:
		return d.max.Millis()
	case d.max == nil:
		return d.min.Millis()
	}
	lo, lok := d.min.Millis()
	hi, hok := d.max.Millis()
	if !lok || !hok {
		return 0, false
	}
	return lo + (hi-lo)/2, true
}

// Add shifts both bounds. Adding another range adds lower to lower and upper
// to upper, so bounds never nest.
func (d *DurationRange) Add(o Duration) Duration {
	if o == nil {
		return d
	}
	return &DurationRange{attrs: d.derived(), min: addBound(d.min, lowerBound(o)), max: addBound(d.max, upperBound(o))}
}

func addBound(b, o Duration) Duration {
	if b == nil || o == nil {
		return nil
	}
	return b.Add(o)
}

// MultiplyBy scales both bounds; a negative factor swaps them.
func (d *DurationRange) MultiplyBy(n int) Duration {
	lo := mapBound(d.min, func(b Duration) Duration { return b.MultiplyBy(n) })
	hi := mapBound(d.max, func(b Duration) Duration { return b.MultiplyBy(n) })
	if n < 0 {
		lo, hi = hi, lo
	}
	return &DurationRange{attrs: d.derived(), min: lo, max: hi}
}

func (d *DurationRange) DivideBy(n int) (Duration, error) {
	out := &DurationRange{attrs: d.derived()}
	var err error
	if d.min != nil {
		if out.min, err = d.min.DivideBy(n); err != nil {
			return nil, err
		}
	}
	if d.max != nil {
		if out.max, err = d.max.DivideBy(n); err != nil {
			return nil, err
		}
	}
	if n < 0 {
		out.min, out.max = out.max, out.min
	}
	return out, nil
}

func mapBound(b Duration, f func(Duration) Duration) Duration {
	if b == nil {
		return nil
	}
	return f(b)
}

// Format renders "min/max"; there is no ISO or TIMEX3 value for a range of
// durations.
func (d *DurationRange) Format(flags int) string {
	if flags&(FormatISO|FormatTimex3Value) != 0 {
		return ""
	}
	var lo, hi string
	if d.min != nil {
		lo = d.min.Format(flags)
	}
	if d.max != nil {
		hi = d.max.Format(flags)
	}
	return lo + "/" + hi
}

func (d *DurationRange) Resolve(Time, int) (Temporal, error)       { return d, nil }
func (d *DurationRange) dateTimeFields() []calendar.Field          { return nil }
func (d *DurationRange) IsGrounded() bool                          { return false }
func (d *DurationRange) Time() Time                                { return nil }
func (d *DurationRange) Duration() Duration                        { return d }
func (d *DurationRange) Range(int, Duration) *Range                { return &Range{dur: d} }
func (d *DurationRange) Period() Duration                          { return durationPeriod(d) }
func (d *DurationRange) Granularity() Duration                     { return standardGranularity(d.attrs) }
func (d *DurationRange) Intersect(t Temporal) Temporal             { return intersectDuration(d, t) }
func (d *DurationRange) TimexType() TimexType                      { return TimexDuration }
func (d *DurationRange) String() string                            { return d.Format(FormatFull) }
func (d *DurationRange) WithModApprox(mod string, a bool) Temporal { c := *d; c.attrs = c.withModApprox(mod, a); return &c }

// durationPeriod is the recurrence period of a duration: the one of its
// standard type, or the duration itself.
func durationPeriod(d Duration) Duration {
	if p := standardPeriod(d.attributes()); p != nil {
		return p
	}
	return d
}

func formatDuration(d Duration, flags int) string {
	if l := d.Label(); l != "" {
		return l
	}
	s := "PXX"
	if per, ok := d.Fields(); ok {
		s = per.String()
	}
	if flags&(FormatISO|FormatTimex3Value) == 0 {
		if sym := TimexMod(d.Mod()).Symbol(); sym != "" {
			s = sym + s
		}
	}
	return s
}

func intersectDuration(d Duration, t Temporal) Temporal {
	if t == nil || t == Temporal(timeUnknown) || t == Temporal(durationUnknown) {
		return d
	}
	switch o := t.(type) {
	case Time:
		return WithMod(NewRelativeTime(o, OpIntersect, d, 0), d.Mod())
	case Duration:
		if CompareDurations(d, o) < 0 {
			return d
		}
		return o
	}
	return nil
}

// SubtractDuration returns a - b.
func SubtractDuration(a, b Duration) Duration {
	if b == nil {
		return a
	}
	return a.Add(b.MultiplyBy(-1))
}

// CompareDurations orders durations by nominal length. Unknown lengths sort
// last; equal lengths put exact durations before approximate ones.
func CompareDurations(a, b Duration) int {
	m1, ok1 := millisOf(a)
	m2, ok2 := millisOf(b)
	switch {
	case !ok1 && !ok2:
		return 0
	case !ok1:
		return 1
	case !ok2:
		return -1
	}
	if c := cmp.Compare(m1, m2); c != 0 {
		return c
	}
	switch {
	case b.IsApprox() && !a.IsApprox():
		return -1
	case !b.IsApprox() && a.IsApprox():
		return 1
	}
	return 0
}

func millisOf(d Duration) (int64, bool) {
	if d == nil {
		return 0, false
	}
	return d.Millis()
}

// MinDuration returns the shorter duration; nil operands are ignored.
func MinDuration(a, b Duration) Duration {
	switch {
	case b == nil:
		return a
	case a == nil:
		return b
	}
	if CompareDurations(a, b) < 0 {
		return a
	}
	return b
}

// MaxDuration returns the longer duration; nil operands are ignored.
func MaxDuration(a, b Duration) Duration {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	if CompareDurations(a, b) >= 0 {
		return a
	}
	return b
}

// ToTime places d relative to ref. Unit durations snap to the calendar unit
// containing ref ("this week"), moved one unit back or forward under
// ResolveToPast or ResolveToFuture when the unit does not lie on that side.
// Other durations become the span of length d before, after or around ref.
func ToTime(d Duration, ref Time, flags int) (Time, error) {
	if d == nil || ref == nil {
		return nil, nil
	}
	if p, ok := ref.Partial(); ok {
		if fields := d.dateTimeFields(); fields != nil {
			t := snapToUnit(p, ref, fields)
			if t == nil {
				return nil, nil
			}
			c, comparable := CompareTimes(t, ref)
			switch {
			case !comparable:
			case flags&ResolveToPast != 0 && c >= 0:
				return Subtract(t, d), nil
			case flags&ResolveToFuture != 0 && c <= 0:
				return t.Add(d), nil
			}
			return t, nil
		}
	}

	minT, maxT := Subtract(ref, d), ref.Add(d)
	var likely *Range
	switch {
	case flags&(DurResolveFromAsRef|ResolveToFuture) != 0:
		likely = NewRange(ref, maxT, d)
	case flags&(DurResolveToAsRef|ResolveToPast) != 0:
		likely = NewRange(minT, ref, d)
	default:
		half, err := d.DivideBy(2)
		if err != nil {
			return nil, err
		}
		likely = NewRange(Subtract(ref, half), ref.Add(half), d)
	}
	if flags&(ResolveToFuture|ResolveToPast) != 0 {
		return NewTimeWithRange(likely), nil
	}
	return NewInexactTime(NewTimeWithRange(likely), d, NewRange(minT, maxT, d.MultiplyBy(2))), nil
}

func snapToUnit(p calendar.Partial, ref Time, fields []calendar.Field) Time {
	for _, f := range fields {
		if p.Has(f) {
			return NewPartialTime(p.DiscardMoreSpecific(f))
		}
	}
	if inst, ok := ref.Instant(); ok {
		return NewPartialTime(calendar.AtField(inst, fields[0]))
	}
	return nil
}
