package temporal

import (
	"time"

	"github.com/hrygo/timenorm/internal/calendar"
)

// Time is a point in time, possibly partial ("June"), symbolic ("now"),
// approximate or relative to another time.
type Time interface {
	Temporal
	// Add moves the time by d. Parts of d that cannot be applied yet become
	// an offset node.
	Add(d Duration) Time
	// Instant returns the earliest concrete instant the time denotes.
	Instant() (time.Time, bool)
	// Partial returns the calendar fields the time assigns.
	Partial() (calendar.Partial, bool)
	// HasTime reports whether a time of day is part of the value.
	HasTime() bool

	isTime()
}

type compositeSlot int

const (
	slotNone compositeSlot = iota
	slotPartOfYear
	slotDayOfWeek
	slotTimeOfDay
)

const millisPerDay = int64(24 * time.Hour / time.Millisecond)

// Subtract moves t back by d.
func Subtract(t Time, d Duration) Time {
	if t == nil || d == nil {
		return t
	}
	return t.Add(d.MultiplyBy(-1))
}

// CompareTimes orders two times by instant. It reports false when either
// one has no instant.
func CompareTimes(a, b Time) (int, bool) {
	i1, ok1 := instantOf(a)
	i2, ok2 := instantOf(b)
	if !ok1 || !ok2 {
		return 0, false
	}
	return i1.Compare(i2), true
}

func instantOf(t Time) (time.Time, bool) {
	if t == nil {
		return time.Time{}, false
	}
	return t.Instant()
}

// MinTime returns the earlier time; nil operands are ignored.
func MinTime(a, b Time) Time {
	switch {
	case b == nil:
		return a
	case a == nil:
		return b
	}
	if c, _ := CompareTimes(a, b); c < 0 {
		return a
	}
	return b
}

// MaxTime returns the later time; nil operands are ignored.
func MaxTime(a, b Time) Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	if c, _ := CompareTimes(a, b); c >= 0 {
		return a
	}
	return b
}

// Closest returns the candidate nearest to ref. On a tie the earlier
// candidate in the list wins, so callers pass the past candidate first.
func Closest(ref Time, candidates ...Time) Time {
	r, ok := instantOf(ref)
	if !ok {
		if len(candidates) > 0 {
			return candidates[0]
		}
		return nil
	}
	var best Time
	var bestDiff time.Duration
	for _, c := range candidates {
		i, ok := instantOf(c)
		if !ok {
			continue
		}
		diff := i.Sub(r)
		if diff < 0 {
			diff = -diff
		}
		if best == nil || diff < bestDiff {
			best, bestDiff = c, diff
		}
	}
	return best
}

// Difference returns the time from t1 to t2, truncated to the coarser of the
// two granularities. Day and coarser granularities count whole days.
func Difference(t1, t2 Time) Duration {
	i1, ok1 := instantOf(t1)
	i2, ok2 := instantOf(t2)
	if !ok1 || !ok2 {
		return nil
	}
	ms := i2.Sub(i1).Milliseconds()
	g := MaxDuration(t1.Granularity(), t2.Granularity())
	if g == nil {
		return NewDurationWithMillis(ms)
	}
	per, ok := g.Fields()
	if !ok {
		return NewDurationWithMillis(ms)
	}
	u, ok := per.Finest()
	if !ok {
		return NewDurationWithMillis(ms)
	}
	if u >= calendar.UnitDays {
		return DurationOf(calendar.UnitDays, int(ms/millisPerDay))
	}
	return NewDurationWithFields(calendar.PeriodFromMillis(ms).TruncateBelow(u))
}

// makeComposite attaches t to pt in the slot given by t's standard type. It
// returns nil when t cannot be a component.
func makeComposite(pt *PartialTime, t Time) Time {
	switch t.StandardType().composable() {
	case slotTimeOfDay:
		return NewCompositePartialTime(pt, nil, nil, t)
	case slotPartOfYear:
		return NewCompositePartialTime(pt, t, nil, nil)
	case slotDayOfWeek:
		return NewCompositePartialTime(pt, nil, t, nil)
	}
	return nil
}

func isUnknownTime(t Temporal) bool {
	return t == nil || t == Temporal(timeUnknown)
}

// intersectTime is the intersection shared by the time variants that have no
// structure of their own to merge. Two such times do not intersect.
func intersectTime(t Time, o Temporal) Temporal {
	if isUnknownTime(o) || o == Temporal(durationUnknown) {
		return t
	}
	switch o := o.(type) {
	case *Range, TemporalSet:
		return o.Intersect(t)
	case Duration:
		return NewRelativeTime(t, OpIntersect, o, 0)
	}
	return nil
}

func timeRange(t Time) *Range {
	return NewRange(t, t, nil)
}

func timeTimexType(a attrs, hasTime bool) TimexType {
	if a.std != TypeNone {
		return a.std.TimexType()
	}
	if hasTime {
		return TimexTime
	}
	return TimexDate
}

func timePeriod(a attrs, p calendar.Partial) Duration {
	if d := standardPeriod(a); d != nil {
		return d
	}
	f, ok := p.MostGeneral()
	if !ok {
		return nil
	}
	u := f.RangeUnit()
	if !u.Valid() || u == calendar.UnitEras {
		return nil
	}
	return DurationOf(u, 1)
}

func timeGranularity(a attrs, p calendar.Partial) Duration {
	if d := standardGranularity(a); d != nil {
		return d
	}
	return periodOf(p)
}

func hasTimeFields(p calendar.Partial) bool {
	f, ok := p.MostSpecific()
	return ok && f.Unit() < calendar.UnitDays
}
