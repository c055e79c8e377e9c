package temporal

import (
	"time"
)

// Range is an interval given by any two of begin, end and duration. Nil
// endpoints are unknown.
type Range struct {
	attrs
	begin, end Time
	dur        Duration
}

// NewRange returns the interval from begin to end. A nil d is computed from
// the endpoints.
func NewRange(begin, end Time, d Duration) *Range {
	if d == nil {
		d = Difference(begin, end)
	}
	return &Range{begin: begin, end: end, dur: d}
}

func (r *Range) with(begin, end Time, d Duration) *Range {
	return &Range{attrs: r.attrs, begin: begin, end: end, dur: d}
}

func (r *Range) Begin() Time { return r.begin }
func (r *Range) End() Time   { return r.end }

func (r *Range) IsGrounded() bool {
	return r.begin != nil && r.end != nil && r.begin.IsGrounded() && r.end.IsGrounded()
}

func (r *Range) Time() Time                                { return r.begin }
func (r *Range) Duration() Duration                        { return r.dur }
func (r *Range) Range(int, Duration) *Range                { return r }
func (r *Range) Period() Duration                          { return standardPeriod(r.attrs) }
func (r *Range) Granularity() Duration                     { return standardGranularity(r.attrs) }
func (r *Range) TimexType() TimexType                      { return TimexDuration }
func (r *Range) String() string                            { return r.Format(FormatFull) }
func (r *Range) WithModApprox(mod string, a bool) Temporal { c := *r; c.attrs = c.withModApprox(mod, a); return &c }

// Resolve grounds endpoints that are the reference time, when
// RangeResolveTimeRef is set. Nothing else is resolved.
func (r *Range) Resolve(ref Time, flags int) (Temporal, error) {
	if ref == nil || r.IsGrounded() || flags&RangeResolveTimeRef == 0 {
		return r, nil
	}
	if r.begin != Time(timeRef) && r.end != Time(timeRef) {
		return r, nil
	}
	begin, end, d := r.begin, r.end, r.dur
	var err error
	if r.begin == Time(timeRef) {
		begin = ref
		if d, err = resolveDuration(r.dur, ref, flags|DurResolveFromAsRef); err != nil {
			return nil, err
		}
	}
	if r.end == Time(timeRef) {
		end = ref
		if d, err = resolveDuration(r.dur, ref, flags|DurResolveToAsRef); err != nil {
			return nil, err
		}
	}
	return r.with(begin, end, d), nil
}

func resolveDuration(d Duration, ref Time, flags int) (Duration, error) {
	if d == nil {
		return nil, nil
	}
	out, err := d.Resolve(ref, flags)
	if err != nil {
		return nil, err
	}
	rd, _ := out.(Duration)
	return rd, nil
}

// Offset moves the endpoints selected by RangeOffsetBegin and RangeOffsetEnd;
// with neither set both move. The duration is kept.
func (r *Range) Offset(d Duration, flags int) *Range {
	if flags&(RangeOffsetBegin|RangeOffsetEnd) == 0 {
		flags |= RangeOffsetBegin | RangeOffsetEnd
	}
	begin, end := r.begin, r.end
	if flags&RangeOffsetBegin != 0 && begin != nil {
		begin = begin.Add(d)
	}
	if flags&RangeOffsetEnd != 0 && end != nil {
		end = end.Add(d)
	}
	return r.with(begin, end, r.dur)
}

// Add grows the range by d. RangeExpandFixEnd keeps the end and moves the
// begin; otherwise the begin stays and the end moves.
func (r *Range) Add(d Duration, flags int) *Range {
	d2 := d
	if r.dur != nil {
		d2 = r.dur.Add(d)
	}
	begin, end := r.begin, r.end
	if flags&RangeExpandFixEnd != 0 && flags&RangeExpandFixBegin == 0 {
		begin = nil
		if r.end != nil {
			begin = Subtract(r.end, d2)
		}
	} else {
		end = nil
		if r.begin != nil {
			end = r.begin.Add(d2)
		}
	}
	return r.with(begin, end, d2)
}

// Subtract shrinks the range by d, holding the endpoint selected by flags.
func (r *Range) Subtract(d Duration, flags int) *Range {
	return r.Add(d.MultiplyBy(-1), flags)
}

// Mid returns the middle of the range, or whichever endpoint is known.
func (r *Range) Mid() Time {
	if _, known := millisOf(r.dur); known {
		if half, err := r.dur.DivideBy(2); err == nil {
			switch {
			case r.begin != nil:
				return r.begin.Add(half)
			case r.end != nil:
				return Subtract(r.end, half)
			}
		}
	}
	switch {
	case r.begin != nil && r.end != nil:
		if d := Difference(r.begin, r.end); d != nil {
			if half, err := d.DivideBy(2); err == nil {
				return r.begin.Add(half)
			}
		}
		return r.begin
	case r.begin != nil:
		return r.begin
	}
	return r.end
}

// Intersect of two ranges runs from the later begin to the earlier end. The
// result is not checked for begin <= end. A time intersected with the range
// is deferred and a duration becomes an approximate time within it.
func (r *Range) Intersect(t Temporal) Temporal {
	switch o := t.(type) {
	case nil:
		return r
	case *Range:
		return NewRange(MaxTime(r.begin, o.begin), MinTime(r.end, o.end), nil)
	case Time:
		if isUnknownTime(o) {
			return r
		}
		return NewRelativeTime(o, OpIntersect, r, 0)
	case Duration:
		if o == Duration(durationUnknown) {
			return r
		}
		return NewInexactTime(nil, o, r)
	}
	return nil
}

// Contains reports whether o lies within r. Each endpoint covers its whole
// granularity, so the day 2020-06-30 as end covers that entire day. Unknown
// endpoints are unbounded.
func (r *Range) Contains(o *Range) bool {
	if o == nil {
		return false
	}
	if r.begin != nil {
		rb, ok1 := instantOf(r.begin)
		ob, ok2 := instantOf(o.begin)
		if !ok1 || !ok2 || ob.Before(rb) {
			return false
		}
	}
	if r.end != nil {
		re, ok1 := timeUpperBound(r.end)
		oe, ok2 := instantOf(o.end)
		if !ok1 || !ok2 || !oe.Before(re) {
			return false
		}
	}
	return true
}

// timeUpperBound is the first instant after t at its granularity.
func timeUpperBound(t Time) (time.Time, bool) {
	i, ok := t.Instant()
	if !ok {
		return i, false
	}
	step := time.Millisecond
	if g := t.Granularity(); g != nil {
		if ms, ok := g.Millis(); ok && ms > 0 {
			step = time.Duration(ms) * time.Millisecond
		}
	}
	return i.Add(step), true
}

// Format renders "begin/end" for ISO, the duration for TIMEX3 and
// "(begin,end,duration)" otherwise.
func (r *Range) Format(flags int) string {
	if flags&(FormatISO|FormatTimex3Value) == 0 {
		return "(" + fullString(r.begin) + "," + fullString(r.end) + "," + fullString(r.dur) + ")"
	}
	if r.label != "" {
		return r.label
	}
	b, e, d := formatOrEmpty(r.begin, flags), formatOrEmpty(r.end, flags), formatOrEmpty(r.dur, flags)
	if flags&FormatISO != 0 {
		switch {
		case b != "" && e != "":
			return b + "/" + e
		case b != "" && d != "":
			return b + "/" + d
		case d != "" && e != "":
			return d + "/" + e
		}
	}
	return d
}

func formatOrEmpty(t Temporal, flags int) string {
	if t == nil {
		return ""
	}
	return t.Format(flags)
}

func fullString(t Temporal) string {
	if t == nil {
		return ""
	}
	return t.String()
}
