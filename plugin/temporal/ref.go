package temporal

import (
	"time"

	"github.com/hrygo/timenorm/internal/calendar"
)

// RefTime is a named anchor such as the document reference time or "now". It
// is replaced by the reference time during resolution.
type RefTime struct {
	attrs
	name string
}

// NewRefTime returns an anchor with the given name.
func NewRefTime(name string) *RefTime {
	return &RefTime{name: name}
}

// Name returns the anchor name.
func (r *RefTime) Name() string { return r.name }

func (r *RefTime) isTime() {}

func (r *RefTime) IsGrounded() bool                         { return false }
func (r *RefTime) Time() Time                               { return r }
func (r *RefTime) Duration() Duration                       { return durationNone }
func (r *RefTime) Range(int, Duration) *Range               { return timeRange(r) }
func (r *RefTime) Period() Duration                         { return standardPeriod(r.attrs) }
func (r *RefTime) Granularity() Duration                    { return standardGranularity(r.attrs) }
func (r *RefTime) TimexType() TimexType                     { return timeTimexType(r.attrs, false) }
func (r *RefTime) Instant() (time.Time, bool)               { return time.Time{}, false }
func (r *RefTime) Partial() (calendar.Partial, bool)        { return calendar.Partial{}, false }
func (r *RefTime) HasTime() bool                            { return false }
func (r *RefTime) Intersect(o Temporal) Temporal            { return intersectTime(r, o) }
func (r *RefTime) Add(d Duration) Time                      { return NewRelativeTime(r, OpOffset, d, 0) }
func (r *RefTime) String() string                           { return r.Format(FormatFull) }
func (r *RefTime) WithModApprox(mod string, a bool) Temporal { c := *r; c.attrs = c.withModApprox(mod, a); return &c }

// Resolve substitutes ref for the reference anchor, and for "now" under
// ResolveNow. Other anchors stay symbolic.
func (r *RefTime) Resolve(ref Time, flags int) (Temporal, error) {
	switch {
	case ref == nil:
		return r, nil
	case r == timeRef:
		return ref, nil
	case r == timeNow && flags&ResolveNow != 0:
		return ref, nil
	}
	return r, nil
}

func (r *RefTime) Format(flags int) string {
	if r.label != "" {
		return r.label
	}
	if flags&FormatISO != 0 {
		return ""
	}
	return r.name
}

// SimpleTime is an opaque label used when nothing more is known about a
// time. It never resolves.
type SimpleTime struct {
	attrs
	name string
}

// NewSimpleTime returns an opaque time with the given label.
func NewSimpleTime(name string) *SimpleTime {
	return &SimpleTime{name: name}
}

func (s *SimpleTime) isTime() {}

func (s *SimpleTime) IsGrounded() bool                          { return false }
func (s *SimpleTime) Time() Time                                { return s }
func (s *SimpleTime) Duration() Duration                        { return durationNone }
func (s *SimpleTime) Range(int, Duration) *Range                { return timeRange(s) }
func (s *SimpleTime) Period() Duration                          { return standardPeriod(s.attrs) }
func (s *SimpleTime) Granularity() Duration                     { return standardGranularity(s.attrs) }
func (s *SimpleTime) TimexType() TimexType                      { return timeTimexType(s.attrs, false) }
func (s *SimpleTime) Instant() (time.Time, bool)                { return time.Time{}, false }
func (s *SimpleTime) Partial() (calendar.Partial, bool)         { return calendar.Partial{}, false }
func (s *SimpleTime) HasTime() bool                             { return false }
func (s *SimpleTime) Intersect(o Temporal) Temporal             { return intersectTime(s, o) }
func (s *SimpleTime) Add(d Duration) Time                       { return NewRelativeTime(s, OpOffset, d, 0) }
func (s *SimpleTime) Resolve(Time, int) (Temporal, error)       { return s, nil }
func (s *SimpleTime) String() string                            { return s.Format(FormatFull) }
func (s *SimpleTime) WithModApprox(mod string, a bool) Temporal { c := *s; c.attrs = c.withModApprox(mod, a); return &c }

func (s *SimpleTime) Format(int) string {
	if s.label != "" {
		return s.label
	}
	return s.name
}
