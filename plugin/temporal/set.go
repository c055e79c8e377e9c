package temporal

import (
	"strings"
)

// TemporalSet is a set of times: either recurring (PeriodicTemporalSet) or
// listed (ExplicitTemporalSet).
type TemporalSet interface {
	Temporal
	isSet()
}

// PeriodicTemporalSet is a base value repeating every periodicity, as in
// "every Friday afternoon" or "every other week". OccursIn optionally bounds
// the recurrence.
type PeriodicTemporalSet struct {
	attrs
	base        Temporal
	periodicity Duration
	occursIn    *Range
	quant, freq string
}

// NewPeriodicTemporalSet returns base repeating every periodicity. Quant and
// freq are the TIMEX3 quantifier and frequency, e.g. "EVERY" and "2X".
func NewPeriodicTemporalSet(base Temporal, periodicity Duration, quant, freq string) *PeriodicTemporalSet {
	return &PeriodicTemporalSet{base: base, periodicity: periodicity, quant: quant, freq: freq}
}

func (s *PeriodicTemporalSet) with(f func(*PeriodicTemporalSet)) *PeriodicTemporalSet {
	c := *s
	f(&c)
	return &c
}

func (s *PeriodicTemporalSet) Base() Temporal        { return s.base }
func (s *PeriodicTemporalSet) Periodicity() Duration { return s.periodicity }
func (s *PeriodicTemporalSet) OccursIn() *Range      { return s.occursIn }
func (s *PeriodicTemporalSet) Quant() string         { return s.quant }
func (s *PeriodicTemporalSet) Freq() string          { return s.freq }

// WithOccursIn returns a copy bounded by r.
func (s *PeriodicTemporalSet) WithOccursIn(r *Range) *PeriodicTemporalSet {
	return s.with(func(c *PeriodicTemporalSet) { c.occursIn = r })
}

// WithQuant returns a copy with the quantifier replaced.
func (s *PeriodicTemporalSet) WithQuant(quant string) *PeriodicTemporalSet {
	return s.with(func(c *PeriodicTemporalSet) { c.quant = quant })
}

// MultiplyDurationBy stretches the periodicity: "every other week" is a
// weekly set multiplied by 2.
func (s *PeriodicTemporalSet) MultiplyDurationBy(n int) *PeriodicTemporalSet {
	return s.with(func(c *PeriodicTemporalSet) {
		if c.periodicity != nil {
			c.periodicity = c.periodicity.MultiplyBy(n)
		}
	})
}

// DivideDurationBy shortens the periodicity: "twice a week".
func (s *PeriodicTemporalSet) DivideDurationBy(n int) (*PeriodicTemporalSet, error) {
	if s.periodicity == nil {
		return s, nil
	}
	p, err := s.periodicity.DivideBy(n)
	if err != nil {
		return nil, err
	}
	return s.with(func(c *PeriodicTemporalSet) { c.periodicity = p }), nil
}

func (s *PeriodicTemporalSet) isSet() {}

// IsGrounded reports whether the bounding range is grounded.
func (s *PeriodicTemporalSet) IsGrounded() bool { return s.occursIn != nil && s.occursIn.IsGrounded() }

func (s *PeriodicTemporalSet) Time() Time                                { return nil }
func (s *PeriodicTemporalSet) Duration() Duration                        { return nil }
func (s *PeriodicTemporalSet) Range(int, Duration) *Range                { return s.occursIn }
func (s *PeriodicTemporalSet) Period() Duration                          { return s.periodicity }
func (s *PeriodicTemporalSet) Granularity() Duration                     { return standardGranularity(s.attrs) }
func (s *PeriodicTemporalSet) TimexType() TimexType                      { return TimexSet }
func (s *PeriodicTemporalSet) String() string                            { return s.Format(FormatFull) }
func (s *PeriodicTemporalSet) WithModApprox(mod string, a bool) Temporal { c := *s; c.attrs = c.withModApprox(mod, a); return &c }

// Resolve grounds the bounding range against ref. The base is only resolved
// on its own, since it recurs rather than falls near ref.
func (s *PeriodicTemporalSet) Resolve(ref Time, flags int) (Temporal, error) {
	out := *s
	if s.occursIn != nil {
		r, err := s.occursIn.Resolve(ref, flags)
		if err != nil {
			return nil, err
		}
		out.occursIn, _ = r.(*Range)
	}
	if s.base != nil {
		b, err := s.base.Resolve(nil, 0)
		if err != nil {
			return nil, err
		}
		out.base = b
	}
	return &out, nil
}

// Intersect bounds the set by a range (narrowing an existing bound) and
// merges anything else into the recurring base.
func (s *PeriodicTemporalSet) Intersect(t Temporal) Temporal {
	switch o := t.(type) {
	case nil:
		return s
	case *Range:
		r := o
		if s.occursIn != nil {
			r, _ = s.occursIn.Intersect(o).(*Range)
		}
		return s.WithOccursIn(r)
	}
	if s.base == nil {
		return s.with(func(c *PeriodicTemporalSet) { c.base = t })
	}
	merged := s.base.Intersect(t)
	if merged == nil {
		return nil
	}
	return s.with(func(c *PeriodicTemporalSet) { c.base = merged })
}

// Format renders the base, or the periodicity when there is none. A set has
// no ISO value.
func (s *PeriodicTemporalSet) Format(flags int) string {
	if s.label != "" {
		return s.label
	}
	if flags&FormatISO != 0 {
		return ""
	}
	if s.base != nil {
		return s.base.Format(flags)
	}
	if s.periodicity != nil {
		return s.periodicity.Format(flags)
	}
	return ""
}

// ExplicitTemporalSet is a listed set of values ("Monday and Wednesday").
// Members are kept in order without duplicates.
type ExplicitTemporalSet struct {
	attrs
	members []Temporal
}

// NewExplicitTemporalSet returns the set of the given members. Nil members
// and repeats of the same value are dropped.
func NewExplicitTemporalSet(members ...Temporal) *ExplicitTemporalSet {
	out := make([]Temporal, 0, len(members))
	seen := make(map[Temporal]struct{}, len(members))
	for _, m := range members {
		if m == nil {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return &ExplicitTemporalSet{members: out}
}

// Members returns a copy of the members.
func (s *ExplicitTemporalSet) Members() []Temporal {
	return append([]Temporal(nil), s.members...)
}

func (s *ExplicitTemporalSet) isSet() {}

func (s *ExplicitTemporalSet) IsGrounded() bool                          { return false }
func (s *ExplicitTemporalSet) Time() Time                                { return nil }
func (s *ExplicitTemporalSet) Duration() Duration                        { return nil }
func (s *ExplicitTemporalSet) Range(int, Duration) *Range                { return nil }
func (s *ExplicitTemporalSet) Period() Duration                          { return standardPeriod(s.attrs) }
func (s *ExplicitTemporalSet) Granularity() Duration                     { return standardGranularity(s.attrs) }
func (s *ExplicitTemporalSet) TimexType() TimexType                      { return TimexSet }
func (s *ExplicitTemporalSet) String() string                            { return s.Format(FormatFull) }
func (s *ExplicitTemporalSet) WithModApprox(mod string, a bool) Temporal { c := *s; c.attrs = c.withModApprox(mod, a); return &c }

// Resolve resolves every member.
func (s *ExplicitTemporalSet) Resolve(ref Time, flags int) (Temporal, error) {
	out := make([]Temporal, 0, len(s.members))
	for _, m := range s.members {
		r, err := m.Resolve(ref, flags)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return NewExplicitTemporalSet(out...), nil
}

// Intersect intersects every member with t and drops those with no
// intersection.
func (s *ExplicitTemporalSet) Intersect(t Temporal) Temporal {
	if t == nil || t == Temporal(timeUnknown) || t == Temporal(durationUnknown) {
		return s
	}
	out := make([]Temporal, 0, len(s.members))
	for _, m := range s.members {
		if r := m.Intersect(t); r != nil {
			out = append(out, r)
		}
	}
	return NewExplicitTemporalSet(out...)
}

func (s *ExplicitTemporalSet) Format(flags int) string {
	if s.label != "" {
		return s.label
	}
	if flags&(FormatISO|FormatTimex3Value) != 0 {
		return ""
	}
	parts := make([]string, len(s.members))
	for i, m := range s.members {
		parts[i] = m.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
