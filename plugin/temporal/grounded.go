package temporal

import (
	"time"

	"github.com/hrygo/timenorm/internal/calendar"
)

// GroundedTime is a concrete instant.
type GroundedTime struct {
	attrs
	t time.Time
}

// NewGroundedTime returns the time at t.
func NewGroundedTime(t time.Time) *GroundedTime {
	return &GroundedTime{t: t}
}

func (g *GroundedTime) isTime() {}

func (g *GroundedTime) Instant() (time.Time, bool)        { return g.t, true }
func (g *GroundedTime) Partial() (calendar.Partial, bool) { return calendar.FromTime(g.t), true }
func (g *GroundedTime) HasTime() bool                     { return true }
func (g *GroundedTime) IsGrounded() bool                  { return true }
func (g *GroundedTime) Time() Time                        { return g }
func (g *GroundedTime) Duration() Duration                { return durationNone }
func (g *GroundedTime) Range(int, Duration) *Range        { return timeRange(g) }
func (g *GroundedTime) Period() Duration                  { return standardPeriod(g.attrs) }
func (g *GroundedTime) TimexType() TimexType              { return timeTimexType(g.attrs, true) }
func (g *GroundedTime) String() string                    { return g.Format(FormatFull) }

func (g *GroundedTime) Granularity() Duration {
	return timeGranularity(g.attrs, calendar.FromTime(g.t))
}

func (g *GroundedTime) Resolve(Time, int) (Temporal, error) { return g, nil }

func (g *GroundedTime) WithModApprox(mod string, approx bool) Temporal {
	c := *g
	c.attrs = c.withModApprox(mod, approx)
	return &c
}

// Add moves the instant by the calendar counts of d.
func (g *GroundedTime) Add(d Duration) Time {
	if d == nil {
		return g
	}
	if ms, ok := d.(*DurationWithMillis); ok {
		return &GroundedTime{attrs: g.derived(), t: g.t.Add(time.Duration(ms.ms) * time.Millisecond)}
	}
	per, ok := d.Fields()
	if !ok {
		return offsetNode(g, d, g.attrs)
	}
	return &GroundedTime{attrs: g.derived(), t: per.AddTo(g.t)}
}

// Intersect keeps the instant when the other value covers it.
func (g *GroundedTime) Intersect(o Temporal) Temporal {
	if isUnknownTime(o) {
		return g
	}
	if r := o.Range(RangeFlagsPadAuto, nil); r != nil && r.Contains(g.Range(0, nil)) {
		return g
	}
	return nil
}

// Format renders the instant in RFC 3339 with milliseconds.
func (g *GroundedTime) Format(int) string {
	return g.t.Format("2006-01-02T15:04:05.000Z07:00")
}
