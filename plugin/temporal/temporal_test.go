package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/timenorm/internal/calendar"
)

// wednesday is 2023-06-14, the reference date used throughout the tests.
func wednesday() *PartialTime {
	return IsoDate(2023, 6, 14)
}

func TestPartialTimeRange(t *testing.T) {
	june := IsoDate(2020, 6, Unknown)
	tests := []struct {
		name  string
		flags int
		want  string
	}{
		{"default pads to days", 0, "2020-06-01/2020-06-30"},
		{"auto", RangeFlagsPadAuto, "2020-06-01/2020-06-30"},
		{"finest", RangeFlagsPadFinest, "2020-06-01T00:00:00.000/2020-06-30T23:59:59.999"},
		{"none", RangeFlagsPadNone, "2020-06/2020-07"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := june.Range(tt.flags, nil)
			require.NotNil(t, r)
			assert.Equal(t, tt.want, ISO(r))
		})
	}
}

func TestPartialTimeFormat(t *testing.T) {
	tests := []struct {
		name  string
		t     Temporal
		flags int
		want  string
	}{
		{"date", IsoDate(2020, 6, 15), FormatISO, "2020-06-15"},
		{"two digit year", IsoDate(20, 6, 15), FormatISO, "2020-06-15"},
		{"month only", IsoDate(Unknown, 6, Unknown), FormatISO, "XXXX-06"},
		{"padded day", IsoDate(2020, 6, Unknown), FormatISO | FormatPadUnknown, "2020-06-XX"},
		{"hour", IsoDateTime(IsoDate(2020, 6, 1), IsoTime(10, Unknown, Unknown, Unknown, HalfdayUnknown)), FormatISO, "2020-06-01T10"},
		{"padded hour", IsoDateTime(IsoDate(2020, 6, 1), IsoTime(10, Unknown, Unknown, Unknown, HalfdayUnknown)), FormatISO | FormatPadUnknown, "2020-06-01T10:XX:XX"},
		{"pm clock", IsoTime(3, 30, Unknown, Unknown, HalfdayPM), FormatISO, "T15:30"},
		{"week", NewPartialTime(calendar.Of(calendar.FieldValue{Field: calendar.Year, Value: 2023}, calendar.FieldValue{Field: calendar.WeekOfYear, Value: 25})), FormatISO, "2023-W25"},
		{"grounded", NewGroundedTime(time.Date(2020, 6, 15, 10, 0, 0, 0, time.UTC)), FormatISO, "2020-06-15T10:00:00.000Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.t.Format(tt.flags))
		})
	}
}

func TestTimexType(t *testing.T) {
	assert.Equal(t, TimexDate, IsoDate(2020, 6, 15).TimexType())
	assert.Equal(t, TimexTime, IsoTime(10, 30, Unknown, Unknown, HalfdayUnknown).TimexType())
	assert.Equal(t, TimexDuration, DurationOf(calendar.UnitDays, 3).TimexType())
	assert.Equal(t, TimexDuration, NewRange(IsoDate(2020, 6, 1), IsoDate(2020, 6, 3), nil).TimexType())
	assert.Equal(t, TimexSet, NewPeriodicTemporalSet(nil, UnitDuration(calendar.UnitDays), "EVERY", "").TimexType())
}

func TestWithModKeepsReceiver(t *testing.T) {
	d := DurationOf(calendar.UnitDays, 3)
	approx := WithMod(d, string(ModApprox))

	assert.Equal(t, "", d.Mod())
	assert.Equal(t, string(ModApprox), approx.Mod())
	assert.Equal(t, "~P3D", approx.Format(FormatFull))
	assert.Equal(t, "P3D", ISO(approx))
	assert.Nil(t, WithMod(nil, "APPROX"))
}

func TestDifference(t *testing.T) {
	tests := []struct {
		name   string
		t1, t2 Time
		want   string
	}{
		{"days", IsoDate(2020, 6, 1), IsoDate(2020, 6, 3), "P2D"},
		{
			"truncated to the coarser granularity",
			IsoDateTime(IsoDate(2020, 6, 1), IsoTime(10, Unknown, Unknown, Unknown, HalfdayUnknown)),
			IsoDateTime(IsoDate(2020, 6, 1), IsoTime(11, 59, Unknown, Unknown, HalfdayUnknown)),
			"PT1H",
		},
		{
			"milliseconds",
			NewGroundedTime(time.Date(2020, 6, 1, 10, 0, 0, 0, time.UTC)),
			NewGroundedTime(time.Date(2020, 6, 1, 11, 30, 0, int(500*time.Millisecond), time.UTC)),
			"PT1H30M0.5S",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Difference(tt.t1, tt.t2)
			require.NotNil(t, d)
			assert.Equal(t, tt.want, ISO(d))
		})
	}
	assert.Nil(t, Difference(IsoDate(Unknown, 6, 1), IsoDate(2020, 6, 3)))
}

func TestCompareTimes(t *testing.T) {
	c, ok := CompareTimes(IsoDate(2020, 6, 1), IsoDate(2020, 6, 3))
	require.True(t, ok)
	assert.Equal(t, -1, c)

	_, ok = CompareTimes(IsoDate(Unknown, 6, 1), IsoDate(2020, 6, 3))
	assert.False(t, ok)

	assert.Equal(t, "2020-06-01", ISO(MinTime(IsoDate(2020, 6, 3), IsoDate(2020, 6, 1))))
	assert.Equal(t, "2020-06-03", ISO(MaxTime(IsoDate(2020, 6, 3), IsoDate(2020, 6, 1))))
	assert.Equal(t, "2020-06-03", ISO(MaxTime(nil, IsoDate(2020, 6, 3))))
}

func TestClosestPrefersEarlierCandidate(t *testing.T) {
	ref := IsoDate(2020, 6, 10)
	past, future := IsoDate(2020, 6, 8), IsoDate(2020, 6, 12)

	assert.Same(t, past, Closest(ref, past, future))
	assert.Same(t, future, Closest(ref, future, past))
	assert.Same(t, future, Closest(ref, IsoDate(2020, 6, 1), future))
}

func TestDurationArithmetic(t *testing.T) {
	day := UnitDuration(calendar.UnitDays)

	half, err := DurationOf(calendar.UnitDays, 3).DivideBy(2)
	require.NoError(t, err)
	assert.Equal(t, "P1DT12H", ISO(half))

	fifth, err := day.DivideBy(5)
	require.NoError(t, err)
	assert.Equal(t, "PT4H48M", ISO(fifth))

	_, err = day.DivideBy(0)
	assert.ErrorIs(t, err, ErrOperatorMisuse)

	ms, err := NewDurationWithMillis(1001).DivideBy(2)
	require.NoError(t, err)
	n, _ := ms.Millis()
	assert.Equal(t, int64(500), n)

	assert.Equal(t, "P7D", ISO(day.MultiplyBy(7)))
	assert.Equal(t, "P1DT6H", ISO(day.Add(DurationOf(calendar.UnitHours, 6))))
	assert.Equal(t, "P1D", ISO(day), "the unit duration is shared and must not change")
}

func TestDurationFormat(t *testing.T) {
	tests := []struct {
		name  string
		d     Duration
		flags int
		want  string
	}{
		{"fields", DurationOf(calendar.UnitDays, 3), FormatISO, "P3D"},
		{"inexact", NewInexactDuration(calendar.PeriodOf(calendar.UnitDays, 3)), FormatISO, "PXD"},
		{"millis", NewDurationWithMillis(90000), FormatISO, "PT1M30S"},
		{"unknown", DurationUnknown(), FormatISO, "PXX"},
		{"range full", NewDurationRange(DurationOf(calendar.UnitDays, 2), DurationOf(calendar.UnitDays, 3)), FormatFull, "P2D/P3D"},
		{"range has no iso", NewDurationRange(DurationOf(calendar.UnitDays, 2), DurationOf(calendar.UnitDays, 3)), FormatISO, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.Format(tt.flags))
		})
	}
}

func TestCompareDurations(t *testing.T) {
	exact := DurationOf(calendar.UnitDays, 1)
	approx := NewInexactDuration(calendar.PeriodOf(calendar.UnitDays, 1))

	assert.Equal(t, -1, CompareDurations(exact, approx))
	assert.Equal(t, 1, CompareDurations(approx, exact))
	assert.Equal(t, 1, CompareDurations(DurationOf(calendar.UnitHours, 25), exact))
	assert.Equal(t, 1, CompareDurations(DurationUnknown(), exact))

	assert.Same(t, exact, MinDuration(DurationOf(calendar.UnitHours, 25), exact))
	assert.Same(t, exact, MaxDuration(DurationOf(calendar.UnitHours, 23), exact))
}

func TestDurationRangeMidpoint(t *testing.T) {
	d := NewDurationRange(DurationOf(calendar.UnitDays, 3), DurationOf(calendar.UnitDays, 5))
	ms, ok := d.Millis()
	require.True(t, ok)
	assert.Equal(t, int64(4*24*time.Hour/time.Millisecond), ms)
	assert.True(t, IncludeTimexAltValue(d))
	assert.False(t, IncludeTimexAltValue(DurationOf(calendar.UnitDays, 3)))
}

func TestRangeOperations(t *testing.T) {
	june := NewRange(IsoDate(2020, 6, 1), IsoDate(2020, 6, 30), nil)
	assert.Equal(t, "P29D", ISO(june.Duration()))
	assert.Equal(t, "(2020-06-01,2020-06-30,P29D)", june.String())

	overlap, ok := june.Intersect(NewRange(IsoDate(2020, 6, 15), IsoDate(2020, 7, 15), nil)).(*Range)
	require.True(t, ok)
	assert.Equal(t, "2020-06-15/2020-06-30", ISO(overlap))

	day := DurationOf(calendar.UnitDays, 1)
	assert.Equal(t, "2020-06-02/2020-07-01", ISO(june.Offset(day, 0)))
	assert.Equal(t, "2020-06-02/2020-06-30", ISO(june.Offset(day, RangeOffsetBegin)))

	grown := june.Add(day, 0)
	assert.Equal(t, "2020-06-01/2020-07-01", ISO(grown))
	assert.Equal(t, "P30D", ISO(grown.Duration()))
	assert.Equal(t, "2020-05-31/2020-06-30", ISO(june.Add(day, RangeExpandFixEnd)))

	mid := NewRange(IsoDate(2020, 6, 1), IsoDate(2020, 6, 3), nil).Mid()
	assert.Equal(t, "2020-06-02", ISO(mid))

	// the receiver is untouched
	assert.Equal(t, "2020-06-01/2020-06-30", ISO(june))
}

func TestRangeContains(t *testing.T) {
	june := NewRange(IsoDate(2020, 6, 1), IsoDate(2020, 6, 30), nil)

	assert.True(t, june.Contains(NewRange(IsoDate(2020, 6, 10), IsoDate(2020, 6, 30), nil)))
	assert.False(t, june.Contains(NewRange(IsoDate(2020, 6, 10), IsoDate(2020, 7, 1), nil)))
	assert.False(t, june.Contains(NewRange(IsoDate(2020, 5, 31), IsoDate(2020, 6, 2), nil)))
	assert.False(t, june.Contains(nil))
}

func TestRangeResolveTimeRef(t *testing.T) {
	r := NewRange(TimeRef(), nil, DurationOf(calendar.UnitDays, 3))

	same, err := r.Resolve(wednesday(), 0)
	require.NoError(t, err)
	assert.Same(t, r, same)

	out, err := r.Resolve(wednesday(), RangeResolveTimeRef)
	require.NoError(t, err)
	resolved, ok := out.(*Range)
	require.True(t, ok)
	assert.Equal(t, "2023-06-14", ISO(resolved.Begin()))
	ms, _ := resolved.Duration().Millis()
	assert.Equal(t, int64(3*24*time.Hour/time.Millisecond), ms)
}

func TestGroundedTimeIntersect(t *testing.T) {
	g := NewGroundedTime(time.Date(2020, 6, 15, 10, 0, 0, 0, time.UTC))

	assert.Same(t, g, g.Intersect(IsoDate(2020, 6, Unknown)))
	assert.Nil(t, g.Intersect(IsoDate(2020, 7, Unknown)))
	assert.Same(t, g, g.Intersect(nil))
	assert.True(t, g.IsGrounded())
}

func TestPartialTimeIntersect(t *testing.T) {
	june := IsoDate(Unknown, 6, Unknown)

	both := june.Intersect(IsoDate(2020, Unknown, 15))
	assert.Equal(t, "2020-06-15", ISO(both))
	assert.Nil(t, june.Intersect(IsoDate(Unknown, 7, Unknown)))

	morning, _ := Constant("MORNING")
	assert.Equal(t, "2020-06-15TMO", ISO(IsoDate(2020, 6, 15).Intersect(morning)))

	winter, _ := Constant("WINTER")
	assert.Equal(t, "2023-WI", ISO(IsoDate(2023, Unknown, Unknown).Intersect(winter)))

	_, deferred := june.Intersect(DurationOf(calendar.UnitDays, 1)).(*RelativeTime)
	assert.True(t, deferred)
}

func TestOrdinalTime(t *testing.T) {
	fridaysOfJune := NewPartialTime(calendar.Of(
		calendar.FieldValue{Field: calendar.MonthOfYear, Value: 6},
		calendar.FieldValue{Field: calendar.DayOfWeek, Value: 5},
	))

	third, err := NewOrdinalTime(fridaysOfJune, 3).Resolve(wednesday(), 0)
	require.NoError(t, err)
	assert.Equal(t, "2023-06-16", ISO(third))

	sixth := NewOrdinalTime(fridaysOfJune, 6)
	out, err := sixth.Resolve(wednesday(), 0)
	require.NoError(t, err)
	assert.Same(t, sixth, out)
	assert.Equal(t, "XXXX-06-WXX-5-#6", sixth.Format(FormatFull))
}

func TestPeriodicTemporalSet(t *testing.T) {
	c, ok := Constant("DAILY")
	require.True(t, ok)
	daily := c.(*PeriodicTemporalSet)

	june := NewRange(IsoDate(2020, 6, 1), IsoDate(2020, 6, 30), nil)
	bounded, ok := daily.Intersect(june).(*PeriodicTemporalSet)
	require.True(t, ok)
	assert.Same(t, june, bounded.OccursIn())
	assert.Nil(t, daily.OccursIn())
	assert.False(t, bounded.IsGrounded())

	narrowed := bounded.Intersect(NewRange(IsoDate(2020, 6, 10), IsoDate(2020, 7, 10), nil)).(*PeriodicTemporalSet)
	assert.Equal(t, "2020-06-10/2020-06-30", ISO(narrowed.OccursIn()))

	monday, _ := Constant("MONDAY")
	mondays := daily.Intersect(monday).(*PeriodicTemporalSet)
	assert.Same(t, monday, mondays.Base())
	assert.Equal(t, "XXXX-WXX-1", mondays.Format(FormatTimex3Value))
	assert.Equal(t, "", mondays.Format(FormatISO))

	assert.Equal(t, "P2D", ISO(daily.MultiplyDurationBy(2).Periodicity()))
	assert.Equal(t, "P1D", ISO(daily.Periodicity()))

	weekly, _ := Constant("WEEKLY")
	twice, err := weekly.(*PeriodicTemporalSet).DivideDurationBy(2)
	require.NoError(t, err)
	assert.Equal(t, "P3DT12H", ISO(twice.Periodicity()))

	grounded := NewRange(
		NewGroundedTime(time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)),
		NewGroundedTime(time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC)), nil)
	assert.True(t, daily.WithOccursIn(grounded).IsGrounded())
}

func TestExplicitTemporalSet(t *testing.T) {
	monday, _ := Constant("MONDAY")
	friday, _ := Constant("FRIDAY")

	s := NewExplicitTemporalSet(monday, monday, nil, friday)
	require.Len(t, s.Members(), 2)
	assert.Equal(t, "{XXXX-WXX-1, XXXX-WXX-5}", s.Format(FormatFull))
	assert.Equal(t, "", s.Format(FormatISO))

	out, err := s.Resolve(wednesday(), 0)
	require.NoError(t, err)
	members := out.(*ExplicitTemporalSet).Members()
	require.Len(t, members, 2)
	assert.Equal(t, "2023-06-12", ISO(members[0]))
	assert.Equal(t, "2023-06-16", ISO(members[1]))
}

func TestPartialTimeIntersectCommutes(t *testing.T) {
	tests := []struct {
		name string
		a, b *PartialTime
		want string
	}{
		{"disjoint fields", IsoDate(2020, Unknown, Unknown), IsoDate(Unknown, 6, 15), "2020-06-15"},
		{"shared field agrees", IsoDate(2020, 6, Unknown), IsoDate(Unknown, 6, 15), "2020-06-15"},
		{"shared field differs", IsoDate(2020, 6, Unknown), IsoDate(Unknown, 7, 15), ""},
		{"date and clock", IsoDate(2020, 6, 15), IsoTime(10, 30, Unknown, Unknown, HalfdayUnknown), "2020-06-15T10:30"},
		{"clocks differ", IsoTime(10, 30, Unknown, Unknown, HalfdayUnknown), IsoTime(11, 30, Unknown, Unknown, HalfdayUnknown), ""},
		{"empty", NewPartialTime(calendar.Partial{}), IsoDate(2020, 6, 15), "2020-06-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab, ba := tt.a.Intersect(tt.b), tt.b.Intersect(tt.a)
			if tt.want == "" {
				assert.Nil(t, ab)
				assert.Nil(t, ba)
				return
			}
			require.NotNil(t, ab)
			require.NotNil(t, ba)
			assert.Equal(t, tt.want, ISO(ab))
			assert.Equal(t, tt.want, ISO(ba))
		})
	}
}

func TestIsDefinite(t *testing.T) {
	day := UnitDuration(calendar.UnitDays)
	tests := []struct {
		name string
		t    Temporal
		want bool
	}{
		{"date", IsoDate(2020, 6, 15), true},
		{"month", IsoDate(2020, 6, Unknown), true},
		{"range", NewRange(IsoDate(2020, 6, 1), IsoDate(2020, 6, 5), nil), true},
		{"grounded", NewGroundedTime(time.Date(2020, 6, 15, 10, 0, 0, 0, time.UTC)), true},
		{"month without year", IsoDate(Unknown, 6, Unknown), false},
		{"duration", day, false},
		{"set", NewPeriodicTemporalSet(IsoDate(Unknown, 6, Unknown), UnitDuration(calendar.UnitYears), "", ""), false},
		{"relative", NewRelativeTime(nil, OpOffset, day, 0), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDefinite(tt.t))
		})
	}

	// an unresolved offset is not grounded even on a grounded base
	rt := NewRelativeTime(NewGroundedTime(time.Date(2020, 6, 15, 10, 0, 0, 0, time.UTC)), OpOffset, day, 0)
	assert.False(t, rt.IsGrounded())
	assert.False(t, IsDefinite(rt))
}
