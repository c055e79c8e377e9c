package temporal

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/timenorm/internal/calendar"
)

func TestConstants(t *testing.T) {
	tests := []struct {
		name  string
		std   StandardType
		timex string
	}{
		{"FRIDAY", TypeDayOfWeek, "XXXX-WXX-5"},
		{"JUNE", TypeMonthOfYear, "XXXX-06"},
		{"WEEKEND", TypeDaysOfWeek, "WE"},
		{"WEEKDAY", TypeDaysOfWeek, "WD"},
		{"WINTER", TypeSeasonOfYear, "WI"},
		{"MORNING", TypeTimeOfDay, "MO"},
		{"NOON", TypeTimeOfDay, "MI"},
		{"TIME_PRESENT", TypeRefDate, "PRESENT_REF"},
		{"TIME_PAST", TypeRefDate, "PAST_REF"},
		{"WEEK", TypeNone, "P1W"},
		{"QUARTER", TypeNone, "P3M"},
		{"DECADE", TypeNone, "P10Y"},
		{"FORTNIGHT", TypeNone, "P2W"},
		{"HALFHOUR", TypeNone, "PT30M"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Constant(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.std, c.StandardType())
			assert.Equal(t, tt.timex, TimexValue(c))
		})
	}

	_, ok := Constant("BLUE_MOON")
	assert.False(t, ok)
}

func TestConstantAnchors(t *testing.T) {
	ref, _ := Constant("TIME_REF")
	assert.Same(t, TimeRef(), ref)

	unknown, _ := Constant("TIME_UNKNOWN")
	assert.Same(t, TimeUnknown(), unknown)

	d, _ := Constant("DURATION_UNKNOWN")
	assert.Same(t, DurationUnknown(), d)

	now, _ := Constant("TIME_NOW")
	out, err := now.Resolve(wednesday(), 0)
	require.NoError(t, err)
	assert.Same(t, now, out, "now stays symbolic without ResolveNow")

	out, err = now.Resolve(wednesday(), ResolveNow)
	require.NoError(t, err)
	assert.Equal(t, "2023-06-14", ISO(out))
}

func TestConstantNames(t *testing.T) {
	names := Constants()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "SPRING_EQUINOX")
	assert.Contains(t, names, "MILLENNIUM")
	assert.Contains(t, names, "QUARTERLY")
}

func TestConstantsArePeriodic(t *testing.T) {
	friday, _ := Constant("FRIDAY")
	assert.Equal(t, "P1W", ISO(friday.Period()))

	june, _ := Constant("JUNE")
	assert.Equal(t, "P1Y", ISO(june.Period()))

	monthly, _ := Constant("MONTHLY")
	assert.Equal(t, "P1M", ISO(monthly.Period()))
	assert.Equal(t, "EVERY", monthly.(*PeriodicTemporalSet).Quant())
}

func TestLookupUnit(t *testing.T) {
	u, ok := LookupUnit("DAY")
	require.True(t, ok)
	assert.Equal(t, calendar.UnitDays, u)

	_, ok = LookupUnit("FORTNIGHT")
	assert.False(t, ok)
}

func TestMakePeriodicTemporalSet(t *testing.T) {
	monday, _ := Constant("MONDAY")

	everyOther, err := MakePeriodicTemporalSet(monday, "EVERY", 2)
	require.NoError(t, err)
	assert.Equal(t, "P2W", ISO(everyOther.Periodicity()))
	assert.Same(t, monday, everyOther.Base())
	assert.Equal(t, "EVERY", everyOther.Quant())

	_, err = MakePeriodicTemporalSet(nil, "EVERY", 1)
	assert.ErrorIs(t, err, ErrOperatorMisuse)
}

func TestDurationFromCounts(t *testing.T) {
	day := UnitDuration(calendar.UnitDays)

	between := DurationFromCounts(day, 3, 5)
	assert.IsType(t, &DurationRange{}, between)
	assert.Equal(t, "P3D/P5D", between.Format(FormatFull))

	assert.Equal(t, "P3D", ISO(DurationFromCounts(day, 3, Unknown)))
	assert.Equal(t, "P5D", ISO(DurationFromCounts(day, Unknown, 5)))

	some := DurationFromCounts(day, Unknown, Unknown)
	assert.True(t, some.IsApprox())
	assert.Equal(t, "PXD", ISO(some))

	assert.Nil(t, DurationFromCounts(nil, 1, 2))
}

func TestAnchorDuration(t *testing.T) {
	d := DurationOf(calendar.UnitDays, 3)

	assert.Same(t, d, AnchorDuration(d, nil, nil))

	r, ok := AnchorDuration(d, TimeUnknown(), IsoDate(2020, 6, 30)).(*Range)
	require.True(t, ok)
	assert.NotSame(t, TimeUnknown(), r.Begin(), "unknown endpoints are replaced by fresh placeholders")
	assert.Equal(t, "2020-06-30", ISO(r.End()))
	assert.Same(t, d, r.Duration())
}

func TestWithLabel(t *testing.T) {
	p := IsoDate(Unknown, 4, Unknown)
	labeled := WithLabel(p, TypeMonthOfYear, "APR")

	assert.Equal(t, "APR", TimexValue(labeled))
	assert.Equal(t, "XXXX-04", TimexValue(p))
	assert.Equal(t, "MONTH_OF_YEAR", labeled.StandardType().String())

	std, ok := ParseStandardType("SEASON_OF_YEAR")
	require.True(t, ok)
	assert.Equal(t, TypeSeasonOfYear, std)
}
