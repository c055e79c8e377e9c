package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2020-06-15", "2020-06-15"},
		{"20200615", "2020-06-15"},
		{"2020-06-15T10:30", "2020-06-15T10:30"},
		{"20200615:1030", "2020-06-15T10:30"},
		{"T14:05:09.5", "T14:05:09.500"},
		{"2020/6/15", "2020-06-15"},
		{"6/15/2020", "2020-06-15"},
		{"15.06.20", "2020-06-15"},
		{"3:30 pm", "T15:30"},
		{"  2020-06-15  ", "2020-06-15"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDateTime(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ISO(got))
		})
	}
}

func TestParseDateTimeZone(t *testing.T) {
	got, err := ParseDateTime("2020-06-15T10:30Z")
	require.NoError(t, err)
	require.NotNil(t, got.Zone())
	assert.Equal(t, "2020-06-15T10:30+0000", ISO(got))

	got, err = ParseDateTime("2020-06-15T10:30+05:30")
	require.NoError(t, err)
	assert.Equal(t, "2020-06-15T10:30+0530", ISO(got))
}

func TestParseDateTimeRejects(t *testing.T) {
	for _, input := range []string{"", "soon", "next tuesday"} {
		_, err := ParseDateTime(input)
		assert.ErrorIs(t, err, ErrMalformedLiteral, "input %q", input)
	}
}

func TestParseDateTimeRejectsOutOfRange(t *testing.T) {
	inputs := []string{
		"2020-13-45",
		"2020-02-30",
		"2021-02-29",
		"2020-00-10",
		"2020-06-15T25:61",
		"2020-06-15T10:60",
		"2020-06-15T24:30",
		"T23:59:60",
		"99/99/2020",
		"31.04.2020",
		"13:30 pm",
	}
	for _, input := range inputs {
		_, err := ParseDateTime(input)
		assert.ErrorIs(t, err, ErrMalformedLiteral, "input %q", input)
	}

	for _, input := range []string{"2020-02-29", "T24:00"} {
		_, err := ParseDateTime(input)
		assert.NoError(t, err, "input %q", input)
	}
}

func TestIsoDateString(t *testing.T) {
	tests := []struct {
		name    string
		y, m, d string
		want    string
		wantErr bool
	}{
		{name: "full", y: "2020", m: "06", d: "15", want: "2020-06-15"},
		{name: "century", y: "19XX", want: "19XX"},
		{name: "decade", y: "197X", want: "197X"},
		{name: "two digit year", y: "XX12", want: "2012"},
		{name: "two digit year last century", y: "XX75", want: "1975"},
		{name: "unknown year", y: "XXXX", m: "06", want: "XXXX-06"},
		{name: "before christ", y: "-0044", m: "03", d: "15", want: "-0044-03-15"},
		{name: "bad year", y: "20A0", wantErr: true},
		{name: "bad month", y: "2020", m: "June", wantErr: true},
		{name: "leap day without year", y: "XXXX", m: "02", d: "29", want: "XXXX-02-29"},
		{name: "month out of range", y: "2020", m: "13", wantErr: true},
		{name: "no leap day", y: "2019", m: "02", d: "29", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsoDateString(tt.y, tt.m, tt.d)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedLiteral)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ISO(got))
		})
	}
}

func TestIsoDateEra(t *testing.T) {
	assert.Equal(t, "-0499", ISO(IsoDateEra(EraBC, 500, Unknown, Unknown, true)))
	assert.Equal(t, "-0500", ISO(IsoDateEra(EraBC, 500, Unknown, Unknown, false)))
	assert.Equal(t, "+2020", ISO(IsoDateEra(EraAD, 20, Unknown, Unknown, false)))
}

func TestIsoTimeHalfday(t *testing.T) {
	assert.Equal(t, "T00:15", ISO(IsoTime(12, 15, Unknown, Unknown, HalfdayAM)))
	assert.Equal(t, "T12:15", ISO(IsoTime(12, 15, Unknown, Unknown, HalfdayPM)))
	assert.Equal(t, "T21:00", ISO(IsoTime(9, 0, Unknown, Unknown, HalfdayPM)))
}

func TestIsoDateTimeNil(t *testing.T) {
	date, clock := IsoDate(2020, 6, 15), IsoTime(10, 30, Unknown, Unknown, HalfdayUnknown)
	assert.Same(t, clock, IsoDateTime(nil, clock))
	assert.Same(t, date, IsoDateTime(date, nil))
	assert.True(t, IsoDateTime(nil, nil).p.IsEmpty())
	assert.Equal(t, "2020-06-15T10:30", ISO(IsoDateTime(date, clock)))
}
