package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/timenorm/plugin/temporal"
)

func decode(t *testing.T, s string) *Expr {
	t.Helper()
	e, err := Decode([]byte(s))
	require.NoError(t, err)
	return e
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		check func(t *testing.T, out temporal.Temporal)
	}{
		{
			name: "constant",
			expr: `{"const":"friday"}`,
			check: func(t *testing.T, out temporal.Temporal) {
				assert.Equal(t, "XXXX-WXX-5", temporal.TimexValue(out))
			},
		},
		{
			name: "date",
			expr: `{"date":"2020-06-15"}`,
			check: func(t *testing.T, out temporal.Temporal) {
				assert.Equal(t, "2020-06-15", temporal.ISO(out))
			},
		},
		{
			name: "duration",
			expr: `{"duration":{"unit":"DAY","n":3}}`,
			check: func(t *testing.T, out temporal.Temporal) {
				assert.Equal(t, "P3D", temporal.ISO(out))
			},
		},
		{
			name: "duration range",
			expr: `{"duration":{"unit":"day","n":3,"max":5}}`,
			check: func(t *testing.T, out temporal.Temporal) {
				assert.IsType(t, &temporal.DurationRange{}, out)
				assert.Equal(t, "P3D/P5D", out.Format(temporal.FormatFull))
			},
		},
		{
			name: "duration of a named unit",
			expr: `{"duration":{"unit":"FORTNIGHT","n":1}}`,
			check: func(t *testing.T, out temporal.Temporal) {
				assert.Equal(t, "P2W", temporal.ISO(out))
			},
		},
		{
			name: "set of a unit",
			expr: `{"set":{"unit":"WEEK","quant":"every","scale":2}}`,
			check: func(t *testing.T, out temporal.Temporal) {
				set, ok := out.(*temporal.PeriodicTemporalSet)
				require.True(t, ok)
				assert.Equal(t, "P2W", temporal.TimexValue(set))
				assert.Equal(t, "EVERY", set.Quant())
			},
		},
		{
			name: "set of a value",
			expr: `{"set":{"base":{"const":"MONDAY"},"quant":"every","scale":2}}`,
			check: func(t *testing.T, out temporal.Temporal) {
				set, ok := out.(*temporal.PeriodicTemporalSet)
				require.True(t, ok)
				assert.Equal(t, "P2W", temporal.ISO(set.Periodicity()))
				assert.Equal(t, "XXXX-WXX-1", temporal.TimexValue(set))
			},
		},
		{
			name: "range",
			expr: `{"range":[{"date":"2020-06-01"},{"date":"2020-06-30"}]}`,
			check: func(t *testing.T, out temporal.Temporal) {
				assert.Equal(t, "2020-06-01/2020-06-30", temporal.ISO(out))
			},
		},
		{
			name: "modifier",
			expr: `{"mod":"approx","of":{"duration":{"unit":"HOUR","n":2}}}`,
			check: func(t *testing.T, out temporal.Temporal) {
				assert.Equal(t, "APPROX", out.Mod())
				assert.Equal(t, "PT2H", temporal.ISO(out))
			},
		},
		{
			name: "multiply",
			expr: `{"op":"MULTIPLY","args":[{"duration":{"unit":"DAY","n":1}}],"n":3}`,
			check: func(t *testing.T, out temporal.Temporal) {
				assert.Equal(t, "P3D", temporal.ISO(out))
			},
		},
		{
			name: "ordinal",
			expr: `{"op":"CREATE","args":[{"const":"FRIDAY"}],"n":3}`,
			check: func(t *testing.T, out temporal.Temporal) {
				assert.IsType(t, &temporal.OrdinalTime{}, out)
			},
		},
		{
			name: "relative to the reference time",
			expr: `{"op":"next","args":[{"const":"FRIDAY"}],"flags":["future"]}`,
			check: func(t *testing.T, out temporal.Temporal) {
				rt, ok := out.(*temporal.RelativeTime)
				require.True(t, ok)
				assert.Same(t, temporal.TimeRef(), rt.Base())
				assert.Equal(t, temporal.OpNext, rt.Op())
				assert.Equal(t, temporal.ResolveToFuture, rt.Flags())
			},
		},
		{
			name: "applied to an explicit base",
			expr: `{"op":"NEXT","args":[{"date":"2023-06-14"},{"const":"FRIDAY"}]}`,
			check: func(t *testing.T, out temporal.Temporal) {
				assert.Equal(t, "2023-06-16", temporal.ISO(out))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Build(decode(t, tt.expr))
			require.NoError(t, err)
			require.NotNil(t, out)
			tt.check(t, out)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want error
	}{
		{"no form", `{}`, ErrMalformedExpr},
		{"two forms", `{"const":"FRIDAY","date":"2020-06-15"}`, ErrMalformedExpr},
		{"unknown constant", `{"const":"BLUE_MOON"}`, ErrMalformedExpr},
		{"unknown unit", `{"duration":{"unit":"PARSEC","n":1}}`, ErrMalformedExpr},
		{"bad date", `{"date":"soon"}`, temporal.ErrMalformedLiteral},
		{"unknown operator", `{"op":"SOMETIME","args":[{"const":"FRIDAY"}]}`, temporal.ErrUnsupportedOperation},
		{"multiply without n", `{"op":"MULTIPLY","args":[{"duration":{"unit":"DAY","n":1}}]}`, ErrMalformedExpr},
		{"modifier as operator", `{"op":"ADD_MODIFIER","args":[{"const":"FRIDAY"}]}`, ErrMalformedExpr},
		{"too many arguments", `{"op":"NEXT","args":[{"const":"FRIDAY"},{"const":"FRIDAY"},{"const":"FRIDAY"}]}`, ErrMalformedExpr},
		{"unknown flag", `{"op":"NEXT","args":[{"const":"FRIDAY"}],"flags":["soonish"]}`, ErrMalformedExpr},
		{"misused operator", `{"op":"MULTIPLY","args":[{"date":"2020-06-15"}],"n":2}`, temporal.ErrOperatorMisuse},
		{"set without base or unit", `{"set":{"quant":"every"}}`, ErrMalformedExpr},
		{"range endpoint is not a time", `{"range":[{"duration":{"unit":"DAY","n":1}},{"date":"2020-06-30"}]}`, ErrMalformedExpr},
		{"empty range", `{"range":[null,null]}`, ErrMalformedExpr},
		{"mod without operand", `{"mod":"APPROX"}`, ErrMalformedExpr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(decode(t, tt.expr))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Build(nil)
	assert.ErrorIs(t, err, ErrMalformedExpr)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode([]byte(`{"constant":"FRIDAY"}`))
	assert.ErrorIs(t, err, ErrMalformedExpr)

	_, err = Decode([]byte(`{"const":`))
	assert.ErrorIs(t, err, ErrMalformedExpr)
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"none", 0},
		{"past", temporal.ResolveToPast},
		{"Future", temporal.ResolveToFuture},
		{"closest", temporal.ResolveToClosest},
		{"this", temporal.ResolveToThis},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseDirection("sideways")
	assert.Error(t, err)
}

func TestParseFlags(t *testing.T) {
	flags, err := ParseFlags([]string{"NOW", "past"})
	require.NoError(t, err)
	assert.Equal(t, temporal.ResolveNow|temporal.ResolveToPast, flags)

	flags, err = ParseFlags(nil)
	require.NoError(t, err)
	assert.Zero(t, flags)
}
