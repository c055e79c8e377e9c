package timex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/timenorm/internal/calendar"
	"github.com/hrygo/timenorm/plugin/temporal"
)

func constant(t *testing.T, name string) temporal.Temporal {
	t.Helper()
	c, ok := temporal.Constant(name)
	require.True(t, ok)
	return c
}

func TestTimeIndexIdentity(t *testing.T) {
	idx := NewTimeIndex()

	id, ok := idx.IndexOf(temporal.TimeRef(), false)
	require.True(t, ok)
	assert.Equal(t, 0, id)

	a := temporal.IsoDate(2020, 6, 15)
	b := temporal.IsoDate(2020, 6, 15)

	_, ok = idx.IndexOf(a, false)
	assert.False(t, ok)
	assert.Equal(t, 1, idx.Len(), "a lookup without add leaves the index unchanged")

	idA, _ := idx.IndexOf(a, true)
	idB, _ := idx.IndexOf(b, true)
	again, _ := idx.IndexOf(a, true)
	assert.Equal(t, 1, idA)
	assert.Equal(t, 2, idB, "equal values are distinct entries")
	assert.Equal(t, idA, again)

	got, ok := idx.Lookup(idA)
	require.True(t, ok)
	assert.Same(t, a, got)
	_, ok = idx.Lookup(7)
	assert.False(t, ok)

	fid, ok := idx.FuncIndexOf(a, true)
	require.True(t, ok)
	assert.Equal(t, 0, fid, "functions are numbered separately")
	fn, _ := idx.LookupFunc(fid)
	assert.Same(t, a, fn)

	_, ok = idx.IndexOf(nil, true)
	assert.False(t, ok)
}

func TestTimeIndexClear(t *testing.T) {
	idx := NewTimeIndex()
	a := temporal.IsoDate(2020, 6, 15)
	idx.IndexOf(a, true)
	idx.FuncIndexOf(a, true)

	idx.Clear()

	assert.Equal(t, 1, idx.Len())
	_, ok := idx.IndexOf(a, false)
	assert.False(t, ok)
	_, ok = idx.LookupFunc(0)
	assert.False(t, ok)
	ref, ok := idx.Lookup(0)
	require.True(t, ok)
	assert.Same(t, temporal.TimeRef(), ref)
	assert.Equal(t, "t1", idx.TID(a))
}

func TestAttributes(t *testing.T) {
	tests := []struct {
		name string
		t    func(t *testing.T) temporal.Temporal
		want map[string]string
	}{
		{
			name: "date",
			t:    func(*testing.T) temporal.Temporal { return temporal.IsoDate(2023, 6, 16) },
			want: map[string]string{AttrTID: "t1", AttrType: "DATE", AttrValue: "2023-06-16"},
		},
		{
			name: "range numbers its endpoints first",
			t: func(*testing.T) temporal.Temporal {
				return temporal.NewRange(temporal.IsoDate(2020, 6, 1), temporal.IsoDate(2020, 6, 30), nil)
			},
			want: map[string]string{
				AttrBeginPoint: "t1", AttrEndPoint: "t2", AttrTID: "t3",
				AttrType: "DURATION", AttrValue: "P29D",
			},
		},
		{
			name: "unresolved function",
			t: func(t *testing.T) temporal.Temporal {
				return temporal.NewRelativeTime(nil, temporal.OpNext, constant(t, "FRIDAY"), 0)
			},
			want: map[string]string{
				AttrTID: "t1", AttrType: "DATE", AttrAltValue: "NEXT XXXX-WXX-5",
				AttrTemporalFunction: "true", AttrValueFromFunction: "tf0", AttrAnchorTimeID: "t0",
			},
		},
		{
			name: "set",
			t:    func(t *testing.T) temporal.Temporal { return constant(t, "WEEKLY") },
			want: map[string]string{
				AttrTID: "t1", AttrType: "SET", AttrValue: "P1W", AttrQuant: "EVERY", AttrFreq: "P1X",
			},
		},
		{
			name: "duration range has only an alternative value",
			t: func(*testing.T) temporal.Temporal {
				return temporal.NewDurationRange(temporal.DurationOf(calendar.UnitDays, 2), temporal.DurationOf(calendar.UnitDays, 3))
			},
			want: map[string]string{AttrTID: "t1", AttrType: "DURATION", AttrAltValue: "P2D/P3D"},
		},
		{
			name: "modifier",
			t: func(*testing.T) temporal.Temporal {
				return temporal.WithMod(temporal.DurationOf(calendar.UnitDays, 3), string(temporal.ModApprox))
			},
			want: map[string]string{AttrTID: "t1", AttrType: "DURATION", AttrValue: "P3D", AttrMod: "APPROX"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Attributes(tt.t(t), NewTimeIndex(), Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAttributesOfResolvedValue(t *testing.T) {
	idx := NewTimeIndex()
	expr := temporal.NewRelativeTime(nil, temporal.OpNext, constant(t, "FRIDAY"), 0)
	resolved, err := temporal.Resolve(expr, temporal.IsoDate(2023, 6, 14), 0)
	require.NoError(t, err)

	got, err := Attributes(resolved, idx, Options{ResolvedFrom: expr, Comment: "next Friday"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		AttrTID:               "t1",
		AttrType:              "DATE",
		AttrValue:             "2023-06-16",
		AttrTemporalFunction:  "true",
		AttrValueFromFunction: "tf0",
		AttrAnchorTimeID:      "t0",
		AttrComment:           "next Friday",
	}, got)

	again, err := Attributes(resolved, idx, Options{})
	require.NoError(t, err)
	assert.Equal(t, "t1", again[AttrTID], "ids are stable within a document")

	assert.Equal(t,
		`<TIMEX3 tid="t1" type="DATE" value="2023-06-16" anchorTimeID="t0" temporalFunction="true" valueFromFunction="tf0" comment="next Friday">next Friday</TIMEX3>`,
		Element(got, "next Friday"))
}

func TestAttributesErrors(t *testing.T) {
	_, err := Attributes(nil, NewTimeIndex(), Options{})
	assert.ErrorIs(t, err, ErrNoTemporal)

	_, err = Attributes(temporal.IsoDate(2020, 6, 15), nil, Options{})
	assert.Error(t, err)
}

func TestElementEscapes(t *testing.T) {
	got := Element(map[string]string{"x-note": "a<b", AttrTID: "t1", "a-note": `"q"`}, "R&D")
	assert.Equal(t, `<TIMEX3 tid="t1" a-note="&#34;q&#34;" x-note="a&lt;b">R&amp;D</TIMEX3>`, got)
}
