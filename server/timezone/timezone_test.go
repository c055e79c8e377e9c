package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimezone(t *testing.T) {
	tests := []struct {
		name    string
		tz      string
		want    string
		wantErr bool
	}{
		{"UTC", "UTC", "UTC", false},
		{"empty string defaults to UTC", "", "UTC", false},
		{"Asia/Shanghai", "Asia/Shanghai", "Asia/Shanghai", false},
		{"America/New_York", "America/New_York", "America/New_York", false},
		{"invalid timezone", "Invalid/Timezone", "UTC", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := ParseTimezone(tt.tz)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			require.NotNil(t, loc)
			assert.Equal(t, tt.want, loc.String())
			assert.Equal(t, !tt.wantErr, IsValidTimezone(tt.tz))
		})
	}
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2025, 1, 21, 14, 30, 0, 0, time.UTC)
	loc, err := ParseTimezone("Asia/Shanghai")
	require.NoError(t, err)

	// 2025-01-21 00:00 in Shanghai is 2025-01-20 16:00 UTC
	assert.True(t, StartOfDay(ts, loc).Equal(time.Date(2025, 1, 20, 16, 0, 0, 0, time.UTC)))
	assert.True(t, StartOfDay(ts, nil).Equal(time.Date(2025, 1, 21, 0, 0, 0, 0, time.UTC)))
}

func TestEndOfDay(t *testing.T) {
	ts := time.Date(2025, 1, 21, 14, 30, 0, 0, time.UTC)
	loc, err := ParseTimezone("America/New_York")
	require.NoError(t, err)

	got := EndOfDay(ts, loc)
	assert.Same(t, loc, got.Location())
	assert.Equal(t, 21, got.Day())
	assert.Equal(t, 23, got.Hour())
	assert.Equal(t, 999*time.Millisecond, time.Duration(got.Nanosecond()))
}
