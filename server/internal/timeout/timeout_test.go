package timeout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short"))
	long := strings.Repeat("x", MaxTruncateLength+10)
	got := Truncate(long)
	assert.Len(t, got, MaxTruncateLength+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}
