package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCurrentVersion(t *testing.T) {
	assert.Equal(t, DevVersion, GetCurrentVersion("dev"))
	assert.Equal(t, DevVersion, GetCurrentVersion("demo"))
	assert.Equal(t, Version, GetCurrentVersion("prod"))
}

func TestIsVersionGreaterOrEqualThan(t *testing.T) {
	tests := []struct {
		version string
		target  string
		want    bool
	}{
		{"0.3.0", "0.3.0", true},
		{"0.3.1", "0.3.0", true},
		{"0.10.0", "0.9.9", true},
		{"0.2.9", "0.3.0", false},
		{"1.0", "1.0.1", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsVersionGreaterOrEqualThan(tt.version, tt.target), "%s >= %s", tt.version, tt.target)
	}
	assert.Equal(t, "0.3", GetMinorVersion("0.3.1"))
	assert.Empty(t, GetMinorVersion("1"))
}
