package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCompatible(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"0.2.1", true},
		{"0.2.0", true},
		{"0.1.9", true},
		{"00.9.9", true},
		{"1.0.0", false},
		{"invalid", false},
		{"0.2", false},
		{"0.2.0.1", false},
		{"v0.2.0", false},
		{"0.2.0\n", false},
		{"0.a.0", false},
		{"99999999999999999999.0.0", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCompatible(tt.version))
		})
	}
}

func TestCurrentVersion(t *testing.T) {
	assert.Equal(t, "0.2.0", Get())

	major, minor, patch := Tuple()
	assert.Equal(t, 0, major)
	assert.Equal(t, 2, minor)
	assert.Equal(t, 0, patch)
	assert.True(t, IsCompatible(Get()))
}
