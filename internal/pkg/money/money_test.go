package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected float64
	}{
		{"no rounding needed", 100.00, 100.00},
		{"round down", 33.333, 33.33},
		{"round up", 33.336, 33.34},
		{"half rounds up", 0.005, 0.01},
		{"half rounds up at scale", 1234.565, 1234.57},
		{"zero", 0, 0},
		{"float noise", 0.1 + 0.2, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Round2(tt.in))
		})
	}
}

func TestShare(t *testing.T) {
	// 1000 of 6000 at 600 total profit = 100.00
	assert.Equal(t, 100.00, Share(1000, 6000, 600))
	assert.Equal(t, 200.00, Share(2000, 6000, 600))
	assert.Equal(t, 300.00, Share(3000, 6000, 600))

	// uneven split rounds each share independently
	assert.Equal(t, 33.33, Share(1, 3, 100))
}

func TestMul(t *testing.T) {
	assert.Equal(t, 3000.00, Mul(1000, 3.0))
	assert.Equal(t, 1500.75, Mul(500.25, 3.0))
	assert.Equal(t, 0.00, Mul(0, 3.0))
}
