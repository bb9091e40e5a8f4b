package mouthactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPulseWidthMicrosBoundaries(t *testing.T) {
	m := DefaultMapping()
	assert.Equal(t, 1020, m.PulseWidthMicros(0))
	assert.Equal(t, 1800, m.PulseWidthMicros(255))
}

func TestPulseWidthMicrosMonotonic(t *testing.T) {
	m := DefaultMapping()
	prev := m.PulseWidthMicros(0)
	for pos := 1; pos <= 255; pos++ {
		v := m.PulseWidthMicros(byte(pos))
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
}
