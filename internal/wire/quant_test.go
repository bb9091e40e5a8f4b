package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestQuantisationExactForGridPoints checks spec.md §8: for every
// x = k/255, encode then decode must return exactly x.
func TestQuantisationExactForGridPoints(t *testing.T) {
	for k := 0; k <= 255; k++ {
		x := float64(k) / 255
		got := DecodeUnit(EncodeUnit(x))
		require.InDelta(t, x, got, 1e-12, "k=%d", k)
	}
}

// TestQuantisationBoundedForArbitraryInput checks the general
// round-trip error bound |decode(encode(y)) - y| <= 1/510.
func TestQuantisationBoundedForArbitraryInput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		y := rapid.Float64Range(0, 1).Draw(t, "y")
		got := DecodeUnit(EncodeUnit(y))
		assert.LessOrEqual(t, abs(got-y), 1.0/510+1e-9)
	})
}

// TestEncodeUnitClampsOutOfRange documents clamping for values outside
// [0,1], which callers may pass when mixing autonomous state that has
// briefly overshot before being clamped upstream.
func TestEncodeUnitClampsOutOfRange(t *testing.T) {
	assert.Equal(t, byte(0), EncodeUnit(-5))
	assert.Equal(t, byte(255), EncodeUnit(5))
}

func TestBipolarRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Float64Range(-1, 1).Draw(t, "v")
		got := DecodeBipolar(EncodeBipolar(v))
		assert.LessOrEqual(t, abs(got-v), 1.0/127.5+1e-9)
	})
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-1))
	assert.Equal(t, 1.0, Clamp01(2))
	assert.Equal(t, 0.37, Clamp01(0.37))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
