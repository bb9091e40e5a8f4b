package mouthactor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyPositionCancelsEase(t *testing.T) {
	now := time.Now()
	s := NewState(40)
	s.ease = easeState{active: true, startTime: now, startPos: 200}

	s.ApplyPosition(255, now)

	assert.False(t, s.ease.active)
	assert.Equal(t, byte(255), s.CurrentPosition)
	assert.Equal(t, now, s.LastActivity)
}

// TestMouthIdleEaseScenario covers spec.md §8 scenario 4: a single
// 0x50 at t=0, then silence, eases back to idle between 2.0s and 2.5s.
func TestMouthIdleEaseScenario(t *testing.T) {
	start := time.Now()
	s := NewState(0)
	s.ApplyPosition(255, start)

	const idleTimeout = 2 * time.Second
	const easeDuration = 500 * time.Millisecond

	before := start.Add(1900 * time.Millisecond)
	s.MaybeStartIdleEase(before, idleTimeout)
	assert.False(t, s.ease.active, "ease must not start before the idle timeout elapses")

	atTimeout := start.Add(idleTimeout)
	s.MaybeStartIdleEase(atTimeout, idleTimeout)
	assert.True(t, s.ease.active)

	mid := atTimeout.Add(250 * time.Millisecond)
	s.AdvanceEase(mid, easeDuration)
	assert.Greater(t, s.CurrentPosition, byte(0))
	assert.Less(t, s.CurrentPosition, byte(255))

	after := atTimeout.Add(easeDuration + 10*time.Millisecond)
	s.AdvanceEase(after, easeDuration)
	assert.Equal(t, byte(0), s.CurrentPosition)
	assert.False(t, s.ease.active)
}

func TestMaybeStartIdleEaseNoOpWhenAlreadyIdle(t *testing.T) {
	s := NewState(10)
	now := time.Now().Add(time.Hour)
	s.MaybeStartIdleEase(now, time.Second)
	assert.False(t, s.ease.active)
}

func TestEaseCurveMonotonic(t *testing.T) {
	prev := -1.0
	for i := 0; i <= 10; i++ {
		v := easeCurve(float64(i) / 10)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
	assert.InDelta(t, 0.0, easeCurve(0), 1e-9)
	assert.InDelta(t, 1.0, easeCurve(1), 1e-9)
}
