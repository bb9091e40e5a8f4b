package thermaltracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kenavn/skelctl/internal/wire"
)

func tick(state *State, cfg Config, x, y, magnitude float64, now time.Time) []wire.Command {
	return state.Tick(cfg, Centroid{X: x, Y: y, Magnitude: magnitude}, true, now)
}

// TestThermalHysteresisConstantBelowThreshold is the first half of
// spec.md §8's "Thermal hysteresis" property: a constant stream at or
// below detection_threshold never attaches, and never emits more than
// the implicit "nothing changed" silence.
func TestThermalHysteresisConstantBelowThreshold(t *testing.T) {
	cfg := DefaultConfig()
	state := &State{}
	now := time.Unix(0, 0)

	for i := 0; i < 10; i++ {
		cmds := tick(state, cfg, 0, 0, cfg.DetectionThreshold, now)
		assert.Empty(t, cmds)
		now = now.Add(cfg.UpdateRate)
	}
}

// TestThermalHysteresisRisingEdgeEmitsAttachThenGaze matches the
// second half of the property: crossing above threshold emits exactly
// one attach, then gaze packets only on ticks where the smoothed
// position moved past position_threshold.
func TestThermalHysteresisRisingEdgeEmitsAttachThenGaze(t *testing.T) {
	cfg := DefaultConfig()
	state := &State{}
	now := time.Unix(0, 0)

	first := tick(state, cfg, 0.8, -0.3, cfg.DetectionThreshold+1, now)
	require.Len(t, first, 2)
	assert.Equal(t, wire.OpControllerAttached, first[0].Op)
	assert.Equal(t, wire.OpGazeTarget, first[1].Op)

	gazeCount := 0
	for i := 0; i < 20; i++ {
		now = now.Add(cfg.UpdateRate)
		cmds := tick(state, cfg, 0.8, -0.3, cfg.DetectionThreshold+1, now)
		for _, c := range cmds {
			if c.Op == wire.OpGazeTarget {
				gazeCount++
			}
			assert.NotEqual(t, wire.OpControllerAttached, c.Op, "attach must only be sent once per takeover")
		}
	}
	// Smoothing converges to a fixed point once the centroid stops
	// moving; eventually deltas fall below position_threshold and gaze
	// emission stops.
	assert.Less(t, gazeCount, 20)
}

// TestThermalHysteresisDropReleasesWithSingleDetach covers "when M
// drops back to 0, the next tick emits exactly one 0x00."
func TestThermalHysteresisDropReleasesWithSingleDetach(t *testing.T) {
	cfg := DefaultConfig()
	state := &State{}
	now := time.Unix(0, 0)

	tick(state, cfg, 0.5, 0.5, cfg.DetectionThreshold+1, now)
	now = now.Add(cfg.UpdateRate)

	cmds := tick(state, cfg, 0, 0, 0, now)
	require.Len(t, cmds, 1)
	assert.Equal(t, wire.OpControllerDetached, cmds[0].Op)
}

// TestThermalRisingEdgeScenario is spec.md §8 scenario 3: uniform
// 20C, then a hot spot at row=2 col=5, then back to uniform 20C.
func TestThermalRisingEdgeScenario(t *testing.T) {
	cfg := DefaultConfig()
	state := &State{}
	now := time.Unix(0, 0)

	coolGrid := uniformGrid(20)
	c := ComputeCentroid(coolGrid, cfg.Sensitivity)
	startCmds := tick(state, cfg, c.X, c.Y, c.Magnitude, now)
	assert.Empty(t, startCmds, "uniform 20C is at the detection floor, no takeover")

	hotGrid := uniformGrid(20)
	hotGrid[2*GridSize+5] = 40
	hc := ComputeCentroid(hotGrid, cfg.Sensitivity)
	now = now.Add(cfg.UpdateRate)
	hotCmds := tick(state, cfg, hc.X, hc.Y, hc.Magnitude, now)
	require.Len(t, hotCmds, 2)
	assert.Equal(t, wire.OpControllerAttached, hotCmds[0].Op)
	assert.Equal(t, wire.OpGazeTarget, hotCmds[1].Op)
	expectedBX := wire.EncodeBipolar(hc.X)
	assert.Equal(t, expectedBX, hotCmds[1].X)
	assert.InDelta(t, 20.0, hc.Magnitude, 1e-9)

	now = now.Add(cfg.UpdateRate)
	coolAgain := tick(state, cfg, c.X, c.Y, c.Magnitude, now)
	require.Len(t, coolAgain, 1)
	assert.Equal(t, wire.OpControllerDetached, coolAgain[0].Op)
}

// TestSafeShutdownEmitsDetachWhenTracking is spec.md §8 scenario 6:
// the last packet observed on the eye port after shutdown is 0x00.
func TestSafeShutdownEmitsDetachWhenTracking(t *testing.T) {
	cfg := DefaultConfig()
	state := &State{}
	tick(state, cfg, 0.5, 0.5, cfg.DetectionThreshold+1, time.Unix(0, 0))

	cmds := state.Shutdown()
	require.Len(t, cmds, 1)
	assert.Equal(t, wire.OpControllerDetached, cmds[0].Op)
}

// TestSafeShutdownIsUnconditional checks the same holds when the
// tracker was already idle -- spec.md requires the 0x00 "unconditionally."
func TestSafeShutdownIsUnconditional(t *testing.T) {
	state := &State{}
	cmds := state.Shutdown()
	require.Len(t, cmds, 1)
	assert.Equal(t, wire.OpControllerDetached, cmds[0].Op)
}

// TestSensorFailureReleasesTrackingWithoutReemittingGaze checks a
// sensor read failure is treated as idle for that tick, per
// hysteresis.go's documented behaviour.
func TestSensorFailureReleasesTrackingWithoutReemittingGaze(t *testing.T) {
	cfg := DefaultConfig()
	state := &State{}
	tick(state, cfg, 0.5, 0.5, cfg.DetectionThreshold+1, time.Unix(0, 0))

	cmds := state.Tick(cfg, Centroid{}, false, time.Unix(1, 0))
	require.Len(t, cmds, 1)
	assert.Equal(t, wire.OpControllerDetached, cmds[0].Op)
}

// TestHysteresisNeverEmitsOutOfRangeBytes is a property test: whatever
// (x,y,magnitude) stream is fed in, every emitted gaze command encodes
// bytes in range (trivially true for byte, but the property documents
// the invariant that encoding never panics on boundary floats).
func TestHysteresisNeverEmitsOutOfRangeBytes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := DefaultConfig()
		state := &State{}
		now := time.Unix(0, 0)
		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			x := rapid.Float64Range(-1, 1).Draw(rt, "x")
			y := rapid.Float64Range(-1, 1).Draw(rt, "y")
			mag := rapid.Float64Range(0, 50).Draw(rt, "mag")
			cmds := tick(state, cfg, x, y, mag, now)
			for _, c := range cmds {
				if c.Op == wire.OpGazeTarget {
					_ = wire.Encode(c) // must not panic regardless of input
				}
			}
			now = now.Add(cfg.UpdateRate)
		}
	})
}
