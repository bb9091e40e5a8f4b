package joystick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenavn/skelctl/internal/wire"
)

func centredRaw() RawState {
	return RawState{AxisData: []int{0, 0, 0, 0, 0}}
}

func TestFirstUpdateAlwaysEmitsGaze(t *testing.T) {
	m := NewMapper(DefaultAxisIndices(), DefaultButtonMask(), RightStickEyelid)
	cmds, _, snap := m.Update(centredRaw())
	require.NotEmpty(t, cmds)
	assert.Equal(t, wire.OpGazeTarget, cmds[0].Op)
	assert.InDelta(t, 0.5, snap.GazeX, 1e-9)
	assert.InDelta(t, 0.5, snap.GazeY, 1e-9)
}

func TestSmallMovementWithinDeadzoneProducesNoFurtherGaze(t *testing.T) {
	m := NewMapper(DefaultAxisIndices(), DefaultButtonMask(), RightStickEyelid)
	m.Update(centredRaw())

	tiny := RawState{AxisData: []int{int(0.05 * AxisMax), 0, 0, 0, 0}}
	cmds, _, _ := m.Update(tiny)
	for _, c := range cmds {
		assert.NotEqual(t, wire.OpGazeTarget, c.Op, "movement within the 0.1 dead-zone must not re-emit gaze")
	}
}

func TestLargeMovementAboveEpsilonEmitsGaze(t *testing.T) {
	m := NewMapper(DefaultAxisIndices(), DefaultButtonMask(), RightStickEyelid)
	m.Update(centredRaw())

	moved := RawState{AxisData: []int{int(0.9 * AxisMax), 0, 0, 0, 0}}
	cmds, _, _ := m.Update(moved)
	require.NotEmpty(t, cmds)
	assert.Equal(t, wire.OpGazeTarget, cmds[0].Op)
}

func TestLeftStickYIsInverted(t *testing.T) {
	m := NewMapper(DefaultAxisIndices(), DefaultButtonMask(), RightStickEyelid)
	up := RawState{AxisData: []int{0, int(-1.0 * AxisMax), 0, 0, 0}}
	_, _, snap := m.Update(up)
	assert.Greater(t, snap.GazeY, 0.5, "pushing the stick up (negative raw Y) must increase mapped gaze Y")
}

func TestRightStickModeEyelidEmitsBothLids(t *testing.T) {
	m := NewMapper(DefaultAxisIndices(), DefaultButtonMask(), RightStickEyelid)
	m.Update(centredRaw())

	moved := RawState{AxisData: []int{0, 0, 0, 0, int(0.9 * AxisMax)}}
	cmds, _, _ := m.Update(moved)
	var sawLeft, sawRight bool
	for _, c := range cmds {
		sawLeft = sawLeft || c.Op == wire.OpLeftEyelid
		sawRight = sawRight || c.Op == wire.OpRightEyelid
	}
	assert.True(t, sawLeft)
	assert.True(t, sawRight)
}

func TestRightStickModeMouthEmitsMouthPosition(t *testing.T) {
	m := NewMapper(DefaultAxisIndices(), DefaultButtonMask(), RightStickMouth)
	m.Update(centredRaw())

	moved := RawState{AxisData: []int{0, 0, 0, 0, int(0.9 * AxisMax)}}
	cmds, _, _ := m.Update(moved)
	require.NotEmpty(t, cmds)
	assert.Equal(t, wire.OpMouthPosition, cmds[len(cmds)-1].Op)
}

func TestButtonPressAndReleaseProduceEdges(t *testing.T) {
	masks := DefaultButtonMask()
	m := NewMapper(DefaultAxisIndices(), masks, RightStickEyelid)
	m.Update(centredRaw())

	pressed := RawState{AxisData: []int{0, 0, 0, 0, 0}, Buttons: masks.West}
	_, edges, _ := m.Update(pressed)
	require.Len(t, edges, 1)
	assert.True(t, edges[0].Pressed)
	assert.Equal(t, wire.OpLeftBlinkStart, edges[0].StartOp)

	released := RawState{AxisData: []int{0, 0, 0, 0, 0}, Buttons: 0}
	_, edges2, _ := m.Update(released)
	require.Len(t, edges2, 1)
	assert.False(t, edges2[0].Pressed)
}

func TestNoButtonChangeProducesNoEdge(t *testing.T) {
	masks := DefaultButtonMask()
	m := NewMapper(DefaultAxisIndices(), masks, RightStickEyelid)
	m.Update(centredRaw())
	_, edges, _ := m.Update(centredRaw())
	assert.Empty(t, edges)
}
