package joystick

import "github.com/kenavn/skelctl/internal/wire"

// RightStickMode selects what the right stick's Y axis drives, since
// spec.md §4.7 lists eyelid weight and mouth position as alternative
// bindings for the same axis rather than simultaneous outputs.
type RightStickMode int

const (
	RightStickEyelid RightStickMode = iota
	RightStickMouth
)

// AxisIndices names which raw axis slot feeds each logical control.
// Defaults match the xbox-pad layout used by other_examples' cctv-ptz
// joystick client (left stick = axes 0/1, right stick Y = axis 4).
type AxisIndices struct {
	LeftX, LeftY, RightY int
}

func DefaultAxisIndices() AxisIndices {
	return AxisIndices{LeftX: 0, LeftY: 1, RightY: 4}
}

// ButtonMask names the bit for each face button, evdev BTN_* naming
// (spec.md §4.7: BTN_WEST, BTN_EAST, BTN_SOUTH).
type ButtonMask struct {
	West, East, South uint32
}

// DefaultButtonMask matches the standard Linux joystick driver mapping
// for an Xbox-style pad: A=south, B=east, X=west.
func DefaultButtonMask() ButtonMask {
	return ButtonMask{South: 1 << 0, East: 1 << 1, West: 1 << 2}
}

// Snapshot is the immutable state the adapter publishes to the eye
// adapter, mouth adapter, and recorder (spec.md §4.7).
type Snapshot struct {
	GazeX, GazeY      float64 // [0,1], centre 0.5
	EyelidWeight      float64 // [0,1], only meaningful in RightStickEyelid mode
	MouthPos          byte    // only meaningful in RightStickMouth mode
	West, East, South bool
}

const (
	leftDeadzone  = 0.1
	gazeEpsilon   = 0.03
	eyelidEpsilon = 0.05
)

// Mapper turns successive RawState polls into wire commands, applying
// the dead-zone, centre-offset, and change-epsilon rules of spec.md
// §4.7, and edge-detecting button presses/releases.
type Mapper struct {
	axes    AxisIndices
	buttons ButtonMask
	mode    RightStickMode

	haveGaze    bool
	lastGaze    [2]float64
	haveEyelid  bool
	lastEyelid  float64
	haveMouth   bool
	lastMouth   byte
	prevButtons uint32
}

func NewMapper(axes AxisIndices, buttons ButtonMask, mode RightStickMode) *Mapper {
	return &Mapper{axes: axes, buttons: buttons, mode: mode}
}

func applyDeadzone(v float64) float64 {
	if v > -leftDeadzone && v < leftDeadzone {
		return 0
	}
	return v
}

func normalizeAxis(raw []int, index int) float64 {
	if index < 0 || index >= len(raw) {
		return 0
	}
	return float64(raw[index]) / AxisMax
}

// ButtonEdge is a press or release transition on one of the three
// mapped buttons, carrying the start/end opcode pair spec.md §4.7
// assigns to it.
type ButtonEdge struct {
	StartOp, EndOp wire.Opcode
	Pressed        bool
}

// Update consumes one raw poll and returns the state-change commands
// to send this tick (gaze/eyelid/mouth), any button edges for the
// caller to hand to the resend queue, and a full Snapshot of the
// current (post-mapping) state for the recorder mirror (spec.md §4.7,
// "the joystick feed is also mirrored into the Recorder").
func (m *Mapper) Update(raw RawState) ([]wire.Command, []ButtonEdge, Snapshot) {
	var cmds []wire.Command

	lx := applyDeadzone(normalizeAxis(raw.AxisData, m.axes.LeftX))
	ly := applyDeadzone(-normalizeAxis(raw.AxisData, m.axes.LeftY)) // Y inverted
	gx := clampUnit((lx + 1) / 2)
	gy := clampUnit((ly + 1) / 2)
	if !m.haveGaze || absDelta(gx, m.lastGaze[0]) > gazeEpsilon || absDelta(gy, m.lastGaze[1]) > gazeEpsilon {
		cmds = append(cmds, wire.Command{Op: wire.OpGazeTarget, X: wire.EncodeUnit(gx), Y: wire.EncodeUnit(gy)})
		m.lastGaze = [2]float64{gx, gy}
		m.haveGaze = true
	}

	ry := normalizeAxis(raw.AxisData, m.axes.RightY)
	switch m.mode {
	case RightStickEyelid:
		weight := clampUnit((ry + 1) / 2)
		if !m.haveEyelid || absDelta(weight, m.lastEyelid) > eyelidEpsilon {
			cmds = append(cmds,
				wire.Command{Op: wire.OpLeftEyelid, Value: wire.EncodeUnit(weight)},
				wire.Command{Op: wire.OpRightEyelid, Value: wire.EncodeUnit(weight)},
			)
			m.lastEyelid = weight
			m.haveEyelid = true
		}
	case RightStickMouth:
		pos := wire.EncodeUnit(clampUnit((ry + 1) / 2))
		if !m.haveMouth || pos != m.lastMouth {
			cmds = append(cmds, wire.Command{Op: wire.OpMouthPosition, Value: pos})
			m.lastMouth = pos
			m.haveMouth = true
		}
	}

	var edges []ButtonEdge
	edges = append(edges, m.buttonEdges(raw.Buttons, m.buttons.West, wire.OpLeftBlinkStart, wire.OpLeftBlinkEnd)...)
	edges = append(edges, m.buttonEdges(raw.Buttons, m.buttons.East, wire.OpRightBlinkStart, wire.OpRightBlinkEnd)...)
	edges = append(edges, m.buttonEdges(raw.Buttons, m.buttons.South, wire.OpBothBlinkStart, wire.OpBothBlinkEnd)...)

	snapshot := Snapshot{
		GazeX:        gx,
		GazeY:        gy,
		EyelidWeight: m.lastEyelid,
		MouthPos:     m.lastMouth,
		West:         raw.Buttons&m.buttons.West != 0,
		East:         raw.Buttons&m.buttons.East != 0,
		South:        raw.Buttons&m.buttons.South != 0,
	}
	m.prevButtons = raw.Buttons

	return cmds, edges, snapshot
}

func (m *Mapper) buttonEdges(buttons, mask uint32, startOp, endOp wire.Opcode) []ButtonEdge {
	was := m.prevButtons&mask != 0
	is := buttons&mask != 0
	if was == is {
		return nil
	}
	return []ButtonEdge{{StartOp: startOp, EndOp: endOp, Pressed: is}}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func absDelta(a, b float64) float64 {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}
