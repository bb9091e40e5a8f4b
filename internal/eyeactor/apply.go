package eyeactor

import (
	"time"

	"github.com/kenavn/skelctl/internal/wire"
)

// Apply mutates State in response to one decoded wire command. It is
// the sole place a packet touches State, matching spec.md §5's "a
// batch of packets drained in one tick is applied in arrival order".
// Malformed/unknown opcodes never reach here -- Decode rejects them
// upstream and the caller logs-and-drops (spec.md §7).
func Apply(s *State, c wire.Command, now time.Time) {
	switch c.Op {
	case wire.OpControllerAttached:
		s.Attach()
	case wire.OpControllerDetached:
		s.Detach()

	case wire.OpAutoMovementOff:
		s.SetAutoMovement(false)
	case wire.OpAutoMovementOn:
		s.SetAutoMovement(true)
	case wire.OpAutoBlinkOff:
		s.SetAutoBlink(false)
	case wire.OpAutoBlinkOn:
		s.SetAutoBlink(true)
	case wire.OpAutoPupilOff:
		s.SetAutoPupil(false)
	case wire.OpAutoPupilOn:
		s.SetAutoPupil(true)

	case wire.OpGazeTarget:
		s.GazeTarget.X = wire.Clamp01(wire.DecodeUnit(c.X))
		s.GazeTarget.Y = wire.Clamp01(wire.DecodeUnit(c.Y))

	case wire.OpLeftEyelid:
		if !s.Policy.AutoBlink && !s.BlinkLeft.Active() && !s.BlinkBoth.Active() {
			s.EyelidLeft = wire.Clamp01(wire.DecodeUnit(c.Value))
		}
	case wire.OpRightEyelid:
		if !s.Policy.AutoBlink && !s.BlinkRight.Active() && !s.BlinkBoth.Active() {
			s.EyelidRight = wire.Clamp01(wire.DecodeUnit(c.Value))
		}

	case wire.OpLeftBlinkStart:
		s.BlinkLeft.Start(now)
	case wire.OpLeftBlinkEnd:
		s.BlinkLeft.End(now)
	case wire.OpRightBlinkStart:
		s.BlinkRight.Start(now)
	case wire.OpRightBlinkEnd:
		s.BlinkRight.End(now)
	case wire.OpBothBlinkStart:
		s.BlinkBoth.Start(now)
	case wire.OpBothBlinkEnd:
		// Resolved Open Question (DESIGN.md): ends only the "both"
		// machine, never a left/right blink started independently.
		s.BlinkBoth.End(now)
	}
}
