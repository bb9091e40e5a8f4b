package eyeactor

import (
	"math/rand"
	"time"
)

// Eyelid-tracking filter constants (spec.md §4.2, §9 "Open
// Questions": kept as named constants though not independently
// tuned).
const (
	trackingGainNumerator = 3
	trackingDivisor       = 4
	trackingBaseline      = 0.4
	trackingVerticalScale = 60.0
)

// Geometry regeneration thresholds: implementation-level rendering
// optimisations (spec.md §4.2, design notes), not part of the wire
// protocol or any observable invariant. A caller driving an actual
// mesh may use these to decide when to rebuild iris/eyelid geometry;
// Frame below never needs them.
const (
	IrisRegenThreshold   = 0.25
	EyelidRegenThreshold = 0.25
)

// Frame is one rendered tick's output: the values a graphics backend
// (out of scope per spec.md §1) or a hardware eye display would
// consume. GazeXRight/GazeYRight only differ from the left pair when
// CrazyEyes is enabled; a renderer with a single shared eye socket can
// ignore them.
type Frame struct {
	GazeX, GazeY           float64 // internal angular units, [-30,30]
	GazeXRight, GazeYRight float64
	EyelidLeft, EyelidRight float64 // [0,1], 0 open 1 closed
	PupilScale              float64
	TrackingPos             float64
}

var autoBlinkRand = rand.New(rand.NewSource(1))

// Decide is the pure arbitration function spec.md's design notes call
// for: decide(policy_flags, latest_external_targets, autonomous_state,
// t) -> render_state, called exactly once per tick. It has no side
// effects on external resources; State's own autonomous generators are
// advanced as part of computing the result (they are the "autonomous
// state" the design note refers to), but nothing is drawn here.
func Decide(s *State, now time.Time) Frame {
	var f Frame

	if s.Policy.ControllerAttached || !s.Policy.AutoMovement {
		f.GazeX = (s.GazeTarget.X*2 - 1) * saccadeRadius
		f.GazeY = (s.GazeTarget.Y*2 - 1) * saccadeRadius
		f.GazeXRight, f.GazeYRight = f.GazeX, f.GazeY
	} else {
		f.GazeX, f.GazeY = s.SaccadeLeft.Advance(now)
		f.GazeXRight, f.GazeYRight = s.SaccadeRight.Advance(now)
	}

	leftWeight, leftDriving := s.BlinkLeft.Advance(now)
	rightWeight, rightDriving := s.BlinkRight.Advance(now)
	bothWeight, bothDriving := s.BlinkBoth.Advance(now)

	if s.Policy.AutoBlink {
		maybeAutoTriggerBlink(s, now)
	}

	f.EyelidLeft = resolveLid(s.EyelidLeft, leftWeight, leftDriving, bothWeight, bothDriving)
	f.EyelidRight = resolveLid(s.EyelidRight, rightWeight, rightDriving, bothWeight, bothDriving)

	// Upper-lid tracking: first-order filter toward a vertical-gaze-
	// derived target (spec.md §4.2). It is reported separately in
	// TrackingPos; EyelidLeft/EyelidRight are not adjusted by it.
	n := trackingBaseline - f.GazeY/trackingVerticalScale
	if n < 0 {
		n = 0
	}
	if n > 1 {
		n = 1
	}
	s.trackingPos = (trackingGainNumerator*s.trackingPos + n) / trackingDivisor
	f.TrackingPos = s.trackingPos

	if s.Policy.AutoPupil {
		f.PupilScale = s.PupilMin + s.Pupil.Advance(now)*(s.PupilMax-s.PupilMin)
	} else {
		f.PupilScale = s.PupilMin + 0.5*(s.PupilMax-s.PupilMin)
	}
	s.PupilScale = f.PupilScale

	return f
}

// resolveLid applies spec.md §3's ownership rule: while either the
// per-eye or the "both" blink machine is driving, it owns the weight
// (closed pins it to 1.0); otherwise the explicit/commanded value
// applies. The "both" machine takes priority since it represents a
// blink that spans both eyes simultaneously.
func resolveLid(commanded, weight float64, driving bool, bothWeight float64, bothDriving bool) float64 {
	if bothDriving {
		return bothWeight
	}
	if driving {
		return weight
	}
	return commanded
}

// autoBlinkChance is the per-tick probability of triggering an
// autonomous blink -- a Poisson-like schedule. At the default 60 Hz
// frame rate that averages about 36 blinks a minute.
const autoBlinkChance = 0.01

func maybeAutoTriggerBlink(s *State, now time.Time) {
	if autoBlinkRand.Float64() < autoBlinkChance {
		s.BlinkLeft.MaybeAutoTrigger(now)
		s.BlinkRight.MaybeAutoTrigger(now)
	}
}
