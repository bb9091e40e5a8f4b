// Package eyeactor renders the eyes: it mixes autonomous
// saccade/blink/pupil drivers with externally supplied targets
// arriving over the wire protocol, per spec.md §3 and §4.2.
package eyeactor

import "time"

// Eye identifies which eye a per-eye piece of state belongs to.
type Eye int

const (
	EyeLeft Eye = iota
	EyeRight
)

// PolicyFlags are the four arbitration switches from spec.md §3.
// ControllerAttached forces AutoMovement off for its duration; the
// pre-attach values of the other three are snapshotted separately
// (see snapshot below) rather than folded into this struct, because
// they must survive toggles that arrive while a controller is
// attached without being visible as the live flag value.
type PolicyFlags struct {
	ControllerAttached bool
	AutoMovement       bool
	AutoBlink          bool
	AutoPupil          bool
}

// snapshot holds the pre-attach values of the three auto_* flags,
// restored verbatim on detach (spec.md §3 invariant).
type snapshot struct {
	autoMovement bool
	autoBlink    bool
	autoPupil    bool
}

// State is the complete eye actor state, exactly one instance per
// process (spec.md §3).
type State struct {
	Policy   PolicyFlags
	saved    snapshot
	hasSaved bool

	GazeTarget struct{ X, Y float64 } // [0,1]^2, external target as received

	EyelidLeft, EyelidRight float64 // [0,1], externally commanded lid position

	BlinkLeft, BlinkRight, BlinkBoth *BlinkMachine

	PupilScale float64
	PupilMin   float64
	PupilMax   float64

	CrazyEyes bool // two independent saccade generators instead of one

	SaccadeLeft, SaccadeRight *Saccade
	Pupil                     *PupilDriver

	trackingPos float64 // first-order-filtered upper-lid tracking position
}

// NewState builds a State with the defaults spec.md implies: autonomy
// on, no controller, mid-range pupil, eyes open, and one saccade
// generator shared by both eyes unless CrazyEyes is requested.
func NewState(crazyEyes bool, pupilMin, pupilMax float64, now time.Time) *State {
	s := &State{
		PupilMin:   pupilMin,
		PupilMax:   pupilMax,
		PupilScale: (pupilMin + pupilMax) / 2,
		CrazyEyes:  crazyEyes,
	}
	s.Policy = PolicyFlags{AutoMovement: true, AutoBlink: true, AutoPupil: true}
	s.BlinkLeft = NewBlinkMachine()
	s.BlinkRight = NewBlinkMachine()
	s.BlinkBoth = NewBlinkMachine()
	s.SaccadeLeft = NewSaccade(now)
	if crazyEyes {
		s.SaccadeRight = NewSaccade(now)
	} else {
		s.SaccadeRight = s.SaccadeLeft
	}
	s.Pupil = NewPupilDriver(0.5, now)
	return s
}

// Attach implements the controller-attached transition (spec.md §4.2):
// snapshot the three auto_* flags, force AutoMovement off, and mark a
// controller attached. It is idempotent: attaching twice in a row
// keeps the first snapshot, matching the blink-idempotence spirit of
// "a second start is a no-op" applied to attach/detach bookkeeping.
func (s *State) Attach() {
	if s.Policy.ControllerAttached {
		return
	}
	s.saved = snapshot{
		autoMovement: s.Policy.AutoMovement,
		autoBlink:    s.Policy.AutoBlink,
		autoPupil:    s.Policy.AutoPupil,
	}
	s.hasSaved = true
	s.Policy.ControllerAttached = true
	s.Policy.AutoMovement = false
}

// Detach restores the pre-attach snapshot (spec.md §3 invariant). A
// detach with no matching attach is a no-op, mirroring the
// blink_end-with-no-start no-op rule in §8.
func (s *State) Detach() {
	if !s.Policy.ControllerAttached {
		return
	}
	s.Policy.ControllerAttached = false
	if s.hasSaved {
		s.Policy.AutoMovement = s.saved.autoMovement
		s.Policy.AutoBlink = s.saved.autoBlink
		s.Policy.AutoPupil = s.saved.autoPupil
		s.hasSaved = false
	}
}

// SetAutoMovement applies an 0x10/0x11 toggle. While a controller is
// attached this only updates the saved pre-attach value (spec.md §4.2:
// "Auto toggles sent while a controller is attached update only the
// snapshot, not the live flag"); otherwise it's live immediately.
func (s *State) SetAutoMovement(on bool) {
	if s.Policy.ControllerAttached {
		s.saved.autoMovement = on
		return
	}
	s.Policy.AutoMovement = on
}

// SetAutoBlink applies an 0x12/0x13 toggle, same attach-time rule.
func (s *State) SetAutoBlink(on bool) {
	if s.Policy.ControllerAttached {
		s.saved.autoBlink = on
		return
	}
	s.Policy.AutoBlink = on
}

// SetAutoPupil applies an 0x14/0x15 toggle, same attach-time rule.
func (s *State) SetAutoPupil(on bool) {
	if s.Policy.ControllerAttached {
		s.saved.autoPupil = on
		return
	}
	s.Policy.AutoPupil = on
}
