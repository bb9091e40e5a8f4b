package eyeactor

import (
	"math/rand"
	"time"
)

// BlinkPhase is one state of the per-eye blink state machine (spec.md
// §3, §4.2): open -> entering -> closed -> exiting -> open.
type BlinkPhase int

const (
	BlinkOpen BlinkPhase = iota
	BlinkEntering
	BlinkClosed
	BlinkExiting
)

const (
	blinkPhaseMin = 0.035 * float64(time.Second)
	blinkPhaseMax = 0.06 * float64(time.Second)
)

// BlinkMachine owns the eyelid weight for one blink channel (left,
// right, or "both") while a blink is in progress; spec.md §4.2: while
// closed the weight is pinned to 1.0, and while any phase but open is
// active the machine - not an explicit eyelid command - owns the
// weight.
type BlinkMachine struct {
	phase        BlinkPhase
	phaseStart   time.Time
	phaseEnd     time.Time
	holdUntilEnd bool // forced closed by an explicit *_start with no *_end yet
	rng          *rand.Rand
}

// NewBlinkMachine starts open.
func NewBlinkMachine() *BlinkMachine {
	return &BlinkMachine{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Active reports whether this machine currently owns the lid weight.
func (b *BlinkMachine) Active() bool {
	return b.phase != BlinkOpen
}

// Start forces a blink to begin regardless of auto_blink (spec.md
// §4.2: "Blink commands force a blink regardless of auto_blink"). Two
// consecutive starts are idempotent (spec.md §8): calling Start while
// already entering/closed/holding leaves the visible state unchanged.
func (b *BlinkMachine) Start(now time.Time) {
	if b.holdUntilEnd {
		return
	}
	b.holdUntilEnd = true
	if b.phase == BlinkOpen {
		b.beginEntering(now)
	}
}

// End releases an explicit hold; a blink already in progress finishes
// its exiting phase and the eye returns to autonomous scheduling. An
// End with no matching Start is a no-op (spec.md §8).
func (b *BlinkMachine) End(now time.Time) {
	if !b.holdUntilEnd {
		return
	}
	b.holdUntilEnd = false
	if b.phase == BlinkClosed {
		b.beginExiting(now)
	}
}

func (b *BlinkMachine) beginEntering(now time.Time) {
	b.phase = BlinkEntering
	b.phaseStart = now
	b.phaseEnd = now.Add(randDuration(b.rng, blinkPhaseMin, blinkPhaseMax))
}

func (b *BlinkMachine) beginExiting(now time.Time) {
	b.phase = BlinkExiting
	b.phaseStart = now
	b.phaseEnd = now.Add(randDuration(b.rng, blinkPhaseMin, blinkPhaseMax))
}

// MaybeAutoTrigger starts a random autonomous blink when auto_blink is
// on and no hold or blink is already active; callers decide the
// Poisson-like arrival process (see maybeAutoTriggerBlink in render.go) and call this only
// when a trial has fired.
func (b *BlinkMachine) MaybeAutoTrigger(now time.Time) {
	if b.Active() || b.holdUntilEnd {
		return
	}
	b.beginEntering(now)
}

// Advance steps the phase machine and returns the current eyelid
// weight contribution in [0,1], plus whether the machine is presently
// driving the lid (as opposed to yielding to an explicit command or
// autonomous tracking).
func (b *BlinkMachine) Advance(now time.Time) (weight float64, driving bool) {
	switch b.phase {
	case BlinkOpen:
		return 0, false

	case BlinkEntering:
		if now.After(b.phaseEnd) || now.Equal(b.phaseEnd) {
			b.phase = BlinkClosed
			if !b.holdUntilEnd {
				b.beginExiting(now)
			}
			return 1, true
		}
		t := float64(now.Sub(b.phaseStart)) / float64(b.phaseEnd.Sub(b.phaseStart))
		return ease(t), true

	case BlinkClosed:
		// Reached only via Entering's completion while holdUntilEnd is
		// still true; End() moves straight to Exiting otherwise.
		return 1, true

	case BlinkExiting:
		if now.After(b.phaseEnd) || now.Equal(b.phaseEnd) {
			b.phase = BlinkOpen
			return 0, false
		}
		t := float64(now.Sub(b.phaseStart)) / float64(b.phaseEnd.Sub(b.phaseStart))
		return 1 - ease(t), true

	default:
		return 0, false
	}
}
