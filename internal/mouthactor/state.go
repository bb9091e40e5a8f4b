// Package mouthactor drives a single servo from a quantised mouth
// position, easing back to an idle position after a period of
// inactivity (spec.md §4.3).
package mouthactor

import "time"

// easeState describes an in-flight return-to-idle ease.
type easeState struct {
	active    bool
	startTime time.Time
	startPos  byte
	duration  time.Duration
}

// State is the mouth actor's state (spec.md §3).
type State struct {
	CurrentPosition byte
	IdlePosition    byte
	LastActivity    time.Time
	ease            easeState
}

// NewState starts at IdlePosition with no pending ease.
func NewState(idle byte) *State {
	return &State{CurrentPosition: idle, IdlePosition: idle, LastActivity: time.Now()}
}

// ApplyPosition handles an incoming 0x50 command: cancel any active
// ease, update the position, reset the activity clock (spec.md §4.3).
func (s *State) ApplyPosition(pos byte, now time.Time) {
	s.ease.active = false
	s.CurrentPosition = pos
	s.LastActivity = now
}

// MaybeStartIdleEase begins the return-to-idle ease if idleTimeout has
// elapsed since the last activity and the mouth is not already at
// IdlePosition (spec.md §4.3). It is a no-op if an ease is already
// active or the position already matches idle.
func (s *State) MaybeStartIdleEase(now time.Time, idleTimeout time.Duration) {
	if s.ease.active || s.CurrentPosition == s.IdlePosition {
		return
	}
	if now.Sub(s.LastActivity) < idleTimeout {
		return
	}
	s.ease = easeState{active: true, startTime: now, startPos: s.CurrentPosition}
}

// AdvanceEase steps an active ease using the curve from spec.md §4.3
// (e(t) = 2t^2 for t<0.5, e(t) = -1+(4-2t)t otherwise) and updates
// CurrentPosition; it is a no-op when no ease is active.
func (s *State) AdvanceEase(now time.Time, duration time.Duration) {
	if !s.ease.active {
		return
	}
	if s.ease.duration == 0 {
		s.ease.duration = duration
	}
	elapsed := now.Sub(s.ease.startTime)
	if elapsed >= s.ease.duration {
		s.CurrentPosition = s.IdlePosition
		s.ease.active = false
		return
	}
	t := float64(elapsed) / float64(s.ease.duration)
	k := easeCurve(t)
	start := float64(s.ease.startPos)
	end := float64(s.IdlePosition)
	s.CurrentPosition = byte(start + (end-start)*k + 0.5)
}

// easeCurve is spec.md §4.3's piecewise ease-in-out quadratic.
func easeCurve(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}
