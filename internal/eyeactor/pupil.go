package eyeactor

import (
	"math/rand"
	"time"
)

// pupilSpanDuration is the 4-second window the pupil driver takes to
// cross from current to target.
const pupilSpanDuration = 4 * time.Second

// pupilMinRange is the smallest current-to-target distance accepted
// for a newly drawn target ("range < 0.125" is redrawn).
const pupilMinRange = 0.125

// PupilDriver generates the autonomous pupil scale by moving linearly
// from the current value to a random target over one span, then drawing
// the next target. A target closer than pupilMinRange is redrawn and
// that move's span halved for each redraw. No midpoint subdivision is
// performed: each move is a single straight-line interpolation.
type PupilDriver struct {
	current   float64
	target    float64
	spanStart time.Time
	span      time.Duration
	rng       *rand.Rand
}

// NewPupilDriver starts held at start (conventionally 0.5).
func NewPupilDriver(start float64, now time.Time) *PupilDriver {
	p := &PupilDriver{
		current:   start,
		target:    start,
		spanStart: now,
		span:      pupilSpanDuration,
		rng:       rand.New(rand.NewSource(now.UnixNano() ^ 0x5ebd1)),
	}
	return p
}

// Advance returns the current pupil scale in [0,1]; the caller maps it
// into [PupilMin, PupilMax].
func (p *PupilDriver) Advance(now time.Time) float64 {
	elapsed := now.Sub(p.spanStart)
	if elapsed >= p.span {
		p.current = p.target
		p.pickNewTarget(now)
		return p.current
	}
	t := float64(elapsed) / float64(p.span)
	return p.current + (p.target-p.current)*t
}

func (p *PupilDriver) pickNewTarget(now time.Time) {
	newTarget := p.rng.Float64()
	span := pupilSpanDuration
	rangeSize := abs64(newTarget - p.current)
	for rangeSize < pupilMinRange && span > time.Millisecond {
		span /= 2
		newTarget = p.rng.Float64()
		rangeSize = abs64(newTarget - p.current)
	}
	p.target = newTarget
	p.span = span
	p.spanStart = now
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
