package eyeactor

import (
	"math"
	"math/rand"
	"time"
)

// Saccade-disc radius in the actor's internal angular units (spec.md
// §4.2: "a uniform point inside the disc of radius 30").
const saccadeRadius = 30.0

const (
	holdMin = 0.1 * float64(time.Second)
	holdMax = 1.1 * float64(time.Second)
	moveMin = 0.075 * float64(time.Second)
	moveMax = 0.175 * float64(time.Second)
)

// Saccade is the per-eye autonomous gaze generator: it alternates
// between holding at a fixed point and moving to a new uniformly-
// sampled point inside the saccade disc, following the ease curve
// s(t) = 3t^2 - 2t^3 (spec.md §3, §4.2).
type Saccade struct {
	startPos, destPos struct{ X, Y float64 }
	startTime         time.Time
	holdDuration      time.Duration
	moveDuration      time.Duration
	moving            bool
	rng               *rand.Rand
}

// NewSaccade starts the generator holding at the origin for a random
// 0.1-1.1 s hold; the first move begins once that hold has elapsed.
func NewSaccade(now time.Time) *Saccade {
	s := &Saccade{
		startTime: now,
		rng:       rand.New(rand.NewSource(now.UnixNano())),
	}
	s.holdDuration = randDuration(s.rng, holdMin, holdMax)
	s.moving = false
	return s
}

func randDuration(rng *rand.Rand, min, max float64) time.Duration {
	return time.Duration(min + rng.Float64()*(max-min))
}

// randomDiscPoint samples a uniform point inside the disc of the given
// radius (uniform-in-area, not uniform-in-radius: sqrt of a uniform
// draw for the radial coordinate).
func randomDiscPoint(rng *rand.Rand, radius float64) (x, y float64) {
	theta := rng.Float64() * 2 * math.Pi
	r := radius * math.Sqrt(rng.Float64())
	return r * math.Cos(theta), r * math.Sin(theta)
}

// ease is the smoothstep curve from spec.md §3.
func ease(t float64) float64 {
	return 3*t*t - 2*t*t*t
}

// Advance steps the saccade state machine to now and returns the
// current position in internal angular units.
func (s *Saccade) Advance(now time.Time) (x, y float64) {
	elapsed := now.Sub(s.startTime)

	if !s.moving {
		if elapsed >= s.holdDuration {
			s.startPos = s.destPos
			dx, dy := randomDiscPoint(s.rng, saccadeRadius)
			s.destPos.X, s.destPos.Y = dx, dy
			s.moveDuration = randDuration(s.rng, moveMin, moveMax)
			s.startTime = now
			s.moving = true
			return s.startPos.X, s.startPos.Y
		}
		return s.destPos.X, s.destPos.Y
	}

	if elapsed >= s.moveDuration {
		s.moving = false
		s.startTime = now
		s.holdDuration = randDuration(s.rng, holdMin, holdMax)
		return s.destPos.X, s.destPos.Y
	}

	t := float64(elapsed) / float64(s.moveDuration)
	k := ease(t)
	return s.startPos.X + (s.destPos.X-s.startPos.X)*k,
		s.startPos.Y + (s.destPos.Y-s.startPos.Y)*k
}
