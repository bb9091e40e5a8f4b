// Package bundleplayer replays a saved bundle over the wire protocol,
// driving the eye and mouth actors on a wall-clock schedule derived
// from the recorded time_ms values (spec.md §4.10).
package bundleplayer

import (
	"sort"

	"github.com/kenavn/skelctl/internal/bundle"
	"github.com/kenavn/skelctl/internal/recorder"
)

// FrameKind distinguishes which wire command a frame produces.
type FrameKind int

const (
	FrameEye FrameKind = iota
	FrameMouth
)

// Frame is one scheduled emission: a time offset from playback start
// and the sample to render at that offset.
type Frame struct {
	TimeMs int64
	Kind   FrameKind
	Eye    recorder.EyeSample
	Mouth  recorder.MouthSample
}

// BuildFrames merges a bundle's two tracks into one time-ordered
// vector (spec.md §4.10, "Prepare"). Ties keep eye-before-mouth order,
// matching the merge order bundle.writeCSV already used to produce
// the source tracks, so a bundle that round-trips through Save/Load
// schedules identically to the one that was recorded.
func BuildFrames(b *bundle.Bundle) []Frame {
	frames := make([]Frame, 0, len(b.Eye)+len(b.Mouth))
	for _, e := range b.Eye {
		frames = append(frames, Frame{TimeMs: e.TimeMs, Kind: FrameEye, Eye: e})
	}
	for _, m := range b.Mouth {
		frames = append(frames, Frame{TimeMs: m.TimeMs, Kind: FrameMouth, Mouth: m})
	}
	sort.SliceStable(frames, func(i, j int) bool { return frames[i].TimeMs < frames[j].TimeMs })
	return frames
}

// LastTimeMs returns the latest time_ms across both tracks, or 0 for
// an empty bundle (spec.md §4.10, "End-of-animation detection").
func LastTimeMs(frames []Frame) int64 {
	var last int64
	for _, f := range frames {
		if f.TimeMs > last {
			last = f.TimeMs
		}
	}
	return last
}
