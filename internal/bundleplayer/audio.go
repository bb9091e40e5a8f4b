package bundleplayer

import "time"

// AudioClock is the hardware boundary for the optional audio track. A
// real implementation wraps github.com/gordonklaus/portaudio the way
// internal/soundactor's Device does, but this interface additionally
// exposes playback position so Play can re-read the audio clock
// between frames and correct drift (spec.md §4.10: "re-read the audio
// clock when available so drift does not accumulate").
type AudioClock interface {
	// Start begins playback of path from the beginning and returns
	// once playback has started.
	Start(path string) error
	// Position reports elapsed playback time. The bool is false once
	// playback has finished or no track is loaded.
	Position() (time.Duration, bool)
	// Stop halts playback; a stop with nothing playing is a no-op.
	Stop()
}
