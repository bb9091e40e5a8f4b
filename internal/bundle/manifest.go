package bundle

import (
	"path/filepath"
	"time"
)

// Manifest is manifest.json's schema inside a saved bundle (spec.md
// §4.9).
type Manifest struct {
	Version     string  `json:"version"`
	Created     string  `json:"created"`
	AudioFile   *string `json:"audio_file"`
	AudioFormat *string `json:"audio_format"`
	FrameCount  int     `json:"frame_count"`
}

const manifestVersion = "1.0"

func newManifest(audioBase, audioFormat *string, frameCount int, now time.Time) Manifest {
	return Manifest{
		Version:     manifestVersion,
		Created:     now.UTC().Format(time.RFC3339),
		AudioFile:   audioBase,
		AudioFormat: audioFormat,
		FrameCount:  frameCount,
	}
}

// ManifestFor builds the Manifest describing a save with frameCount
// events and, if audioPath is non-empty, the embedded clip's base name
// and format -- the same derivation Save uses, exported so a caller
// that wants a bundle's metadata without writing the archive itself
// (the sidecar writer) agrees with it.
func ManifestFor(audioPath string, frameCount int, now time.Time) Manifest {
	var audioBase, audioFormat *string
	if audioPath != "" {
		base := filepath.Base(audioPath)
		ext := trimLeadingDot(filepath.Ext(audioPath))
		audioBase, audioFormat = &base, &ext
	}
	return newManifest(audioBase, audioFormat, frameCount, now)
}
