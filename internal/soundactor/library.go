// Package soundactor plays specific or random audio files from two
// directories with a single-voice policy (spec.md §4.5).
package soundactor

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

// audioExtensions is the set spec.md §4.5 names.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".flac": true,
}

// Library resolves play requests against two directories: a
// "sounds" directory for specifically-named files and a "random"
// directory for uniform-random selection.
type Library struct {
	SoundsDir string
	RandomDir string
	rng       *rand.Rand
}

// NewLibrary builds a Library with its own random source so concurrent
// actors (tests) don't share global rand state.
func NewLibrary(soundsDir, randomDir string, seed int64) *Library {
	return &Library{SoundsDir: soundsDir, RandomDir: randomDir, rng: rand.New(rand.NewSource(seed))}
}

// Resolve finds the path for a specific named file in SoundsDir. A
// missing file is a caller-visible error, not a fatal one (spec.md
// §4.5, §7).
func (l *Library) Resolve(name string) (string, error) {
	path := filepath.Join(l.SoundsDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("sound file %q not found: %w", name, err)
	}
	return path, nil
}

// PickRandom selects uniformly among audio files in RandomDir at
// request time (spec.md §4.5: "found ... at request time", i.e. no
// cached directory listing).
func (l *Library) PickRandom() (string, error) {
	entries, err := os.ReadDir(l.RandomDir)
	if err != nil {
		return "", fmt.Errorf("reading random sound directory: %w", err)
	}
	var candidates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if audioExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			candidates = append(candidates, e.Name())
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no audio files found in %s", l.RandomDir)
	}
	name := candidates[l.rng.Intn(len(candidates))]
	return filepath.Join(l.RandomDir, name), nil
}
