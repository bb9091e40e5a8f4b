package bundle

import (
	"os"

	"github.com/kenavn/skelctl/internal/recorder"
)

// SaveLegacyCSV writes the same animation.csv schema store.go uses
// inside a bundle, but as a bare file with no archive wrapper, so
// recordings made before bundles existed stay loadable (spec.md §4.9,
// "Legacy CSV path").
func SaveLegacyCSV(path string, eye []recorder.EyeSample, mouth []recorder.MouthSample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeCSV(f, eye, mouth)
}

// LoadLegacyCSV reads a bare animation.csv file.
func LoadLegacyCSV(path string) ([]recorder.EyeSample, []recorder.MouthSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return readCSV(f)
}
