// Package bundle implements the archive format exchanged between the
// recorder and the bundle player: a manifest, an animation event
// table, and an optional audio blob (spec.md §4.9).
package bundle

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kenavn/skelctl/internal/recorder"
)

const (
	manifestEntry  = "manifest.json"
	animationEntry = "animation.csv"
	audioEntry     = "audio.dat"
)

// Bundle is the in-memory form of a loaded archive (spec.md §4.9's
// "returned record").
type Bundle struct {
	Eye       []recorder.EyeSample
	Mouth     []recorder.MouthSample
	AudioData []byte // nil when no audio was present
	Manifest  Manifest
}

// Save writes a zip archive to path containing manifest.json,
// animation.csv, and audio.dat (when audioPath is non-empty). The
// write is atomic: the archive is built in a temp file in the same
// directory, then renamed over path, so a crash mid-write never leaves
// a truncated bundle where one was expected (spec.md doesn't require
// this, but "produce a single archive" implies callers can assume a
// partially-written one never exists as a final artifact).
func Save(path string, eye []recorder.EyeSample, mouth []recorder.MouthSample, audioPath string, now time.Time) error {
	var audioData []byte
	if audioPath != "" {
		data, err := os.ReadFile(audioPath)
		if err != nil {
			return err
		}
		audioData = data
	}

	manifest := ManifestFor(audioPath, len(eye)+len(mouth), now)
	manifestBytes, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}

	var csvBuf bytes.Buffer
	if err := writeCSV(&csvBuf, eye, mouth); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".bundle-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	zw := zip.NewWriter(tmp)
	if err := writeZipEntry(zw, manifestEntry, manifestBytes); err != nil {
		return err
	}
	if err := writeZipEntry(zw, animationEntry, csvBuf.Bytes()); err != nil {
		return err
	}
	if audioData != nil {
		if err := writeZipEntry(zw, audioEntry, audioData); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func trimLeadingDot(ext string) string {
	if len(ext) > 0 && ext[0] == '.' {
		return ext[1:]
	}
	return ext
}

// Load parses a saved bundle: manifest first, then the CSV into two
// typed vectors, then audio.dat verbatim when present (spec.md §4.9).
func Load(path string) (*Bundle, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	files := map[string]*zip.File{}
	for _, f := range zr.File {
		files[f.Name] = f
	}

	manifestFile, ok := files[manifestEntry]
	if !ok {
		return nil, fmt.Errorf("bundle: missing %s", manifestEntry)
	}
	manifestBytes, err := readZipEntry(manifestFile)
	if err != nil {
		return nil, err
	}
	var manifest Manifest
	if err := json.Unmarshal(manifestBytes, &manifest); err != nil {
		return nil, err
	}

	animationFile, ok := files[animationEntry]
	if !ok {
		return nil, fmt.Errorf("bundle: missing %s", animationEntry)
	}
	animationBytes, err := readZipEntry(animationFile)
	if err != nil {
		return nil, err
	}
	eye, mouth, err := readCSV(bytes.NewReader(animationBytes))
	if err != nil {
		return nil, err
	}

	var audioData []byte
	if audioFile, ok := files[audioEntry]; ok {
		if audioData, err = readZipEntry(audioFile); err != nil {
			return nil, err
		}
	}

	return &Bundle{Eye: eye, Mouth: mouth, AudioData: audioData, Manifest: manifest}, nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
