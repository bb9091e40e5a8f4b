package bundle

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenavn/skelctl/internal/recorder"
)

func sampleTracks() ([]recorder.EyeSample, []recorder.MouthSample) {
	eye := []recorder.EyeSample{
		{TimeMs: 10, GazeX: 0.2, GazeY: 0.8, LeftClosed: 0, RightClosed: 0, BothClosed: false},
		{TimeMs: 40, GazeX: 0.5, GazeY: 0.5, LeftClosed: 1, RightClosed: 1, BothClosed: true},
		{TimeMs: 60, GazeX: 0.9, GazeY: 0.1, LeftClosed: 0, RightClosed: 0, BothClosed: false},
	}
	mouth := []recorder.MouthSample{
		{TimeMs: 20, Position: 90},
		{TimeMs: 50, Position: 200},
	}
	return eye, mouth
}

func TestBundleRoundTripPreservesTracksAndAudio(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "clip.wav")
	audioBytes := []byte("RIFF....fake wav bytes....")
	require.NoError(t, os.WriteFile(audioPath, audioBytes, 0o644))

	eye, mouth := sampleTracks()
	bundlePath := filepath.Join(dir, "out.bundle")
	require.NoError(t, Save(bundlePath, eye, mouth, audioPath, time.Unix(1700000000, 0)))

	loaded, err := Load(bundlePath)
	require.NoError(t, err)

	assert.Equal(t, eye, loaded.Eye)
	assert.Equal(t, mouth, loaded.Mouth)
	assert.Equal(t, audioBytes, loaded.AudioData)
	assert.Equal(t, len(eye)+len(mouth), loaded.Manifest.FrameCount)
	require.NotNil(t, loaded.Manifest.AudioFile)
	assert.Equal(t, "clip.wav", *loaded.Manifest.AudioFile)
}

func TestBundleWithoutAudioOmitsAudioEntry(t *testing.T) {
	dir := t.TempDir()
	eye, mouth := sampleTracks()
	bundlePath := filepath.Join(dir, "out.bundle")
	require.NoError(t, Save(bundlePath, eye, mouth, "", time.Unix(1700000000, 0)))

	loaded, err := Load(bundlePath)
	require.NoError(t, err)
	assert.Nil(t, loaded.AudioData)
	assert.Nil(t, loaded.Manifest.AudioFile)
}

func TestRowsAreSortedAscendingByTimeMs(t *testing.T) {
	dir := t.TempDir()
	eye := []recorder.EyeSample{{TimeMs: 90}, {TimeMs: 10}}
	mouth := []recorder.MouthSample{{TimeMs: 50}}
	bundlePath := filepath.Join(dir, "out.bundle")
	require.NoError(t, Save(bundlePath, eye, mouth, "", time.Unix(0, 0)))

	zr, err := zip.OpenReader(bundlePath)
	require.NoError(t, err)
	defer zr.Close()
	var rows [][]string
	for _, f := range zr.File {
		if f.Name == animationEntry {
			data, err := readZipEntry(f)
			require.NoError(t, err)
			rows, err = csv.NewReader(bytes.NewReader(data)).ReadAll()
			require.NoError(t, err)
		}
	}
	require.NotEmpty(t, rows)
	var times []int64
	for _, row := range rows[1:] {
		ms, err := strconv.ParseInt(row[0], 10, 64)
		require.NoError(t, err)
		times = append(times, ms)
	}
	assert.Equal(t, []int64{10, 50, 90}, times)
}

func TestLegacyCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	eye, mouth := sampleTracks()
	path := filepath.Join(dir, "legacy.csv")
	require.NoError(t, SaveLegacyCSV(path, eye, mouth))

	loadedEye, loadedMouth, err := LoadLegacyCSV(path)
	require.NoError(t, err)
	assert.Equal(t, eye, loadedEye)
	assert.Equal(t, mouth, loadedMouth)
}

func TestSaveIsAtomicAndDoesNotLeaveTempFiles(t *testing.T) {
	dir := t.TempDir()
	eye, mouth := sampleTracks()
	bundlePath := filepath.Join(dir, "out.bundle")
	require.NoError(t, Save(bundlePath, eye, mouth, "", time.Unix(0, 0)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "out.bundle", entries[0].Name())
}
