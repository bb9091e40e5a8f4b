package bundle

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteYAMLSidecarRoundTripsFields(t *testing.T) {
	dir := t.TempDir()
	audioBase := "clip.wav"
	m := Manifest{Version: "1.0", Created: "2026-01-01T00:00:00Z", AudioFile: &audioBase, FrameCount: 5}
	require.NoError(t, WriteYAMLSidecar(dir, m))

	data, err := os.ReadFile(filepath.Join(dir, "manifest.yaml"))
	require.NoError(t, err)

	var sm sidecarManifest
	require.NoError(t, yaml.Unmarshal(data, &sm))
	assert.Equal(t, m.Version, sm.Version)
	assert.Equal(t, m.FrameCount, sm.FrameCount)
	require.NotNil(t, sm.AudioFile)
	assert.Equal(t, audioBase, *sm.AudioFile)
}

func TestBackupFileNameFormatsTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	name, err := BackupFileName("skelanim-%Y%m%d-%H%M%S.skelanim", now)
	require.NoError(t, err)
	assert.Equal(t, "skelanim-20260305-143000.skelanim", name)
}
