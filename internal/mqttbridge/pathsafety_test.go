package mqttbridge

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePlayPathAcceptsFileInsideDir(t *testing.T) {
	dir := t.TempDir()
	resolved, err := ResolvePlayPath(dir, "clips/wave.skelanim")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "clips", "wave.skelanim"), resolved)
}

func TestResolvePlayPathRejectsParentEscape(t *testing.T) {
	dir := t.TempDir()
	_, err := ResolvePlayPath(dir, "../../etc/passwd")
	require.Error(t, err)
	var escErr *ErrPathEscape
	require.ErrorAs(t, err, &escErr)
}

func TestResolvePlayPathTreatsAbsoluteLookingRequestAsRelative(t *testing.T) {
	dir := t.TempDir()
	resolved, err := ResolvePlayPath(dir, "/etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "etc", "passwd"), resolved)
}

func TestResolvePlayPathAllowsDirItself(t *testing.T) {
	dir := t.TempDir()
	resolved, err := ResolvePlayPath(dir, ".")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(dir), resolved)
}
