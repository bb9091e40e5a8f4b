package bundle

import (
	"os"
	"path/filepath"
	"time"

	"github.com/lestrrat-go/strftime"
	"gopkg.in/yaml.v3"
)

// sidecarManifest mirrors Manifest's fields with yaml tags; kept as a
// separate type so manifest.json's wire schema (json tags, spec.md
// §6) never has to carry yaml tags it doesn't need.
type sidecarManifest struct {
	Version     string  `yaml:"version"`
	Created     string  `yaml:"created"`
	AudioFile   *string `yaml:"audio_file"`
	AudioFormat *string `yaml:"audio_format"`
	FrameCount  int     `yaml:"frame_count"`
}

// WriteYAMLSidecar emits manifest.yaml next to a saved .skelanim
// archive, so an operator can inspect what a recording session
// produced without unzipping it. It is never read back by Load; the
// archive's own manifest.json is always authoritative.
func WriteYAMLSidecar(dir string, m Manifest) error {
	sm := sidecarManifest{
		Version:     m.Version,
		Created:     m.Created,
		AudioFile:   m.AudioFile,
		AudioFormat: m.AudioFormat,
		FrameCount:  m.FrameCount,
	}
	data, err := yaml.Marshal(sm)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "manifest.yaml"), data, 0o644)
}

// BackupFileName formats a timestamped .skelanim filename from pattern
// using strftime-style directives, letting an operator pass --out
// "skelanim-%Y%m%d-%H%M%S.skelanim" and get a fresh file on every save
// instead of overwriting the previous one.
func BackupFileName(pattern string, now time.Time) (string, error) {
	return strftime.Format(pattern, now)
}
