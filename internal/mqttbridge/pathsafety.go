package mqttbridge

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathEscape is returned when a play request resolves outside the
// configured animations directory (spec.md §4.9, "Path safety (MQTT
// daemon only)").
type ErrPathEscape struct {
	Requested string
	Resolved  string
	Dir       string
}

func (e *ErrPathEscape) Error() string {
	return fmt.Sprintf("mqttbridge: requested path %q resolved to %q, outside animations dir %q", e.Requested, e.Resolved, e.Dir)
}

// ResolvePlayPath resolves a play request's file name against dir and
// rejects it unless the canonical result is still inside dir (spec.md
// §7, "File-path escape"). dir itself must already be an absolute,
// symlink-resolved path; ResolvePlayPath does not further canonicalise
// it beyond filepath.Clean.
func ResolvePlayPath(dir, requested string) (string, error) {
	dir = filepath.Clean(dir)
	joined := filepath.Join(dir, requested)
	resolved := filepath.Clean(joined)

	rel, err := filepath.Rel(dir, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &ErrPathEscape{Requested: requested, Resolved: resolved, Dir: dir}
	}
	return resolved, nil
}
