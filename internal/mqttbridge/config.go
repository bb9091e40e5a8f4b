package mqttbridge

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads the shell's own broker-connection file (spec.md §6
// names the topic hierarchy but leaves broker connection details to
// the implementer; we give it a YAML file the way cmd/mqttshell's
// sibling manifest.yaml sidecar in internal/bundle already establishes
// as this repo's convention for small, human-edited metadata files).
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
