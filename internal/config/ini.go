// Package config reads `[network]`/`[tracking]`/`[features]` style
// configuration files: a small, line-oriented INI reader built on
// bufio.Scanner, `#`- and `;`-prefixed comments skipped, lines split
// at the first `=`, and the first malformed line aborting the parse
// with an error that names its line number.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// File is the parsed form of an INI-style config file: a map of
// sections (file order is not kept), each a set of key/value pairs. Keys are matched
// case-sensitively, values are left untrimmed of surrounding quotes.
type File struct {
	sections map[string]map[string]string
}

// Load reads path and parses it. A missing file is an error here: the
// error from os.Open is returned as is. Callers for which `--config`
// is optional use LoadOrEmpty below, which treats an empty path or a
// missing file as an empty File.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := &File{sections: map[string]map[string]string{}}
	section := ""
	cfg.sections[section] = map[string]string{}

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			if _, ok := cfg.sections[section]; !ok {
				cfg.sections[section] = map[string]string{}
			}
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("config: line %d: expected key=value, got %q", lineNo, line)
		}
		cfg.sections[section][strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrEmpty behaves like Load but returns an empty File, never an
// error, when path is empty or does not exist -- the `--config` flag
// is optional (spec.md §6: "defaults apply last").
func LoadOrEmpty(path string) (*File, error) {
	if path == "" {
		return &File{sections: map[string]map[string]string{}}, nil
	}
	if _, err := os.Stat(path); err != nil {
		return &File{sections: map[string]map[string]string{}}, nil
	}
	return Load(path)
}

// String returns section.key, or def if the section or key is absent.
func (f *File) String(section, key, def string) string {
	if f == nil {
		return def
	}
	if vals, ok := f.sections[section]; ok {
		if v, ok := vals[key]; ok {
			return v
		}
	}
	return def
}

// Int parses section.key as a base-10 integer, falling back to def on
// any parse error or absence.
func (f *File) Int(section, key string, def int) int {
	raw := f.String(section, key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// Float parses section.key as a float64, falling back to def.
func (f *File) Float(section, key string, def float64) float64 {
	raw := f.String(section, key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

// Bool parses section.key as a boolean ("true"/"false"/"1"/"0"/"yes"/
// "no"), falling back to def.
func (f *File) Bool(section, key string, def bool) bool {
	raw := strings.ToLower(f.String(section, key, ""))
	switch raw {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return def
	}
}
