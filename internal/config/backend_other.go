//go:build !darwin

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

func defaultDataDir() string {
	dir := xdgDir("XDG_DATA_HOME", ".local", "share")
	if dir == "" {
		return "procard-data"
	}
	return filepath.Join(dir, "procard")
}

func configFilePath() string {
	dir := xdgDir("XDG_CONFIG_HOME", ".config")
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "procard", "config.yaml")
}

// yamlBackend keeps keys in a YAML file, one mapping per section:
//
//	share:
//	  target: stdout
type yamlBackend struct {
	path     string
	sections map[string]map[string]any
}

func newPlatformBackend() Backend {
	return openYAMLBackend(configFilePath())
}

// openYAMLBackend loads path. A missing or unreadable file yields an empty
// backend so defaults still apply.
func openYAMLBackend(path string) *yamlBackend {
	b := &yamlBackend{path: path, sections: make(map[string]map[string]any)}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("could not read config file, using defaults", "path", path, "error", err)
		}
		return b
	}
	if err := yaml.Unmarshal(data, &b.sections); err != nil {
		slog.Warn("could not parse config file, using defaults", "path", path, "error", err)
		b.sections = make(map[string]map[string]any)
	}
	return b
}

func splitKey(key string) (section, name string) {
	section, name, _ = strings.Cut(key, ".")
	return section, name
}

func (b *yamlBackend) lookup(key string) (any, bool) {
	section, name := splitKey(key)
	v, ok := b.sections[section][name]
	return v, ok
}

func (b *yamlBackend) set(key string, v any) error {
	section, name := splitKey(key)
	if b.sections[section] == nil {
		b.sections[section] = make(map[string]any)
	}
	b.sections[section][name] = v
	return b.save()
}

func (b *yamlBackend) save() error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(b.sections)
	if err != nil {
		return err
	}
	return os.WriteFile(b.path, data, 0o600)
}

func (b *yamlBackend) GetString(key string) (string, bool, error) {
	v, ok := b.lookup(key)
	if !ok {
		return "", false, nil
	}
	if s, isStr := v.(string); isStr {
		return s, true, nil
	}
	return fmt.Sprint(v), true, nil
}

func (b *yamlBackend) GetInt(key string) (int, bool, error) {
	v, ok := b.lookup(key)
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int:
		return n, true, nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, true, fmt.Errorf("%s: not an integer: %w", key, err)
		}
		return i, true, nil
	}
	return 0, true, fmt.Errorf("%s: not an integer: %v", key, v)
}

func (b *yamlBackend) SetString(key, val string) error { return b.set(key, val) }

func (b *yamlBackend) SetInt(key string, val int) error { return b.set(key, val) }

func (b *yamlBackend) Delete(key string) error {
	section, name := splitKey(key)
	if _, ok := b.sections[section][name]; !ok {
		return nil
	}
	delete(b.sections[section], name)
	if len(b.sections[section]) == 0 {
		delete(b.sections, section)
	}
	return b.save()
}
