//go:build darwin

package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// UserDefaults domain holding procard settings.
const defaultsDomain = "com.procard.app"

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "procard-data"
	}
	return filepath.Join(home, "Library", "Application Support", "procard")
}

// defaultsBackend reads and writes UserDefaults through the defaults CLI.
type defaultsBackend struct {
	domain string
}

func newPlatformBackend() Backend {
	return defaultsBackend{domain: defaultsDomain}
}

func (b defaultsBackend) run(args ...string) (string, error) {
	out, err := exec.Command("defaults", args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

func (b defaultsBackend) GetString(key string) (string, bool, error) {
	out, err := b.run("read", b.domain, key)
	if err == nil {
		return out, true, nil
	}
	// defaults exits 1 when the key or domain does not exist.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return "", false, nil
	}
	return "", false, fmt.Errorf("defaults read %s: %w (%s)", key, err, out)
}

func (b defaultsBackend) GetInt(key string) (int, bool, error) {
	s, ok, err := b.GetString(key)
	if !ok || err != nil {
		return 0, ok, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, true, fmt.Errorf("%s: not an integer: %w", key, err)
	}
	return n, true, nil
}

func (b defaultsBackend) SetString(key, val string) error {
	if out, err := b.run("write", b.domain, key, "-string", val); err != nil {
		return fmt.Errorf("defaults write %s: %w (%s)", key, err, out)
	}
	return nil
}

func (b defaultsBackend) SetInt(key string, val int) error {
	if out, err := b.run("write", b.domain, key, "-int", strconv.Itoa(val)); err != nil {
		return fmt.Errorf("defaults write %s: %w (%s)", key, err, out)
	}
	return nil
}

func (b defaultsBackend) Delete(key string) error {
	if _, ok, err := b.GetString(key); err != nil || !ok {
		return err
	}
	if out, err := b.run("delete", b.domain, key); err != nil {
		return fmt.Errorf("defaults delete %s: %w (%s)", key, err, out)
	}
	return nil
}
