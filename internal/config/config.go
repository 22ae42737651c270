package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/kalambet/procard/internal/picker"
	"github.com/kalambet/procard/internal/profile"
)

type Config struct {
	Server    ServerConfig
	Seed      SeedConfig
	Picker    PickerConfig
	Share     ShareConfig
	Interests InterestsConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port int
}

type SeedConfig struct {
	// Path to a YAML seed record. Empty means the built-in seed.
	Path string
}

type PickerConfig struct {
	LibraryDir string
	Permission string // "granted" or "denied"
}

type ShareConfig struct {
	Target string // "clipboard" or "stdout"
}

type InterestsConfig struct {
	IDPolicy string // "counter" or "max"
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4100,
		},
		Picker: PickerConfig{
			LibraryDir: filepath.Join(defaultDataDir(), "photos"),
			Permission: "granted",
		},
		Share: ShareConfig{
			Target: "clipboard",
		},
		Interests: InterestsConfig{
			IDPolicy: string(profile.PolicyCounter),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend and environment
// variables.
//
// On macOS the backend is UserDefaults (domain: com.procard.app).
// Elsewhere the backend is a YAML file at $XDG_CONFIG_HOME/procard/config.yaml.
//
// Environment variables (PROCARD_*) override backend values on all platforms.
func Load() (Config, error) {
	return loadWith(newPlatformBackend())
}

func loadWith(b Backend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated values and ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if _, err := picker.ParsePermission(c.Picker.Permission); err != nil {
		errs = append(errs, fmt.Errorf("picker.permission: %w", err))
	}
	if c.Share.Target != "clipboard" && c.Share.Target != "stdout" {
		errs = append(errs, fmt.Errorf("share.target: invalid value %q (want clipboard or stdout)", c.Share.Target))
	}
	if _, err := profile.ParseIDPolicy(c.Interests.IDPolicy); err != nil {
		errs = append(errs, fmt.Errorf("interests.id_policy: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// DataDir is where procard keeps its PID file and, by default, its photo
// library.
func DataDir() string {
	return defaultDataDir()
}
