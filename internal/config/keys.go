package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

// keySpec binds a persisted key and its env override to one Config field.
// Exactly one of str and num is set.
type keySpec struct {
	key string
	env string
	str func(*Config) *string
	num func(*Config) *int
}

var specs = []keySpec{
	{key: "server.port", env: "PROCARD_SERVER_PORT", num: func(c *Config) *int { return &c.Server.Port }},
	{key: "seed.path", env: "PROCARD_SEED_PATH", str: func(c *Config) *string { return &c.Seed.Path }},
	{key: "picker.library_dir", env: "PROCARD_PICKER_LIBRARY_DIR", str: func(c *Config) *string { return &c.Picker.LibraryDir }},
	{key: "picker.permission", env: "PROCARD_PICKER_PERMISSION", str: func(c *Config) *string { return &c.Picker.Permission }},
	{key: "share.target", env: "PROCARD_SHARE_TARGET", str: func(c *Config) *string { return &c.Share.Target }},
	{key: "interests.id_policy", env: "PROCARD_INTERESTS_ID_POLICY", str: func(c *Config) *string { return &c.Interests.IDPolicy }},
	{key: "log.level", env: "PROCARD_LOG_LEVEL", str: func(c *Config) *string { return &c.Log.Level }},
}

func lookupSpec(key string) (keySpec, bool) {
	for _, s := range specs {
		if s.key == key {
			return s, true
		}
	}
	return keySpec{}, false
}

// value renders the field s is bound to.
func (s keySpec) value(cfg Config) string {
	if s.num != nil {
		return strconv.Itoa(*s.num(&cfg))
	}
	return *s.str(&cfg)
}

// parse stores raw into cfg, converting it for numeric keys.
func (s keySpec) parse(cfg *Config, raw string) error {
	if s.num == nil {
		*s.str(cfg) = raw
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid integer value for %s: %w", s.key, err)
	}
	*s.num(cfg) = n
	return nil
}

func applyBackend(cfg *Config, b Backend) error {
	for _, s := range specs {
		var ok bool
		var err error
		if s.num != nil {
			var n int
			if n, ok, err = b.GetInt(s.key); ok && err == nil {
				*s.num(cfg) = n
			}
		} else {
			var v string
			if v, ok, err = b.GetString(s.key); ok && err == nil {
				*s.str(cfg) = v
			}
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", s.key, err)
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		if err := s.parse(cfg, raw); err != nil {
			slog.Warn("ignoring environment override", "var", s.env, "value", raw, "error", err)
		}
	}
}
