package config

import "fmt"

// KeyInfo is one config key as shown by "procard config show".
type KeyInfo struct {
	Key    string
	EnvVar string
	Value  string
}

// ShowAll lists every key with its effective value in cfg.
func ShowAll(cfg Config) []KeyInfo {
	result := make([]KeyInfo, len(specs))
	for i, s := range specs {
		result[i] = KeyInfo{Key: s.key, EnvVar: s.env, Value: s.value(cfg)}
	}
	return result
}

// SetKey persists a config key in the platform backend.
func SetKey(key, value string) error {
	return setKeyWith(newPlatformBackend(), key, value)
}

func setKeyWith(b Backend, key, value string) error {
	s, ok := lookupSpec(key)
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	// Reject values Load would refuse later.
	cfg := defaults()
	if err := s.parse(&cfg, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if s.num != nil {
		return b.SetInt(key, *s.num(&cfg))
	}
	return b.SetString(key, value)
}

// UnsetKey removes a persisted key so its default applies again.
func UnsetKey(key string) error {
	return unsetKeyWith(newPlatformBackend(), key)
}

func unsetKeyWith(b Backend, key string) error {
	if _, ok := lookupSpec(key); !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}
	return b.Delete(key)
}

// ValidKeys returns the config key names in display order.
func ValidKeys() []string {
	keys := make([]string, len(specs))
	for i, s := range specs {
		keys[i] = s.key
	}
	return keys
}
