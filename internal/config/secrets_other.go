//go:build !darwin

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileKeychain keeps secrets as service -> account -> value in a YAML file
// readable only by the owner.
type fileKeychain struct {
	path string
}

func newPlatformKeychain() Keychain {
	return fileKeychain{path: filepath.Join(defaultDataDir(), "secrets.yaml")}
}

func (k fileKeychain) read() (map[string]map[string]string, error) {
	data, err := os.ReadFile(k.path)
	if err != nil {
		return nil, err
	}
	var secrets map[string]map[string]string
	if err := yaml.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", k.path, err)
	}
	return secrets, nil
}

func (k fileKeychain) Get(service, account string) (string, error) {
	secrets, err := k.read()
	if err != nil {
		return "", fmt.Errorf("secrets file unavailable: %w", err)
	}
	val, ok := secrets[service][account]
	if !ok {
		return "", fmt.Errorf("no secret for %s/%s", service, account)
	}
	return val, nil
}

func (k fileKeychain) Set(service, account, value string) error {
	secrets, err := k.read()
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if secrets == nil {
		secrets = make(map[string]map[string]string)
	}
	if secrets[service] == nil {
		secrets[service] = make(map[string]string)
	}
	secrets[service][account] = value

	if err := os.MkdirAll(filepath.Dir(k.path), 0o700); err != nil {
		return fmt.Errorf("creating secrets dir: %w", err)
	}
	out, err := yaml.Marshal(secrets)
	if err != nil {
		return err
	}
	return os.WriteFile(k.path, out, 0o600)
}
