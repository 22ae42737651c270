//go:build darwin

package config

import (
	"fmt"
	"os/exec"
	"strings"
)

// securityKeychain shells out to security(1) for generic passwords.
type securityKeychain struct{}

func newPlatformKeychain() Keychain { return securityKeychain{} }

func (securityKeychain) Get(service, account string) (string, error) {
	out, err := exec.Command("security", "find-generic-password", "-s", service, "-a", account, "-w").Output()
	if err != nil {
		return "", fmt.Errorf("keychain lookup %s/%s: %w", service, account, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (securityKeychain) Set(service, account, value string) error {
	// -U updates an existing item in place.
	cmd := exec.Command("security", "add-generic-password", "-U", "-s", service, "-a", account, "-w", value)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("keychain store %s/%s: %w (%s)", service, account, err, strings.TrimSpace(string(out)))
	}
	return nil
}
