package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

const (
	secretService  = "procard"
	apiTokenKey    = "api_token"
	apiTokenEnvVar = "PROCARD_API_TOKEN"
)

// Keychain stores secrets outside the plain config backend.
type Keychain interface {
	Get(service, account string) (string, error)
	Set(service, account, value string) error
}

// NewKeychain returns the platform secret store: the login keychain on
// darwin, a 0600 YAML file in the data dir elsewhere.
func NewKeychain() Keychain {
	return newPlatformKeychain()
}

// GetAPIToken returns the bearer token guarding the local API.
// PROCARD_API_TOKEN wins; otherwise the token comes from kc and is minted
// on first use.
func GetAPIToken(kc Keychain) (string, error) {
	if tok := os.Getenv(apiTokenEnvVar); tok != "" {
		return tok, nil
	}
	tok, err := kc.Get(secretService, apiTokenKey)
	if err == nil && tok != "" {
		return tok, nil
	}
	if err != nil {
		slog.Debug("no stored API token", "error", err)
	}

	tok = uuid.NewString()
	if err := kc.Set(secretService, apiTokenKey, tok); err != nil {
		return "", fmt.Errorf("storing API token: %w", err)
	}
	return tok, nil
}
