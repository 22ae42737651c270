//go:build !darwin

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestYAMLBackend_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procard", "config.yaml")

	b := openYAMLBackend(path)
	if err := b.SetInt("server.port", 4200); err != nil {
		t.Fatal(err)
	}
	if err := b.SetString("share.target", "stdout"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "share:\n    target: stdout") {
		t.Errorf("config file not sectioned:\n%s", data)
	}

	reopened := openYAMLBackend(path)
	port, ok, err := reopened.GetInt("server.port")
	if err != nil || !ok || port != 4200 {
		t.Errorf("GetInt = %d, %v, %v, want 4200", port, ok, err)
	}
	target, ok, err := reopened.GetString("share.target")
	if err != nil || !ok || target != "stdout" {
		t.Errorf("GetString = %q, %v, %v, want stdout", target, ok, err)
	}

	if err := reopened.Delete("share.target"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := openYAMLBackend(path).GetString("share.target"); ok {
		t.Error("share.target should be gone after Delete")
	}
}

func TestYAMLBackend_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	clearEnv(t)
	cfg, err := loadWith(openYAMLBackend(path))
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.Port != 4100 {
		t.Errorf("port = %d, want default 4100", cfg.Server.Port)
	}
}

func TestYAMLBackend_QuotedInt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"4300\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	port, ok, err := openYAMLBackend(path).GetInt("server.port")
	if err != nil || !ok || port != 4300 {
		t.Errorf("GetInt = %d, %v, %v, want 4300", port, ok, err)
	}
}

func TestFileKeychain(t *testing.T) {
	kc := fileKeychain{path: filepath.Join(t.TempDir(), "secrets.yaml")}
	if _, err := kc.Get("procard", "api_token"); err == nil {
		t.Fatal("expected error before anything is stored")
	}
	if err := kc.Set("procard", "api_token", "tok-1"); err != nil {
		t.Fatal(err)
	}
	if err := kc.Set("procard", "other", "x"); err != nil {
		t.Fatal(err)
	}
	got, err := kc.Get("procard", "api_token")
	if err != nil || got != "tok-1" {
		t.Errorf("Get = %q, %v, want tok-1", got, err)
	}
	info, err := os.Stat(kc.path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("secrets file mode = %v, want 0600", info.Mode().Perm())
	}
}
