package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "config.toml")
	content := `
discovery_url = "https://issuer.example/.well-known/openid-configuration"

[verifier]
mode = "jwks"
issuer = "https://issuer.example"
audience = "imap.example.com"
jwks_uri = "https://issuer.example/keys"
leeway_seconds = 30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DiscoveryURL != "https://issuer.example/.well-known/openid-configuration" {
		t.Errorf("unexpected discovery_url: %q", cfg.DiscoveryURL)
	}
	if cfg.Verifier.Mode != "jwks" {
		t.Errorf("unexpected verifier.mode: %q", cfg.Verifier.Mode)
	}
	if cfg.Verifier.JWKSURI != "https://issuer.example/keys" {
		t.Errorf("unexpected verifier.jwks_uri: %q", cfg.Verifier.JWKSURI)
	}
	if cfg.Verifier.LeewaySeconds != 30 {
		t.Errorf("unexpected verifier.leeway_seconds: %d", cfg.Verifier.LeewaySeconds)
	}
}

func TestLoadConfig_badMode(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[verifier]\nmode = \"ldap\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := loadConfig(path); err == nil {
		t.Fatal("loadConfig succeeded with an unknown mode")
	}
}

func TestLoadConfig_missingMode(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := loadConfig(path); err == nil {
		t.Fatal("loadConfig succeeded without a mode")
	}
}
