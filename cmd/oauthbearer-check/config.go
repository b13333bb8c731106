package main

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/saslx/go-oauthbearer/verifier"
)

// oauthbearer-check config.toml key mapping.
type fileConfig struct {
	// discovery_url is advertised to rejected clients. Defaults to the
	// issuer's well-known URL when the discovery verifier is used.
	DiscoveryURL string         `toml:"discovery_url"`
	Verifier     verifierConfig `toml:"verifier"`
}

type verifierConfig struct {
	Mode          string   `toml:"mode"` // "jwks", "discovery" or "introspection"
	Issuer        string   `toml:"issuer"`
	Audience      string   `toml:"audience"`
	JWKSURI       string   `toml:"jwks_uri"`
	AllowedAlgs   []string `toml:"allowed_algs"`
	LeewaySeconds int      `toml:"leeway_seconds"`
	Endpoint      string   `toml:"endpoint"`
	ClientID      string   `toml:"client_id"`
	ClientSecret  string   `toml:"client_secret"`
	TokenURL      string   `toml:"token_url"`
}

func loadConfig(path string) (*fileConfig, error) {
	var cfg fileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	switch cfg.Verifier.Mode {
	case "jwks", "discovery", "introspection":
	case "":
		return nil, fmt.Errorf("load config: verifier.mode is required")
	default:
		return nil, fmt.Errorf("load config: unknown verifier.mode %q", cfg.Verifier.Mode)
	}
	return &cfg, nil
}

// buildVerifier constructs the configured verifier and the discovery URL
// to advertise in error messages (empty when none applies).
func (cfg *fileConfig) buildVerifier(ctx context.Context) (verifier.Verifier, string, error) {
	jwtCfg := verifier.JWTConfig{
		Issuer:      cfg.Verifier.Issuer,
		Audience:    cfg.Verifier.Audience,
		AllowedAlgs: cfg.Verifier.AllowedAlgs,
		Leeway:      time.Duration(cfg.Verifier.LeewaySeconds) * time.Second,
	}

	switch cfg.Verifier.Mode {
	case "jwks":
		v, err := verifier.NewJWKS(ctx, jwtCfg, cfg.Verifier.JWKSURI)
		return v, cfg.DiscoveryURL, err
	case "discovery":
		v, err := verifier.NewFromDiscovery(ctx, jwtCfg)
		if err != nil {
			return nil, "", err
		}
		discoveryURL := cfg.DiscoveryURL
		if discoveryURL == "" {
			discoveryURL = v.ConfigurationURL()
		}
		return v, discoveryURL, nil
	case "introspection":
		v, err := verifier.NewIntrospection(ctx, verifier.IntrospectionConfig{
			Endpoint:     cfg.Verifier.Endpoint,
			ClientID:     cfg.Verifier.ClientID,
			ClientSecret: cfg.Verifier.ClientSecret,
			TokenURL:     cfg.Verifier.TokenURL,
		})
		return v, cfg.DiscoveryURL, err
	}
	panic("unreachable")
}
