package verifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

// DiscoveryVerifier validates JWT bearer tokens with keys located through
// OpenID Connect discovery.
type DiscoveryVerifier struct {
	Verifier

	configurationURL string
}

// NewFromDiscovery fetches the issuer's discovery document, locates its
// jwks_uri and returns a verifier backed by those keys. cfg.Issuer is
// required and doubles as the discovery base URL.
func NewFromDiscovery(ctx context.Context, cfg JWTConfig) (*DiscoveryVerifier, error) {
	if cfg.Issuer == "" {
		return nil, errors.New("verifier: issuer is required")
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("verifier: OIDC discovery failed: %w", err)
	}

	var meta struct {
		JWKSURI string `json:"jwks_uri"`
	}
	if err := provider.Claims(&meta); err != nil {
		return nil, fmt.Errorf("verifier: invalid discovery metadata: %w", err)
	}
	if meta.JWKSURI == "" {
		return nil, errors.New("verifier: discovery document is missing jwks_uri")
	}

	inner, err := NewJWKS(ctx, cfg, meta.JWKSURI)
	if err != nil {
		return nil, err
	}

	return &DiscoveryVerifier{
		Verifier:         inner,
		configurationURL: strings.TrimSuffix(cfg.Issuer, "/") + "/.well-known/openid-configuration",
	}, nil
}

// ConfigurationURL returns the URL of the discovery document, suitable for
// the mechanism's openid-configuration server config entry so that
// rejected clients learn where to obtain a token.
func (v *DiscoveryVerifier) ConfigurationURL() string {
	return v.configurationURL
}
