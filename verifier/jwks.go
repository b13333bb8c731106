package verifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	keyfunc "github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig controls validation of JWT bearer tokens.
type JWTConfig struct {
	// Issuer is the required "iss" claim.
	Issuer string
	// Audience, when set, is required to appear in the "aud" claim.
	Audience string
	// AllowedAlgs restricts JWS algorithms. Defaults to RS256; "none" is
	// never allowed.
	AllowedAlgs []string
	// Leeway is the clock skew tolerance for time-based claims.
	// Defaults to one minute.
	Leeway time.Duration
}

func (cfg *JWTConfig) setDefaults() {
	if len(cfg.AllowedAlgs) == 0 {
		cfg.AllowedAlgs = []string{"RS256"}
	}
	if cfg.Leeway == 0 {
		cfg.Leeway = time.Minute
	}
}

type jwksVerifier struct {
	cfg     JWTConfig
	keyfunc jwt.Keyfunc
}

// NewJWKS returns a Verifier that validates JWT bearer tokens against the
// keys published at jwksURI. Keys are fetched eagerly and refreshed in the
// background for the lifetime of ctx.
func NewJWKS(ctx context.Context, cfg JWTConfig, jwksURI string) (Verifier, error) {
	if cfg.Issuer == "" {
		return nil, errors.New("verifier: issuer is required")
	}
	if jwksURI == "" {
		return nil, errors.New("verifier: JWKS URI is required")
	}
	cfg.setDefaults()

	kf, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURI})
	if err != nil {
		return nil, fmt.Errorf("verifier: failed to initialize JWKS: %w", err)
	}

	return &jwksVerifier{cfg: cfg, keyfunc: kf.Keyfunc}, nil
}

func (v *jwksVerifier) Verify(ctx context.Context, evidence BearerTokenEvidence) (bool, error) {
	if evidence.Token == "" {
		return false, nil
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(v.cfg.AllowedAlgs),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(v.cfg.Issuer),
		jwt.WithLeeway(v.cfg.Leeway),
	}
	if v.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}

	// A token that fails signature or claim checks is rejected evidence,
	// not a verifier failure
	if _, err := jwt.NewParser(opts...).Parse(evidence.Token, v.keyfunc); err != nil {
		return false, nil
	}
	return true, nil
}
