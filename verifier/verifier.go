// Package verifier checks bearer token evidence on behalf of the
// OAUTHBEARER server mechanism.
//
// The mechanism itself never interprets tokens: it wraps whatever the
// client presented in a BearerTokenEvidence and hands it to a Verifier.
// This package provides the interface plus implementations backed by a
// JWKS endpoint, OpenID Connect discovery and RFC 7662 token
// introspection.
package verifier

import (
	"context"
	"errors"
)

// ErrEvidenceUnsupported indicates that a verifier cannot process the
// supplied evidence kind at all, as opposed to having rejected it.
var ErrEvidenceUnsupported = errors.New("verifier: evidence kind not supported")

// BearerTokenEvidence wraps a bearer token presented by a client.
type BearerTokenEvidence struct {
	Token string
}

// A Verifier decides whether presented evidence is valid.
//
// Verify returns (false, nil) when the evidence was understood but
// rejected: the mechanism then answers the client with an error message
// rather than failing the exchange. Implementations must be safe for
// concurrent use and honor ctx for any network or storage lookups; the
// mechanism imposes no timeout of its own.
type Verifier interface {
	Verify(ctx context.Context, evidence BearerTokenEvidence) (bool, error)
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(ctx context.Context, evidence BearerTokenEvidence) (bool, error)

func (f VerifierFunc) Verify(ctx context.Context, evidence BearerTokenEvidence) (bool, error) {
	return f(ctx, evidence)
}
