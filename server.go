package oauthbearer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/saslx/go-oauthbearer/verifier"
)

// Server evaluates OAUTHBEARER authentication attempts.
//
// A Server carries no per-attempt state: its fields are fixed at
// construction and it may be shared across concurrent attempts, provided
// the verifier is itself safe for concurrent use.
type Server struct {
	mechanism string
	verifier  verifier.Verifier
	config    Config
}

// NewServer returns a server for the given mechanism name, token verifier
// and read-only configuration. An empty mechanism name defaults to
// MechanismName. config may be nil.
func NewServer(mechanism string, v verifier.Verifier, config Config) *Server {
	if mechanism == "" {
		mechanism = MechanismName
	}
	return &Server{mechanism: mechanism, verifier: v, config: config}
}

// Mechanism returns the SASL mechanism name this server was built for.
func (s *Server) Mechanism() string {
	return s.mechanism
}

// EvaluateInitialResponse classifies the parsed client message and drives
// token verification.
//
// It returns a zero-length payload when the token verified (the exchange
// completes without further challenge), the encoded error message when it
// did not, and an error when the message cannot be evaluated at all.
func (s *Server) EvaluateInitialResponse(ctx context.Context, msg *InitialClientMessage) ([]byte, error) {
	token, ok := msg.BearerToken()
	if !ok {
		return nil, newError(ErrorCodeInvalidMessage, "unsupported auth scheme in mechanism %v", s.mechanism)
	}

	verified, err := s.verifier.Verify(ctx, verifier.BearerTokenEvidence{Token: token})
	if err != nil {
		if errors.Is(err, verifier.ErrEvidenceUnsupported) {
			return nil, newError(ErrorCodeAuthorizationUnsupported, "mechanism %v cannot verify bearer tokens: %v", s.mechanism, err)
		}
		return nil, err
	}
	if verified {
		return []byte{}, nil
	}

	return s.errorMessage(), nil
}

// errorMessage builds the RFC 7628 server error message: a base64-encoded
// JSON object with a fixed "invalid_token" status and, when configured,
// the discovery document URL.
func (s *Server) errorMessage() []byte {
	errMsg := struct {
		Status              string `json:"status"`
		OpenIDConfiguration string `json:"openid-configuration,omitempty"`
	}{Status: "invalid_token"}

	if v, ok := s.config[ConfigOpenIDConfigurationURL]; ok && v != nil {
		errMsg.OpenIDConfiguration = fmt.Sprint(v)
	}

	b, err := json.Marshal(&errMsg)
	if err != nil {
		panic(fmt.Errorf("oauthbearer: failed to encode error message: %v", err))
	}

	out := make([]byte, base64.StdEncoding.EncodedLen(len(b)))
	base64.StdEncoding.Encode(out, b)
	return out
}
