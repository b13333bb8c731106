// Package oauthbearer implements the server side of the SASL OAUTHBEARER
// mechanism.
//
// OAUTHBEARER is defined in RFC 7628. The client sends a single initial
// response carrying a GS2 header and a bearer token; the server hands the
// token to a verifier and either accepts the exchange or answers with a
// base64-encoded JSON error message that may advertise the authorization
// server's discovery document.
package oauthbearer

import (
	"fmt"
)

// MechanismName is the SASL name of this mechanism.
const MechanismName = "OAUTHBEARER"

// ConfigOpenIDConfigurationURL is the server configuration key holding the
// URL of the authorization server's OpenID Connect discovery document. When
// set, the URL is advertised in error messages so clients can find out
// where to obtain a token.
const ConfigOpenIDConfigurationURL = "openid-configuration"

// Config is the read-only server configuration consulted by the mechanism.
// It must not be mutated once handed to a Server.
type Config map[string]interface{}

// ErrorCode describes the way an authentication attempt failed.
type ErrorCode string

const (
	// The client asked for channel binding, which this server never
	// supports for OAUTHBEARER.
	ErrorCodeChannelBindingUnsupported ErrorCode = "channel-binding-unsupported"
	// The message is well-framed but carries a bad field or an
	// unsupported auth scheme.
	ErrorCodeInvalidMessage ErrorCode = "invalid-message"
	// The message ended before a required byte or delimiter.
	ErrorCodeInvalidMessageReceived ErrorCode = "invalid-message-received"
	// The verifier cannot process bearer token evidence.
	ErrorCodeAuthorizationUnsupported ErrorCode = "authorization-unsupported"
)

// Error is a fatal mechanism error. All errors are terminal for the
// current authentication attempt: the caller decides whether to abort the
// session or ask the client to start over.
type Error struct {
	Code ErrorCode
	Text string
}

// Error implements the error interface.
func (err *Error) Error() string {
	return fmt.Sprintf("oauthbearer: %v", err.Text)
}

func newError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Text: fmt.Sprintf(format, args...)}
}
