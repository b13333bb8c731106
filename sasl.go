package oauthbearer

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/emersion/go-sasl"
)

// ErrAuthenticationFailed terminates the exchange after the server has
// sent its error message and the client has acknowledged it.
var ErrAuthenticationFailed = errors.New("oauthbearer: authentication failed")

// Logger reports diagnostics from the SASL adapters. Token material is
// never logged.
type Logger interface {
	Printf(format string, args ...interface{})
}

// ServerOptions configures the SASL server adapter.
type ServerOptions struct {
	// Logger for rejected attempts. Defaults to log.Default().
	Logger Logger
	// PrepareIdentity runs the authorization identity through
	// PrepareAuthorizationIdentity before evaluation and rejects
	// identities that do not survive preparation.
	PrepareIdentity bool
}

type saslServer struct {
	ctx     context.Context
	server  *Server
	options ServerOptions
	failed  error
	done    bool
}

// NewOAuthBearerServer wraps a Server in the go-sasl Server interface.
//
// The mechanism is single-shot: the first client response is parsed and
// evaluated, and the exchange either completes or, per RFC 7628 section
// 3.2.3, the client receives the error message as a challenge and its
// dummy acknowledgement terminates the exchange with
// ErrAuthenticationFailed. ctx bounds the verifier call; options may be
// nil.
func NewOAuthBearerServer(ctx context.Context, srv *Server, options *ServerOptions) sasl.Server {
	a := &saslServer{ctx: ctx, server: srv}
	if options != nil {
		a.options = *options
	}
	return a
}

func (a *saslServer) logger() Logger {
	if a.options.Logger == nil {
		return log.Default()
	}
	return a.options.Logger
}

func (a *saslServer) Next(response []byte) (challenge []byte, done bool, err error) {
	if a.done {
		return nil, false, sasl.ErrUnexpectedClientResponse
	}
	if a.failed != nil {
		// The client acknowledged the error message
		a.done = true
		return nil, false, a.failed
	}

	// No initial response, send an empty challenge
	if response == nil {
		return []byte{}, false, nil
	}

	msg, err := ParseInitialClientMessage(response)
	if err != nil {
		a.done = true
		return nil, false, err
	}

	if a.options.PrepareIdentity {
		if authzID, ok := msg.AuthorizationIdentity(); ok {
			if _, err := PrepareAuthorizationIdentity(authzID); err != nil {
				a.done = true
				return nil, false, newError(ErrorCodeInvalidMessage, "malformed authorization identity: %v", err)
			}
		}
	}

	payload, err := a.server.EvaluateInitialResponse(a.ctx, msg)
	if err != nil {
		a.done = true
		return nil, false, err
	}
	if len(payload) == 0 {
		a.done = true
		return nil, true, nil
	}

	a.logger().Printf("oauthbearer: rejected bearer token, sending error message")
	a.failed = ErrAuthenticationFailed
	return payload, false, nil
}

// ClientOptions configures the OAUTHBEARER client mechanism.
type ClientOptions struct {
	// Token is the bearer token, without the "Bearer " prefix.
	Token string
	// AuthzID is the optional authorization identity for the GS2 header.
	AuthzID string
	// Host and Port describe the server the client is connecting to.
	// They are included as key/value pairs when set.
	Host string
	Port string
}

type oauthBearerClient struct {
	options   ClientOptions
	responded bool
}

// NewOAuthBearerClient returns the client side of the mechanism, emitting
// the same key/value dialect this package's server parses.
func NewOAuthBearerClient(options *ClientOptions) sasl.Client {
	a := &oauthBearerClient{}
	if options != nil {
		a.options = *options
	}
	return a
}

func (a *oauthBearerClient) Start() (mech string, ir []byte, err error) {
	if a.options.Token == "" {
		return "", nil, errors.New("oauthbearer: token must be set")
	}

	var sb strings.Builder
	sb.WriteString("n,")
	if a.options.AuthzID != "" {
		sb.WriteString("a=")
		sb.WriteString(a.options.AuthzID)
	}
	sb.WriteString(",")
	if a.options.Host != "" {
		sb.WriteString("host=")
		sb.WriteString(a.options.Host)
		sb.WriteString(kvDelimiter)
	}
	if a.options.Port != "" {
		sb.WriteString("port=")
		sb.WriteString(a.options.Port)
		sb.WriteString(kvDelimiter)
	}
	sb.WriteString("auth=")
	sb.WriteString(bearerScheme)
	sb.WriteString(" ")
	sb.WriteString(a.options.Token)

	return MechanismName, []byte(sb.String()), nil
}

func (a *oauthBearerClient) Next(challenge []byte) (response []byte, err error) {
	if a.responded {
		return nil, sasl.ErrUnexpectedServerChallenge
	}
	a.responded = true
	// The challenge is the server's error message; acknowledge it with
	// the dummy response so the server can fail the exchange cleanly
	return []byte(kvDelimiter), nil
}
