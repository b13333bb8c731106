package oauthbearer_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/saslx/go-oauthbearer"
	"github.com/saslx/go-oauthbearer/verifier"
)

func staticVerifier(verified bool) verifier.Verifier {
	return verifier.VerifierFunc(func(ctx context.Context, evidence verifier.BearerTokenEvidence) (bool, error) {
		return verified, nil
	})
}

func parse(t *testing.T, in string) *oauthbearer.InitialClientMessage {
	t.Helper()
	msg, err := oauthbearer.ParseInitialClientMessage([]byte(in))
	require.NoError(t, err)
	return msg
}

func TestEvaluateInitialResponse_verified(t *testing.T) {
	srv := oauthbearer.NewServer("", staticVerifier(true), nil)

	payload, err := srv.EvaluateInitialResponse(context.Background(), parse(t, "n,,auth=Bearer abc123"))
	require.NoError(t, err)
	require.NotNil(t, payload)
	require.Empty(t, payload)
}

func TestEvaluateInitialResponse_rejected(t *testing.T) {
	srv := oauthbearer.NewServer("", staticVerifier(false), nil)

	payload, err := srv.EvaluateInitialResponse(context.Background(), parse(t, "n,,auth=Bearer abc123"))
	require.NoError(t, err)

	want := base64.StdEncoding.EncodeToString([]byte(`{"status":"invalid_token"}`))
	require.Equal(t, want, string(payload))
}

func TestEvaluateInitialResponse_rejectedWithDiscoveryURL(t *testing.T) {
	srv := oauthbearer.NewServer("", staticVerifier(false), oauthbearer.Config{
		oauthbearer.ConfigOpenIDConfigurationURL: "https://issuer.example/.well-known",
	})

	payload, err := srv.EvaluateInitialResponse(context.Background(), parse(t, "n,,auth=Bearer abc123"))
	require.NoError(t, err)

	// Field order is stable: status first, then the discovery URL
	want := base64.StdEncoding.EncodeToString(
		[]byte(`{"status":"invalid_token","openid-configuration":"https://issuer.example/.well-known"}`))
	require.Equal(t, want, string(payload))
}

func TestEvaluateInitialResponse_verifierSeesToken(t *testing.T) {
	var got string
	v := verifier.VerifierFunc(func(ctx context.Context, evidence verifier.BearerTokenEvidence) (bool, error) {
		got = evidence.Token
		return true, nil
	})
	srv := oauthbearer.NewServer("", v, nil)

	_, err := srv.EvaluateInitialResponse(context.Background(), parse(t, "n,,auth=Bearer abc123"))
	require.NoError(t, err)
	require.Equal(t, "abc123", got)
}

func TestEvaluateInitialResponse_unsupportedScheme(t *testing.T) {
	srv := oauthbearer.NewServer("", staticVerifier(true), nil)

	_, err := srv.EvaluateInitialResponse(context.Background(), parse(t, "n,,auth=Basic dXNlcjpwYXNz"))
	require.Error(t, err)

	var mechErr *oauthbearer.Error
	require.ErrorAs(t, err, &mechErr)
	require.Equal(t, oauthbearer.ErrorCodeInvalidMessage, mechErr.Code)
}

func TestEvaluateInitialResponse_evidenceUnsupported(t *testing.T) {
	v := verifier.VerifierFunc(func(ctx context.Context, evidence verifier.BearerTokenEvidence) (bool, error) {
		return false, fmt.Errorf("no bearer handler: %w", verifier.ErrEvidenceUnsupported)
	})
	srv := oauthbearer.NewServer("", v, nil)

	_, err := srv.EvaluateInitialResponse(context.Background(), parse(t, "n,,auth=Bearer abc123"))
	require.Error(t, err)

	var mechErr *oauthbearer.Error
	require.ErrorAs(t, err, &mechErr)
	require.Equal(t, oauthbearer.ErrorCodeAuthorizationUnsupported, mechErr.Code)
}

func TestEvaluateInitialResponse_verifierError(t *testing.T) {
	wantErr := errors.New("introspection endpoint is down")
	v := verifier.VerifierFunc(func(ctx context.Context, evidence verifier.BearerTokenEvidence) (bool, error) {
		return false, wantErr
	})
	srv := oauthbearer.NewServer("", v, nil)

	_, err := srv.EvaluateInitialResponse(context.Background(), parse(t, "n,,auth=Bearer abc123"))
	require.ErrorIs(t, err, wantErr)
}

func TestNewServer_defaultMechanism(t *testing.T) {
	srv := oauthbearer.NewServer("", staticVerifier(true), nil)
	require.Equal(t, oauthbearer.MechanismName, srv.Mechanism())

	srv = oauthbearer.NewServer("OAUTH2", staticVerifier(true), nil)
	require.Equal(t, "OAUTH2", srv.Mechanism())
}
