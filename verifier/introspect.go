package verifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// IntrospectionConfig describes an RFC 7662 token introspection endpoint.
type IntrospectionConfig struct {
	// Endpoint is the introspection endpoint URL.
	Endpoint string
	// ClientID and ClientSecret authenticate this server to the
	// endpoint with HTTP basic auth (client_secret_basic).
	ClientID     string
	ClientSecret string
	// TokenURL, when set, switches to an OAuth2 client-credentials grant:
	// requests carry a bearer token obtained from this URL instead of
	// basic auth.
	TokenURL string
	// Scopes for the client-credentials grant.
	Scopes []string
	// HTTPClient overrides the client used for introspection requests.
	HTTPClient *http.Client
}

type introspectionVerifier struct {
	cfg    IntrospectionConfig
	client *http.Client
}

// NewIntrospection returns a Verifier that asks an RFC 7662 introspection
// endpoint whether a token is active. ctx bounds the lifetime of the
// client-credentials token source, when one is configured.
func NewIntrospection(ctx context.Context, cfg IntrospectionConfig) (Verifier, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("verifier: introspection endpoint is required")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		client = cc.Client(context.WithValue(ctx, oauth2.HTTPClient, client))
	}

	return &introspectionVerifier{cfg: cfg, client: client}, nil
}

func (v *introspectionVerifier) Verify(ctx context.Context, evidence BearerTokenEvidence) (bool, error) {
	data := url.Values{}
	data.Set("token", evidence.Token)
	data.Set("token_type_hint", "access_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.Endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return false, fmt.Errorf("verifier: failed to build introspection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if v.cfg.TokenURL == "" && v.cfg.ClientID != "" {
		req.SetBasicAuth(v.cfg.ClientID, v.cfg.ClientSecret)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("verifier: introspection request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("verifier: introspection endpoint returned %v", resp.Status)
	}

	var result struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("verifier: malformed introspection response: %w", err)
	}
	return result.Active, nil
}
