package oauthbearer

import (
	"fmt"

	"golang.org/x/text/secure/precis"
)

// PrepareAuthorizationIdentity runs an authorization identity through the
// PRECIS UsernameCaseMapped profile (RFC 8265) and returns the prepared
// form.
//
// The parser stores the identity exactly as the client sent it; callers
// that compare or look up identities should prepare them first so that
// visually identical identities do not map to different accounts.
func PrepareAuthorizationIdentity(identity string) (string, error) {
	prepared, err := precis.UsernameCaseMapped.String(identity)
	if err != nil {
		return "", fmt.Errorf("oauthbearer: invalid authorization identity: %w", err)
	}
	return prepared, nil
}
