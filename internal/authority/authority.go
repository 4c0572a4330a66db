// Package authority defines the token/credential authority collaborator.
// Token signing and scope→resource mapping live behind this interface; the
// decision engine never deals with key material.
package authority

import (
	"context"

	"github.com/dropDatabas3/consentd/internal/claims"
)

// TokenSet is the result of signing in a principal.
type TokenSet struct {
	AccessToken   string `json:"access_token"`
	IdentityToken string `json:"id_token,omitempty"`
	TokenType     string `json:"token_type"`
	ExpiresIn     int64  `json:"expires_in"`
}

// TokenAuthority issues tokens for a fully tagged principal.
type TokenAuthority interface {
	// ListResourcesForScopes maps granted scopes to the resource servers
	// (audiences) they unlock.
	ListResourcesForScopes(ctx context.Context, scopes []string) ([]string, error)

	// SignIn mints the token set for the principal. Claim destinations must
	// already be applied; claims without a destination are never embedded.
	SignIn(ctx context.Context, p *claims.Principal) (*TokenSet, error)
}
