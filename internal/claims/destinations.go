package claims

// Destination is a token type a claim may be embedded in.
type Destination string

const (
	DestinationAccessToken   Destination = "access_token"
	DestinationIdentityToken Destination = "id_token"
)

// Destinations decides which token types the claim may appear in, given
// the granted scopes. Rules, in order:
//
//  1. "name" goes to both tokens, and only when "profile" was granted.
//  2. Secret claims go nowhere (they stay confined to authorization codes
//     and refresh tokens, which are always encrypted).
//  3. Everything else goes to the access token only.
func Destinations(c Claim, grantedScopes []string) []Destination {
	if c.Name == ClaimName {
		if containsScope(grantedScopes, ScopeProfile) {
			return []Destination{DestinationAccessToken, DestinationIdentityToken}
		}
		return nil
	}
	if c.Secret {
		return nil
	}
	return []Destination{DestinationAccessToken}
}

func containsScope(scopes []string, want string) bool {
	for _, s := range scopes {
		if s == want {
			return true
		}
	}
	return false
}
