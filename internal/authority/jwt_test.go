package authority

import (
	"context"
	"testing"
	"time"

	"github.com/dropDatabas3/consentd/internal/claims"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestListResourcesForScopes(t *testing.T) {
	a, err := NewJWT("https://issuer.test", time.Minute, map[string][]string{
		"profile": {"api://users"},
		"orders":  {"api://orders", "api://users"},
	})
	require.NoError(t, err)

	res, err := a.ListResourcesForScopes(context.Background(), []string{"profile", "orders", "unknown"})
	require.NoError(t, err)
	require.Equal(t, []string{"api://orders", "api://users"}, res)
}

func TestSignIn_RespectsDestinations(t *testing.T) {
	a, err := NewJWT("https://issuer.test", time.Minute, nil)
	require.NoError(t, err)

	p := &claims.Principal{
		Subject:         "u1",
		Scopes:          []string{"openid", "profile"},
		AuthorizationID: "authz-1",
		Claims: []claims.Claim{
			{Name: claims.ClaimSubject, Value: "u1"},
			{Name: claims.ClaimName, Value: "john"},
			{Name: claims.ClaimEmail, Value: "john@example.com"},
			{Name: claims.ClaimPhone, Value: "+123", Secret: true},
		},
	}
	p.ApplyDestinations()

	ts, err := a.SignIn(context.Background(), p)
	require.NoError(t, err)
	require.NotEmpty(t, ts.AccessToken)
	require.NotEmpty(t, ts.IdentityToken, "name claim targets the id token, so one must be issued")
	require.Equal(t, "Bearer", ts.TokenType)

	parse := func(raw string) jwtv5.MapClaims {
		tk, err := jwtv5.Parse(raw, a.Keyfunc(), jwtv5.WithValidMethods([]string{"EdDSA"}))
		require.NoError(t, err)
		mc, ok := tk.Claims.(jwtv5.MapClaims)
		require.True(t, ok)
		return mc
	}

	access := parse(ts.AccessToken)
	require.Equal(t, "u1", access["sub"])
	require.Equal(t, "john", access["name"])
	require.Equal(t, "john@example.com", access["email"])
	require.Equal(t, "authz-1", access["authorization_id"])
	require.NotContains(t, access, "phone_number", "secret claims are never embedded")

	id := parse(ts.IdentityToken)
	require.Equal(t, "john", id["name"])
	require.NotContains(t, id, "email", "email defaults to access token only")
	require.NotContains(t, id, "phone_number")
}

func TestSignIn_NoIdentityTokenWithoutProfile(t *testing.T) {
	a, err := NewJWT("https://issuer.test", time.Minute, nil)
	require.NoError(t, err)

	p := &claims.Principal{
		Subject: "u1",
		Scopes:  []string{"openid"},
		Claims: []claims.Claim{
			{Name: claims.ClaimName, Value: "john"},
			{Name: claims.ClaimEmail, Value: "john@example.com"},
		},
	}
	p.ApplyDestinations()

	ts, err := a.SignIn(context.Background(), p)
	require.NoError(t, err)
	require.Empty(t, ts.IdentityToken)
}
