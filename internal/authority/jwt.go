package authority

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dropDatabas3/consentd/internal/claims"
	"github.com/google/uuid"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// JWTAuthority firma tokens EdDSA con una clave efímera generada al boot.
// Para rotación/keystore persistente este componente se reemplaza por el
// authority real; la interfaz no cambia.
type JWTAuthority struct {
	iss       string
	kid       string
	priv      ed25519.PrivateKey
	pub       ed25519.PublicKey
	accessTTL time.Duration

	// resources mapea scope → resource identifiers (viene de config).
	resources map[string][]string

	now func() time.Time
}

// NewJWT crea el authority con una clave Ed25519 nueva.
func NewJWT(iss string, accessTTL time.Duration, resources map[string][]string) (*JWTAuthority, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &JWTAuthority{
		iss:       iss,
		kid:       uuid.NewString(),
		priv:      priv,
		pub:       pub,
		accessTTL: accessTTL,
		resources: resources,
		now:       time.Now,
	}, nil
}

// ListResourcesForScopes implementa TokenAuthority.
func (a *JWTAuthority) ListResourcesForScopes(ctx context.Context, scopes []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []string
	for _, sc := range scopes {
		for _, res := range a.resources[sc] {
			if !seen[res] {
				seen[res] = true
				out = append(out, res)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// SignIn implementa TokenAuthority: un access token siempre, un id token
// sólo si algún claim está destinado a él.
func (a *JWTAuthority) SignIn(ctx context.Context, p *claims.Principal) (*TokenSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := a.now()
	exp := now.Add(a.accessTTL)

	access := a.baseClaims(p, now, exp)
	access["scope"] = strings.Join(p.Scopes, " ")
	if len(p.Resources) > 0 {
		access["aud"] = p.Resources
	}
	a.embed(access, p, claims.DestinationAccessToken)

	signedAccess, err := a.sign(access)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	ts := &TokenSet{
		AccessToken: signedAccess,
		TokenType:   "Bearer",
		ExpiresIn:   int64(exp.Sub(now).Seconds()),
	}

	if hasDestination(p, claims.DestinationIdentityToken) {
		id := a.baseClaims(p, now, exp)
		a.embed(id, p, claims.DestinationIdentityToken)
		signedID, err := a.sign(id)
		if err != nil {
			return nil, fmt.Errorf("sign id token: %w", err)
		}
		ts.IdentityToken = signedID
	}

	return ts, nil
}

// Keyfunc resuelve la clave pública para verificación (middleware admin).
func (a *JWTAuthority) Keyfunc() jwtv5.Keyfunc {
	return func(t *jwtv5.Token) (any, error) {
		return a.pub, nil
	}
}

// Issuer retorna el "iss" configurado.
func (a *JWTAuthority) Issuer() string { return a.iss }

func (a *JWTAuthority) baseClaims(p *claims.Principal, now, exp time.Time) jwtv5.MapClaims {
	mc := jwtv5.MapClaims{
		"iss": a.iss,
		"sub": p.Subject,
		"iat": now.Unix(),
		"exp": exp.Unix(),
		"jti": uuid.NewString(),
	}
	if p.AuthorizationID != "" {
		mc["authorization_id"] = p.AuthorizationID
	}
	return mc
}

// embed copia al MapClaims los claims destinados al token dado.
// El claim "role" puede repetirse; se acumula como lista.
func (a *JWTAuthority) embed(mc jwtv5.MapClaims, p *claims.Principal, dest claims.Destination) {
	for _, c := range p.Claims {
		if c.Name == claims.ClaimSubject || !destinedTo(c, dest) {
			continue
		}
		if c.Name == claims.ClaimRole {
			roles, _ := mc["roles"].([]string)
			mc["roles"] = append(roles, c.Value)
			continue
		}
		mc[c.Name] = c.Value
	}
}

func (a *JWTAuthority) sign(mc jwtv5.MapClaims) (string, error) {
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, mc)
	tk.Header["kid"] = a.kid
	tk.Header["typ"] = "JWT"
	return tk.SignedString(a.priv)
}

func destinedTo(c claims.Claim, dest claims.Destination) bool {
	for _, d := range c.Destinations {
		if d == dest {
			return true
		}
	}
	return false
}

func hasDestination(p *claims.Principal, dest claims.Destination) bool {
	for _, c := range p.Claims {
		if destinedTo(c, dest) {
			return true
		}
	}
	return false
}
