// Package claims models the principal handed to the token authority and
// the policy deciding which token types each claim may appear in.
package claims

import (
	"strings"

	"github.com/dropDatabas3/consentd/internal/domain/repository"
)

// Well-known claim names.
const (
	ClaimSubject = "sub"
	ClaimName    = "name"
	ClaimEmail   = "email"
	ClaimPhone   = "phone_number"
	ClaimRole    = "role"
)

// Scope required for identity claims like "name".
const ScopeProfile = "profile"

// Claim is a single identity claim on a principal.
type Claim struct {
	Name  string
	Value string
	// Secret marks claims confined to authorization codes and refresh
	// tokens; those are always encrypted and issued outside this service.
	Secret bool
	// Destinations is filled by the destination policy before sign-in.
	Destinations []Destination
}

// Principal is the signed-in identity handed to the token authority.
type Principal struct {
	Subject         string
	Claims          []Claim
	Scopes          []string
	Resources       []string
	AuthorizationID string
}

// NewPrincipal builds a principal from a user record.
func NewPrincipal(u *repository.User) *Principal {
	p := &Principal{Subject: u.ID}
	p.Claims = append(p.Claims,
		Claim{Name: ClaimSubject, Value: u.ID},
		Claim{Name: ClaimName, Value: u.Username},
		Claim{Name: ClaimEmail, Value: u.Email},
		Claim{Name: ClaimPhone, Value: u.Phone, Secret: true},
	)
	for _, r := range u.Roles {
		p.Claims = append(p.Claims, Claim{Name: ClaimRole, Value: r})
	}
	return p
}

// SetScopes replaces the granted scopes.
func (p *Principal) SetScopes(scopes []string) {
	p.Scopes = append([]string(nil), scopes...)
}

// SetResources replaces the resource identifiers derived from the scopes.
func (p *Principal) SetResources(resources []string) {
	p.Resources = append([]string(nil), resources...)
}

// HasScope reports whether the principal was granted the scope.
func (p *Principal) HasScope(scope string) bool {
	for _, s := range p.Scopes {
		if strings.EqualFold(s, scope) {
			return true
		}
	}
	return false
}

// ApplyDestinations runs the destination policy over every claim.
// Must be called after SetScopes and before sign-in.
func (p *Principal) ApplyDestinations() {
	for i := range p.Claims {
		p.Claims[i].Destinations = Destinations(p.Claims[i], p.Scopes)
	}
}
