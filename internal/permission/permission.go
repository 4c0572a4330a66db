// Package permission models the permission set attached to a client
// application: scopes, grant types, response types and endpoints.
//
// Entries are typed (Kind + Value) instead of prefix-encoded strings so the
// derivation rules below cannot be broken by prefix parsing. The storage
// encoding (String/Parse) keeps the conventional "scope:email" form.
package permission

import (
	"fmt"
	"strings"
)

// Kind tags a permission entry.
type Kind string

const (
	KindScope        Kind = "scope"
	KindGrantType    Kind = "grant_type"
	KindResponseType Kind = "response_type"
	KindEndpoint     Kind = "endpoint"
)

// Grant type values.
const (
	GrantAuthorizationCode = "authorization_code"
	GrantPassword          = "password"
	GrantClientCredentials = "client_credentials"
	GrantRefreshToken      = "refresh_token"
)

// Response type values.
const (
	ResponseCode    = "code"
	ResponseIDToken = "id_token"
)

// Endpoint values.
const (
	EndpointAuthorization = "authorization"
	EndpointToken         = "token"
)

// Permission is one entry of a client's permission set.
type Permission struct {
	Kind  Kind
	Value string
}

// Scope builds a scope permission.
func Scope(v string) Permission { return Permission{Kind: KindScope, Value: v} }

// GrantType builds a grant type permission.
func GrantType(v string) Permission { return Permission{Kind: KindGrantType, Value: v} }

// ResponseType builds a response type permission.
func ResponseType(v string) Permission { return Permission{Kind: KindResponseType, Value: v} }

// Endpoint builds an endpoint permission.
func Endpoint(v string) Permission { return Permission{Kind: KindEndpoint, Value: v} }

// String encodes the permission in its storage form, e.g. "scope:email".
func (p Permission) String() string {
	return string(p.Kind) + ":" + p.Value
}

// Parse decodes the storage form back into a Permission.
func Parse(s string) (Permission, error) {
	i := strings.IndexByte(s, ':')
	if i <= 0 || i == len(s)-1 {
		return Permission{}, fmt.Errorf("malformed permission %q", s)
	}
	k := Kind(s[:i])
	switch k {
	case KindScope, KindGrantType, KindResponseType, KindEndpoint:
		return Permission{Kind: k, Value: s[i+1:]}, nil
	default:
		return Permission{}, fmt.Errorf("unknown permission kind %q", s[:i])
	}
}
