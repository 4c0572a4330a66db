package permission

import (
	"reflect"
	"testing"
)

func TestBuild_AuthorizationCodeDerivation(t *testing.T) {
	s := Build([]string{"openid", "profile"}, []string{GrantAuthorizationCode})

	want := []Permission{
		Scope("openid"),
		Scope("profile"),
		GrantType(GrantAuthorizationCode),
		ResponseType(ResponseCode),
		ResponseType(ResponseIDToken),
		Endpoint(EndpointAuthorization),
		Endpoint(EndpointToken),
	}
	if got := s.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Fatalf("derived set mismatch:\n got  %v\n want %v", got, want)
	}
}

func TestBuild_PasswordAndClientCredentialsDeriveNothing(t *testing.T) {
	for _, gt := range []string{GrantPassword, GrantClientCredentials} {
		s := Build([]string{"email"}, []string{gt})
		if s.Len() != 2 {
			t.Fatalf("grant %q: expected only explicit entries, got %v", gt, s.Snapshot())
		}
		if len(s.Values(KindResponseType)) != 0 || len(s.Values(KindEndpoint)) != 0 {
			t.Fatalf("grant %q: unexpected derived entries: %v", gt, s.Snapshot())
		}
	}
}

func TestBuild_MixedGrantsDeriveOnce(t *testing.T) {
	// Two derivation sources must not duplicate the derived entries.
	s := Build(nil, []string{GrantAuthorizationCode, GrantPassword, GrantAuthorizationCode})
	if got := len(s.Values(KindResponseType)); got != 2 {
		t.Fatalf("expected 2 response types, got %d", got)
	}
	if got := len(s.Values(KindEndpoint)); got != 2 {
		t.Fatalf("expected 2 endpoints, got %d", got)
	}
}

func TestSet_AddIsIdempotent(t *testing.T) {
	var s Set
	s.Add(Scope("profile"))
	s.Add(Scope("profile"))
	if s.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", s.Len())
	}
}

func TestParse_RoundTrip(t *testing.T) {
	in := []string{"scope:email", "grant_type:authorization_code", "response_type:code", "endpoint:token"}
	s, err := ParseSet(in)
	if err != nil {
		t.Fatalf("ParseSet: %v", err)
	}
	if got := s.Strings(); !reflect.DeepEqual(got, in) {
		t.Fatalf("round trip mismatch: got %v want %v", got, in)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, raw := range []string{"", "scope:", ":email", "noseparator", "bogus:thing"} {
		if _, err := Parse(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
