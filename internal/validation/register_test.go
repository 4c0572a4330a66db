package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestRegister_Valid(t *testing.T) {
	cases := [][4]string{
		{"jo", "a@b.co", "+549112345678", "123456"},
		{"john", "john.doe@example.com", "5551234", strings.Repeat("p", 100)},
		{strings.Repeat("u", 50), "x@y.zz", "1", "secret1"},
	}
	for _, c := range cases {
		if err := Register(c[0], c[1], c[2], c[3]); err != nil {
			t.Fatalf("expected valid %v, got %v", c, err)
		}
	}
}

func TestRegister_InvalidFields(t *testing.T) {
	cases := []struct {
		name     string
		username string
		email    string
		phone    string
		password string
		field    string
	}{
		{"username too short", "j", "a@b.co", "123", "123456", "username"},
		{"username too long", strings.Repeat("u", 51), "a@b.co", "123", "123456", "username"},
		{"email missing at", "john", "not-an-email", "123", "123456", "email"},
		{"email missing domain dot", "john", "a@b", "123", "123456", "email"},
		{"phone letters", "john", "a@b.co", "555-1234", "123456", "phone"},
		{"phone plus inside", "john", "a@b.co", "55+1234", "123456", "phone"},
		{"password too short", "john", "a@b.co", "123", "12345", "password"},
		{"password too long", "john", "a@b.co", "123", strings.Repeat("p", 101), "password"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Register(c.username, c.email, c.phone, c.password)
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldError, got %v", err)
			}
			if fe.Field != c.field {
				t.Fatalf("expected field %q, got %q", c.field, fe.Field)
			}
		})
	}
}
