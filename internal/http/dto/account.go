package dto

import "github.com/dropDatabas3/consentd/internal/claims"

// RegisterRequest is the account registration model.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// RegisterResponse is the read model returned on a successful registration.
type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`

	// Principal is the claims identity materialized for the new account.
	// Available to in-process callers, never serialized.
	Principal *claims.Principal `json:"-"`
}

// LoginRequest establishes the cookie session the decision engine reads.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the session cookie value metadata.
type LoginResponse struct {
	UserID    string `json:"user_id"`
	ExpiresIn int64  `json:"expires_in"`
}
