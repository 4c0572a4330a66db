// Package dto contains the transport-level request/response types shared
// by controllers and services.
package dto

import (
	"time"

	"github.com/dropDatabas3/consentd/internal/authority"
	"github.com/dropDatabas3/consentd/internal/claims"
)

// Prompt directives carried on the decoded OAuth request.
const (
	PromptNone    = "none"
	PromptConsent = "consent"
)

// AuthorizeRequest is the decoded OAuth request handed to the decision
// engine. Protocol parsing (PKCE, response_type, redirect validation)
// happened upstream.
type AuthorizeRequest struct {
	ClientID string   `json:"client_id"`
	Scopes   []string `json:"scopes"`
	Prompt   string   `json:"prompt,omitempty"` // "none" | "consent" | ""
}

// Session is the result of the cookie-based authentication attempt.
type Session struct {
	Authenticated bool
	Subject       string // user id; empty when not authenticated
	// ReturnTo is the original request path+query, used to come back
	// after a login challenge.
	ReturnTo string
}

// DecisionType enumerates the outcomes of the decision engine.
type DecisionType string

const (
	DecisionIssue            DecisionType = "issue"
	DecisionForbidden        DecisionType = "forbidden"
	DecisionChallengeConsent DecisionType = "challenge_consent"
	DecisionChallengeLogin   DecisionType = "challenge_login"
)

// Decision is the outcome handed back to the HTTP layer.
type Decision struct {
	Type DecisionType

	// Issue
	Tokens          *authority.TokenSet
	Principal       *claims.Principal
	AuthorizationID string

	// Forbidden
	ErrorCode        string
	ErrorDescription string

	// Challenges
	RedirectURL string
}

// ConsentChallenge is the pending request cached while the user decides
// on the consent screen. The cache token is one-shot.
type ConsentChallenge struct {
	UserID    string    `json:"user_id"`
	ClientID  string    `json:"client_id"`
	Scopes    []string  `json:"scopes"`
	ReturnTo  string    `json:"return_to,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ConsentAcceptRequest is the user's verdict from the consent screen.
type ConsentAcceptRequest struct {
	Token   string `json:"token"`
	Approve bool   `json:"approve"`
}
