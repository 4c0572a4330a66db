package connect

import (
	"github.com/dropDatabas3/consentd/internal/domain/repository"
	"github.com/dropDatabas3/consentd/internal/http/dto"
)

// Forbidden outcome texts. These are part of the public contract.
const (
	codeConsentRequired    = "consent_required"
	msgExternalNotAllowed  = "The logged in user is not allowed to access this client application."
	msgInteractiveRequired = "Interactive user consent is required."
)

// ruleAction is what a matched rule tells Decide to do.
type ruleAction int

const (
	actionForbidExternal ruleAction = iota
	actionIssue
	actionForbidPromptNone
	actionChallengeConsent
)

// ruleInput is the state the consent rules are evaluated against.
type ruleInput struct {
	consent  repository.ConsentType
	prompt   string
	hasGrant bool // a valid permanent authorization covers the request
}

// consentRule is one row of the ordered rule table.
type consentRule struct {
	name    string
	matches func(ruleInput) bool
	action  ruleAction
}

// consentRules is evaluated top to bottom; the first match wins. The order
// matters: several consent types can independently satisfy more than one
// clause, so reordering changes outcomes.
var consentRules = []consentRule{
	{
		name: "external_without_grant",
		matches: func(in ruleInput) bool {
			return in.consent == repository.ConsentExternal && !in.hasGrant
		},
		action: actionForbidExternal,
	},
	{
		name: "silent_issuance",
		matches: func(in ruleInput) bool {
			switch {
			case in.consent == repository.ConsentImplicit:
				return true
			case in.consent == repository.ConsentExternal && in.hasGrant:
				return true
			case in.consent == repository.ConsentExplicit && in.hasGrant && in.prompt != dto.PromptConsent:
				return true
			}
			return false
		},
		action: actionIssue,
	},
	{
		name: "prompt_none_needs_consent",
		matches: func(in ruleInput) bool {
			interactive := in.consent == repository.ConsentExplicit || in.consent == repository.ConsentSystematic
			return interactive && in.prompt == dto.PromptNone
		},
		action: actionForbidPromptNone,
	},
	{
		name:    "interactive_consent",
		matches: func(ruleInput) bool { return true },
		action:  actionChallengeConsent,
	},
}

// resolveAction walks the table and returns the first matching rule.
func resolveAction(in ruleInput) (string, ruleAction) {
	for _, r := range consentRules {
		if r.matches(in) {
			return r.name, r.action
		}
	}
	// The last rule is a catch-all; this is unreachable.
	return "interactive_consent", actionChallengeConsent
}
