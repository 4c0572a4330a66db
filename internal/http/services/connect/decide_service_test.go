package connect

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dropDatabas3/consentd/internal/authority"
	"github.com/dropDatabas3/consentd/internal/claims"
	"github.com/dropDatabas3/consentd/internal/domain/repository"
	"github.com/dropDatabas3/consentd/internal/http/dto"
)

// --- fakes ---

type fakeUsers struct {
	users map[string]*repository.User
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*repository.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) Begin(context.Context) (repository.UserTx, error) {
	return nil, errors.New("not supported")
}

type fakeApps struct {
	apps map[string]*repository.Application
}

func (f *fakeApps) GetByClientID(_ context.Context, clientID string) (*repository.Application, error) {
	if a, ok := f.apps[clientID]; ok {
		return a, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeApps) List(context.Context) ([]repository.Application, error) { return nil, nil }
func (f *fakeApps) Create(context.Context, *repository.Application) error  { return nil }
func (f *fakeApps) Update(context.Context, string, *repository.Application) error {
	return nil
}
func (f *fakeApps) Delete(context.Context, string) error { return nil }

type fakeAuths struct {
	records []repository.Authorization
	created int
}

func (f *fakeAuths) Find(_ context.Context, fl repository.AuthorizationFilter) ([]repository.Authorization, error) {
	var out []repository.Authorization
	for _, a := range f.records {
		if a.UserID != fl.UserID || a.ClientID != fl.ClientID {
			continue
		}
		if a.Status != fl.Status || a.Type != fl.Type {
			continue
		}
		if !supersetOf(a.Scopes, fl.Scopes) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAuths) Create(_ context.Context, a *repository.Authorization) error {
	if a.ID == "" {
		a.ID = "auth-" + time.Now().Format("150405.000000000")
	}
	a.CreatedAt = time.Now()
	// most recent first
	f.records = append([]repository.Authorization{*a}, f.records...)
	f.created++
	return nil
}

func supersetOf(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type fakeAuthority struct {
	lastSignIn *claims.Principal
}

func (f *fakeAuthority) ListResourcesForScopes(_ context.Context, scopes []string) ([]string, error) {
	if len(scopes) == 0 {
		return nil, nil
	}
	return []string{"resource_server"}, nil
}

func (f *fakeAuthority) SignIn(_ context.Context, p *claims.Principal) (*authority.TokenSet, error) {
	f.lastSignIn = p
	return &authority.TokenSet{AccessToken: "at", TokenType: "Bearer", ExpiresIn: 3600}, nil
}

type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string][]byte{}} }

func (f *fakeCache) Get(key string) ([]byte, bool) {
	v, ok := f.entries[key]
	return v, ok
}
func (f *fakeCache) Set(key string, value []byte, _ time.Duration) { f.entries[key] = value }
func (f *fakeCache) Delete(key string)                             { delete(f.entries, key) }

// --- harness ---

type fixture struct {
	users   *fakeUsers
	apps    *fakeApps
	auths   *fakeAuths
	signer  *fakeAuthority
	cache   *fakeCache
	decide  DecideService
	consent ConsentService
}

func newFixture(consent repository.ConsentType) *fixture {
	f := &fixture{
		users: &fakeUsers{users: map[string]*repository.User{
			"u1": {ID: "u1", Email: "ada@example.com", Username: "ada", Phone: "+123", Roles: []string{"user"}},
		}},
		apps: &fakeApps{apps: map[string]*repository.Application{
			"web": {ID: "app-1", ClientID: "web", DisplayName: "Web", ConsentType: consent, Type: repository.ApplicationTypeConfidential},
		}},
		auths:  &fakeAuths{},
		signer: &fakeAuthority{},
		cache:  newFakeCache(),
	}
	deps := DecideDeps{
		Users:          f.users,
		Applications:   f.apps,
		Authorizations: f.auths,
		Authority:      f.signer,
		Cache:          f.cache,
		LoginURL:       "https://idp.example.com/login",
		ConsentURL:     "https://idp.example.com/consent",
	}
	f.decide = NewDecideService(deps)
	f.consent = NewConsentService(deps)
	return f
}

func (f *fixture) grant(scopes ...string) *repository.Authorization {
	a := &repository.Authorization{
		UserID:   "u1",
		ClientID: "app-1",
		Scopes:   scopes,
		Status:   repository.AuthorizationValid,
		Type:     repository.AuthorizationPermanent,
	}
	_ = f.auths.Create(context.Background(), a)
	f.auths.created = 0
	return a
}

func session() dto.Session {
	return dto.Session{Authenticated: true, Subject: "u1", ReturnTo: "/authorize?client_id=web"}
}

func request(scopes []string, prompt string) dto.AuthorizeRequest {
	return dto.AuthorizeRequest{ClientID: "web", Scopes: scopes, Prompt: prompt}
}

// --- tests ---

func TestDecide_Unauthenticated_ChallengesLogin(t *testing.T) {
	f := newFixture(repository.ConsentExplicit)

	dec, err := f.decide.Decide(context.Background(), request([]string{"email"}, ""), dto.Session{ReturnTo: "/authorize?client_id=web"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Type != dto.DecisionChallengeLogin {
		t.Fatalf("expected challenge_login, got %s", dec.Type)
	}
	u, err := url.Parse(dec.RedirectURL)
	if err != nil {
		t.Fatalf("bad redirect url: %v", err)
	}
	if got := u.Query().Get("return_to"); got != "/authorize?client_id=web" {
		t.Fatalf("return_to = %q", got)
	}
}

func TestDecide_ExternalWithoutGrant_Forbidden(t *testing.T) {
	f := newFixture(repository.ConsentExternal)

	dec, err := f.decide.Decide(context.Background(), request([]string{"email"}, ""), session())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Type != dto.DecisionForbidden {
		t.Fatalf("expected forbidden, got %s", dec.Type)
	}
	if dec.ErrorCode != "consent_required" {
		t.Fatalf("error code = %q", dec.ErrorCode)
	}
	if dec.ErrorDescription != "The logged in user is not allowed to access this client application." {
		t.Fatalf("error description = %q", dec.ErrorDescription)
	}
}

func TestDecide_ExternalWithGrant_Issues(t *testing.T) {
	f := newFixture(repository.ConsentExternal)
	g := f.grant("email", "profile")

	dec, err := f.decide.Decide(context.Background(), request([]string{"email"}, ""), session())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Type != dto.DecisionIssue {
		t.Fatalf("expected issue, got %s", dec.Type)
	}
	if dec.AuthorizationID != g.ID {
		t.Fatalf("expected grant reuse, got %q want %q", dec.AuthorizationID, g.ID)
	}
	if f.auths.created != 0 {
		t.Fatalf("expected no new authorization, created %d", f.auths.created)
	}
}

func TestDecide_Implicit_AlwaysIssues(t *testing.T) {
	f := newFixture(repository.ConsentImplicit)

	dec, err := f.decide.Decide(context.Background(), request([]string{"email"}, dto.PromptConsent), session())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Type != dto.DecisionIssue {
		t.Fatalf("expected issue, got %s", dec.Type)
	}
	if dec.Tokens == nil || dec.Tokens.AccessToken == "" {
		t.Fatal("expected tokens")
	}
	// first issuance records a permanent authorization
	if f.auths.created != 1 {
		t.Fatalf("created = %d", f.auths.created)
	}
	if dec.AuthorizationID == "" {
		t.Fatal("expected authorization id on decision")
	}
	if f.signer.lastSignIn == nil || f.signer.lastSignIn.AuthorizationID != dec.AuthorizationID {
		t.Fatal("principal not tagged with authorization id before sign-in")
	}
}

func TestDecide_ExplicitWithGrant_ReusesAuthorization(t *testing.T) {
	f := newFixture(repository.ConsentExplicit)
	g := f.grant("email", "profile")

	dec, err := f.decide.Decide(context.Background(), request([]string{"email"}, ""), session())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Type != dto.DecisionIssue {
		t.Fatalf("expected issue, got %s", dec.Type)
	}
	if dec.AuthorizationID != g.ID {
		t.Fatalf("authorization id = %q, want %q", dec.AuthorizationID, g.ID)
	}
	if f.auths.created != 0 {
		t.Fatalf("expected no new authorization, created %d", f.auths.created)
	}
}

func TestDecide_ExplicitWithGrant_PromptConsent_Rechallenges(t *testing.T) {
	f := newFixture(repository.ConsentExplicit)
	f.grant("email")

	dec, err := f.decide.Decide(context.Background(), request([]string{"email"}, dto.PromptConsent), session())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Type != dto.DecisionChallengeConsent {
		t.Fatalf("expected challenge_consent, got %s", dec.Type)
	}
	if !strings.HasPrefix(dec.RedirectURL, "https://idp.example.com/consent?token=") {
		t.Fatalf("redirect = %q", dec.RedirectURL)
	}
	if len(f.cache.entries) != 1 {
		t.Fatalf("expected one cached challenge, got %d", len(f.cache.entries))
	}
}

func TestDecide_GrantScopesMustCoverRequest(t *testing.T) {
	f := newFixture(repository.ConsentExplicit)
	f.grant("email")

	// asking for more than was granted falls back to the consent screen
	dec, err := f.decide.Decide(context.Background(), request([]string{"email", "profile"}, ""), session())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Type != dto.DecisionChallengeConsent {
		t.Fatalf("expected challenge_consent, got %s", dec.Type)
	}
}

func TestDecide_ExplicitPromptNone_Forbidden(t *testing.T) {
	f := newFixture(repository.ConsentExplicit)

	dec, err := f.decide.Decide(context.Background(), request([]string{"email"}, dto.PromptNone), session())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Type != dto.DecisionForbidden {
		t.Fatalf("expected forbidden, got %s", dec.Type)
	}
	if dec.ErrorDescription != "Interactive user consent is required." {
		t.Fatalf("error description = %q", dec.ErrorDescription)
	}
}

func TestDecide_SystematicPromptNone_Forbidden(t *testing.T) {
	f := newFixture(repository.ConsentSystematic)
	f.grant("email")

	dec, err := f.decide.Decide(context.Background(), request([]string{"email"}, dto.PromptNone), session())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Type != dto.DecisionForbidden {
		t.Fatalf("expected forbidden, got %s", dec.Type)
	}
}

func TestDecide_SystematicWithGrant_StillChallenges(t *testing.T) {
	f := newFixture(repository.ConsentSystematic)
	f.grant("email")

	dec, err := f.decide.Decide(context.Background(), request([]string{"email"}, ""), session())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Type != dto.DecisionChallengeConsent {
		t.Fatalf("expected challenge_consent, got %s", dec.Type)
	}
}

func TestDecide_MissingUser_IntegrityError(t *testing.T) {
	f := newFixture(repository.ConsentExplicit)
	delete(f.users.users, "u1")

	_, err := f.decide.Decide(context.Background(), request([]string{"email"}, ""), session())
	if !errors.Is(err, repository.ErrIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}
}

func TestDecide_MissingApplication_IntegrityError(t *testing.T) {
	f := newFixture(repository.ConsentExplicit)
	delete(f.apps.apps, "web")

	_, err := f.decide.Decide(context.Background(), request([]string{"email"}, ""), session())
	if !errors.Is(err, repository.ErrIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}
}

func challengeToken(t *testing.T, dec *dto.Decision) string {
	t.Helper()
	u, err := url.Parse(dec.RedirectURL)
	if err != nil {
		t.Fatalf("bad redirect url: %v", err)
	}
	tok := u.Query().Get("token")
	if tok == "" {
		t.Fatal("redirect has no token")
	}
	return tok
}

func TestConsentAccept_Approve_IssuesAndPersists(t *testing.T) {
	f := newFixture(repository.ConsentExplicit)

	dec, err := f.decide.Decide(context.Background(), request([]string{"email", "profile"}, ""), session())
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	tok := challengeToken(t, dec)

	out, err := f.consent.Accept(context.Background(), dto.ConsentAcceptRequest{Token: tok, Approve: true})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if out.Type != dto.DecisionIssue {
		t.Fatalf("expected issue, got %s", out.Type)
	}
	if f.auths.created != 1 {
		t.Fatalf("created = %d", f.auths.created)
	}
	if out.RedirectURL != "/authorize?client_id=web" {
		t.Fatalf("redirect = %q", out.RedirectURL)
	}

	// el grant persiste: el próximo Decide emite sin challenge
	dec2, err := f.decide.Decide(context.Background(), request([]string{"email", "profile"}, ""), session())
	if err != nil {
		t.Fatalf("second decide: %v", err)
	}
	if dec2.Type != dto.DecisionIssue {
		t.Fatalf("expected issue after consent, got %s", dec2.Type)
	}
}

func TestConsentAccept_TokenIsOneShot(t *testing.T) {
	f := newFixture(repository.ConsentExplicit)

	dec, err := f.decide.Decide(context.Background(), request([]string{"email"}, ""), session())
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	tok := challengeToken(t, dec)

	if _, err := f.consent.Accept(context.Background(), dto.ConsentAcceptRequest{Token: tok, Approve: true}); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if _, err := f.consent.Accept(context.Background(), dto.ConsentAcceptRequest{Token: tok, Approve: true}); !errors.Is(err, ErrConsentNotFound) {
		t.Fatalf("expected ErrConsentNotFound, got %v", err)
	}
}

func TestConsentAccept_Reject_ForbiddenWithoutWrites(t *testing.T) {
	f := newFixture(repository.ConsentExplicit)

	dec, err := f.decide.Decide(context.Background(), request([]string{"email"}, ""), session())
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	tok := challengeToken(t, dec)

	out, err := f.consent.Accept(context.Background(), dto.ConsentAcceptRequest{Token: tok, Approve: false})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if out.Type != dto.DecisionForbidden {
		t.Fatalf("expected forbidden, got %s", out.Type)
	}
	if out.ErrorCode != "access_denied" {
		t.Fatalf("error code = %q", out.ErrorCode)
	}
	if f.auths.created != 0 {
		t.Fatalf("created = %d", f.auths.created)
	}
	// el rechazo también consume el token
	if _, err := f.consent.Accept(context.Background(), dto.ConsentAcceptRequest{Token: tok, Approve: true}); !errors.Is(err, ErrConsentNotFound) {
		t.Fatalf("expected ErrConsentNotFound, got %v", err)
	}
}

func TestConsentAccept_UnknownToken(t *testing.T) {
	f := newFixture(repository.ConsentExplicit)

	if _, err := f.consent.Accept(context.Background(), dto.ConsentAcceptRequest{Token: "nope", Approve: true}); !errors.Is(err, ErrConsentNotFound) {
		t.Fatalf("expected ErrConsentNotFound, got %v", err)
	}
	if _, err := f.consent.Accept(context.Background(), dto.ConsentAcceptRequest{Approve: true}); !errors.Is(err, ErrConsentMissingToken) {
		t.Fatalf("expected ErrConsentMissingToken, got %v", err)
	}
}
