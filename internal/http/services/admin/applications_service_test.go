package admin

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/dropDatabas3/consentd/internal/domain/repository"
	"github.com/dropDatabas3/consentd/internal/http/dto"
)

type memApps struct {
	byClientID map[string]*repository.Application
	nextID     int
}

func newMemApps() *memApps {
	return &memApps{byClientID: map[string]*repository.Application{}}
}

func (m *memApps) GetByClientID(_ context.Context, clientID string) (*repository.Application, error) {
	if a, ok := m.byClientID[clientID]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memApps) List(context.Context) ([]repository.Application, error) {
	out := make([]repository.Application, 0, len(m.byClientID))
	for _, a := range m.byClientID {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClientID < out[j].ClientID })
	return out, nil
}

func (m *memApps) Create(_ context.Context, app *repository.Application) error {
	if _, ok := m.byClientID[app.ClientID]; ok {
		return repository.ErrConflict
	}
	m.nextID++
	app.ID = strings.Repeat("0", m.nextID)
	cp := *app
	m.byClientID[app.ClientID] = &cp
	return nil
}

func (m *memApps) Update(_ context.Context, targetClientID string, app *repository.Application) error {
	old, ok := m.byClientID[targetClientID]
	if !ok {
		return repository.ErrNotFound
	}
	cp := *app
	cp.ID = old.ID
	delete(m.byClientID, targetClientID)
	m.byClientID[cp.ClientID] = &cp
	return nil
}

func (m *memApps) Delete(_ context.Context, clientID string) error {
	if _, ok := m.byClientID[clientID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byClientID, clientID)
	return nil
}

func createReq() dto.ApplicationCreateRequest {
	return dto.ApplicationCreateRequest{
		ClientID:     "web",
		DisplayName:  "Web App",
		ConsentType:  "explicit",
		Type:         "confidential",
		Scopes:       []string{"email", "profile"},
		GrantTypes:   []string{"authorization_code"},
		RedirectURIs: []string{"https://app.example.com/callback"},
	}
}

func TestCreate_DerivesPermissions(t *testing.T) {
	svc := NewApplicationService(newMemApps())

	resp, err := svc.Create(context.Background(), createReq())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	want := []string{
		"scope:email",
		"scope:profile",
		"grant_type:authorization_code",
		"response_type:code",
		"response_type:id_token",
		"endpoint:authorization",
		"endpoint:token",
	}
	got := map[string]bool{}
	for _, p := range resp.Permissions {
		got[p] = true
	}
	for _, w := range want {
		if !got[w] {
			t.Errorf("missing permission %q (have %v)", w, resp.Permissions)
		}
	}
	if len(resp.Permissions) != len(want) {
		t.Errorf("permissions = %v, want exactly %d entries", resp.Permissions, len(want))
	}
}

func TestCreate_PasswordGrantDerivesNothing(t *testing.T) {
	svc := NewApplicationService(newMemApps())

	req := createReq()
	req.GrantTypes = []string{"password", "client_credentials"}

	resp, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, p := range resp.Permissions {
		if strings.HasPrefix(p, "response_type:") || strings.HasPrefix(p, "endpoint:") {
			t.Errorf("unexpected derived permission %q", p)
		}
	}
}

func TestCreate_DuplicateClientID_Conflict(t *testing.T) {
	svc := NewApplicationService(newMemApps())

	if _, err := svc.Create(context.Background(), createReq()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(context.Background(), createReq()); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCreate_RelativeRedirectURI_Rejected(t *testing.T) {
	svc := NewApplicationService(newMemApps())

	req := createReq()
	req.RedirectURIs = []string{"https://ok.example.com/cb", "/relative/path"}

	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, repository.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	// the offending value is named
	if !strings.Contains(err.Error(), "/relative/path") {
		t.Fatalf("error does not name the offending URI: %v", err)
	}
}

func TestCreate_UnknownConsentType_Rejected(t *testing.T) {
	svc := NewApplicationService(newMemApps())

	req := createReq()
	req.ConsentType = "sometimes"

	if _, err := svc.Create(context.Background(), req); !errors.Is(err, repository.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdate_FullReplace_ClearsRedirectURIs(t *testing.T) {
	store := newMemApps()
	svc := NewApplicationService(store)

	if _, err := svc.Create(context.Background(), createReq()); err != nil {
		t.Fatalf("create: %v", err)
	}

	up := dto.ApplicationUpdateRequest{
		ClientID:    "web",
		DisplayName: "Web App v2",
		ConsentType: "implicit",
		Type:        "public",
		// RedirectURIs ausente: la lista almacenada queda vacía
	}
	resp, err := svc.Update(context.Background(), "web", up)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.DisplayName != "Web App v2" || resp.ConsentType != "implicit" {
		t.Fatalf("update not applied: %+v", resp)
	}
	if len(resp.RedirectURIs) != 0 {
		t.Fatalf("redirect URIs not cleared: %v", resp.RedirectURIs)
	}

	// idempotente: repetir el mismo update da el mismo estado
	again, err := svc.Update(context.Background(), "web", up)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if again.DisplayName != resp.DisplayName || len(again.RedirectURIs) != 0 {
		t.Fatalf("second update diverged: %+v", again)
	}

	stored, err := svc.Get(context.Background(), "web")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.RedirectURIs) != 0 {
		t.Fatalf("stored redirect URIs = %v", stored.RedirectURIs)
	}
}

func TestUpdate_PreservesPostLogoutRedirectURIs(t *testing.T) {
	svc := NewApplicationService(newMemApps())

	req := createReq()
	req.PostLogoutRedirectURIs = []string{"https://app.example.com/bye"}
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("create: %v", err)
	}

	// el request de update no trae post-logout URIs
	resp, err := svc.Update(context.Background(), "web", dto.ApplicationUpdateRequest{
		ClientID:    "web",
		DisplayName: "Web App v2",
		ConsentType: "explicit",
		Type:        "confidential",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(resp.PostLogoutRedirectURIs) != 1 || resp.PostLogoutRedirectURIs[0] != "https://app.example.com/bye" {
		t.Fatalf("post-logout URIs lost on update: %v", resp.PostLogoutRedirectURIs)
	}

	stored, err := svc.Get(context.Background(), "web")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.PostLogoutRedirectURIs) != 1 {
		t.Fatalf("stored post-logout URIs = %v", stored.PostLogoutRedirectURIs)
	}
}

func TestUpdate_UnknownTarget_NotFound(t *testing.T) {
	svc := NewApplicationService(newMemApps())

	up := dto.ApplicationUpdateRequest{
		ClientID:    "ghost",
		DisplayName: "Ghost",
		ConsentType: "explicit",
		Type:        "public",
	}
	if _, err := svc.Update(context.Background(), "ghost", up); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc := NewApplicationService(newMemApps())

	if _, err := svc.Create(context.Background(), createReq()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(context.Background(), "web"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), "web"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
