// Package session maneja las sesiones cookie que alimentan al engine de
// decisión. El estado vive en cache bajo el hash del token, nunca el token.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dropDatabas3/consentd/internal/cache"
	"github.com/dropDatabas3/consentd/internal/http/dto"
	"github.com/dropDatabas3/consentd/internal/observability/logger"
	tokens "github.com/dropDatabas3/consentd/internal/security/token"
)

// Errors
var (
	ErrSessionCreateFailed = errors.New("failed to create session")
)

// Manager crea y resuelve sesiones de usuario.
type Manager interface {
	// Create abre una sesión para el usuario y retorna el valor de cookie.
	Create(ctx context.Context, userID string) (token string, ttl time.Duration, err error)

	// Resolve convierte un valor de cookie en una sesión. Una cookie
	// ausente, inválida o expirada resuelve a una sesión no autenticada,
	// nunca a un error.
	Resolve(ctx context.Context, token, returnTo string) dto.Session

	// Destroy invalida la sesión.
	Destroy(ctx context.Context, token string)
}

type state struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type manager struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewManager crea el manager de sesiones.
func NewManager(c cache.Cache, ttl time.Duration) Manager {
	return &manager{cache: c, ttl: ttl}
}

func sidKey(token string) string {
	return "sid:" + tokens.SHA256Base64URL(token)
}

func (m *manager) Create(ctx context.Context, userID string) (string, time.Duration, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("session.Create"))

	token, err := tokens.GenerateOpaqueToken(32)
	if err != nil {
		log.Error("token generation failed", logger.Err(err))
		return "", 0, ErrSessionCreateFailed
	}

	raw, err := json.Marshal(state{UserID: userID, ExpiresAt: time.Now().Add(m.ttl)})
	if err != nil {
		return "", 0, ErrSessionCreateFailed
	}
	m.cache.Set(sidKey(token), raw, m.ttl)
	return token, m.ttl, nil
}

func (m *manager) Resolve(_ context.Context, token, returnTo string) dto.Session {
	anon := dto.Session{ReturnTo: returnTo}
	if token == "" {
		return anon
	}
	raw, ok := m.cache.Get(sidKey(token))
	if !ok {
		return anon
	}
	var st state
	if err := json.Unmarshal(raw, &st); err != nil {
		return anon
	}
	if time.Now().After(st.ExpiresAt) {
		m.cache.Delete(sidKey(token))
		return anon
	}
	return dto.Session{Authenticated: true, Subject: st.UserID, ReturnTo: returnTo}
}

func (m *manager) Destroy(_ context.Context, token string) {
	if token == "" {
		return
	}
	m.cache.Delete(sidKey(token))
}
