package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dropDatabas3/consentd/internal/domain/repository"
	"github.com/dropDatabas3/consentd/internal/http/dto"
	"github.com/dropDatabas3/consentd/internal/http/services/session"
	"github.com/dropDatabas3/consentd/internal/observability/logger"
	"github.com/dropDatabas3/consentd/internal/security/password"
)

// Errores de login
var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// LoginResult carries the session token the controller turns into a cookie.
type LoginResult struct {
	Token  string
	UserID string
	TTL    time.Duration
}

// LoginService autentica credenciales y abre la sesión cookie.
type LoginService interface {
	Login(ctx context.Context, in dto.LoginRequest) (*LoginResult, error)
}

// LoginDeps dependencies.
type LoginDeps struct {
	Users    repository.UserStore
	Sessions session.Manager
}

type loginService struct {
	deps LoginDeps
}

// NewLoginService crea el servicio de login.
func NewLoginService(d LoginDeps) LoginService {
	return &loginService{deps: d}
}

func (s *loginService) Login(ctx context.Context, in dto.LoginRequest) (*LoginResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("account.login"),
		logger.Op("Login"),
	)

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.deps.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			// mismo error que password incorrecto, sin filtrar existencia
			return nil, ErrInvalidCredentials
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, err
	}
	if !password.Verify(in.Password, user.PasswordHash) {
		log.Debug("password mismatch", logger.UserID(user.ID))
		return nil, ErrInvalidCredentials
	}

	token, ttl, err := s.deps.Sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	log.Info("login ok", logger.UserID(user.ID))
	return &LoginResult{Token: token, UserID: user.ID, TTL: ttl}, nil
}
