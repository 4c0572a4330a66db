// Package account implementa registro y login de cuentas de usuario.
package account

import (
	"context"
	"errors"
	"strings"

	"github.com/dropDatabas3/consentd/internal/claims"
	"github.com/dropDatabas3/consentd/internal/domain/repository"
	"github.com/dropDatabas3/consentd/internal/http/dto"
	"github.com/dropDatabas3/consentd/internal/metrics"
	"github.com/dropDatabas3/consentd/internal/observability/logger"
	"github.com/dropDatabas3/consentd/internal/security/password"
	"github.com/dropDatabas3/consentd/internal/validation"
	"go.uber.org/zap"
)

// ErrRegistrationFailed cubre fallas de infraestructura durante el registro.
var ErrRegistrationFailed = errors.New("registration failed")

// RegisterService crea cuentas de usuario.
type RegisterService interface {
	Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error)
}

// RegisterDeps dependencies.
type RegisterDeps struct {
	Users repository.UserStore
	// Params controla el costo del hash argon2id.
	Params password.Params
}

type registerService struct {
	deps RegisterDeps
}

// NewRegisterService crea el servicio de registro.
func NewRegisterService(d RegisterDeps) RegisterService {
	if d.Params == (password.Params{}) {
		d.Params = password.Default
	}
	return &registerService{deps: d}
}

// Register valida el modelo y crea el usuario con su rol por defecto dentro
// de una única transacción. Si cualquier paso falla no queda nada escrito.
func (s *registerService) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("account.register"),
		logger.Op("Register"),
	)

	// Paso 0: normalización.
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)

	// Paso 1: validación del modelo, antes de tocar la base.
	if err := validation.Register(in.Username, in.Email, in.Phone, in.Password); err != nil {
		metrics.Registrations.WithLabelValues("invalid").Inc()
		return nil, err
	}

	// Paso 2: hash fuera de la transacción, es lo más caro del flujo.
	hash, err := password.Hash(s.deps.Params, in.Password)
	if err != nil {
		log.Error("password hash failed", logger.Err(err))
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, ErrRegistrationFailed
	}

	// Paso 3: transacción. Chequeos de unicidad y escrituras juntos para
	// que nunca sea observable un usuario a medio crear.
	tx, err := s.deps.Users.Begin(ctx)
	if err != nil {
		log.Error("begin failed", logger.Err(err))
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, ErrRegistrationFailed
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.checkUnique(ctx, tx, in, log); err != nil {
		if errors.Is(err, ErrRegistrationFailed) {
			metrics.Registrations.WithLabelValues("error").Inc()
		} else {
			metrics.Registrations.WithLabelValues("conflict").Inc()
		}
		return nil, err
	}

	user, err := tx.Create(ctx, repository.CreateUserInput{
		Email:        in.Email,
		Username:     in.Username,
		Phone:        in.Phone,
		PasswordHash: hash,
	})
	if err != nil {
		log.Error("user create failed", logger.Err(err))
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, ErrRegistrationFailed
	}

	if err := tx.AddToRole(ctx, user.ID, repository.RoleUser); err != nil {
		log.Error("role assignment failed", logger.Err(err))
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, ErrRegistrationFailed
	}

	// Paso 4: materializar el principal del nuevo usuario antes del commit.
	user.Roles = []string{repository.RoleUser}
	principal := claims.NewPrincipal(user)

	if err := tx.Commit(ctx); err != nil {
		log.Error("commit failed", logger.Err(err))
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, ErrRegistrationFailed
	}

	log.Info("account registered", logger.UserID(user.ID), logger.Email(in.Email))
	metrics.Registrations.WithLabelValues("ok").Inc()
	return &dto.RegisterResponse{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Principal: principal,
	}, nil
}

func (s *registerService) checkUnique(ctx context.Context, tx repository.UserTx, in dto.RegisterRequest, log *zap.Logger) error {
	if u, err := tx.FindByEmail(ctx, in.Email); err != nil {
		log.Error("email uniqueness check failed", logger.Err(err))
		return ErrRegistrationFailed
	} else if u != nil {
		return repository.ErrEmailTaken
	}
	if u, err := tx.FindByUsername(ctx, in.Username); err != nil {
		log.Error("username uniqueness check failed", logger.Err(err))
		return ErrRegistrationFailed
	} else if u != nil {
		return repository.ErrLoginTaken
	}
	if u, err := tx.FindByPhone(ctx, in.Phone); err != nil {
		log.Error("phone uniqueness check failed", logger.Err(err))
		return ErrRegistrationFailed
	} else if u != nil {
		return repository.ErrPhoneTaken
	}
	return nil
}
