package connect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/consentd/internal/domain/repository"
	"github.com/dropDatabas3/consentd/internal/http/dto"
	"github.com/dropDatabas3/consentd/internal/metrics"
	"github.com/dropDatabas3/consentd/internal/observability/logger"
)

// Errors
var (
	ErrConsentMissingToken = errors.New("token required")
	ErrConsentNotFound     = errors.New("invalid or expired consent token")
)

// ConsentService handles the verdict coming back from the consent screen.
type ConsentService interface {
	Accept(ctx context.Context, req dto.ConsentAcceptRequest) (*dto.Decision, error)
}

type consentService struct {
	deps DecideDeps
}

// NewConsentService crea el servicio de consentimiento. Comparte las
// dependencias del decide service porque la aprobación termina emitiendo.
func NewConsentService(d DecideDeps) ConsentService {
	return &consentService{deps: d}
}

// Accept consume el challenge token (one-shot) y resuelve el veredicto.
func (s *consentService) Accept(ctx context.Context, req dto.ConsentAcceptRequest) (*dto.Decision, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("connect.consent"),
		logger.Op("Accept"),
	)

	token := strings.TrimSpace(req.Token)
	if token == "" {
		return nil, ErrConsentMissingToken
	}

	// Paso 1: consumir el token. Get+Delete: un segundo Accept con el mismo
	// token falla aunque el primero haya sido un rechazo.
	key := consentKey(token)
	raw, ok := s.deps.Cache.Get(key)
	if !ok {
		return nil, ErrConsentNotFound
	}
	s.deps.Cache.Delete(key)

	var payload dto.ConsentChallenge
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error("consent payload corrupted", logger.Err(err))
		return nil, ErrConsentNotFound
	}
	if time.Now().After(payload.ExpiresAt) {
		return nil, ErrConsentNotFound
	}

	log = log.With(logger.UserID(payload.UserID), logger.ClientID(payload.ClientID))

	// Paso 2: rechazo.
	if !req.Approve {
		log.Info("consent rejected", logger.Outcome("forbidden"))
		metrics.DecisionOutcomes.WithLabelValues("forbidden").Inc()
		return &dto.Decision{
			Type:             dto.DecisionForbidden,
			ErrorCode:        "access_denied",
			ErrorDescription: "The user rejected the authorization request.",
		}, nil
	}

	// Paso 3: recargar usuario y aplicación. Pudieron desaparecer mientras
	// la pantalla estaba abierta; acá sí es ruptura de integridad.
	user, err := s.deps.Users.GetByID(ctx, payload.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("user %q: %w", payload.UserID, repository.ErrIntegrity)
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, err
	}
	app, err := s.deps.Applications.GetByClientID(ctx, payload.ClientID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("application %q: %w", payload.ClientID, repository.ErrIntegrity)
		}
		log.Error("application lookup failed", logger.Err(err))
		return nil, err
	}

	// Paso 4: emitir. La aprobación siempre crea una autorización permanente
	// nueva; los duplicados con un consentimiento concurrente se toleran.
	issuer := &decideService{deps: s.deps}
	dec, err := issuer.issue(ctx, user, app, payload.Scopes, nil)
	if err != nil {
		return nil, err
	}
	dec.RedirectURL = payload.ReturnTo

	log.Info("consent accepted", logger.Outcome("issue"),
		logger.AuthorizationID(dec.AuthorizationID))
	metrics.DecisionOutcomes.WithLabelValues("issue").Inc()
	return dec, nil
}
