// Package connect implements the authorization decision engine: given a
// validated OAuth request and the cookie session, it decides between
// issuing tokens, forbidding the request or challenging the user.
package connect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dropDatabas3/consentd/internal/authority"
	"github.com/dropDatabas3/consentd/internal/cache"
	"github.com/dropDatabas3/consentd/internal/claims"
	"github.com/dropDatabas3/consentd/internal/domain/repository"
	"github.com/dropDatabas3/consentd/internal/http/dto"
	"github.com/dropDatabas3/consentd/internal/metrics"
	"github.com/dropDatabas3/consentd/internal/observability/logger"
	tokens "github.com/dropDatabas3/consentd/internal/security/token"
)

// Errors
var (
	ErrMissingClientID   = errors.New("client_id required")
	ErrChallengeFailed   = errors.New("failed to build consent challenge")
	ErrIssueFailed       = errors.New("failed to issue tokens")
	ErrAuthorizationSave = errors.New("failed to persist authorization")
)

// consentChallengeTTL acota la vida de un token de consentimiento en cache.
const consentChallengeTTL = 5 * time.Minute

// DecideService resolves an authorization request into a Decision.
type DecideService interface {
	Decide(ctx context.Context, req dto.AuthorizeRequest, session dto.Session) (*dto.Decision, error)
}

// DecideDeps dependencies.
type DecideDeps struct {
	Users          repository.UserStore
	Applications   repository.ApplicationStore
	Authorizations repository.AuthorizationStore
	Authority      authority.TokenAuthority
	Cache          cache.Cache

	// LoginURL and ConsentURL point at the interactive UI.
	LoginURL   string
	ConsentURL string
}

type decideService struct {
	deps DecideDeps
}

// NewDecideService crea el servicio de decisión.
func NewDecideService(d DecideDeps) DecideService {
	return &decideService{deps: d}
}

func (s *decideService) Decide(ctx context.Context, req dto.AuthorizeRequest, session dto.Session) (*dto.Decision, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("connect.decide"),
		logger.Op("Decide"),
	)

	if req.ClientID == "" {
		return nil, ErrMissingClientID
	}

	// Paso 1: sesión. Sin usuario autenticado no hay nada que decidir.
	if !session.Authenticated {
		log.Debug("unauthenticated request, challenging login",
			logger.ClientID(req.ClientID))
		metrics.DecisionOutcomes.WithLabelValues("challenge_login").Inc()
		return &dto.Decision{
			Type:        dto.DecisionChallengeLogin,
			RedirectURL: buildChallengeURL(s.deps.LoginURL, "return_to", session.ReturnTo),
		}, nil
	}

	// Paso 2: cargar usuario. La request ya pasó la validación de protocolo,
	// así que un usuario ausente es una ruptura de integridad, no un 404.
	user, err := s.deps.Users.GetByID(ctx, session.Subject)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Error("authenticated subject has no user record",
				logger.UserID(session.Subject))
			return nil, fmt.Errorf("user %q: %w", session.Subject, repository.ErrIntegrity)
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, err
	}

	// Paso 3: cargar aplicación. Mismo criterio que el usuario.
	app, err := s.deps.Applications.GetByClientID(ctx, req.ClientID)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Error("validated client_id has no application record",
				logger.ClientID(req.ClientID))
			return nil, fmt.Errorf("application %q: %w", req.ClientID, repository.ErrIntegrity)
		}
		log.Error("application lookup failed", logger.Err(err))
		return nil, err
	}

	// Paso 4: buscar una autorización permanente que cubra los scopes.
	grants, err := s.deps.Authorizations.Find(ctx, repository.AuthorizationFilter{
		UserID:   user.ID,
		ClientID: app.ID,
		Status:   repository.AuthorizationValid,
		Type:     repository.AuthorizationPermanent,
		Scopes:   req.Scopes,
	})
	if err != nil {
		log.Error("authorization lookup failed", logger.Err(err))
		return nil, err
	}
	var match *repository.Authorization
	if len(grants) > 0 {
		match = &grants[0]
	}

	// Paso 5: tabla de reglas.
	ruleName, action := resolveAction(ruleInput{
		consent:  app.ConsentType,
		prompt:   req.Prompt,
		hasGrant: match != nil,
	})
	log = log.With(
		logger.UserID(user.ID),
		logger.ClientID(req.ClientID),
		logger.ConsentType(string(app.ConsentType)),
		logger.String("rule", ruleName),
	)

	switch action {
	case actionForbidExternal:
		log.Info("decision: forbidden", logger.Outcome("forbidden"))
		metrics.DecisionOutcomes.WithLabelValues("forbidden").Inc()
		return forbidden(msgExternalNotAllowed), nil

	case actionForbidPromptNone:
		log.Info("decision: forbidden", logger.Outcome("forbidden"))
		metrics.DecisionOutcomes.WithLabelValues("forbidden").Inc()
		return forbidden(msgInteractiveRequired), nil

	case actionIssue:
		dec, err := s.issue(ctx, user, app, req.Scopes, match)
		if err != nil {
			return nil, err
		}
		log.Info("decision: issue", logger.Outcome("issue"),
			logger.AuthorizationID(dec.AuthorizationID))
		metrics.DecisionOutcomes.WithLabelValues("issue").Inc()
		return dec, nil

	default: // actionChallengeConsent
		dec, err := s.challengeConsent(ctx, user, app, req, session)
		if err != nil {
			return nil, err
		}
		log.Info("decision: challenge consent", logger.Outcome("challenge_consent"))
		metrics.DecisionOutcomes.WithLabelValues("challenge_consent").Inc()
		return dec, nil
	}
}

// issue construye el principal, asegura la autorización permanente y firma
// los tokens. match, si no es nil, es una autorización existente a reusar.
func (s *decideService) issue(ctx context.Context, user *repository.User, app *repository.Application, scopes []string, match *repository.Authorization) (*dto.Decision, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("connect.issue"))

	p := claims.NewPrincipal(user)
	p.SetScopes(scopes)

	resources, err := s.deps.Authority.ListResourcesForScopes(ctx, p.Scopes)
	if err != nil {
		log.Error("resource resolution failed", logger.Err(err))
		return nil, ErrIssueFailed
	}
	p.SetResources(resources)

	auth := match
	if auth == nil {
		auth = &repository.Authorization{
			UserID:   user.ID,
			ClientID: app.ID,
			Scopes:   p.Scopes,
			Status:   repository.AuthorizationValid,
			Type:     repository.AuthorizationPermanent,
		}
		if err := s.deps.Authorizations.Create(ctx, auth); err != nil {
			log.Error("authorization create failed", logger.Err(err))
			return nil, ErrAuthorizationSave
		}
		metrics.AuthorizationsCreated.Inc()
	}
	p.AuthorizationID = auth.ID

	p.ApplyDestinations()

	ts, err := s.deps.Authority.SignIn(ctx, p)
	if err != nil {
		log.Error("sign-in failed", logger.Err(err))
		return nil, ErrIssueFailed
	}

	return &dto.Decision{
		Type:            dto.DecisionIssue,
		Tokens:          ts,
		Principal:       p,
		AuthorizationID: auth.ID,
	}, nil
}

// challengeConsent cachea la request pendiente bajo un token one-shot y
// redirige a la pantalla de consentimiento.
func (s *decideService) challengeConsent(ctx context.Context, user *repository.User, app *repository.Application, req dto.AuthorizeRequest, session dto.Session) (*dto.Decision, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("connect.challenge"))

	token, err := tokens.GenerateOpaqueToken(32)
	if err != nil {
		log.Error("token generation failed", logger.Err(err))
		return nil, ErrChallengeFailed
	}

	payload := dto.ConsentChallenge{
		UserID:    user.ID,
		ClientID:  app.ClientID,
		Scopes:    req.Scopes,
		ReturnTo:  session.ReturnTo,
		ExpiresAt: time.Now().Add(consentChallengeTTL),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, ErrChallengeFailed
	}

	// La key guarda el hash del token, nunca el token plano.
	s.deps.Cache.Set(consentKey(token), raw, consentChallengeTTL)

	return &dto.Decision{
		Type:        dto.DecisionChallengeConsent,
		RedirectURL: buildChallengeURL(s.deps.ConsentURL, "token", token),
	}, nil
}

func consentKey(token string) string {
	return "consent:token:" + tokens.SHA256Base64URL(token)
}

func forbidden(description string) *dto.Decision {
	return &dto.Decision{
		Type:             dto.DecisionForbidden,
		ErrorCode:        codeConsentRequired,
		ErrorDescription: description,
	}
}

func buildChallengeURL(base, param, value string) string {
	if value == "" {
		return base
	}
	sep := "?"
	if u, err := url.Parse(base); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	return base + sep + param + "=" + url.QueryEscape(value)
}
