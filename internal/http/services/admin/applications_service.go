// Package admin provee los servicios del API administrativo.
package admin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dropDatabas3/consentd/internal/domain/repository"
	"github.com/dropDatabas3/consentd/internal/http/dto"
	"github.com/dropDatabas3/consentd/internal/observability/logger"
	"github.com/dropDatabas3/consentd/internal/permission"
)

// Errors
var (
	ErrMissingClientID    = errors.New("client_id is required")
	ErrMissingDisplayName = errors.New("display_name is required")
)

// ApplicationService define el CRUD de aplicaciones cliente.
type ApplicationService interface {
	List(ctx context.Context) ([]dto.ApplicationResponse, error)
	Get(ctx context.Context, clientID string) (*dto.ApplicationResponse, error)
	Create(ctx context.Context, in dto.ApplicationCreateRequest) (*dto.ApplicationResponse, error)
	// Update reemplaza los campos del descriptor; un RedirectURIs nil
	// limpia la lista almacenada. Las post-logout URIs se conservan.
	Update(ctx context.Context, targetClientID string, in dto.ApplicationUpdateRequest) (*dto.ApplicationResponse, error)
	Delete(ctx context.Context, clientID string) error
}

type applicationService struct {
	apps repository.ApplicationStore
}

// NewApplicationService crea el servicio de aplicaciones.
func NewApplicationService(apps repository.ApplicationStore) ApplicationService {
	return &applicationService{apps: apps}
}

func (s *applicationService) List(ctx context.Context) ([]dto.ApplicationResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.applications"),
		logger.Op("List"),
	)

	apps, err := s.apps.List(ctx)
	if err != nil {
		log.Error("failed to list applications", logger.Err(err))
		return nil, err
	}

	out := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, toResponse(&apps[i]))
	}
	log.Debug("applications listed", logger.Int("count", len(out)))
	return out, nil
}

func (s *applicationService) Get(ctx context.Context, clientID string) (*dto.ApplicationResponse, error) {
	app, err := s.apps.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	resp := toResponse(app)
	return &resp, nil
}

func (s *applicationService) Create(ctx context.Context, in dto.ApplicationCreateRequest) (*dto.ApplicationResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.applications"),
		logger.Op("Create"),
		logger.ClientID(in.ClientID),
	)

	// Paso 1: validación del descriptor.
	if strings.TrimSpace(in.ClientID) == "" {
		return nil, ErrMissingClientID
	}
	if strings.TrimSpace(in.DisplayName) == "" {
		return nil, ErrMissingDisplayName
	}
	consent, err := parseConsentType(in.ConsentType)
	if err != nil {
		return nil, err
	}
	appType, err := parseApplicationType(in.Type)
	if err != nil {
		return nil, err
	}
	if err := validateURIs(in.RedirectURIs); err != nil {
		return nil, err
	}
	if err := validateURIs(in.PostLogoutRedirectURIs); err != nil {
		return nil, err
	}

	// Paso 2: derivar permisos desde scopes y grant types.
	app := &repository.Application{
		ClientID:               strings.TrimSpace(in.ClientID),
		Secret:                 in.ClientSecret,
		DisplayName:            strings.TrimSpace(in.DisplayName),
		ConsentType:            consent,
		Type:                   appType,
		Permissions:            permission.Build(in.Scopes, in.GrantTypes),
		RedirectURIs:           in.RedirectURIs,
		PostLogoutRedirectURIs: in.PostLogoutRedirectURIs,
	}

	// Paso 3: persistir. El store reporta ErrConflict si el client_id existe.
	if err := s.apps.Create(ctx, app); err != nil {
		if repository.IsConflict(err) {
			log.Debug("client_id already registered")
		} else {
			log.Error("failed to create application", logger.Err(err))
		}
		return nil, err
	}

	log.Info("application created")
	resp := toResponse(app)
	return &resp, nil
}

func (s *applicationService) Update(ctx context.Context, targetClientID string, in dto.ApplicationUpdateRequest) (*dto.ApplicationResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.applications"),
		logger.Op("Update"),
		logger.ClientID(targetClientID),
	)

	if strings.TrimSpace(in.ClientID) == "" {
		return nil, ErrMissingClientID
	}
	if strings.TrimSpace(in.DisplayName) == "" {
		return nil, ErrMissingDisplayName
	}
	consent, err := parseConsentType(in.ConsentType)
	if err != nil {
		return nil, err
	}
	appType, err := parseApplicationType(in.Type)
	if err != nil {
		return nil, err
	}
	if err := validateURIs(in.RedirectURIs); err != nil {
		return nil, err
	}

	// El update es un full replace de los campos del request: un
	// RedirectURIs ausente limpia la lista almacenada. Secret, permisos y
	// post-logout URIs no forman parte del descriptor y se conservan.
	current, err := s.apps.GetByClientID(ctx, targetClientID)
	if err != nil {
		return nil, err
	}
	app := &repository.Application{
		ID:                     current.ID,
		ClientID:               strings.TrimSpace(in.ClientID),
		Secret:                 current.Secret,
		DisplayName:            strings.TrimSpace(in.DisplayName),
		ConsentType:            consent,
		Type:                   appType,
		Permissions:            current.Permissions,
		RedirectURIs:           in.RedirectURIs,
		PostLogoutRedirectURIs: current.PostLogoutRedirectURIs,
	}

	if err := s.apps.Update(ctx, targetClientID, app); err != nil {
		log.Error("failed to update application", logger.Err(err))
		return nil, err
	}

	log.Info("application updated")
	resp := toResponse(app)
	return &resp, nil
}

func (s *applicationService) Delete(ctx context.Context, clientID string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.applications"),
		logger.Op("Delete"),
		logger.ClientID(clientID),
	)

	if err := s.apps.Delete(ctx, clientID); err != nil {
		if !repository.IsNotFound(err) {
			log.Error("failed to delete application", logger.Err(err))
		}
		return err
	}
	log.Info("application deleted")
	return nil
}

func parseConsentType(raw string) (repository.ConsentType, error) {
	switch repository.ConsentType(raw) {
	case repository.ConsentExplicit, repository.ConsentImplicit,
		repository.ConsentExternal, repository.ConsentSystematic:
		return repository.ConsentType(raw), nil
	}
	return "", fmt.Errorf("%w: unknown consent_type %q", repository.ErrInvalidInput, raw)
}

func parseApplicationType(raw string) (string, error) {
	switch raw {
	case repository.ApplicationTypeConfidential, repository.ApplicationTypePublic:
		return raw, nil
	}
	return "", fmt.Errorf("%w: unknown application type %q", repository.ErrInvalidInput, raw)
}

// validateURIs exige URIs absolutas. El error nombra el valor ofensivo para
// que el operador sepa qué corregir.
func validateURIs(uris []string) error {
	for _, raw := range uris {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("%w: redirect URI %q is not an absolute URI", repository.ErrInvalidInput, raw)
		}
	}
	return nil
}

func toResponse(app *repository.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ClientID:               app.ClientID,
		DisplayName:            app.DisplayName,
		ConsentType:            string(app.ConsentType),
		Type:                   app.Type,
		Permissions:            app.Permissions.Strings(),
		RedirectURIs:           app.RedirectURIs,
		PostLogoutRedirectURIs: app.PostLogoutRedirectURIs,
	}
}
