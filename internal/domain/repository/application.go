package repository

import (
	"context"

	"github.com/dropDatabas3/consentd/internal/permission"
)

// ConsentType gobierna cuándo un usuario debe aprobar explícitamente el
// acceso de una aplicación cliente.
type ConsentType string

const (
	// ConsentExplicit requiere aprobación interactiva salvo que exista una
	// autorización permanente previa.
	ConsentExplicit ConsentType = "explicit"

	// ConsentImplicit emite siempre sin preguntar.
	ConsentImplicit ConsentType = "implicit"

	// ConsentExternal sólo emite si una autorización fue otorgada por un
	// canal externo; nunca muestra pantalla de consentimiento.
	ConsentExternal ConsentType = "external"

	// ConsentSystematic requiere aprobación interactiva en cada pedido.
	ConsentSystematic ConsentType = "systematic"
)

// Tipos de aplicación cliente.
const (
	ApplicationTypeConfidential = "confidential"
	ApplicationTypePublic       = "public"
)

// Application representa una aplicación cliente OAuth2/OIDC registrada.
// ClientID es la clave de negocio: única e inmutable salvo Update explícito.
type Application struct {
	ID                     string
	ClientID               string
	Secret                 string // opcional; vacío para clients públicos
	DisplayName            string
	ConsentType            ConsentType
	Type                   string // "confidential" | "public"
	Permissions            permission.Set
	RedirectURIs           []string
	PostLogoutRedirectURIs []string
}

// ApplicationStore define la persistencia de aplicaciones cliente.
type ApplicationStore interface {
	// GetByClientID obtiene una aplicación por su client_id público.
	// Retorna ErrNotFound si no existe.
	GetByClientID(ctx context.Context, clientID string) (*Application, error)

	// List lista todas las aplicaciones registradas.
	List(ctx context.Context) ([]Application, error)

	// Create crea una aplicación nueva.
	// Retorna ErrConflict si el client_id ya existe.
	Create(ctx context.Context, app *Application) error

	// Update reemplaza la aplicación identificada por targetClientID con el
	// contenido de app (full replace, incluidas las listas de redirect URIs).
	// Retorna ErrNotFound si targetClientID no existe.
	Update(ctx context.Context, targetClientID string, app *Application) error

	// Delete elimina una aplicación.
	// Retorna ErrNotFound si no existe (nunca es un no-op silencioso).
	Delete(ctx context.Context, clientID string) error
}
