package repository

import (
	"context"
	"time"
)

// AuthorizationStatus es el estado de una autorización permanente.
type AuthorizationStatus string

const (
	AuthorizationValid   AuthorizationStatus = "valid"
	AuthorizationRevoked AuthorizationStatus = "revoked"
)

// AuthorizationType clasifica la autorización. Este servicio sólo crea
// autorizaciones permanentes; las efímeras viven en el token authority.
type AuthorizationType string

const (
	AuthorizationPermanent AuthorizationType = "permanent"
)

// Authorization registra que un usuario ya aprobó a una aplicación para un
// conjunto de scopes. Se reusa en logins posteriores para no repetir la
// pantalla de consentimiento.
type Authorization struct {
	ID        string
	UserID    string
	ClientID  string // ID interno de la Application, no el client_id público
	Scopes    []string
	Status    AuthorizationStatus
	Type      AuthorizationType
	CreatedAt time.Time
}

// AuthorizationFilter restringe la búsqueda de autorizaciones.
type AuthorizationFilter struct {
	UserID   string
	ClientID string
	Status   AuthorizationStatus
	Type     AuthorizationType
	// Scopes exige que los scopes otorgados sean un superconjunto.
	Scopes []string
}

// AuthorizationStore define la persistencia de autorizaciones permanentes.
//
// El engine sólo crea registros, nunca los borra. No hay constraint de
// unicidad sobre (user, client, scopes): dos primeros consentimientos
// concurrentes pueden crear duplicados y se acepta; Find ordena por
// created_at descendente y el engine toma el primero.
type AuthorizationStore interface {
	// Find retorna las autorizaciones que matchean el filtro, la más
	// reciente primero.
	Find(ctx context.Context, f AuthorizationFilter) ([]Authorization, error)

	// Create inserta una autorización nueva.
	Create(ctx context.Context, a *Authorization) error
}
