// Package admin expone el CRUD de aplicaciones cliente.
package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/consentd/internal/domain/repository"
	"github.com/dropDatabas3/consentd/internal/http/dto"
	httperrors "github.com/dropDatabas3/consentd/internal/http/errors"
	adminsvc "github.com/dropDatabas3/consentd/internal/http/services/admin"
)

type ApplicationsController struct {
	service adminsvc.ApplicationService
}

func NewApplicationsController(service adminsvc.ApplicationService) *ApplicationsController {
	return &ApplicationsController{service: service}
}

// List lista las aplicaciones registradas.
// GET /admin/applications
func (c *ApplicationsController) List(w http.ResponseWriter, r *http.Request) {
	apps, err := c.service.List(r.Context())
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// Get obtiene una aplicación.
// GET /admin/applications/{clientID}
func (c *ApplicationsController) Get(w http.ResponseWriter, r *http.Request) {
	app, err := c.service.Get(r.Context(), chi.URLParam(r, "clientID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// Create registra una aplicación nueva.
// POST /admin/applications
func (c *ApplicationsController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplicationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithCause(err))
		return
	}
	app, err := c.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

// Update reemplaza una aplicación.
// PUT /admin/applications/{clientID}
func (c *ApplicationsController) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplicationUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithCause(err))
		return
	}
	app, err := c.service.Update(r.Context(), chi.URLParam(r, "clientID"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// Delete elimina una aplicación.
// DELETE /admin/applications/{clientID}
func (c *ApplicationsController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), chi.URLParam(r, "clientID")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, adminsvc.ErrMissingClientID),
		errors.Is(err, adminsvc.ErrMissingDisplayName),
		errors.Is(err, repository.ErrInvalidInput):
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(err.Error()))
	case errors.Is(err, repository.ErrConflict):
		httperrors.WriteError(w, httperrors.ErrConflict.WithDetail(err.Error()))
	case errors.Is(err, repository.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound)
	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
