// Package connect expone los endpoints del flujo de autorización.
package connect

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/consentd/internal/http/dto"
	httperrors "github.com/dropDatabas3/consentd/internal/http/errors"
	connectsvc "github.com/dropDatabas3/consentd/internal/http/services/connect"
	"github.com/dropDatabas3/consentd/internal/http/services/session"
)

type AuthorizeController struct {
	service    connectsvc.DecideService
	sessions   session.Manager
	cookieName string
}

func NewAuthorizeController(service connectsvc.DecideService, sessions session.Manager, cookieName string) *AuthorizeController {
	return &AuthorizeController{
		service:    service,
		sessions:   sessions,
		cookieName: cookieName,
	}
}

// Authorize resuelve el pedido de autorización.
// GET /connect/authorize?client_id=...&scope=...&prompt=...
func (c *AuthorizeController) Authorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := dto.AuthorizeRequest{
		ClientID: strings.TrimSpace(q.Get("client_id")),
		Scopes:   strings.Fields(q.Get("scope")),
		Prompt:   strings.TrimSpace(q.Get("prompt")),
	}

	sess := c.sessions.Resolve(r.Context(), cookieValue(r, c.cookieName), r.URL.RequestURI())

	dec, err := c.service.Decide(r.Context(), req, sess)
	if err != nil {
		switch {
		case errors.Is(err, connectsvc.ErrMissingClientID):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
		default:
			// incluye rupturas de integridad: nunca se exponen al cliente
			httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		}
		return
	}

	writeDecision(w, r, dec)
}

func cookieValue(r *http.Request, name string) string {
	ck, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}

// writeDecision traduce una Decision a la respuesta HTTP.
func writeDecision(w http.ResponseWriter, r *http.Request, dec *dto.Decision) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")

	switch dec.Type {
	case dto.DecisionIssue:
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(dec.Tokens)

	case dto.DecisionForbidden:
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":             dec.ErrorCode,
			"error_description": dec.ErrorDescription,
		})

	case dto.DecisionChallengeLogin, dto.DecisionChallengeConsent:
		http.Redirect(w, r, dec.RedirectURL, http.StatusFound)

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
