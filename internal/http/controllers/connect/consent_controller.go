package connect

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dropDatabas3/consentd/internal/http/dto"
	httperrors "github.com/dropDatabas3/consentd/internal/http/errors"
	connectsvc "github.com/dropDatabas3/consentd/internal/http/services/connect"
)

type ConsentController struct {
	service connectsvc.ConsentService
}

func NewConsentController(service connectsvc.ConsentService) *ConsentController {
	return &ConsentController{service: service}
}

// Accept procesa el veredicto de la pantalla de consentimiento.
// POST /connect/consent
func (c *ConsentController) Accept(w http.ResponseWriter, r *http.Request) {
	var req dto.ConsentAcceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithCause(err))
		return
	}

	dec, err := c.service.Accept(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, connectsvc.ErrConsentMissingToken),
			errors.Is(err, connectsvc.ErrConsentNotFound):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
		default:
			httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		}
		return
	}

	writeDecision(w, r, dec)
}
