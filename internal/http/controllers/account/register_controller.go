// Package account expone los endpoints de cuentas (registro y login).
package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dropDatabas3/consentd/internal/domain/repository"
	"github.com/dropDatabas3/consentd/internal/http/dto"
	httperrors "github.com/dropDatabas3/consentd/internal/http/errors"
	accountsvc "github.com/dropDatabas3/consentd/internal/http/services/account"
	"github.com/dropDatabas3/consentd/internal/validation"
)

type RegisterController struct {
	service accountsvc.RegisterService
}

func NewRegisterController(service accountsvc.RegisterService) *RegisterController {
	return &RegisterController{service: service}
}

// Register crea una cuenta nueva.
// POST /account/register
func (c *RegisterController) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithCause(err))
		return
	}

	resp, err := c.service.Register(r.Context(), req)
	if err != nil {
		var fe *validation.FieldError
		switch {
		case errors.As(err, &fe):
			httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(fe.Error()))
		case errors.Is(err, repository.ErrEmailTaken),
			errors.Is(err, repository.ErrLoginTaken),
			errors.Is(err, repository.ErrPhoneTaken):
			httperrors.WriteError(w, httperrors.ErrConflict.WithDetail(err.Error()))
		default:
			httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		}
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(resp)
}
