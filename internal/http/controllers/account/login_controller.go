package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dropDatabas3/consentd/internal/http/dto"
	httperrors "github.com/dropDatabas3/consentd/internal/http/errors"
	accountsvc "github.com/dropDatabas3/consentd/internal/http/services/account"
	"github.com/dropDatabas3/consentd/internal/http/services/session"
)

// CookieConfig controla los atributos de la cookie de sesión.
type CookieConfig struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

type LoginController struct {
	service  accountsvc.LoginService
	sessions session.Manager
	cookie   CookieConfig
}

func NewLoginController(service accountsvc.LoginService, sessions session.Manager, cookie CookieConfig) *LoginController {
	return &LoginController{service: service, sessions: sessions, cookie: cookie}
}

// Login autentica credenciales y setea la cookie de sesión.
// POST /account/login
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithCause(err))
		return
	}

	res, err := c.service.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, accountsvc.ErrMissingCredentials):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
		case errors.Is(err, accountsvc.ErrInvalidCredentials):
			httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail(err.Error()))
		default:
			httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.cookie.Name,
		Value:    res.Token,
		Path:     "/",
		Domain:   c.cookie.Domain,
		MaxAge:   int(res.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.cookie.Secure,
		SameSite: c.cookie.SameSite,
	})

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(dto.LoginResponse{
		UserID:    res.UserID,
		ExpiresIn: int64(res.TTL.Seconds()),
	})
}

// Logout invalida la sesión y expira la cookie.
// POST /account/logout
func (c *LoginController) Logout(w http.ResponseWriter, r *http.Request) {
	if ck, err := r.Cookie(c.cookie.Name); err == nil {
		c.sessions.Destroy(r.Context(), ck.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.cookie.Name,
		Value:    "",
		Path:     "/",
		Domain:   c.cookie.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.cookie.Secure,
		SameSite: c.cookie.SameSite,
	})
	w.WriteHeader(http.StatusNoContent)
}
