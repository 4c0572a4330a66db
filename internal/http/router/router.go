// Package router arma el árbol de rutas HTTP del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/consentd/internal/domain/repository"
	accountctrl "github.com/dropDatabas3/consentd/internal/http/controllers/account"
	adminctrl "github.com/dropDatabas3/consentd/internal/http/controllers/admin"
	connectctrl "github.com/dropDatabas3/consentd/internal/http/controllers/connect"
	mw "github.com/dropDatabas3/consentd/internal/http/middlewares"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Deps contiene los controllers y colaboradores del router.
type Deps struct {
	Authorize    *connectctrl.AuthorizeController
	Consent      *connectctrl.ConsentController
	Register     *accountctrl.RegisterController
	Login        *accountctrl.LoginController
	Applications *adminctrl.ApplicationsController

	// Keyfunc verifica los access tokens del API administrativo.
	Keyfunc jwtv5.Keyfunc

	// CORSAllowedOrigins habilita CORS cuando no está vacío.
	CORSAllowedOrigins []string
}

// New construye el router chi con la cadena de middlewares base.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	base := []mw.Middleware{
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithLogging(),
	}
	if len(d.CORSAllowedOrigins) > 0 {
		base = append(base, mw.WithCORS(d.CORSAllowedOrigins))
	}
	r.Use(func(next http.Handler) http.Handler {
		return mw.Chain(next, base...)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/connect", func(r chi.Router) {
		r.Get("/authorize", d.Authorize.Authorize)
		r.Post("/consent", d.Consent.Accept)
	})

	r.Route("/account", func(r chi.Router) {
		r.Post("/register", d.Register.Register)
		r.Post("/login", d.Login.Login)
		r.Post("/logout", d.Login.Logout)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return mw.Chain(next,
				mw.WithBearerAuth(d.Keyfunc),
				mw.RequireRole(repository.RoleAdmin),
			)
		})
		r.Get("/applications", d.Applications.List)
		r.Post("/applications", d.Applications.Create)
		r.Get("/applications/{clientID}", d.Applications.Get)
		r.Put("/applications/{clientID}", d.Applications.Update)
		r.Delete("/applications/{clientID}", d.Applications.Delete)
	})

	return r
}
