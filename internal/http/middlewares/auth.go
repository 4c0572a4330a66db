package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/dropDatabas3/consentd/internal/http/errors"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

type claimsKey struct{}

// GetClaims obtiene los claims del access token validado, o nil.
func GetClaims(ctx context.Context) jwtv5.MapClaims {
	if v, ok := ctx.Value(claimsKey{}).(jwtv5.MapClaims); ok {
		return v
	}
	return nil
}

// WithBearerAuth valida el access token del header Authorization y deja los
// claims en el contexto. Sin token o con token inválido corta con 401.
func WithBearerAuth(keyfunc jwtv5.Keyfunc) Middleware {
	parser := jwtv5.NewParser(jwtv5.WithValidMethods([]string{"EdDSA"}))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(raw, "Bearer ") {
				errors.WriteError(w, errors.ErrUnauthorized.WithDetail("missing bearer token"))
				return
			}
			raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))

			mc := jwtv5.MapClaims{}
			if _, err := parser.ParseWithClaims(raw, mc, keyfunc); err != nil {
				errors.WriteError(w, errors.ErrUnauthorized.WithDetail("invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, mc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole exige que el token traiga el rol dado en el claim "roles".
// Debe correr después de WithBearerAuth.
func RequireRole(role string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cl := GetClaims(r.Context())
			if cl == nil {
				errors.WriteError(w, errors.ErrUnauthorized.WithDetail("no claims in context"))
				return
			}
			if !hasRole(cl, role) {
				errors.WriteError(w, errors.ErrForbidden.WithDetail("role "+role+" required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasRole(cl jwtv5.MapClaims, role string) bool {
	switch roles := cl["roles"].(type) {
	case []any:
		for _, v := range roles {
			if s, ok := v.(string); ok && strings.EqualFold(s, role) {
				return true
			}
		}
	case []string:
		for _, s := range roles {
			if strings.EqualFold(s, role) {
				return true
			}
		}
	case string:
		return strings.EqualFold(roles, role)
	}
	return false
}
