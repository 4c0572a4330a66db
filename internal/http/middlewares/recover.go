package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/consentd/internal/http/errors"
	"github.com/dropDatabas3/consentd/internal/observability/logger"
)

// WithRecover captura panics del handler y responde 500 en vez de tirar
// abajo la conexión.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Error("panic recovered",
						logger.Path(r.URL.Path),
						logger.String("panic", toString(rec)),
					)
					errors.WriteError(w, errors.ErrInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case error:
		return s.Error()
	default:
		return "unknown panic"
	}
}
