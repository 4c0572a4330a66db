package logger

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// ClientIP crea un campo para la IP del cliente.
func ClientIP(v string) zap.Field {
	return zap.String("client_ip", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - NEGOCIO
// =================================================================================

// UserID crea un campo para el ID del usuario.
func UserID(v string) zap.Field {
	return zap.String("user_id", v)
}

// ClientID crea un campo para el client_id de la aplicación.
func ClientID(v string) zap.Field {
	return zap.String("client_id", v)
}

// AuthorizationID crea un campo para el ID de la autorización.
func AuthorizationID(v string) zap.Field {
	return zap.String("authorization_id", v)
}

// ConsentType crea un campo para el consent type de la aplicación.
func ConsentType(v string) zap.Field {
	return zap.String("consent_type", v)
}

// Outcome crea un campo para el resultado de una decisión.
func Outcome(v string) zap.Field {
	return zap.String("outcome", v)
}

// Scopes crea un campo para la lista de scopes pedidos/otorgados.
func Scopes(v []string) zap.Field {
	return zap.String("scopes", strings.Join(v, " "))
}

// Email crea un campo para el email del usuario.
func Email(v string) zap.Field {
	return zap.String("email", v)
}

// Role crea un campo para un rol de usuario.
func Role(v string) zap.Field {
	return zap.String("role", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - TÉCNICOS
// =================================================================================

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Layer identifica la capa que emite el log ("controller", "service", "store").
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

// Component identifica el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op identifica la operación en curso.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// String es un passthrough para campos ad-hoc.
func String(k, v string) zap.Field {
	return zap.String(k, v)
}

// Int es un passthrough para campos ad-hoc.
func Int(k string, v int) zap.Field {
	return zap.Int(k, v)
}

// Bool es un passthrough para campos ad-hoc.
func Bool(k string, v bool) zap.Field {
	return zap.Bool(k, v)
}
