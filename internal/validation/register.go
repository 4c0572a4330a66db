package validation

import (
	"fmt"
	"regexp"
)

// Registration field rules:
// - Username: 2..50 chars, non-empty.
// - Email: single @ with non-empty local part and dotted domain.
// - Phone: digits only, optional leading "+".
// - Password: 6..100 chars.
var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^\+?\d+$`)
)

const (
	usernameMin = 2
	usernameMax = 50
	passwordMin = 6
	passwordMax = 100
)

// FieldError describe un campo inválido del modelo de registro.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Register valida los campos del modelo de registro. Retorna el primer
// *FieldError encontrado o nil.
func Register(username, email, phone, password string) error {
	if l := len(username); l < usernameMin || l > usernameMax {
		return &FieldError{Field: "username", Reason: fmt.Sprintf("must be %d-%d characters", usernameMin, usernameMax)}
	}
	if !emailRe.MatchString(email) {
		return &FieldError{Field: "email", Reason: "must be a valid email address"}
	}
	if !phoneRe.MatchString(phone) {
		return &FieldError{Field: "phone", Reason: "digits only, optional leading +"}
	}
	if l := len(password); l < passwordMin || l > passwordMax {
		return &FieldError{Field: "password", Reason: fmt.Sprintf("must be %d-%d characters", passwordMin, passwordMax)}
	}
	return nil
}
