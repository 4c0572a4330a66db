package repository

import "errors"

var (
	// ErrNotFound indica que el recurso solicitado no existe.
	ErrNotFound = errors.New("not found")

	// ErrConflict indica un conflicto (ej: duplicado, constraint violation).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indica que los datos de entrada son inválidos.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmailTaken indica que el email ya está registrado.
	ErrEmailTaken = errors.New("email already exists")

	// ErrLoginTaken indica que el nombre de usuario ya está registrado.
	ErrLoginTaken = errors.New("login already exists")

	// ErrPhoneTaken indica que el número de teléfono ya está registrado.
	ErrPhoneTaken = errors.New("phone already exists")

	// ErrIntegrity indica una violación de contrato entre capas (ej: cookie
	// apuntando a un usuario borrado, client_id inexistente después de la
	// validación de protocolo). Nunca se traduce a un resultado de usuario:
	// se propaga hasta el borde y se responde 500.
	ErrIntegrity = errors.New("integrity violation")
)

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict verifica si el error es ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsIntegrity verifica si el error es ErrIntegrity.
func IsIntegrity(err error) bool {
	return errors.Is(err, ErrIntegrity)
}
