package repository

import (
	"context"
	"time"
)

// RoleUser es el rol por defecto asignado en el registro.
const RoleUser = "user"

// RoleAdmin habilita la gestión de aplicaciones cliente.
const RoleAdmin = "admin"

// User representa una cuenta de usuario.
// Email, Username y Phone son únicos en todo el sistema.
type User struct {
	ID           string
	Email        string
	Username     string
	Phone        string
	PasswordHash string // opaco para el dominio; lo produce security/password
	Roles        []string
	CreatedAt    time.Time
}

// HasRole verifica si el usuario tiene el rol dado.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CreateUserInput contiene los datos para crear un usuario.
type CreateUserInput struct {
	Email        string
	Username     string
	Phone        string
	PasswordHash string
}

// UserStore define operaciones sobre usuarios.
type UserStore interface {
	// GetByID busca un usuario por ID (con roles cargados).
	// Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, userID string) (*User, error)

	// GetByEmail busca un usuario por email.
	// Retorna ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Begin abre la transacción que envuelve el registro de cuentas.
	Begin(ctx context.Context) (UserTx, error)
}

// UserTx es una transacción sobre el user store. Los chequeos de unicidad
// y las escrituras del registro corren todos dentro de la misma transacción
// para que nunca sea observable un usuario sin su rol.
type UserTx interface {
	// FindByEmail retorna el usuario con ese email o nil si no existe.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByUsername retorna el usuario con ese username o nil si no existe.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByPhone retorna el usuario con ese teléfono o nil si no existe.
	FindByPhone(ctx context.Context, phone string) (*User, error)

	// Create inserta el usuario.
	Create(ctx context.Context, in CreateUserInput) (*User, error)

	// AddToRole asigna un rol al usuario.
	AddToRole(ctx context.Context, userID, role string) error

	// Commit confirma la transacción.
	Commit(ctx context.Context) error

	// Rollback descarta la transacción. Es seguro llamarlo tras Commit.
	Rollback(ctx context.Context) error
}
