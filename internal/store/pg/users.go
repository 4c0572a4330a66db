package pg

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/consentd/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type usersStore struct{ pool *pgxpool.Pool }

// ---------- LECTURAS ----------

// GetByID: devuelve el usuario con sus roles cargados.
func (s *usersStore) GetByID(ctx context.Context, userID string) (*repository.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, userByIDQ, userID))
	if err != nil {
		return nil, err
	}
	u.Roles, err = s.userRoles(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByEmail: devuelve el usuario por email, con roles.
func (s *usersStore) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, userByEmailQ, email))
	if err != nil {
		return nil, err
	}
	u.Roles, err = s.userRoles(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *usersStore) userRoles(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, userRolesQ, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ---------- TRANSACCIÓN DE REGISTRO ----------

// Begin abre la transacción que envuelve el registro de cuentas.
func (s *usersStore) Begin(ctx context.Context) (repository.UserTx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &userTx{tx: tx}, nil
}

type userTx struct{ tx pgx.Tx }

func (t *userTx) FindByEmail(ctx context.Context, email string) (*repository.User, error) {
	return findOrNil(scanUser(t.tx.QueryRow(ctx, userByEmailQ, email)))
}

func (t *userTx) FindByUsername(ctx context.Context, username string) (*repository.User, error) {
	return findOrNil(scanUser(t.tx.QueryRow(ctx, userByUsernameQ, username)))
}

func (t *userTx) FindByPhone(ctx context.Context, phone string) (*repository.User, error) {
	return findOrNil(scanUser(t.tx.QueryRow(ctx, userByPhoneQ, phone)))
}

func (t *userTx) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	u := &repository.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Username:     in.Username,
		Phone:        in.Phone,
		PasswordHash: in.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := t.tx.Exec(ctx, insertUserQ, u.ID, u.Email, u.Username, u.Phone, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (t *userTx) AddToRole(ctx context.Context, userID, role string) error {
	_, err := t.tx.Exec(ctx, insertUserRoleQ, userID, role)
	return err
}

func (t *userTx) Commit(ctx context.Context) error { return t.tx.Commit(ctx) }

func (t *userTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// ---------- HELPERS / SQL ----------

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(row rowScanner) (*repository.User, error) {
	var u repository.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.Phone, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// findOrNil traduce ErrNotFound a (nil, nil) para los Find* de la
// transacción de registro, donde "no existe" es el caso feliz.
func findOrNil(u *repository.User, err error) (*repository.User, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

const (
	userColumns = `id, email, username, phone, password_hash, created_at`

	userByIDQ       = `SELECT ` + userColumns + ` FROM users WHERE id = $1;`
	userByEmailQ    = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1);`
	userByUsernameQ = `SELECT ` + userColumns + ` FROM users WHERE lower(username) = lower($1);`
	userByPhoneQ    = `SELECT ` + userColumns + ` FROM users WHERE phone = $1;`

	insertUserQ = `
INSERT INTO users (id, email, username, phone, password_hash, created_at)
VALUES ($1, $2, $3, $4, $5, $6);`

	insertUserRoleQ = `
INSERT INTO user_roles (user_id, role)
VALUES ($1, $2);`

	userRolesQ = `
SELECT role
FROM user_roles
WHERE user_id = $1
ORDER BY role;`
)
