package pg

import (
	"context"
	"errors"

	"github.com/dropDatabas3/consentd/internal/domain/repository"
	"github.com/dropDatabas3/consentd/internal/permission"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationsStore struct{ pool *pgxpool.Pool }

// GetByClientID: busca la aplicación por su client_id público.
func (s *applicationsStore) GetByClientID(ctx context.Context, clientID string) (*repository.Application, error) {
	return scanApplication(s.pool.QueryRow(ctx, applicationByClientIDQ, clientID))
}

// List: todas las aplicaciones, ordenadas por display_name.
func (s *applicationsStore) List(ctx context.Context) ([]repository.Application, error) {
	rows, err := s.pool.Query(ctx, applicationListQ)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *app)
	}
	return out, rows.Err()
}

// Create: inserta la aplicación. client_id duplicado → ErrConflict.
func (s *applicationsStore) Create(ctx context.Context, app *repository.Application) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, insertApplicationQ,
		app.ID, app.ClientID, app.Secret, app.DisplayName,
		string(app.ConsentType), app.Type, app.Permissions.Strings(),
		app.RedirectURIs, app.PostLogoutRedirectURIs)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// Update: full replace de la fila identificada por targetClientID.
// Las listas de redirect URIs se escriben tal cual (nil limpia).
func (s *applicationsStore) Update(ctx context.Context, targetClientID string, app *repository.Application) error {
	tag, err := s.pool.Exec(ctx, updateApplicationQ,
		targetClientID,
		app.ClientID, app.Secret, app.DisplayName,
		string(app.ConsentType), app.Type, app.Permissions.Strings(),
		app.RedirectURIs, app.PostLogoutRedirectURIs)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete: borrado duro; ausencia → ErrNotFound, nunca no-op.
func (s *applicationsStore) Delete(ctx context.Context, clientID string) error {
	tag, err := s.pool.Exec(ctx, deleteApplicationQ, clientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanApplication(row rowScanner) (*repository.Application, error) {
	var (
		app         repository.Application
		consentType string
		perms       []string
	)
	err := row.Scan(&app.ID, &app.ClientID, &app.Secret, &app.DisplayName,
		&consentType, &app.Type, &perms, &app.RedirectURIs, &app.PostLogoutRedirectURIs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	app.ConsentType = repository.ConsentType(consentType)
	app.Permissions, err = permission.ParseSet(perms)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const (
	applicationColumns = `id, client_id, secret, display_name, consent_type, app_type,
       permissions, redirect_uris, post_logout_redirect_uris`

	applicationByClientIDQ = `
SELECT ` + applicationColumns + `
FROM applications
WHERE client_id = $1;`

	applicationListQ = `
SELECT ` + applicationColumns + `
FROM applications
ORDER BY display_name;`

	insertApplicationQ = `
INSERT INTO applications (id, client_id, secret, display_name, consent_type, app_type,
                          permissions, redirect_uris, post_logout_redirect_uris)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	updateApplicationQ = `
UPDATE applications
SET client_id = $2, secret = $3, display_name = $4, consent_type = $5,
    app_type = $6, permissions = $7, redirect_uris = $8, post_logout_redirect_uris = $9
WHERE client_id = $1;`

	deleteApplicationQ = `DELETE FROM applications WHERE client_id = $1;`
)
