package pg

import (
	"context"
	"time"

	"github.com/dropDatabas3/consentd/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type authorizationsStore struct{ pool *pgxpool.Pool }

// Find: autorizaciones que matchean el filtro, la más reciente primero.
// El filtro de scopes usa containment (@>): lo otorgado debe ser un
// superconjunto de lo pedido.
func (s *authorizationsStore) Find(ctx context.Context, f repository.AuthorizationFilter) ([]repository.Authorization, error) {
	scopes := f.Scopes
	if scopes == nil {
		scopes = []string{}
	}
	rows, err := s.pool.Query(ctx, findAuthorizationsQ,
		f.UserID, f.ClientID, string(f.Status), string(f.Type), scopes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.Authorization
	for rows.Next() {
		var (
			a           repository.Authorization
			status, typ string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.ClientID, &a.Scopes, &status, &typ, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Status = repository.AuthorizationStatus(status)
		a.Type = repository.AuthorizationType(typ)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create: inserta la autorización. Sin constraint de unicidad: duplicados
// por carreras de primer consentimiento son benignos.
func (s *authorizationsStore) Create(ctx context.Context, a *repository.Authorization) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, insertAuthorizationQ,
		a.ID, a.UserID, a.ClientID, a.Scopes, string(a.Status), string(a.Type), a.CreatedAt)
	return err
}

const (
	findAuthorizationsQ = `
SELECT id, user_id, client_id, scopes, status, auth_type, created_at
FROM authorizations
WHERE user_id = $1
  AND client_id = $2
  AND status = $3
  AND auth_type = $4
  AND scopes @> $5
ORDER BY created_at DESC;`

	insertAuthorizationQ = `
INSERT INTO authorizations (id, user_id, client_id, scopes, status, auth_type, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);`
)
