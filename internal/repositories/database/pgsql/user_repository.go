package pgsql

import (
	"context"
	"fmt"

	"github.com/finflow/finflow_backend/internal/apperrors"
	"github.com/finflow/finflow_backend/internal/core/domain"
	portsrepo "github.com/finflow/finflow_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for user data.
func newPgxUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

// EnsureUser inserts the user row if it does not exist yet. Repeated calls
// for the same ID are no-ops, so this is safe on every request.
func (r *PgxUserRepository) EnsureUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (user_id, name, email, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		ON CONFLICT (user_id) DO NOTHING;
	`
	_, err := r.Pool.Exec(ctx, query, user.UserID, user.Name, user.Email, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email already registered to another user", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to ensure user %s: %w", user.UserID, err)
	}
	return nil
}
