package repositories

import (
	"context"

	"github.com/finflow/finflow_backend/internal/core/domain"
)

// UserRepositoryFacade defines persistence operations for user rows.
type UserRepositoryFacade interface {
	// EnsureUser inserts the user if no row with that ID exists yet.
	// An existing row is left untouched.
	EnsureUser(ctx context.Context, user domain.User) error
}
