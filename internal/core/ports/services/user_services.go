package services

import "context"

// UserSvcFacade provisions local user rows for authenticated token subjects.
type UserSvcFacade interface {
	// EnsureUser makes sure a user row exists for the given subject. Name and
	// email come from the token claims and may be empty.
	EnsureUser(ctx context.Context, userID, name, email string) error
}
