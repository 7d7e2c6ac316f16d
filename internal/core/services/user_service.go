package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/finflow/finflow_backend/internal/core/domain"
	portsrepo "github.com/finflow/finflow_backend/internal/core/ports/repositories"
	portssvc "github.com/finflow/finflow_backend/internal/core/ports/services"
)

// userServiceImpl implements the UserSvcFacade interface. Identity is owned
// by the external token issuer; this service only guarantees that a local
// user row exists so account and notification foreign keys resolve.
type userServiceImpl struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade

	provisioned sync.Map // userID -> struct{}
}

// NewUserService creates a new user provisioning service
func NewUserService(repo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userServiceImpl{userRepo: repo}
}

// Ensure userServiceImpl implements the UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userServiceImpl)(nil)

// EnsureUser upserts the user row on the subject's first request seen by this
// process. Only successful upserts are remembered, so a failed one is retried
// on the next request.
func (s *userServiceImpl) EnsureUser(ctx context.Context, userID, name, email string) error {
	if _, ok := s.provisioned.Load(userID); ok {
		return nil
	}

	if name == "" {
		// The display name feeds the public account lookup and must not be empty.
		name = userID
	}
	err := s.userRepo.EnsureUser(ctx, domain.User{
		UserID:    userID,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to provision user", slog.String("user_id", userID))
		return err
	}

	s.provisioned.Store(userID, struct{}{})
	return nil
}
