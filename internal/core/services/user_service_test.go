package services_test

import (
	"context"
	"testing"

	"github.com/finflow/finflow_backend/internal/core/domain"
	"github.com/finflow/finflow_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	portsrepo "github.com/finflow/finflow_backend/internal/core/ports/repositories"
	portssvc "github.com/finflow/finflow_backend/internal/core/ports/services"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) EnsureUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  portssvc.UserSvcFacade

	userID string
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockUserRepository)
	s.service = services.NewUserService(s.mockRepo)
	s.userID = uuid.NewString()
}

func (s *UserServiceTestSuite) TestEnsureUserUpsertsOncePerSubject() {
	ctx := context.Background()

	var saved domain.User
	s.mockRepo.On("EnsureUser", ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.User)
		}).Return(nil).Once()

	s.Require().NoError(s.service.EnsureUser(ctx, s.userID, "Ada Lovelace", "ada@example.com"))
	s.Equal(s.userID, saved.UserID)
	s.Equal("Ada Lovelace", saved.Name)
	s.Equal("ada@example.com", saved.Email)

	// A second request from the same subject must not hit the database again.
	s.Require().NoError(s.service.EnsureUser(ctx, s.userID, "Ada Lovelace", "ada@example.com"))
	s.mockRepo.AssertNumberOfCalls(s.T(), "EnsureUser", 1)
}

func (s *UserServiceTestSuite) TestEnsureUserRetriesAfterFailure() {
	ctx := context.Background()
	s.mockRepo.On("EnsureUser", ctx, mock.AnythingOfType("domain.User")).Return(context.DeadlineExceeded).Once()
	s.mockRepo.On("EnsureUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	s.Require().Error(s.service.EnsureUser(ctx, s.userID, "Ada Lovelace", ""))

	// The failure must not be cached as provisioned.
	s.Require().NoError(s.service.EnsureUser(ctx, s.userID, "Ada Lovelace", ""))
	s.mockRepo.AssertNumberOfCalls(s.T(), "EnsureUser", 2)
}

func (s *UserServiceTestSuite) TestEnsureUserDefaultsNameToSubject() {
	ctx := context.Background()

	var saved domain.User
	s.mockRepo.On("EnsureUser", ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.User)
		}).Return(nil).Once()

	s.Require().NoError(s.service.EnsureUser(ctx, s.userID, "", ""))
	s.Equal(s.userID, saved.Name)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
