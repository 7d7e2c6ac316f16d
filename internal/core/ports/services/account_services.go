package services

import (
	"context"

	"github.com/finflow/finflow_backend/internal/core/domain"
	"github.com/finflow/finflow_backend/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account owned by the given user.
	GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error)

	// ListAccounts retrieves all accounts owned by the given user.
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)

	// GetAccountSummary aggregates balances and counts over the user's active accounts.
	GetAccountSummary(ctx context.Context, userID string) (*domain.AccountSummary, error)

	// ResolveAccountNumber returns the limited public view of an account looked up
	// by number, regardless of owner. Used to confirm transfer destinations.
	ResolveAccountNumber(ctx context.Context, accountNumber string) (*domain.PublicAccount, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount opens a new account for the given user with a zero balance
	// and a freshly generated account number.
	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive. The account must belong to
	// the user and carry a zero balance.
	DeactivateAccount(ctx context.Context, userID string, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
