package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finflow/finflow_backend/internal/apperrors"
	"github.com/finflow/finflow_backend/internal/core/domain"
	portsrepo "github.com/finflow/finflow_backend/internal/core/ports/repositories"
	portssvc "github.com/finflow/finflow_backend/internal/core/ports/services"
	"github.com/finflow/finflow_backend/internal/dto"
	"github.com/finflow/finflow_backend/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountNumberAttempts bounds retries when a freshly generated account
// number collides with an existing one.
const accountNumberAttempts = 3

// accountServiceImpl implements the AccountSvcFacade interface
type accountServiceImpl struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	fxRateSvc   portssvc.FxRateSvcFacade
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountServiceImpl)

// WithFxRateService adds the exchange rate service dependency, used to
// validate currency codes at account creation.
func WithFxRateService(svc portssvc.FxRateSvcFacade) AccountServiceOption {
	return func(s *accountServiceImpl) {
		s.fxRateSvc = svc
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountServiceImpl{
		accountRepo: repo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure accountServiceImpl implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountServiceImpl)(nil)

// CreateAccount opens a new account with a zero balance and a freshly
// generated account number.
func (s *accountServiceImpl) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	if s.fxRateSvc != nil {
		rates, _, err := s.fxRateSvc.GetRates(ctx)
		if err == nil {
			if _, ok := rates[req.CurrencyCode]; !ok {
				s.LogWarn(ctx, "Unknown currency code at account creation",
					slog.String("currency_code", req.CurrencyCode))
				return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownCurrency, req.CurrencyCode)
			}
		}
		// Rate source being down must not block opening accounts.
	}

	now := time.Now()

	var account domain.Account
	for attempt := 0; attempt < accountNumberAttempts; attempt++ {
		accountNumber, err := utils.NewAccountNumber()
		if err != nil {
			s.LogError(ctx, err, "Failed to generate account number")
			return nil, fmt.Errorf("failed to generate account number: %w", err)
		}

		account = domain.Account{
			AccountID:     uuid.NewString(),
			UserID:        userID,
			AccountNumber: accountNumber,
			AccountType:   req.AccountType,
			CurrencyCode:  req.CurrencyCode,
			Balance:       decimal.Zero,
			IsActive:      true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}

		err = s.accountRepo.SaveAccount(ctx, account)
		if err == nil {
			s.LogInfo(ctx, "Account created successfully",
				slog.String("account_id", account.AccountID),
				slog.String("account_number", account.AccountNumber))
			return &account, nil
		}
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save account",
				slog.String("account_id", account.AccountID))
			return nil, err
		}
		s.LogWarn(ctx, "Account number collision, regenerating",
			slog.String("account_number", account.AccountNumber),
			slog.Int("attempt", attempt+1))
	}

	return nil, fmt.Errorf("%w: exhausted account number generation attempts", apperrors.ErrDuplicate)
}

// GetAccountByID retrieves an account owned by the given user.
func (s *accountServiceImpl) GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	if account.UserID != userID {
		// Do not reveal that the account exists.
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// ListAccounts retrieves all accounts owned by the given user.
func (s *accountServiceImpl) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("user_id", userID))
		return nil, err
	}
	return accounts, nil
}

// GetAccountSummary aggregates balances and counts over the user's active accounts.
func (s *accountServiceImpl) GetAccountSummary(ctx context.Context, userID string) (*domain.AccountSummary, error) {
	summary, err := s.accountRepo.GetAccountSummary(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute account summary", slog.String("user_id", userID))
		return nil, err
	}
	return summary, nil
}

// ResolveAccountNumber returns the limited public view of an active account.
func (s *accountServiceImpl) ResolveAccountNumber(ctx context.Context, accountNumber string) (*domain.PublicAccount, error) {
	pub, err := s.accountRepo.FindPublicAccountByNumber(ctx, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to resolve account number", slog.String("account_number", accountNumber))
		}
		return nil, err
	}
	return pub, nil
}

// DeactivateAccount marks an account as inactive. The account must belong to
// the user and carry a zero balance; funds are never silently dropped.
func (s *accountServiceImpl) DeactivateAccount(ctx context.Context, userID string, accountID string) error {
	account, err := s.GetAccountByID(ctx, userID, accountID)
	if err != nil {
		return err
	}
	if !account.Balance.IsZero() {
		s.LogWarn(ctx, "Refusing to deactivate account with non-zero balance",
			slog.String("account_id", accountID),
			slog.String("balance", account.Balance.String()))
		return fmt.Errorf("%w: withdraw or transfer remaining funds first", apperrors.ErrNonZeroBalance)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}
