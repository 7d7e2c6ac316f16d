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

// defaultTxnMaxRetries bounds how often a unit of work is retried after a
// serialization failure or deadlock.
const defaultTxnMaxRetries = 3

// transactionServiceImpl implements the TransactionSvcFacade interface.
// Every money movement runs as one database transaction: insert the
// transaction row, lock the touched accounts in deterministic order, validate
// against the locked state, apply the balance deltas, flip the row to
// COMPLETED and commit. Either everything lands or nothing does.
type transactionServiceImpl struct {
	BaseService
	txnRepo     portsrepo.TransactionRepositoryWithTx
	accountRepo portsrepo.AccountRepositoryFacade
	fxRateSvc   portssvc.FxRateSvcFacade
	notifier    portssvc.TransactionNotifier
	settler     portssvc.PaymentSettler
	maxRetries  int
	lockTimeout time.Duration
}

// noopSettler acknowledges settlements without contacting any network.
type noopSettler struct{}

func (noopSettler) Settle(context.Context, domain.Transaction) error { return nil }

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionServiceImpl)

// WithTransactionNotifier adds the post-commit notifier dependency.
func WithTransactionNotifier(n portssvc.TransactionNotifier) TransactionServiceOption {
	return func(s *transactionServiceImpl) {
		s.notifier = n
	}
}

// WithPaymentSettler replaces the default no-op settlement provider.
func WithPaymentSettler(p portssvc.PaymentSettler) TransactionServiceOption {
	return func(s *transactionServiceImpl) {
		if p != nil {
			s.settler = p
		}
	}
}

// WithTxnMaxRetries overrides how often conflicting units of work are retried.
func WithTxnMaxRetries(n int) TransactionServiceOption {
	return func(s *transactionServiceImpl) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// WithTxnLockTimeout bounds how long a unit of work waits on a row lock.
// Zero disables the bound.
func WithTxnLockTimeout(d time.Duration) TransactionServiceOption {
	return func(s *transactionServiceImpl) {
		s.lockTimeout = d
	}
}

// NewTransactionService creates a new transaction service with the provided options
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryWithTx, accountRepo portsrepo.AccountRepositoryFacade, fxRateSvc portssvc.FxRateSvcFacade, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionServiceImpl{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		fxRateSvc:   fxRateSvc,
		settler:     noopSettler{},
		maxRetries:  defaultTxnMaxRetries,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure transactionServiceImpl implements the TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionServiceImpl)(nil)

// unitOfWork describes one money movement about to be executed.
type unitOfWork struct {
	txn                domain.Transaction
	balanceChanges     map[string]decimal.Decimal
	sourceAccountID    string // empty for deposits
	destinationOwnerID string // set for transfers, for the received notification
}

// Deposit credits an account. A deposit in a foreign currency is converted to
// the account currency at the current rate and the conversion recorded in the
// transaction metadata.
func (s *transactionServiceImpl) Deposit(ctx context.Context, userID string, req dto.DepositRequest) (*domain.Transaction, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	account, err := s.ownedActiveAccount(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}

	amount := req.Amount
	var metadata *domain.TransactionMetadata
	if req.CurrencyCode != account.CurrencyCode {
		converted, rate, err := s.fxRateSvc.Convert(ctx, req.Amount, req.CurrencyCode, account.CurrencyCode)
		if err != nil {
			s.LogError(ctx, err, "Failed to convert deposit amount",
				slog.String("from", req.CurrencyCode),
				slog.String("to", account.CurrencyCode))
			return nil, err
		}
		if !converted.IsPositive() {
			return nil, fmt.Errorf("%w: converted amount must be positive", apperrors.ErrValidation)
		}
		metadata = &domain.TransactionMetadata{
			Conversion: &domain.ConversionDetails{
				OriginalAmount:   req.Amount,
				OriginalCurrency: req.CurrencyCode,
				ConversionRate:   rate,
			},
		}
		amount = converted
	}

	work := unitOfWork{
		txn: domain.Transaction{
			UserID:               userID,
			Type:                 domain.Deposit,
			Amount:               amount,
			CurrencyCode:         account.CurrencyCode,
			Description:          req.Description,
			DestinationAccountID: &account.AccountID,
			Metadata:             metadata,
		},
		balanceChanges: map[string]decimal.Decimal{
			account.AccountID: amount,
		},
	}
	return s.execute(ctx, work)
}

// Withdraw debits an account in its own currency.
func (s *transactionServiceImpl) Withdraw(ctx context.Context, userID string, req dto.WithdrawalRequest) (*domain.Transaction, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	account, err := s.ownedActiveAccount(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}

	work := unitOfWork{
		txn: domain.Transaction{
			UserID:          userID,
			Type:            domain.Withdrawal,
			Amount:          req.Amount,
			CurrencyCode:    account.CurrencyCode,
			Description:     req.Description,
			SourceAccountID: &account.AccountID,
		},
		balanceChanges: map[string]decimal.Decimal{
			account.AccountID: req.Amount.Neg(),
		},
		sourceAccountID: account.AccountID,
	}
	return s.execute(ctx, work)
}

// Transfer moves money between two internal accounts. The destination is
// addressed by account number and may belong to another user.
func (s *transactionServiceImpl) Transfer(ctx context.Context, userID string, req dto.TransferRequest) (*domain.Transaction, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	source, err := s.ownedActiveAccount(ctx, userID, req.SourceAccountID)
	if err != nil {
		return nil, err
	}

	destination, err := s.accountRepo.FindAccountByNumber(ctx, req.DestinationAccountNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: destination account not found", apperrors.ErrNotFound)
		}
		return nil, err
	}

	return s.transferBetween(ctx, userID, source, destination, req.Amount, req.Description)
}

// ExecuteTransfer moves money between two accounts already resolved to IDs.
// Used by the bulk batch executor.
func (s *transactionServiceImpl) ExecuteTransfer(ctx context.Context, userID string, sourceAccountID, destinationAccountID string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	source, err := s.ownedActiveAccount(ctx, userID, sourceAccountID)
	if err != nil {
		return nil, err
	}

	destination, err := s.accountRepo.FindAccountByID(ctx, destinationAccountID)
	if err != nil {
		return nil, err
	}

	return s.transferBetween(ctx, userID, source, destination, amount, description)
}

func (s *transactionServiceImpl) transferBetween(ctx context.Context, userID string, source, destination *domain.Account, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	if source.AccountID == destination.AccountID {
		return nil, fmt.Errorf("%w: source and destination accounts are the same", apperrors.ErrValidation)
	}
	if !destination.IsActive {
		return nil, fmt.Errorf("%w: destination account is inactive", apperrors.ErrValidation)
	}
	if source.CurrencyCode != destination.CurrencyCode {
		return nil, fmt.Errorf("%w: accounts hold different currencies", apperrors.ErrValidation)
	}

	work := unitOfWork{
		txn: domain.Transaction{
			UserID:               userID,
			Type:                 domain.Transfer,
			Amount:               amount,
			CurrencyCode:         source.CurrencyCode,
			Description:          description,
			SourceAccountID:      &source.AccountID,
			DestinationAccountID: &destination.AccountID,
		},
		balanceChanges: map[string]decimal.Decimal{
			source.AccountID:      amount.Neg(),
			destination.AccountID: amount,
		},
		sourceAccountID:    source.AccountID,
		destinationOwnerID: destination.UserID,
	}
	return s.execute(ctx, work)
}

// Pay debits an account for an external recipient recorded in metadata.
func (s *transactionServiceImpl) Pay(ctx context.Context, userID string, req dto.PaymentRequest) (*domain.Transaction, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	account, err := s.ownedActiveAccount(ctx, userID, req.SourceAccountID)
	if err != nil {
		return nil, err
	}

	work := unitOfWork{
		txn: domain.Transaction{
			UserID:          userID,
			Type:            domain.Payment,
			Amount:          req.Amount,
			CurrencyCode:    account.CurrencyCode,
			Description:     req.Description,
			SourceAccountID: &account.AccountID,
			Metadata: &domain.TransactionMetadata{
				Recipient: &domain.RecipientDetails{
					Name:  req.RecipientName,
					Email: req.RecipientEmail,
				},
			},
		},
		balanceChanges: map[string]decimal.Decimal{
			account.AccountID: req.Amount.Neg(),
		},
		sourceAccountID: account.AccountID,
	}
	txn, err := s.execute(ctx, work)
	if err != nil {
		return nil, err
	}

	// Settlement is best-effort: the debit has already committed.
	if err := s.settler.Settle(ctx, *txn); err != nil {
		s.LogError(ctx, err, "Payment settlement failed",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("reference", txn.Reference))
	}
	return txn, nil
}

// execute runs a unit of work, retrying a bounded number of times when the
// database reports a serialization failure or deadlock. On success the
// post-commit notification fires before the transaction is returned.
func (s *transactionServiceImpl) execute(ctx context.Context, work unitOfWork) (*domain.Transaction, error) {
	var (
		txn *domain.Transaction
		err error
	)
	for attempt := 0; ; attempt++ {
		txn, err = s.runOnce(ctx, work)
		if err == nil {
			break
		}
		// A duplicate reference is retried too; runOnce generates a fresh one.
		retryable := errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrDuplicate)
		if !retryable || attempt >= s.maxRetries {
			return nil, err
		}
		s.LogWarn(ctx, "Retrying transaction after conflict",
			slog.Int("attempt", attempt+1),
			slog.String("type", string(work.txn.Type)))
		time.Sleep(time.Duration(attempt+1) * 25 * time.Millisecond)
	}

	if s.notifier != nil {
		s.notifier.NotifyTransactionCompleted(ctx, *txn, work.destinationOwnerID)
	}

	s.LogInfo(ctx, "Transaction completed",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("reference", txn.Reference),
		slog.String("type", string(txn.Type)))
	return txn, nil
}

// runOnce executes the unit of work exactly once inside a single database
// transaction.
func (s *transactionServiceImpl) runOnce(ctx context.Context, work unitOfWork) (*domain.Transaction, error) {
	reference, err := utils.NewTransactionRef()
	if err != nil {
		return nil, fmt.Errorf("failed to generate transaction reference: %w", err)
	}

	now := time.Now()
	txn := work.txn
	txn.TransactionID = uuid.NewString()
	txn.Reference = reference
	txn.Status = domain.StatusPending
	txn.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     txn.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: txn.UserID,
	}

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txnRepo.Rollback(ctx, tx)

	if s.lockTimeout > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())); err != nil {
			return nil, fmt.Errorf("failed to set lock timeout: %w", err)
		}
	}

	if err := s.txnRepo.SaveTransactionInTx(ctx, tx, txn); err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(work.balanceChanges))
	for accountID := range work.balanceChanges {
		accountIDs = append(accountIDs, accountID)
	}
	lockedAccounts, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return nil, err
	}

	// Validate against the locked state: pre-reads may be stale by now.
	for accountID, delta := range work.balanceChanges {
		locked := lockedAccounts[accountID]
		if !locked.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, accountID)
		}
		if delta.IsNegative() && locked.Balance.Add(delta).IsNegative() {
			return nil, fmt.Errorf("%w: account %s holds %s", apperrors.ErrInsufficientFunds, accountID, locked.Balance.StringFixed(2))
		}
	}

	if err := s.accountRepo.UpdateAccountBalancesInTx(ctx, tx, work.balanceChanges, txn.UserID, now); err != nil {
		return nil, err
	}

	if err := s.txnRepo.UpdateTransactionStatusInTx(ctx, tx, txn.TransactionID, domain.StatusCompleted, txn.UserID, now); err != nil {
		return nil, err
	}

	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	txn.Status = domain.StatusCompleted
	return &txn, nil
}

// ownedActiveAccount loads an account and checks ownership and active state.
// The caller owns a deactivated account, so naming its state discloses nothing.
func (s *transactionServiceImpl) ownedActiveAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s is deactivated", apperrors.ErrForbidden, accountID)
	}
	return account, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if amount.Exponent() < -2 {
		return fmt.Errorf("%w: amount has more than 2 decimal places", apperrors.ErrValidation)
	}
	return nil
}

// GetTransactionByID retrieves a transaction belonging to the given user.
func (s *transactionServiceImpl) GetTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}

// GetTransactionByReference retrieves a transaction by its customer-facing reference.
func (s *transactionServiceImpl) GetTransactionByReference(ctx context.Context, userID string, reference string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}

// ListTransactions retrieves a filtered, paginated page of the user's transactions.
func (s *transactionServiceImpl) ListTransactions(ctx context.Context, userID string, req dto.ListTransactionsRequest) ([]domain.Transaction, *string, error) {
	filter := domain.ListTransactionsFilter{
		Type:   req.Type,
		Status: req.Status,
		From:   req.From,
		To:     req.To,
	}
	return s.txnRepo.ListTransactionsByUser(ctx, userID, filter, req.Limit, req.NextToken)
}

// ListAccountTransactions retrieves a page of transactions touching one of the
// user's accounts.
func (s *transactionServiceImpl) ListAccountTransactions(ctx context.Context, userID string, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	if account.UserID != userID {
		return nil, nil, apperrors.ErrNotFound
	}
	return s.txnRepo.ListTransactionsByAccountID(ctx, userID, accountID, limit, nextToken)
}
