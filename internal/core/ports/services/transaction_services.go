package services

import (
	"context"

	"github.com/finflow/finflow_backend/internal/core/domain"
	"github.com/finflow/finflow_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// TransactionReaderSvc defines read operations for transaction data
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a transaction belonging to the given user.
	GetTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error)

	// GetTransactionByReference retrieves a transaction by its customer-facing reference.
	GetTransactionByReference(ctx context.Context, userID string, reference string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, paginated page of the user's transactions.
	ListTransactions(ctx context.Context, userID string, req dto.ListTransactionsRequest) ([]domain.Transaction, *string, error)

	// ListAccountTransactions retrieves a paginated page of transactions touching one account.
	ListAccountTransactions(ctx context.Context, userID string, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionOrchestratorSvc defines the money movement operations. Each call
// executes as a single atomic unit: either every balance change and the
// transaction record commit together, or none do.
type TransactionOrchestratorSvc interface {
	// Deposit credits an account. A deposit in a foreign currency is converted
	// to the account currency at the current rate and the conversion recorded
	// in the transaction metadata.
	Deposit(ctx context.Context, userID string, req dto.DepositRequest) (*domain.Transaction, error)

	// Withdraw debits an account in its own currency.
	Withdraw(ctx context.Context, userID string, req dto.WithdrawalRequest) (*domain.Transaction, error)

	// Transfer moves money between two internal accounts. The destination is
	// addressed by account number and may belong to another user.
	Transfer(ctx context.Context, userID string, req dto.TransferRequest) (*domain.Transaction, error)

	// Pay debits an account for an external recipient recorded in metadata.
	Pay(ctx context.Context, userID string, req dto.PaymentRequest) (*domain.Transaction, error)

	// ExecuteTransfer moves money between two accounts already resolved to IDs.
	// Used by the bulk batch executor.
	ExecuteTransfer(ctx context.Context, userID string, sourceAccountID, destinationAccountID string, amount decimal.Decimal, description string) (*domain.Transaction, error)
}

// PaymentSettler forwards a completed payment to an external settlement
// network. The default implementation acknowledges without contacting
// anything; real payment rails plug in here.
type PaymentSettler interface {
	Settle(ctx context.Context, txn domain.Transaction) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionOrchestratorSvc
}
