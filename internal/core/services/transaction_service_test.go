package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finflow/finflow_backend/internal/apperrors"
	"github.com/finflow/finflow_backend/internal/core/domain"
	"github.com/finflow/finflow_backend/internal/core/services"
	"github.com/finflow/finflow_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	portsrepo "github.com/finflow/finflow_backend/internal/core/ports/repositories"
	portssvc "github.com/finflow/finflow_backend/internal/core/ports/services"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryWithTx = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTransactionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, filter domain.ListTransactionsFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, userID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		v := args.Get(1).(string)
		token = &v
	}
	return args.Get(0).([]domain.Transaction), token, args.Error(2)
}

func (m *MockTransactionRepository) ListTransactionsByAccountID(ctx context.Context, userID string, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, userID, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		v := args.Get(1).(string)
		token = &v
	}
	return args.Get(0).([]domain.Transaction), token, args.Error(2)
}

func (m *MockTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransactionStatusInTx(ctx context.Context, tx pgx.Tx, transactionID string, status domain.TransactionStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, tx, transactionID, status, updatedBy, now)
	return args.Error(0)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindPublicAccountByNumber(ctx context.Context, accountNumber string) (*domain.PublicAccount, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublicAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccountSummary(ctx context.Context, userID string) (*domain.AccountSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountSummary), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

// --- Mock FxRateService ---
type MockFxRateService struct {
	mock.Mock
}

var _ portssvc.FxRateSvcFacade = (*MockFxRateService)(nil)

func (m *MockFxRateService) GetRates(ctx context.Context) (domain.RateTable, time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, time.Time{}, args.Error(2)
	}
	return args.Get(0).(domain.RateTable), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockFxRateService) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, amount, from, to)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

// --- Mock TransactionNotifier ---
type MockTransactionNotifier struct {
	mock.Mock
}

var _ portssvc.TransactionNotifier = (*MockTransactionNotifier)(nil)

func (m *MockTransactionNotifier) NotifyTransactionCompleted(ctx context.Context, txn domain.Transaction, destinationOwnerID string) {
	m.Called(ctx, txn, destinationOwnerID)
}

// --- Mock PaymentSettler ---
type MockPaymentSettler struct {
	mock.Mock
}

var _ portssvc.PaymentSettler = (*MockPaymentSettler)(nil)

func (m *MockPaymentSettler) Settle(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

// --- Test Suite ---
type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockAccountRepository
	mockFxRateSvc   *MockFxRateService
	mockNotifier    *MockTransactionNotifier
	service         portssvc.TransactionSvcFacade

	userID      string
	otherUserID string
	checking    domain.Account
	savings     domain.Account
	otherUsers  domain.Account
}

func (s *TransactionServiceTestSuite) SetupTest() {
	s.mockTxnRepo = new(MockTransactionRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockFxRateSvc = new(MockFxRateService)
	s.mockNotifier = new(MockTransactionNotifier)
	s.service = services.NewTransactionService(
		s.mockTxnRepo,
		s.mockAccountRepo,
		s.mockFxRateSvc,
		services.WithTransactionNotifier(s.mockNotifier),
	)

	s.userID = uuid.NewString()
	s.otherUserID = uuid.NewString()

	s.checking = domain.Account{
		AccountID:     uuid.NewString(),
		UserID:        s.userID,
		AccountNumber: "ACC000000AAAAAA",
		AccountType:   domain.Checking,
		CurrencyCode:  "USD",
		Balance:       decimal.NewFromInt(500),
		IsActive:      true,
	}
	s.savings = domain.Account{
		AccountID:     uuid.NewString(),
		UserID:        s.userID,
		AccountNumber: "ACC000000BBBBBB",
		AccountType:   domain.Savings,
		CurrencyCode:  "USD",
		Balance:       decimal.NewFromInt(100),
		IsActive:      true,
	}
	s.otherUsers = domain.Account{
		AccountID:     uuid.NewString(),
		UserID:        s.otherUserID,
		AccountNumber: "ACC000000CCCCCC",
		AccountType:   domain.Checking,
		CurrencyCode:  "USD",
		Balance:       decimal.NewFromInt(50),
		IsActive:      true,
	}
}

// expectUnitOfWork wires the happy-path repository expectations for one
// committed money movement.
func (s *TransactionServiceTestSuite) expectUnitOfWork(locked map[string]domain.Account) {
	ctx := mock.Anything
	s.mockTxnRepo.On("Begin", ctx).Return(nil, nil).Once()
	s.mockTxnRepo.On("SaveTransactionInTx", ctx, mock.Anything, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, mock.AnythingOfType("[]string")).Return(locked, nil).Once()
	s.mockAccountRepo.On("UpdateAccountBalancesInTx", ctx, mock.Anything, mock.AnythingOfType("map[string]decimal.Decimal"), s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	s.mockTxnRepo.On("UpdateTransactionStatusInTx", ctx, mock.Anything, mock.AnythingOfType("string"), domain.StatusCompleted, s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	s.mockTxnRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	s.mockTxnRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()
}

func (s *TransactionServiceTestSuite) TestDepositSuccess() {
	ctx := context.Background()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.checking.AccountID).Return(&s.checking, nil).Once()
	s.expectUnitOfWork(map[string]domain.Account{s.checking.AccountID: s.checking})
	s.mockNotifier.On("NotifyTransactionCompleted", ctx, mock.AnythingOfType("domain.Transaction"), "").Once()

	txn, err := s.service.Deposit(ctx, s.userID, dto.DepositRequest{
		AccountID:    s.checking.AccountID,
		Amount:       decimal.NewFromFloat(99.50),
		CurrencyCode: "USD",
		Description:  "salary",
	})

	s.Require().NoError(err)
	s.Require().NotNil(txn)
	s.Equal(domain.Deposit, txn.Type)
	s.Equal(domain.StatusCompleted, txn.Status)
	s.True(txn.Amount.Equal(decimal.NewFromFloat(99.50)))
	s.NotEmpty(txn.Reference)
	s.Nil(txn.Metadata)
	s.mockFxRateSvc.AssertNotCalled(s.T(), "Convert")
	s.mockTxnRepo.AssertExpectations(s.T())
	s.mockAccountRepo.AssertExpectations(s.T())
	s.mockNotifier.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestDepositConvertsForeignCurrency() {
	ctx := context.Background()
	converted := decimal.NewFromFloat(92.31)
	rate := decimal.NewFromFloat(0.92310000)

	s.mockAccountRepo.On("FindAccountByID", ctx, s.checking.AccountID).Return(&s.checking, nil).Once()
	s.mockFxRateSvc.On("Convert", ctx, decimal.NewFromInt(100), "EUR", "USD").Return(converted, rate, nil).Once()
	s.expectUnitOfWork(map[string]domain.Account{s.checking.AccountID: s.checking})
	s.mockNotifier.On("NotifyTransactionCompleted", ctx, mock.AnythingOfType("domain.Transaction"), "").Once()

	txn, err := s.service.Deposit(ctx, s.userID, dto.DepositRequest{
		AccountID:    s.checking.AccountID,
		Amount:       decimal.NewFromInt(100),
		CurrencyCode: "EUR",
	})

	s.Require().NoError(err)
	s.Require().NotNil(txn)
	s.True(txn.Amount.Equal(converted))
	s.Equal("USD", txn.CurrencyCode)
	s.Require().NotNil(txn.Metadata)
	s.Require().NotNil(txn.Metadata.Conversion)
	s.True(txn.Metadata.Conversion.OriginalAmount.Equal(decimal.NewFromInt(100)))
	s.Equal("EUR", txn.Metadata.Conversion.OriginalCurrency)
	s.True(txn.Metadata.Conversion.ConversionRate.Equal(rate))
}

func (s *TransactionServiceTestSuite) TestDepositRejectsNonPositiveAmount() {
	ctx := context.Background()

	_, err := s.service.Deposit(ctx, s.userID, dto.DepositRequest{
		AccountID:    s.checking.AccountID,
		Amount:       decimal.NewFromInt(-5),
		CurrencyCode: "USD",
	})

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.mockTxnRepo.AssertNotCalled(s.T(), "Begin")
}

func (s *TransactionServiceTestSuite) TestDepositRejectsSubCentPrecision() {
	ctx := context.Background()

	_, err := s.service.Deposit(ctx, s.userID, dto.DepositRequest{
		AccountID:    s.checking.AccountID,
		Amount:       decimal.NewFromFloat(10.001),
		CurrencyCode: "USD",
	})

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *TransactionServiceTestSuite) TestWithdrawInsufficientFundsUnderLock() {
	ctx := context.Background()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.savings.AccountID).Return(&s.savings, nil).Once()

	// The locked row holds less than the pre-read balance suggested.
	drained := s.savings
	drained.Balance = decimal.NewFromInt(10)

	s.mockTxnRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockTxnRepo.On("SaveTransactionInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountsByIDsForUpdate", mock.Anything, mock.Anything, mock.AnythingOfType("[]string")).
		Return(map[string]domain.Account{s.savings.AccountID: drained}, nil).Once()
	s.mockTxnRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := s.service.Withdraw(ctx, s.userID, dto.WithdrawalRequest{
		AccountID: s.savings.AccountID,
		Amount:    decimal.NewFromInt(50),
	})

	s.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)
	s.mockTxnRepo.AssertNotCalled(s.T(), "Commit")
	s.mockAccountRepo.AssertNotCalled(s.T(), "UpdateAccountBalancesInTx")
	s.mockNotifier.AssertNotCalled(s.T(), "NotifyTransactionCompleted")
}

func (s *TransactionServiceTestSuite) TestTransferBalanceChangesSumToZero() {
	ctx := context.Background()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.checking.AccountID).Return(&s.checking, nil).Once()
	s.mockAccountRepo.On("FindAccountByNumber", ctx, s.otherUsers.AccountNumber).Return(&s.otherUsers, nil).Once()

	var captured map[string]decimal.Decimal
	s.mockTxnRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockTxnRepo.On("SaveTransactionInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	s.mockAccountRepo.On("FindAccountsByIDsForUpdate", mock.Anything, mock.Anything, mock.AnythingOfType("[]string")).
		Return(map[string]domain.Account{
			s.checking.AccountID:   s.checking,
			s.otherUsers.AccountID: s.otherUsers,
		}, nil).Once()
	s.mockAccountRepo.On("UpdateAccountBalancesInTx", mock.Anything, mock.Anything, mock.AnythingOfType("map[string]decimal.Decimal"), s.userID, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(map[string]decimal.Decimal)
		}).Return(nil).Once()
	s.mockTxnRepo.On("UpdateTransactionStatusInTx", mock.Anything, mock.Anything, mock.AnythingOfType("string"), domain.StatusCompleted, s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	s.mockTxnRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockTxnRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.mockNotifier.On("NotifyTransactionCompleted", ctx, mock.AnythingOfType("domain.Transaction"), s.otherUserID).Once()

	amount := decimal.NewFromFloat(75.25)
	txn, err := s.service.Transfer(ctx, s.userID, dto.TransferRequest{
		SourceAccountID:          s.checking.AccountID,
		DestinationAccountNumber: s.otherUsers.AccountNumber,
		Amount:                   amount,
	})

	s.Require().NoError(err)
	s.Require().NotNil(txn)
	s.Equal(domain.Transfer, txn.Type)

	s.Require().Len(captured, 2)
	s.True(captured[s.checking.AccountID].Equal(amount.Neg()))
	s.True(captured[s.otherUsers.AccountID].Equal(amount))

	sum := decimal.Zero
	for _, delta := range captured {
		sum = sum.Add(delta)
	}
	s.True(sum.IsZero(), "transfer deltas must conserve money")
	s.mockNotifier.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestTransferRejectsCurrencyMismatch() {
	ctx := context.Background()
	eurAccount := s.otherUsers
	eurAccount.CurrencyCode = "EUR"

	s.mockAccountRepo.On("FindAccountByID", ctx, s.checking.AccountID).Return(&s.checking, nil).Once()
	s.mockAccountRepo.On("FindAccountByNumber", ctx, eurAccount.AccountNumber).Return(&eurAccount, nil).Once()

	_, err := s.service.Transfer(ctx, s.userID, dto.TransferRequest{
		SourceAccountID:          s.checking.AccountID,
		DestinationAccountNumber: eurAccount.AccountNumber,
		Amount:                   decimal.NewFromInt(10),
	})

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.mockTxnRepo.AssertNotCalled(s.T(), "Begin")
}

func (s *TransactionServiceTestSuite) TestTransferRejectsSameAccount() {
	ctx := context.Background()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.checking.AccountID).Return(&s.checking, nil).Once()
	s.mockAccountRepo.On("FindAccountByNumber", ctx, s.checking.AccountNumber).Return(&s.checking, nil).Once()

	_, err := s.service.Transfer(ctx, s.userID, dto.TransferRequest{
		SourceAccountID:          s.checking.AccountID,
		DestinationAccountNumber: s.checking.AccountNumber,
		Amount:                   decimal.NewFromInt(10),
	})

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *TransactionServiceTestSuite) TestWithdrawFromDeactivatedOwnAccountForbidden() {
	ctx := context.Background()
	closed := s.checking
	closed.IsActive = false
	s.mockAccountRepo.On("FindAccountByID", ctx, closed.AccountID).Return(&closed, nil).Once()

	_, err := s.service.Withdraw(ctx, s.userID, dto.WithdrawalRequest{
		AccountID: closed.AccountID,
		Amount:    decimal.NewFromInt(10),
	})

	s.Require().ErrorIs(err, apperrors.ErrForbidden)
	s.mockTxnRepo.AssertNotCalled(s.T(), "Begin")
}

func (s *TransactionServiceTestSuite) TestPayRecordsRecipientMetadata() {
	ctx := context.Background()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.checking.AccountID).Return(&s.checking, nil).Once()
	s.expectUnitOfWork(map[string]domain.Account{s.checking.AccountID: s.checking})
	s.mockNotifier.On("NotifyTransactionCompleted", ctx, mock.AnythingOfType("domain.Transaction"), "").Once()

	txn, err := s.service.Pay(ctx, s.userID, dto.PaymentRequest{
		SourceAccountID: s.checking.AccountID,
		Amount:          decimal.NewFromInt(40),
		Description:     "electricity",
		RecipientName:   "City Power",
		RecipientEmail:  "billing@citypower.example",
	})

	s.Require().NoError(err)
	s.Require().NotNil(txn)
	s.Equal(domain.Payment, txn.Type)
	s.Require().NotNil(txn.Metadata)
	s.Require().NotNil(txn.Metadata.Recipient)
	s.Equal("City Power", txn.Metadata.Recipient.Name)
	s.Equal("billing@citypower.example", txn.Metadata.Recipient.Email)
}

func (s *TransactionServiceTestSuite) TestPaySurvivesSettlementFailure() {
	ctx := context.Background()
	settler := new(MockPaymentSettler)
	service := services.NewTransactionService(
		s.mockTxnRepo,
		s.mockAccountRepo,
		s.mockFxRateSvc,
		services.WithTransactionNotifier(s.mockNotifier),
		services.WithPaymentSettler(settler),
	)

	s.mockAccountRepo.On("FindAccountByID", ctx, s.checking.AccountID).Return(&s.checking, nil).Once()
	s.expectUnitOfWork(map[string]domain.Account{s.checking.AccountID: s.checking})
	s.mockNotifier.On("NotifyTransactionCompleted", ctx, mock.AnythingOfType("domain.Transaction"), "").Once()

	var settled domain.Transaction
	settler.On("Settle", ctx, mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) {
			settled = args.Get(1).(domain.Transaction)
		}).Return(context.DeadlineExceeded).Once()

	txn, err := service.Pay(ctx, s.userID, dto.PaymentRequest{
		SourceAccountID: s.checking.AccountID,
		Amount:          decimal.NewFromInt(40),
		RecipientName:   "City Power",
	})

	// The debit committed before settlement ran, so the payment stands.
	s.Require().NoError(err)
	s.Equal(domain.StatusCompleted, txn.Status)
	s.Equal(txn.TransactionID, settled.TransactionID)
	settler.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestExecuteRetriesAfterConflict() {
	ctx := context.Background()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.checking.AccountID).Return(&s.checking, nil).Once()

	// First attempt fails at commit with a serialization conflict, second succeeds.
	s.mockTxnRepo.On("Begin", mock.Anything).Return(nil, nil).Twice()
	s.mockTxnRepo.On("SaveTransactionInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Transaction")).Return(nil).Twice()
	s.mockAccountRepo.On("FindAccountsByIDsForUpdate", mock.Anything, mock.Anything, mock.AnythingOfType("[]string")).
		Return(map[string]domain.Account{s.checking.AccountID: s.checking}, nil).Twice()
	s.mockAccountRepo.On("UpdateAccountBalancesInTx", mock.Anything, mock.Anything, mock.AnythingOfType("map[string]decimal.Decimal"), s.userID, mock.AnythingOfType("time.Time")).Return(nil).Twice()
	s.mockTxnRepo.On("UpdateTransactionStatusInTx", mock.Anything, mock.Anything, mock.AnythingOfType("string"), domain.StatusCompleted, s.userID, mock.AnythingOfType("time.Time")).Return(nil).Twice()
	s.mockTxnRepo.On("Commit", mock.Anything, mock.Anything).Return(apperrors.ErrConflict).Once()
	s.mockTxnRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockTxnRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.mockNotifier.On("NotifyTransactionCompleted", ctx, mock.AnythingOfType("domain.Transaction"), "").Once()

	txn, err := s.service.Withdraw(ctx, s.userID, dto.WithdrawalRequest{
		AccountID: s.checking.AccountID,
		Amount:    decimal.NewFromInt(20),
	})

	s.Require().NoError(err)
	s.Require().NotNil(txn)
	s.mockTxnRepo.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestWithdrawHidesForeignAccount() {
	ctx := context.Background()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.otherUsers.AccountID).Return(&s.otherUsers, nil).Once()

	_, err := s.service.Withdraw(ctx, s.userID, dto.WithdrawalRequest{
		AccountID: s.otherUsers.AccountID,
		Amount:    decimal.NewFromInt(10),
	})

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *TransactionServiceTestSuite) TestGetTransactionByIDHidesForeignTransaction() {
	ctx := context.Background()
	foreign := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        s.otherUserID,
		Type:          domain.Deposit,
		Status:        domain.StatusCompleted,
	}
	s.mockTxnRepo.On("FindTransactionByID", ctx, foreign.TransactionID).Return(&foreign, nil).Once()

	_, err := s.service.GetTransactionByID(ctx, s.userID, foreign.TransactionID)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
