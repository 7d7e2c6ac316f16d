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

// --- Mock BulkRepository ---
type MockBulkRepository struct {
	mock.Mock
}

var _ portsrepo.BulkRepositoryWithTx = (*MockBulkRepository)(nil)

func (m *MockBulkRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockBulkRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockBulkRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockBulkRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.BulkBatch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BulkBatch), args.Error(1)
}

func (m *MockBulkRepository) FindItemsByBatchID(ctx context.Context, batchID string) ([]domain.BulkItem, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BulkItem), args.Error(1)
}

func (m *MockBulkRepository) ListBatchesByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.BulkBatch, *string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		v := args.Get(1).(string)
		token = &v
	}
	return args.Get(0).([]domain.BulkBatch), token, args.Error(2)
}

func (m *MockBulkRepository) FindDuePendingBatches(ctx context.Context, now time.Time, staleBefore time.Time, limit int) ([]domain.BulkBatch, error) {
	args := m.Called(ctx, now, staleBefore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BulkBatch), args.Error(1)
}

func (m *MockBulkRepository) SaveBatch(ctx context.Context, batch domain.BulkBatch, items []domain.BulkItem) error {
	args := m.Called(ctx, batch, items)
	return args.Error(0)
}

func (m *MockBulkRepository) UpdateBatchStatus(ctx context.Context, batchID string, status domain.BulkBatchStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, batchID, status, updatedBy, now)
	return args.Error(0)
}

func (m *MockBulkRepository) TryClaimBatch(ctx context.Context, batchID string, now time.Time, staleBefore time.Time) (bool, error) {
	args := m.Called(ctx, batchID, now, staleBefore)
	return args.Bool(0), args.Error(1)
}

func (m *MockBulkRepository) MarkItemResultInTx(ctx context.Context, tx pgx.Tx, item domain.BulkItem, updatedBy string, now time.Time) (int, int, error) {
	args := m.Called(ctx, tx, item, updatedBy, now)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockBulkRepository) FinalizeBatchInTx(ctx context.Context, tx pgx.Tx, batchID string, status domain.BulkBatchStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, tx, batchID, status, updatedBy, now)
	return args.Error(0)
}

// --- Mock TransactionOrchestrator ---
type MockTransactionOrchestrator struct {
	mock.Mock
}

var _ portssvc.TransactionOrchestratorSvc = (*MockTransactionOrchestrator)(nil)

func (m *MockTransactionOrchestrator) Deposit(ctx context.Context, userID string, req dto.DepositRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionOrchestrator) Withdraw(ctx context.Context, userID string, req dto.WithdrawalRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionOrchestrator) Transfer(ctx context.Context, userID string, req dto.TransferRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionOrchestrator) Pay(ctx context.Context, userID string, req dto.PaymentRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionOrchestrator) ExecuteTransfer(ctx context.Context, userID string, sourceAccountID, destinationAccountID string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, sourceAccountID, destinationAccountID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

// --- Test Suite ---
type BulkServiceTestSuite struct {
	suite.Suite
	mockBulkRepo    *MockBulkRepository
	mockAccountRepo *MockAccountRepository
	mockTxnSvc      *MockTransactionOrchestrator
	service         portssvc.BulkSvcFacade

	userID  string
	source  domain.Account
	destOne domain.Account
	destTwo domain.Account
}

func (s *BulkServiceTestSuite) SetupTest() {
	s.mockBulkRepo = new(MockBulkRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockTxnSvc = new(MockTransactionOrchestrator)
	s.service = services.NewBulkService(
		s.mockBulkRepo,
		s.mockAccountRepo,
		s.mockTxnSvc,
		services.WithBulkWorkerCount(1),
		services.WithBulkPollInterval(10*time.Millisecond),
	)

	s.userID = uuid.NewString()
	s.source = domain.Account{
		AccountID:     uuid.NewString(),
		UserID:        s.userID,
		AccountNumber: "ACC000000SSSSSS",
		AccountType:   domain.Checking,
		CurrencyCode:  "USD",
		Balance:       decimal.NewFromInt(100),
		IsActive:      true,
	}
	s.destOne = domain.Account{
		AccountID:     uuid.NewString(),
		UserID:        uuid.NewString(),
		AccountNumber: "ACC000000T1T1T1",
		AccountType:   domain.Checking,
		CurrencyCode:  "USD",
		Balance:       decimal.NewFromInt(5),
		IsActive:      true,
	}
	s.destTwo = domain.Account{
		AccountID:     uuid.NewString(),
		UserID:        uuid.NewString(),
		AccountNumber: "ACC000000T2T2T2",
		AccountType:   domain.Savings,
		CurrencyCode:  "USD",
		Balance:       decimal.NewFromInt(5),
		IsActive:      true,
	}
}

func (s *BulkServiceTestSuite) TestSubmitBatchSuccess() {
	ctx := context.Background()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.source.AccountID).Return(&s.source, nil).Twice()
	s.mockAccountRepo.On("FindAccountByNumber", ctx, s.destOne.AccountNumber).Return(&s.destOne, nil).Once()
	s.mockAccountRepo.On("FindAccountByNumber", ctx, s.destTwo.AccountNumber).Return(&s.destTwo, nil).Once()

	var savedItems []domain.BulkItem
	s.mockBulkRepo.On("SaveBatch", ctx, mock.AnythingOfType("domain.BulkBatch"), mock.AnythingOfType("[]domain.BulkItem")).
		Run(func(args mock.Arguments) {
			savedItems = args.Get(2).([]domain.BulkItem)
		}).Return(nil).Once()

	batch, err := s.service.SubmitBatch(ctx, s.userID, dto.CreateBulkBatchRequest{
		Items: []dto.BulkItemRequest{
			{SourceAccountID: s.source.AccountID, DestinationAccountNumber: s.destOne.AccountNumber, Amount: decimal.NewFromInt(60)},
			{SourceAccountID: s.source.AccountID, DestinationAccountNumber: s.destTwo.AccountNumber, Amount: decimal.NewFromInt(40)},
		},
	})

	s.Require().NoError(err)
	s.Require().NotNil(batch)
	s.Equal(domain.BatchPending, batch.Status)
	s.Equal(2, batch.TotalItems)
	s.Require().Len(savedItems, 2)
	s.Equal(batch.BatchID, savedItems[0].BatchID)
	s.Equal(domain.ItemPending, savedItems[0].Status)
	s.Equal(s.destOne.AccountID, savedItems[0].DestinationAccountID)
	s.Equal(s.destTwo.AccountID, savedItems[1].DestinationAccountID)
}

func (s *BulkServiceTestSuite) TestSubmitBatchRejectsAggregateOverdraft() {
	ctx := context.Background()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.source.AccountID).Return(&s.source, nil).Twice()
	s.mockAccountRepo.On("FindAccountByNumber", ctx, s.destOne.AccountNumber).Return(&s.destOne, nil).Once()
	s.mockAccountRepo.On("FindAccountByNumber", ctx, s.destTwo.AccountNumber).Return(&s.destTwo, nil).Once()

	// Each item alone fits the balance of 100; together they do not.
	_, err := s.service.SubmitBatch(ctx, s.userID, dto.CreateBulkBatchRequest{
		Items: []dto.BulkItemRequest{
			{SourceAccountID: s.source.AccountID, DestinationAccountNumber: s.destOne.AccountNumber, Amount: decimal.NewFromInt(70)},
			{SourceAccountID: s.source.AccountID, DestinationAccountNumber: s.destTwo.AccountNumber, Amount: decimal.NewFromInt(70)},
		},
	})

	s.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)
	s.mockBulkRepo.AssertNotCalled(s.T(), "SaveBatch")
}

func (s *BulkServiceTestSuite) TestSubmitBatchRejectsPastSchedule() {
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)

	_, err := s.service.SubmitBatch(ctx, s.userID, dto.CreateBulkBatchRequest{
		Items:        []dto.BulkItemRequest{{SourceAccountID: s.source.AccountID, DestinationAccountNumber: s.destOne.AccountNumber, Amount: decimal.NewFromInt(1)}},
		ScheduledFor: &past,
	})

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *BulkServiceTestSuite) TestSubmitBatchHidesForeignSourceAccount() {
	ctx := context.Background()
	foreign := s.source
	foreign.UserID = uuid.NewString()
	s.mockAccountRepo.On("FindAccountByID", ctx, foreign.AccountID).Return(&foreign, nil).Once()

	_, err := s.service.SubmitBatch(ctx, s.userID, dto.CreateBulkBatchRequest{
		Items: []dto.BulkItemRequest{{SourceAccountID: foreign.AccountID, DestinationAccountNumber: s.destOne.AccountNumber, Amount: decimal.NewFromInt(1)}},
	})

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *BulkServiceTestSuite) TestSubmitBatchRejectsCurrencyMismatch() {
	ctx := context.Background()
	eurDest := s.destOne
	eurDest.CurrencyCode = "EUR"
	s.mockAccountRepo.On("FindAccountByID", ctx, s.source.AccountID).Return(&s.source, nil).Once()
	s.mockAccountRepo.On("FindAccountByNumber", ctx, eurDest.AccountNumber).Return(&eurDest, nil).Once()

	_, err := s.service.SubmitBatch(ctx, s.userID, dto.CreateBulkBatchRequest{
		Items: []dto.BulkItemRequest{{SourceAccountID: s.source.AccountID, DestinationAccountNumber: eurDest.AccountNumber, Amount: decimal.NewFromInt(1)}},
	})

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *BulkServiceTestSuite) TestGetBatchHidesForeignBatch() {
	ctx := context.Background()
	batch := domain.BulkBatch{BatchID: uuid.NewString(), UserID: uuid.NewString()}
	s.mockBulkRepo.On("FindBatchByID", ctx, batch.BatchID).Return(&batch, nil).Once()

	_, _, err := s.service.GetBatch(ctx, s.userID, batch.BatchID)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
	s.mockBulkRepo.AssertNotCalled(s.T(), "FindItemsByBatchID")
}

// TestExecutorRunsClaimedBatch drives the full poll, claim, execute and
// finalize pipeline through the worker pool with a single worker so the item
// order is deterministic.
func (s *BulkServiceTestSuite) TestExecutorRunsClaimedBatch() {
	batch := domain.BulkBatch{
		BatchID:    uuid.NewString(),
		UserID:     s.userID,
		Status:     domain.BatchPending,
		TotalItems: 2,
	}
	itemOne := domain.BulkItem{
		ItemID:               uuid.NewString(),
		BatchID:              batch.BatchID,
		SourceAccountID:      s.source.AccountID,
		DestinationAccountID: s.destOne.AccountID,
		Amount:               decimal.NewFromInt(10),
		Status:               domain.ItemPending,
	}
	itemTwo := domain.BulkItem{
		ItemID:               uuid.NewString(),
		BatchID:              batch.BatchID,
		SourceAccountID:      s.source.AccountID,
		DestinationAccountID: s.destTwo.AccountID,
		Amount:               decimal.NewFromInt(20),
		Status:               domain.ItemPending,
	}

	s.mockBulkRepo.On("FindDuePendingBatches", mock.Anything, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), mock.AnythingOfType("int")).
		Return([]domain.BulkBatch{batch}, nil).Once()
	s.mockBulkRepo.On("FindDuePendingBatches", mock.Anything, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), mock.AnythingOfType("int")).
		Return([]domain.BulkBatch{}, nil)
	s.mockBulkRepo.On("TryClaimBatch", mock.Anything, batch.BatchID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(true, nil).Once()
	s.mockBulkRepo.On("FindItemsByBatchID", mock.Anything, batch.BatchID).Return([]domain.BulkItem{itemOne, itemTwo}, nil).Once()

	completed := domain.Transaction{TransactionID: uuid.NewString(), Status: domain.StatusCompleted}
	s.mockTxnSvc.On("ExecuteTransfer", mock.Anything, s.userID, s.source.AccountID, s.destOne.AccountID, itemOne.Amount, "").
		Return(&completed, nil).Once()
	s.mockTxnSvc.On("ExecuteTransfer", mock.Anything, s.userID, s.source.AccountID, s.destTwo.AccountID, itemTwo.Amount, "").
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	s.mockBulkRepo.On("Begin", mock.Anything).Return(nil, nil).Twice()
	s.mockBulkRepo.On("MarkItemResultInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.BulkItem"), s.userID, mock.AnythingOfType("time.Time")).
		Return(1, 0, nil).Once()
	s.mockBulkRepo.On("MarkItemResultInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.BulkItem"), s.userID, mock.AnythingOfType("time.Time")).
		Return(1, 1, nil).Once()

	finalized := make(chan struct{})
	s.mockBulkRepo.On("FinalizeBatchInTx", mock.Anything, mock.Anything, batch.BatchID, domain.BatchPartiallyCompleted, s.userID, mock.AnythingOfType("time.Time")).
		Run(func(mock.Arguments) { close(finalized) }).Return(nil).Once()
	s.mockBulkRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)
	s.mockBulkRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)

	executor := s.service.(portssvc.BulkExecutor)
	ctx, cancel := context.WithCancel(context.Background())
	executor.Start(ctx)

	select {
	case <-finalized:
	case <-time.After(2 * time.Second):
		s.FailNow("batch was not finalized in time")
	}

	cancel()
	executor.Stop()

	s.mockBulkRepo.AssertExpectations(s.T())
	s.mockTxnSvc.AssertExpectations(s.T())
}

// TestExecutorReclaimsStalledBatch covers a batch whose executor died
// mid-run: the poll loop picks it up again and only the items still pending
// are executed, so finished items never run twice.
func (s *BulkServiceTestSuite) TestExecutorReclaimsStalledBatch() {
	doneTxnID := uuid.NewString()
	batch := domain.BulkBatch{
		BatchID:      uuid.NewString(),
		UserID:       s.userID,
		Status:       domain.BatchProcessing,
		TotalItems:   2,
		SuccessCount: 1,
	}
	finishedItem := domain.BulkItem{
		ItemID:               uuid.NewString(),
		BatchID:              batch.BatchID,
		SourceAccountID:      s.source.AccountID,
		DestinationAccountID: s.destOne.AccountID,
		Amount:               decimal.NewFromInt(10),
		Status:               domain.ItemSuccess,
		TransactionID:        &doneTxnID,
	}
	pendingItem := domain.BulkItem{
		ItemID:               uuid.NewString(),
		BatchID:              batch.BatchID,
		SourceAccountID:      s.source.AccountID,
		DestinationAccountID: s.destTwo.AccountID,
		Amount:               decimal.NewFromInt(20),
		Status:               domain.ItemPending,
	}

	s.mockBulkRepo.On("FindDuePendingBatches", mock.Anything, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), mock.AnythingOfType("int")).
		Return([]domain.BulkBatch{batch}, nil).Once()
	s.mockBulkRepo.On("FindDuePendingBatches", mock.Anything, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), mock.AnythingOfType("int")).
		Return([]domain.BulkBatch{}, nil)
	s.mockBulkRepo.On("TryClaimBatch", mock.Anything, batch.BatchID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(true, nil).Once()
	s.mockBulkRepo.On("FindItemsByBatchID", mock.Anything, batch.BatchID).Return([]domain.BulkItem{finishedItem, pendingItem}, nil).Once()

	completed := domain.Transaction{TransactionID: uuid.NewString(), Status: domain.StatusCompleted}
	s.mockTxnSvc.On("ExecuteTransfer", mock.Anything, s.userID, s.source.AccountID, s.destTwo.AccountID, pendingItem.Amount, "").
		Return(&completed, nil).Once()

	s.mockBulkRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	s.mockBulkRepo.On("MarkItemResultInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.BulkItem"), s.userID, mock.AnythingOfType("time.Time")).
		Return(2, 0, nil).Once()

	finalized := make(chan struct{})
	s.mockBulkRepo.On("FinalizeBatchInTx", mock.Anything, mock.Anything, batch.BatchID, domain.BatchCompleted, s.userID, mock.AnythingOfType("time.Time")).
		Run(func(mock.Arguments) { close(finalized) }).Return(nil).Once()
	s.mockBulkRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)
	s.mockBulkRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)

	executor := s.service.(portssvc.BulkExecutor)
	ctx, cancel := context.WithCancel(context.Background())
	executor.Start(ctx)

	select {
	case <-finalized:
	case <-time.After(2 * time.Second):
		s.FailNow("stalled batch was not finalized in time")
	}

	cancel()
	executor.Stop()

	// The already successful item must not have been transferred again.
	s.mockTxnSvc.AssertNumberOfCalls(s.T(), "ExecuteTransfer", 1)
	s.mockBulkRepo.AssertExpectations(s.T())
}

func TestBulkServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BulkServiceTestSuite))
}
