package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/finflow/finflow_backend/internal/apperrors"
	"github.com/finflow/finflow_backend/internal/core/domain"
	portsrepo "github.com/finflow/finflow_backend/internal/core/ports/repositories"
	portssvc "github.com/finflow/finflow_backend/internal/core/ports/services"
	"github.com/finflow/finflow_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxBatchItems = 1000

	defaultBulkWorkerCount  = 4
	defaultBulkPollInterval = 30 * time.Second
	defaultBulkStaleAfter   = 10 * time.Minute
	bulkClaimLimit          = 50
)

// bulkTask is one batch item handed to a worker.
type bulkTask struct {
	userID     string
	batchID    string
	totalItems int
	item       domain.BulkItem
}

// bulkServiceImpl implements BulkSvcFacade and BulkExecutor. Submission
// validates the batch as a whole and persists it; execution happens on a
// bounded worker pool fed by a claim-then-enqueue loop, so batches survive a
// restart and are never picked up twice.
type bulkServiceImpl struct {
	BaseService
	bulkRepo     portsrepo.BulkRepositoryWithTx
	accountRepo  portsrepo.AccountRepositoryFacade
	txnSvc       portssvc.TransactionOrchestratorSvc
	workerCount  int
	pollInterval time.Duration
	staleAfter   time.Duration

	queue chan bulkTask
	wg    sync.WaitGroup
}

// BulkServiceOption is a functional option for configuring the bulk service
type BulkServiceOption func(*bulkServiceImpl)

// WithBulkWorkerCount sets how many workers execute batch items concurrently.
func WithBulkWorkerCount(n int) BulkServiceOption {
	return func(s *bulkServiceImpl) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithBulkPollInterval sets how often the executor looks for due batches.
func WithBulkPollInterval(d time.Duration) BulkServiceOption {
	return func(s *bulkServiceImpl) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithBulkStaleAfter sets how long a PROCESSING batch may sit without progress
// before another poll cycle re-claims it.
func WithBulkStaleAfter(d time.Duration) BulkServiceOption {
	return func(s *bulkServiceImpl) {
		if d > 0 {
			s.staleAfter = d
		}
	}
}

// NewBulkService creates a new bulk service with the provided options
func NewBulkService(bulkRepo portsrepo.BulkRepositoryWithTx, accountRepo portsrepo.AccountRepositoryFacade, txnSvc portssvc.TransactionOrchestratorSvc, options ...BulkServiceOption) portssvc.BulkSvcFacade {
	svc := &bulkServiceImpl{
		bulkRepo:     bulkRepo,
		accountRepo:  accountRepo,
		txnSvc:       txnSvc,
		workerCount:  defaultBulkWorkerCount,
		pollInterval: defaultBulkPollInterval,
		staleAfter:   defaultBulkStaleAfter,
	}
	for _, option := range options {
		option(svc)
	}
	svc.queue = make(chan bulkTask, svc.workerCount*4)
	return svc
}

// Ensure bulkServiceImpl implements the service and executor interfaces
var (
	_ portssvc.BulkSvcFacade = (*bulkServiceImpl)(nil)
	_ portssvc.BulkExecutor  = (*bulkServiceImpl)(nil)
)

// SubmitBatch validates a batch as a whole and persists it for execution.
func (s *bulkServiceImpl) SubmitBatch(ctx context.Context, userID string, req dto.CreateBulkBatchRequest) (*domain.BulkBatch, error) {
	if len(req.Items) == 0 || len(req.Items) > maxBatchItems {
		return nil, fmt.Errorf("%w: batch must hold between 1 and %d items", apperrors.ErrValidation, maxBatchItems)
	}

	now := time.Now()
	if req.ScheduledFor != nil && req.ScheduledFor.Before(now) {
		return nil, fmt.Errorf("%w: scheduled time is in the past", apperrors.ErrValidation)
	}

	items, err := s.validateItems(ctx, userID, req.Items)
	if err != nil {
		return nil, err
	}

	batch := domain.BulkBatch{
		BatchID:      uuid.NewString(),
		UserID:       userID,
		Status:       domain.BatchPending,
		TotalItems:   len(items),
		ScheduledFor: req.ScheduledFor,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	for i := range items {
		items[i].BatchID = batch.BatchID
	}

	if err := s.bulkRepo.SaveBatch(ctx, batch, items); err != nil {
		s.LogError(ctx, err, "Failed to save bulk batch", slog.String("batch_id", batch.BatchID))
		return nil, err
	}

	s.LogInfo(ctx, "Bulk batch submitted",
		slog.String("batch_id", batch.BatchID),
		slog.Int("items", batch.TotalItems))

	// Immediate batches are picked up by the executor loop; nothing else to do.
	return &batch, nil
}

// validateItems checks every item and the per-source aggregates: the summed
// amounts per source account must not exceed that account's balance right now.
// Execution re-checks each transfer under a row lock.
func (s *bulkServiceImpl) validateItems(ctx context.Context, userID string, reqItems []dto.BulkItemRequest) ([]domain.BulkItem, error) {
	items := make([]domain.BulkItem, 0, len(reqItems))
	perSource := make(map[string]decimal.Decimal)
	destByNumber := make(map[string]*domain.Account)

	for i, ri := range reqItems {
		if err := validateAmount(ri.Amount); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		source, err := s.accountRepo.FindAccountByID(ctx, ri.SourceAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: item %d: source account not found", apperrors.ErrNotFound, i)
			}
			return nil, err
		}
		if source.UserID != userID {
			return nil, fmt.Errorf("%w: item %d: source account not found", apperrors.ErrNotFound, i)
		}
		if !source.IsActive {
			return nil, fmt.Errorf("%w: item %d: source account is deactivated", apperrors.ErrForbidden, i)
		}

		destination, ok := destByNumber[ri.DestinationAccountNumber]
		if !ok {
			destination, err = s.accountRepo.FindAccountByNumber(ctx, ri.DestinationAccountNumber)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("%w: item %d: destination account not found", apperrors.ErrNotFound, i)
				}
				return nil, err
			}
			destByNumber[ri.DestinationAccountNumber] = destination
		}
		if !destination.IsActive {
			return nil, fmt.Errorf("%w: item %d: destination account is inactive", apperrors.ErrValidation, i)
		}
		if destination.AccountID == source.AccountID {
			return nil, fmt.Errorf("%w: item %d: source and destination accounts are the same", apperrors.ErrValidation, i)
		}
		if destination.CurrencyCode != source.CurrencyCode {
			return nil, fmt.Errorf("%w: item %d: accounts hold different currencies", apperrors.ErrValidation, i)
		}

		perSource[source.AccountID] = perSource[source.AccountID].Add(ri.Amount)
		if perSource[source.AccountID].GreaterThan(source.Balance) {
			return nil, fmt.Errorf("%w: source account %s cannot cover the batch total of %s",
				apperrors.ErrInsufficientFunds, source.AccountID, perSource[source.AccountID].StringFixed(2))
		}

		items = append(items, domain.BulkItem{
			ItemID:               uuid.NewString(),
			SourceAccountID:      source.AccountID,
			DestinationAccountID: destination.AccountID,
			Amount:               ri.Amount,
			Description:          ri.Description,
			Status:               domain.ItemPending,
		})
	}
	return items, nil
}

// GetBatch retrieves a batch and its items for the owning user.
func (s *bulkServiceImpl) GetBatch(ctx context.Context, userID string, batchID string) (*domain.BulkBatch, []domain.BulkItem, error) {
	batch, err := s.bulkRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return nil, nil, err
	}
	if batch.UserID != userID {
		return nil, nil, apperrors.ErrNotFound
	}
	items, err := s.bulkRepo.FindItemsByBatchID(ctx, batchID)
	if err != nil {
		return nil, nil, err
	}
	return batch, items, nil
}

// ListBatches retrieves a paginated page of the user's batches.
func (s *bulkServiceImpl) ListBatches(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.BulkBatch, *string, error) {
	return s.bulkRepo.ListBatchesByUser(ctx, userID, limit, nextToken)
}

// Start launches the worker pool and the claim loop. Workers stop when ctx is
// cancelled; Stop waits for in-flight items.
func (s *bulkServiceImpl) Start(ctx context.Context) {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}

	s.wg.Add(1)
	go s.claimLoop(ctx)

	s.LogInfo(ctx, "Bulk executor started",
		slog.Int("workers", s.workerCount),
		slog.Duration("poll_interval", s.pollInterval))
}

// Stop waits for the claim loop and all workers to finish.
func (s *bulkServiceImpl) Stop() {
	s.wg.Wait()
}

// claimLoop periodically claims due batches and feeds their items to the pool.
// Claiming flips the batch to PROCESSING first, so a second instance polling
// the same table cannot pick it up again.
func (s *bulkServiceImpl) claimLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		s.claimDueBatches(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *bulkServiceImpl) claimDueBatches(ctx context.Context) {
	staleBefore := time.Now().Add(-s.staleAfter)
	batches, err := s.bulkRepo.FindDuePendingBatches(ctx, time.Now(), staleBefore, bulkClaimLimit)
	if err != nil {
		s.LogError(ctx, err, "Failed to find due bulk batches")
		return
	}

	for _, batch := range batches {
		claimed, err := s.bulkRepo.TryClaimBatch(ctx, batch.BatchID, time.Now(), staleBefore)
		if err != nil {
			s.LogError(ctx, err, "Failed to claim bulk batch", slog.String("batch_id", batch.BatchID))
			continue
		}
		if !claimed {
			continue
		}

		items, err := s.bulkRepo.FindItemsByBatchID(ctx, batch.BatchID)
		if err != nil {
			s.LogError(ctx, err, "Failed to load items of claimed batch", slog.String("batch_id", batch.BatchID))
			continue
		}

		s.LogInfo(ctx, "Bulk batch claimed for execution",
			slog.String("batch_id", batch.BatchID),
			slog.Int("items", len(items)))

		for _, item := range items {
			if item.Status != domain.ItemPending {
				continue
			}
			task := bulkTask{
				userID:     batch.UserID,
				batchID:    batch.BatchID,
				totalItems: batch.TotalItems,
				item:       item,
			}
			select {
			case s.queue <- task:
			case <-ctx.Done():
				return
			}
		}
	}
}

// worker executes queued items until the context is cancelled.
func (s *bulkServiceImpl) worker(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-s.queue:
			s.processTask(ctx, task)
		}
	}
}

// processTask runs one item through the standard transfer path and records
// the outcome. The worker that records the final item also finalizes the
// batch status, inside the same database transaction as its counter update.
func (s *bulkServiceImpl) processTask(ctx context.Context, task bulkTask) {
	item := task.item

	txn, err := s.txnSvc.ExecuteTransfer(ctx, task.userID, item.SourceAccountID, item.DestinationAccountID, item.Amount, item.Description)
	if err != nil {
		item.Status = domain.ItemFailed
		item.ErrorMessage = err.Error()
		s.LogWarn(ctx, "Bulk item failed",
			slog.String("batch_id", task.batchID),
			slog.String("item_id", item.ItemID),
			slog.String("error", err.Error()))
	} else {
		item.Status = domain.ItemSuccess
		item.TransactionID = &txn.TransactionID
	}

	now := time.Now()
	tx, err := s.bulkRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin item result transaction", slog.String("item_id", item.ItemID))
		return
	}
	defer s.bulkRepo.Rollback(ctx, tx)

	successCount, failCount, err := s.bulkRepo.MarkItemResultInTx(ctx, tx, item, task.userID, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to record bulk item result", slog.String("item_id", item.ItemID))
		return
	}

	if successCount+failCount >= task.totalItems {
		status := deriveBatchStatus(successCount, failCount)
		if err := s.bulkRepo.FinalizeBatchInTx(ctx, tx, task.batchID, status, task.userID, now); err != nil {
			s.LogError(ctx, err, "Failed to finalize bulk batch", slog.String("batch_id", task.batchID))
			return
		}
		s.LogInfo(ctx, "Bulk batch finished",
			slog.String("batch_id", task.batchID),
			slog.String("status", string(status)),
			slog.Int("succeeded", successCount),
			slog.Int("failed", failCount))
	}

	if err := s.bulkRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit item result transaction", slog.String("item_id", item.ItemID))
	}
}

// deriveBatchStatus maps aggregate item outcomes onto the batch status.
func deriveBatchStatus(successCount, failCount int) domain.BulkBatchStatus {
	switch {
	case failCount == 0:
		return domain.BatchCompleted
	case successCount == 0:
		return domain.BatchFailed
	default:
		return domain.BatchPartiallyCompleted
	}
}
