package services

import (
	"context"

	"github.com/finflow/finflow_backend/internal/core/domain"
	"github.com/finflow/finflow_backend/internal/dto"
)

// BulkSvcFacade defines operations for bulk transfer batches.
type BulkSvcFacade interface {
	// SubmitBatch validates a batch as a whole and persists it for execution.
	// Validation includes per-source aggregate checks: the summed amounts per
	// source account must not exceed that account's balance at submit time.
	// Immediate batches are enqueued right away; scheduled ones when due.
	SubmitBatch(ctx context.Context, userID string, req dto.CreateBulkBatchRequest) (*domain.BulkBatch, error)

	// GetBatch retrieves a batch and its items for the owning user.
	GetBatch(ctx context.Context, userID string, batchID string) (*domain.BulkBatch, []domain.BulkItem, error)

	// ListBatches retrieves a paginated page of the user's batches.
	ListBatches(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.BulkBatch, *string, error)
}

// BulkExecutor runs the background workers that execute batch items.
type BulkExecutor interface {
	// Start launches the worker pool and the scheduler loop. It returns once
	// the workers are running; they stop when ctx is cancelled.
	Start(ctx context.Context)

	// Stop waits for in-flight items to finish.
	Stop()
}
