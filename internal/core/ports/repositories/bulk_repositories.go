package repositories

import (
	"context"
	"time"

	"github.com/finflow/finflow_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// BulkReader defines read operations for bulk batch data
type BulkReader interface {
	// FindBatchByID retrieves a specific batch by its unique identifier.
	FindBatchByID(ctx context.Context, batchID string) (*domain.BulkBatch, error)

	// FindItemsByBatchID retrieves all items belonging to a batch, in insertion order.
	FindItemsByBatchID(ctx context.Context, batchID string) ([]domain.BulkItem, error)

	// ListBatchesByUser retrieves a paginated list of a user's batches using
	// token-based pagination.
	ListBatchesByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.BulkBatch, *string, error)

	// FindDuePendingBatches retrieves pending batches whose scheduled time has
	// passed (or that have none), oldest first. Batches stuck in PROCESSING
	// with no progress since staleBefore are included too, so a crash mid-batch
	// does not orphan its remaining items.
	FindDuePendingBatches(ctx context.Context, now time.Time, staleBefore time.Time, limit int) ([]domain.BulkBatch, error)
}

// BulkWriter defines write operations for bulk batch data
type BulkWriter interface {
	// SaveBatch persists a batch and all its items atomically.
	SaveBatch(ctx context.Context, batch domain.BulkBatch, items []domain.BulkItem) error

	// UpdateBatchStatus moves a batch to a new status.
	UpdateBatchStatus(ctx context.Context, batchID string, status domain.BulkBatchStatus, updatedBy string, now time.Time) error

	// TryClaimBatch atomically moves a batch from PENDING to PROCESSING, or
	// re-claims a PROCESSING batch with no progress since staleBefore. It
	// reports whether this caller won the claim, so a batch never runs twice.
	TryClaimBatch(ctx context.Context, batchID string, now time.Time, staleBefore time.Time) (bool, error)

	// MarkItemResultInTx records the outcome of a single item and bumps the parent
	// batch's success or fail counter within a given database transaction. It returns
	// the batch counters after the update so the caller can detect completion.
	MarkItemResultInTx(ctx context.Context, tx pgx.Tx, item domain.BulkItem, updatedBy string, now time.Time) (successCount, failCount int, err error)

	// FinalizeBatchInTx sets the terminal status of a batch within a given database transaction.
	FinalizeBatchInTx(ctx context.Context, tx pgx.Tx, batchID string, status domain.BulkBatchStatus, updatedBy string, now time.Time) error
}

// BulkRepositoryFacade combines all bulk-related repository interfaces
type BulkRepositoryFacade interface {
	BulkReader
	BulkWriter
}

// BulkRepositoryWithTx extends BulkRepositoryFacade with transaction capabilities
type BulkRepositoryWithTx interface {
	BulkRepositoryFacade
	TransactionManager
}
