package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finflow/finflow_backend/internal/apperrors"
	"github.com/finflow/finflow_backend/internal/core/domain"
	portsrepo "github.com/finflow/finflow_backend/internal/core/ports/repositories"
	"github.com/finflow/finflow_backend/internal/models"
	"github.com/finflow/finflow_backend/internal/utils/mapping"
	"github.com/finflow/finflow_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const batchColumns = `batch_id, user_id, status, total_items, success_count, fail_count, scheduled_for, created_at, created_by, last_updated_at, last_updated_by`

const itemColumns = `item_id, batch_id, source_account_id, destination_account_id, amount, description, status, transaction_id, error_message`

type PgxBulkRepository struct {
	BaseRepository
}

// newPgxBulkRepository creates a new repository for bulk batch data.
func newPgxBulkRepository(pool *pgxpool.Pool) *PgxBulkRepository {
	return &PgxBulkRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxBulkRepository implements portsrepo.BulkRepositoryWithTx
var _ portsrepo.BulkRepositoryWithTx = (*PgxBulkRepository)(nil)

func scanBatch(row pgx.Row) (*domain.BulkBatch, error) {
	var m models.BulkBatch
	err := row.Scan(
		&m.BatchID,
		&m.UserID,
		&m.Status,
		&m.TotalItems,
		&m.SuccessCount,
		&m.FailCount,
		&m.ScheduledFor,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainBulkBatch(m)
	return &d, nil
}

// SaveBatch persists a batch and all its items in a single database transaction.
func (r *PgxBulkRepository) SaveBatch(ctx context.Context, batch domain.BulkBatch, items []domain.BulkItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelBulkBatch(batch)
	batchQuery := `
		INSERT INTO bulk_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, batchQuery,
		m.BatchID,
		m.UserID,
		m.Status,
		m.TotalItems,
		m.SuccessCount,
		m.FailCount,
		m.ScheduledFor,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bulk batch %s: %w", m.BatchID, err)
	}

	itemQuery := `
		INSERT INTO bulk_items (item_id, batch_id, position, source_account_id, destination_account_id, amount, description, status, transaction_id, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	pgBatch := &pgx.Batch{}
	for i, it := range items {
		mi := mapping.ToModelBulkItem(it)
		pgBatch.Queue(itemQuery,
			mi.ItemID,
			mi.BatchID,
			i,
			mi.SourceAccountID,
			mi.DestinationAccountID,
			mi.Amount,
			mi.Description,
			mi.Status,
			mi.TransactionID,
			mi.ErrorMessage,
		)
	}
	br := tx.SendBatch(ctx, pgBatch)
	for i := 0; i < pgBatch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert bulk item %d of batch %s: %w", i, m.BatchID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close bulk item insert batch: %w", err)
	}

	return r.Commit(ctx, tx)
}

// FindBatchByID retrieves a batch by its ID.
func (r *PgxBulkRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.BulkBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM bulk_batches WHERE batch_id = $1;`

	b, err := scanBatch(r.Pool.QueryRow(ctx, query, batchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bulk batch by ID %s: %w", batchID, err)
	}
	return b, nil
}

// FindItemsByBatchID retrieves all items of a batch in submission order.
func (r *PgxBulkRepository) FindItemsByBatchID(ctx context.Context, batchID string) ([]domain.BulkItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM bulk_items
		WHERE batch_id = $1
		ORDER BY position;
	`
	rows, err := r.Pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items of batch %s: %w", batchID, err)
	}
	defer rows.Close()

	items := []domain.BulkItem{}
	for rows.Next() {
		var m models.BulkItem
		err := rows.Scan(
			&m.ItemID,
			&m.BatchID,
			&m.SourceAccountID,
			&m.DestinationAccountID,
			&m.Amount,
			&m.Description,
			&m.Status,
			&m.TransactionID,
			&m.ErrorMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bulk item row: %w", err)
		}
		items = append(items, mapping.ToDomainBulkItem(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating bulk item rows: %w", rows.Err())
	}
	return items, nil
}

// ListBatchesByUser retrieves a page of a user's batches, newest first.
func (r *PgxBulkRepository) ListBatchesByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.BulkBatch, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + batchColumns + ` FROM bulk_batches WHERE user_id = $1`
	args := []any{userID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, decodeErr.Error())
		}
		args = append(args, lastCreatedAt, lastID)
		query += fmt.Sprintf(" AND (created_at, batch_id) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY created_at DESC, batch_id DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query batches for user %s: %w", userID, err)
	}
	defer rows.Close()

	batches := []domain.BulkBatch{}
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan bulk batch row: %w", err)
		}
		batches = append(batches, *b)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating bulk batch rows: %w", rows.Err())
	}

	var token *string
	if len(batches) > limit {
		batches = batches[:limit]
		last := batches[limit-1]
		t := pagination.EncodeToken(last.CreatedAt, last.BatchID)
		token = &t
	}
	return batches, token, nil
}

// FindDuePendingBatches retrieves pending batches whose scheduled time has
// passed (or that have none), oldest first. PROCESSING batches whose
// last_updated_at predates staleBefore are included too; every item result
// bumps that column, so a quiet batch means its executor died.
func (r *PgxBulkRepository) FindDuePendingBatches(ctx context.Context, now time.Time, staleBefore time.Time, limit int) ([]domain.BulkBatch, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + batchColumns + `
		FROM bulk_batches
		WHERE (status = 'PENDING' AND (scheduled_for IS NULL OR scheduled_for <= $1))
			OR (status = 'PROCESSING' AND last_updated_at < $2)
		ORDER BY created_at
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, now, staleBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query due pending batches: %w", err)
	}
	defer rows.Close()

	batches := []domain.BulkBatch{}
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due batch row: %w", err)
		}
		batches = append(batches, *b)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating due batch rows: %w", rows.Err())
	}
	return batches, nil
}

// TryClaimBatch atomically moves a batch from PENDING to PROCESSING. A batch
// already PROCESSING can only be re-claimed when it has made no progress
// since staleBefore, which keeps two live executors off the same batch.
func (r *PgxBulkRepository) TryClaimBatch(ctx context.Context, batchID string, now time.Time, staleBefore time.Time) (bool, error) {
	query := `
		UPDATE bulk_batches
		SET status = $2, last_updated_at = $3, last_updated_by = user_id
		WHERE batch_id = $1
			AND (status = $4 OR (status = $2 AND last_updated_at < $5));
	`
	cmdTag, err := r.Pool.Exec(ctx, query, batchID, string(domain.BatchProcessing), now, string(domain.BatchPending), staleBefore)
	if err != nil {
		return false, fmt.Errorf("failed to claim batch %s: %w", batchID, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// UpdateBatchStatus moves a batch to a new status.
func (r *PgxBulkRepository) UpdateBatchStatus(ctx context.Context, batchID string, status domain.BulkBatchStatus, updatedBy string, now time.Time) error {
	query := `
		UPDATE bulk_batches
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE batch_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, batchID, string(status), now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update status of batch %s: %w", batchID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: bulk batch %s not found during status update", apperrors.ErrNotFound, batchID)
	}
	return nil
}

// MarkItemResultInTx records the outcome of one item and bumps the parent
// batch's counters, returning the counters after the update.
func (r *PgxBulkRepository) MarkItemResultInTx(ctx context.Context, tx pgx.Tx, item domain.BulkItem, updatedBy string, now time.Time) (int, int, error) {
	itemQuery := `
		UPDATE bulk_items
		SET status = $2, transaction_id = $3, error_message = $4
		WHERE item_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, itemQuery, item.ItemID, string(item.Status), item.TransactionID, item.ErrorMessage)
	if err != nil {
		if mapped := mapConcurrencyError(err); mapped != nil {
			return 0, 0, mapped
		}
		return 0, 0, fmt.Errorf("failed to update bulk item %s: %w", item.ItemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return 0, 0, fmt.Errorf("%w: bulk item %s not found during result update", apperrors.ErrNotFound, item.ItemID)
	}

	var successDelta, failDelta int
	switch item.Status {
	case domain.ItemSuccess:
		successDelta = 1
	case domain.ItemFailed:
		failDelta = 1
	}

	batchQuery := `
		UPDATE bulk_batches
		SET success_count = success_count + $2, fail_count = fail_count + $3, last_updated_at = $4, last_updated_by = $5
		WHERE batch_id = $1
		RETURNING success_count, fail_count;
	`
	var successCount, failCount int
	err = tx.QueryRow(ctx, batchQuery, item.BatchID, successDelta, failDelta, now, updatedBy).Scan(&successCount, &failCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, fmt.Errorf("%w: bulk batch %s not found during counter update", apperrors.ErrNotFound, item.BatchID)
		}
		if mapped := mapConcurrencyError(err); mapped != nil {
			return 0, 0, mapped
		}
		return 0, 0, fmt.Errorf("failed to update counters of batch %s: %w", item.BatchID, err)
	}
	return successCount, failCount, nil
}

// FinalizeBatchInTx sets the terminal status of a batch within a database transaction.
func (r *PgxBulkRepository) FinalizeBatchInTx(ctx context.Context, tx pgx.Tx, batchID string, status domain.BulkBatchStatus, updatedBy string, now time.Time) error {
	query := `
		UPDATE bulk_batches
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE batch_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, batchID, string(status), now, updatedBy)
	if err != nil {
		if mapped := mapConcurrencyError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to finalize batch %s: %w", batchID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: bulk batch %s not found during finalize", apperrors.ErrNotFound, batchID)
	}
	return nil
}
