package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BulkBatch is the DB representation of a bulk transfer batch.
type BulkBatch struct {
	BatchID      string     `db:"batch_id"`
	UserID       string     `db:"user_id"`
	Status       string     `db:"status"`
	TotalItems   int        `db:"total_items"`
	SuccessCount int        `db:"success_count"`
	FailCount    int        `db:"fail_count"`
	ScheduledFor *time.Time `db:"scheduled_for"`
	AuditFields
}

// BulkItem is the DB representation of one transfer within a batch.
// Position preserves the submission order of items.
type BulkItem struct {
	ItemID               string          `db:"item_id"`
	BatchID              string          `db:"batch_id"`
	Position             int             `db:"position"`
	SourceAccountID      string          `db:"source_account_id"`
	DestinationAccountID string          `db:"destination_account_id"`
	Amount               decimal.Decimal `db:"amount"`
	Description          string          `db:"description"`
	Status               string          `db:"status"`
	TransactionID        *string         `db:"transaction_id"`
	ErrorMessage         string          `db:"error_message"`
}
