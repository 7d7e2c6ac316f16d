package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BulkBatchStatus is derived from aggregate item outcomes.
type BulkBatchStatus string

const (
	BatchPending            BulkBatchStatus = "PENDING"
	BatchProcessing         BulkBatchStatus = "PROCESSING"
	BatchCompleted          BulkBatchStatus = "COMPLETED"
	BatchPartiallyCompleted BulkBatchStatus = "PARTIALLY_COMPLETED"
	BatchFailed             BulkBatchStatus = "FAILED"
)

// BulkItemStatus is the outcome of one transfer within a batch.
type BulkItemStatus string

const (
	ItemPending BulkItemStatus = "PENDING"
	ItemSuccess BulkItemStatus = "SUCCESS"
	ItemFailed  BulkItemStatus = "FAILED"
)

// BulkBatch groups up to 1000 transfer requests submitted together.
// Validation is synchronous at submission; execution is asynchronous,
// each item going through the standard transfer path independently.
type BulkBatch struct {
	BatchID      string          `json:"batchID"`
	UserID       string          `json:"userID"`
	Status       BulkBatchStatus `json:"status"`
	TotalItems   int             `json:"totalItems"`
	SuccessCount int             `json:"successCount"`
	FailCount    int             `json:"failCount"`
	ScheduledFor *time.Time      `json:"scheduledFor,omitempty"`
	AuditFields
}

// BulkItem is one transfer request within a batch.
type BulkItem struct {
	ItemID               string          `json:"itemID"`
	BatchID              string          `json:"batchID"`
	SourceAccountID      string          `json:"sourceAccountID"`
	DestinationAccountID string          `json:"destinationAccountID"`
	Amount               decimal.Decimal `json:"amount"`
	Description          string          `json:"description,omitempty"`
	Status               BulkItemStatus  `json:"status"`
	TransactionID        *string         `json:"transactionID,omitempty"` // Set on success
	ErrorMessage         string          `json:"errorMessage,omitempty"`  // Set on failure
}
