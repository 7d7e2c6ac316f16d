package dto

import (
	"time"

	"github.com/finflow/finflow_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BulkItemRequest defines a single transfer within a bulk batch.
type BulkItemRequest struct {
	SourceAccountID          string          `json:"sourceAccountId" binding:"required"`
	DestinationAccountNumber string          `json:"destinationAccountNumber" binding:"required"`
	Amount                   decimal.Decimal `json:"amount" binding:"required"`
	Description              string          `json:"description" binding:"max=255"`
}

// CreateBulkBatchRequest defines the payload for submitting a bulk transfer batch.
// A batch holds between 1 and 1000 items. ScheduledFor, when set, delays
// execution until that instant.
type CreateBulkBatchRequest struct {
	Items        []BulkItemRequest `json:"items" binding:"required,min=1,max=1000,dive"`
	ScheduledFor *time.Time        `json:"scheduledFor"`
}

// BulkItemResponse defines the API representation of a single batch item.
type BulkItemResponse struct {
	ItemID               string                `json:"itemId"`
	SourceAccountID      string                `json:"sourceAccountId"`
	DestinationAccountID string                `json:"destinationAccountId"`
	Amount               decimal.Decimal       `json:"amount"`
	Description          string                `json:"description,omitempty"`
	Status               domain.BulkItemStatus `json:"status"`
	TransactionID        *string               `json:"transactionId,omitempty"`
	ErrorMessage         string                `json:"errorMessage,omitempty"`
}

// BulkBatchResponse defines the API representation of a bulk batch.
type BulkBatchResponse struct {
	BatchID      string                 `json:"batchId"`
	Status       domain.BulkBatchStatus `json:"status"`
	TotalItems   int                    `json:"totalItems"`
	SuccessCount int                    `json:"successCount"`
	FailCount    int                    `json:"failCount"`
	ScheduledFor *time.Time             `json:"scheduledFor,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
	Items        []BulkItemResponse     `json:"items,omitempty"`
}

// ListBulkBatchesResponse wraps a page of batches with the pagination token.
type ListBulkBatchesResponse struct {
	Batches   []BulkBatchResponse `json:"batches"`
	NextToken *string             `json:"nextToken,omitempty"`
}

// ToBulkItemResponse maps a domain batch item to its API representation.
func ToBulkItemResponse(it domain.BulkItem) BulkItemResponse {
	return BulkItemResponse{
		ItemID:               it.ItemID,
		SourceAccountID:      it.SourceAccountID,
		DestinationAccountID: it.DestinationAccountID,
		Amount:               it.Amount,
		Description:          it.Description,
		Status:               it.Status,
		TransactionID:        it.TransactionID,
		ErrorMessage:         it.ErrorMessage,
	}
}

// ToBulkBatchResponse maps a domain batch (and optionally its items) to the API representation.
func ToBulkBatchResponse(b domain.BulkBatch, items []domain.BulkItem) BulkBatchResponse {
	resp := BulkBatchResponse{
		BatchID:      b.BatchID,
		Status:       b.Status,
		TotalItems:   b.TotalItems,
		SuccessCount: b.SuccessCount,
		FailCount:    b.FailCount,
		ScheduledFor: b.ScheduledFor,
		CreatedAt:    b.CreatedAt,
	}
	if items != nil {
		resp.Items = make([]BulkItemResponse, len(items))
		for i, it := range items {
			resp.Items[i] = ToBulkItemResponse(it)
		}
	}
	return resp
}

// ToListBulkBatchesResponse maps a page of domain batches to the list response.
func ToListBulkBatchesResponse(batches []domain.BulkBatch, nextToken *string) ListBulkBatchesResponse {
	resp := ListBulkBatchesResponse{
		Batches:   make([]BulkBatchResponse, len(batches)),
		NextToken: nextToken,
	}
	for i, b := range batches {
		resp.Batches[i] = ToBulkBatchResponse(b, nil)
	}
	return resp
}
