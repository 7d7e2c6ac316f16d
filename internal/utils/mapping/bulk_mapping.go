package mapping

import (
	"github.com/finflow/finflow_backend/internal/core/domain"
	"github.com/finflow/finflow_backend/internal/models"
)

// ToModelBulkBatch converts a domain.BulkBatch for DB storage.
func ToModelBulkBatch(d domain.BulkBatch) models.BulkBatch {
	return models.BulkBatch{
		BatchID:      d.BatchID,
		UserID:       d.UserID,
		Status:       string(d.Status),
		TotalItems:   d.TotalItems,
		SuccessCount: d.SuccessCount,
		FailCount:    d.FailCount,
		ScheduledFor: d.ScheduledFor,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBulkBatch converts a models.BulkBatch from the DB.
func ToDomainBulkBatch(m models.BulkBatch) domain.BulkBatch {
	return domain.BulkBatch{
		BatchID:      m.BatchID,
		UserID:       m.UserID,
		Status:       domain.BulkBatchStatus(m.Status),
		TotalItems:   m.TotalItems,
		SuccessCount: m.SuccessCount,
		FailCount:    m.FailCount,
		ScheduledFor: m.ScheduledFor,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBulkItem converts a domain.BulkItem for DB storage.
func ToModelBulkItem(d domain.BulkItem) models.BulkItem {
	return models.BulkItem{
		ItemID:               d.ItemID,
		BatchID:              d.BatchID,
		SourceAccountID:      d.SourceAccountID,
		DestinationAccountID: d.DestinationAccountID,
		Amount:               d.Amount,
		Description:          d.Description,
		Status:               string(d.Status),
		TransactionID:        d.TransactionID,
		ErrorMessage:         d.ErrorMessage,
	}
}

// ToDomainBulkItem converts a models.BulkItem from the DB.
func ToDomainBulkItem(m models.BulkItem) domain.BulkItem {
	return domain.BulkItem{
		ItemID:               m.ItemID,
		BatchID:              m.BatchID,
		SourceAccountID:      m.SourceAccountID,
		DestinationAccountID: m.DestinationAccountID,
		Amount:               m.Amount,
		Description:          m.Description,
		Status:               domain.BulkItemStatus(m.Status),
		TransactionID:        m.TransactionID,
		ErrorMessage:         m.ErrorMessage,
	}
}

// ToDomainBulkItemSlice converts a slice of models.BulkItem.
func ToDomainBulkItemSlice(ms []models.BulkItem) []domain.BulkItem {
	ds := make([]domain.BulkItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBulkItem(m)
	}
	return ds
}
