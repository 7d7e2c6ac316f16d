package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/finflow/finflow_backend/internal/core/domain"
	"github.com/finflow/finflow_backend/internal/models"
)

// ToModelTransaction converts a domain.Transaction for DB storage,
// serializing metadata to JSON.
func ToModelTransaction(d domain.Transaction) (models.Transaction, error) {
	m := models.Transaction{
		TransactionID:        d.TransactionID,
		UserID:               d.UserID,
		Reference:            d.Reference,
		Type:                 string(d.Type),
		Status:               string(d.Status),
		Amount:               d.Amount,
		CurrencyCode:         d.CurrencyCode,
		Description:          d.Description,
		SourceAccountID:      d.SourceAccountID,
		DestinationAccountID: d.DestinationAccountID,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
	if d.Metadata != nil {
		raw, err := json.Marshal(d.Metadata)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("failed to marshal transaction metadata: %w", err)
		}
		m.Metadata = raw
	}
	return m, nil
}

// ToDomainTransaction converts a models.Transaction from the DB.
func ToDomainTransaction(m models.Transaction) (domain.Transaction, error) {
	d := domain.Transaction{
		TransactionID:        m.TransactionID,
		UserID:               m.UserID,
		Reference:            m.Reference,
		Type:                 domain.TransactionType(m.Type),
		Status:               domain.TransactionStatus(m.Status),
		Amount:               m.Amount,
		CurrencyCode:         m.CurrencyCode,
		Description:          m.Description,
		SourceAccountID:      m.SourceAccountID,
		DestinationAccountID: m.DestinationAccountID,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
	if len(m.Metadata) > 0 {
		var meta domain.TransactionMetadata
		if err := json.Unmarshal(m.Metadata, &meta); err != nil {
			return domain.Transaction{}, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
		}
		d.Metadata = &meta
	}
	return d, nil
}

// ToDomainTransactionSlice converts a slice of models.Transaction.
func ToDomainTransactionSlice(ms []models.Transaction) ([]domain.Transaction, error) {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		d, err := ToDomainTransaction(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
