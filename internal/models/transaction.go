package models

import (
	"github.com/shopspring/decimal"
)

// Transaction is the DB representation of a financial transaction.
// Metadata is stored as JSONB; reference carries a UNIQUE index.
type Transaction struct {
	TransactionID        string          `db:"transaction_id"`
	UserID               string          `db:"user_id"`
	Reference            string          `db:"reference"` // UNIQUE
	Type                 string          `db:"type"`
	Status               string          `db:"status"`
	Amount               decimal.Decimal `db:"amount"`
	CurrencyCode         string          `db:"currency_code"`
	Description          string          `db:"description"`
	SourceAccountID      *string         `db:"source_account_id"`
	DestinationAccountID *string         `db:"destination_account_id"`
	Metadata             []byte          `db:"metadata"` // JSONB, nullable
	AuditFields
}
