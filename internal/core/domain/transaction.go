package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the financial operation a transaction records.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
	Transfer   TransactionType = "TRANSFER"
	Payment    TransactionType = "PAYMENT"
)

// TransactionStatus is the lifecycle state of a transaction record.
// A PENDING row is only ever visible inside the unit of work that created it;
// durably observing one means a crash interrupted an operation mid-flight.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
	StatusCancelled TransactionStatus = "CANCELLED"
)

// ConversionDetails records how a deposit amount was converted into the
// destination account's currency.
type ConversionDetails struct {
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	OriginalCurrency string          `json:"originalCurrency"`
	ConversionRate   decimal.Decimal `json:"conversionRate"`
}

// RecipientDetails identifies the external party of a PAYMENT.
type RecipientDetails struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// TransactionMetadata holds the optional per-type payload of a transaction.
type TransactionMetadata struct {
	Conversion *ConversionDetails `json:"conversion,omitempty"`
	Recipient  *RecipientDetails  `json:"recipient,omitempty"`
}

// Transaction is one committed financial operation.
// Reference is globally unique and assigned before any balance mutation so
// retries can detect duplicates.
type Transaction struct {
	TransactionID        string               `json:"transactionID"` // Primary key (UUID)
	UserID               string               `json:"userID"`        // Initiating user
	Reference            string               `json:"reference"`
	Type                 TransactionType      `json:"type"`
	Status               TransactionStatus    `json:"status"`
	Amount               decimal.Decimal      `json:"amount"` // Positive, in CurrencyCode
	CurrencyCode         string               `json:"currencyCode"`
	Description          string               `json:"description,omitempty"`
	SourceAccountID      *string              `json:"sourceAccountID,omitempty"`
	DestinationAccountID *string              `json:"destinationAccountID,omitempty"`
	Metadata             *TransactionMetadata `json:"metadata,omitempty"`
	AuditFields
}

// ListTransactionsFilter narrows a transaction listing.
type ListTransactionsFilter struct {
	Type   *TransactionType
	Status *TransactionStatus
	From   *time.Time
	To     *time.Time
}
