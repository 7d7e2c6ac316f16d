package dto

import (
	"time"

	"github.com/finflow/finflow_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DepositRequest defines the payload for depositing into an account.
// CurrencyCode may differ from the account currency; the amount is then
// converted at the current exchange rate before crediting.
type DepositRequest struct {
	AccountID    string          `json:"accountId" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	Description  string          `json:"description" binding:"max=255"`
}

// WithdrawalRequest defines the payload for withdrawing from an account.
type WithdrawalRequest struct {
	AccountID   string          `json:"accountId" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"max=255"`
}

// TransferRequest defines the payload for transferring between accounts.
// The destination is addressed by account number so users can pay each
// other without exposing internal IDs.
type TransferRequest struct {
	SourceAccountID          string          `json:"sourceAccountId" binding:"required"`
	DestinationAccountNumber string          `json:"destinationAccountNumber" binding:"required"`
	Amount                   decimal.Decimal `json:"amount" binding:"required"`
	Description              string          `json:"description" binding:"max=255"`
}

// PaymentRequest defines the payload for paying an external recipient.
type PaymentRequest struct {
	SourceAccountID string          `json:"sourceAccountId" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Description     string          `json:"description" binding:"max=255"`
	RecipientName   string          `json:"recipientName" binding:"required,max=100"`
	RecipientEmail  string          `json:"recipientEmail" binding:"omitempty,email"`
}

// ListTransactionsRequest defines query parameters for listing transactions.
type ListTransactionsRequest struct {
	Type      *domain.TransactionType   `form:"type" binding:"omitempty,oneof=DEPOSIT WITHDRAWAL TRANSFER PAYMENT"`
	Status    *domain.TransactionStatus `form:"status" binding:"omitempty,oneof=PENDING COMPLETED FAILED CANCELLED"`
	From      *time.Time                `form:"from" time_format:"2006-01-02"`
	To        *time.Time                `form:"to" time_format:"2006-01-02"`
	Limit     int                       `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string                   `form:"nextToken"`
}

// ConversionDetailsResponse describes a currency conversion applied to a deposit.
type ConversionDetailsResponse struct {
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	OriginalCurrency string          `json:"originalCurrency"`
	ConversionRate   decimal.Decimal `json:"conversionRate"`
}

// RecipientDetailsResponse describes the external recipient of a payment.
type RecipientDetailsResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TransactionResponse defines the API representation of a transaction.
type TransactionResponse struct {
	TransactionID        string                     `json:"transactionId"`
	Reference            string                     `json:"reference"`
	Type                 domain.TransactionType     `json:"type"`
	Status               domain.TransactionStatus   `json:"status"`
	Amount               decimal.Decimal            `json:"amount"`
	CurrencyCode         string                     `json:"currencyCode"`
	Description          string                     `json:"description,omitempty"`
	SourceAccountID      *string                    `json:"sourceAccountId,omitempty"`
	DestinationAccountID *string                    `json:"destinationAccountId,omitempty"`
	Conversion           *ConversionDetailsResponse `json:"conversion,omitempty"`
	Recipient            *RecipientDetailsResponse  `json:"recipient,omitempty"`
	CreatedAt            time.Time                  `json:"createdAt"`
}

// ListTransactionsResponse wraps a page of transactions with the pagination token.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse maps a domain transaction to its API representation.
func ToTransactionResponse(t domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:        t.TransactionID,
		Reference:            t.Reference,
		Type:                 t.Type,
		Status:               t.Status,
		Amount:               t.Amount,
		CurrencyCode:         t.CurrencyCode,
		Description:          t.Description,
		SourceAccountID:      t.SourceAccountID,
		DestinationAccountID: t.DestinationAccountID,
		CreatedAt:            t.CreatedAt,
	}
	if t.Metadata != nil {
		if c := t.Metadata.Conversion; c != nil {
			resp.Conversion = &ConversionDetailsResponse{
				OriginalAmount:   c.OriginalAmount,
				OriginalCurrency: c.OriginalCurrency,
				ConversionRate:   c.ConversionRate,
			}
		}
		if r := t.Metadata.Recipient; r != nil {
			resp.Recipient = &RecipientDetailsResponse{Name: r.Name, Email: r.Email}
		}
	}
	return resp
}

// ToListTransactionsResponse maps a page of domain transactions to the list response.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) ListTransactionsResponse {
	resp := ListTransactionsResponse{
		Transactions: make([]TransactionResponse, len(txns)),
		NextToken:    nextToken,
	}
	for i, t := range txns {
		resp.Transactions[i] = ToTransactionResponse(t)
	}
	return resp
}
