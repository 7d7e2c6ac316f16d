package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType tags what kind of account a user holds.
type AccountType string

const (
	Checking   AccountType = "CHECKING"
	Savings    AccountType = "SAVINGS"
	Credit     AccountType = "CREDIT"
	Investment AccountType = "INVESTMENT"
)

// Account represents a user-owned financial account.
// Balance is never negative, for any account type; the ledger enforces this
// under a row lock and the schema backs it with a CHECK constraint.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary key (UUID)
	UserID        string          `json:"userID"`        // Owning user
	AccountNumber string          `json:"accountNumber"` // Human-traceable, globally unique
	AccountType   AccountType     `json:"accountType"`
	CurrencyCode  string          `json:"currencyCode"` // ISO 4217 3-letter code
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"isActive"` // Accounts are deactivated, never deleted
	AuditFields
}

// AccountSummary aggregates a user's active accounts.
type AccountSummary struct {
	TotalBalance        decimal.Decimal     `json:"totalBalance"`
	TotalAccounts       int                 `json:"totalAccounts"`
	AccountsByType      map[AccountType]int `json:"accountsByType"`
	RecentActivityCount int                 `json:"recentActivityCount"` // Transactions in the trailing 30 days
}

// PublicAccount is the allowlisted view of another user's account.
// Balance and ownership details are deliberately absent.
type PublicAccount struct {
	AccountNumber string `json:"accountNumber"`
	OwnerName     string `json:"ownerName"`
}
