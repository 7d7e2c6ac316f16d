package dto

import (
	"time"

	"github.com/finflow/finflow_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the payload for creating a new account.
type CreateAccountRequest struct {
	AccountType  domain.AccountType `json:"accountType" binding:"required,oneof=CHECKING SAVINGS CREDIT INVESTMENT"`
	CurrencyCode string             `json:"currencyCode" binding:"required,len=3,uppercase"`
}

// AccountResponse defines the API representation of an account.
type AccountResponse struct {
	AccountID     string             `json:"accountId"`
	AccountNumber string             `json:"accountNumber"`
	AccountType   domain.AccountType `json:"accountType"`
	CurrencyCode  string             `json:"currencyCode"`
	Balance       decimal.Decimal    `json:"balance"`
	IsActive      bool               `json:"isActive"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AccountSummaryResponse defines the API representation of a user's account summary.
type AccountSummaryResponse struct {
	TotalBalance        decimal.Decimal            `json:"totalBalance"`
	TotalAccounts       int                        `json:"totalAccounts"`
	AccountsByType      map[domain.AccountType]int `json:"accountsByType"`
	RecentActivityCount int                        `json:"recentActivityCount"`
}

// PublicAccountResponse is the limited view returned when resolving an account
// number owned by another user, e.g. before a transfer.
type PublicAccountResponse struct {
	AccountNumber string `json:"accountNumber"`
	OwnerName     string `json:"ownerName"`
}

// ToAccountResponse maps a domain account to its API representation.
func ToAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		AccountNumber: a.AccountNumber,
		AccountType:   a.AccountType,
		CurrencyCode:  a.CurrencyCode,
		Balance:       a.Balance,
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
	}
}

// ToListAccountsResponse maps a slice of domain accounts to the list response.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	resp := ListAccountsResponse{Accounts: make([]AccountResponse, len(accounts))}
	for i, a := range accounts {
		resp.Accounts[i] = ToAccountResponse(a)
	}
	return resp
}

// ToAccountSummaryResponse maps a domain summary to its API representation.
func ToAccountSummaryResponse(s domain.AccountSummary) AccountSummaryResponse {
	return AccountSummaryResponse{
		TotalBalance:        s.TotalBalance,
		TotalAccounts:       s.TotalAccounts,
		AccountsByType:      s.AccountsByType,
		RecentActivityCount: s.RecentActivityCount,
	}
}
