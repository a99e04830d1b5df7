package dto

import (
	"sort"
	"time"

	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open an iSwift account.
type CreateAccountRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=100"` // Defaults to "<ISO> Account"
	Currency  string  `json:"currency" binding:"required,isocode"`
	IsDefault bool    `json:"isDefault"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=100"`
	IsDefault *bool   `json:"isDefault"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID string          `json:"uid"`
	Name      string          `json:"name"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	IsDefault bool            `json:"isDefault"`
	CreatedAt time.Time       `json:"createdAt"`
}

// AccountDetailResponse is an account with its currency and transaction history.
type AccountDetailResponse struct {
	AccountResponse
	CurrencyDetail CurrencyResponse      `json:"currencyDetail"`
	Transactions   []TransactionResponse `json:"transactions"`
}

// TransactionResponse is one row of an account's history.
type TransactionResponse struct {
	TransactionID     string          `json:"uid"`
	Object            string          `json:"object"`
	AccountID         string          `json:"iswiftAccount"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	SenderOrRecipient string          `json:"senderOrRecipient"`
	Description       string          `json:"description"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: acc.AccountID,
		Name:      acc.Name,
		Currency:  acc.CurrencyCode,
		Balance:   acc.Balance,
		IsDefault: acc.IsDefault,
		CreatedAt: acc.CreatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ToAccountDetailResponse converts an account detail, listing transactions newest first.
func ToAccountDetailResponse(detail *domain.AccountDetail) AccountDetailResponse {
	return AccountDetailResponse{
		AccountResponse: ToAccountResponse(&detail.Account),
		CurrencyDetail:  ToCurrencyResponse(detail.Currency),
		Transactions:    ToTransactionListResponse(detail.Transactions),
	}
}

// ToTransactionListResponse orders views by creation time, newest first. Ties keep
// credits before debits and then compare IDs so the order is stable.
func ToTransactionListResponse(views []domain.TransactionView) []TransactionResponse {
	sorted := make([]domain.TransactionView, len(views))
	copy(sorted, views)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if a.Type != b.Type {
			return a.Type == domain.TransactionTypeCredit
		}
		return a.TransactionID < b.TransactionID
	})

	res := make([]TransactionResponse, len(sorted))
	for i, v := range sorted {
		res[i] = TransactionResponse{
			TransactionID:     v.TransactionID,
			Object:            string(v.Type),
			AccountID:         v.AccountID,
			Amount:            v.Amount,
			Currency:          v.CurrencyCode,
			SenderOrRecipient: v.CounterpartyName,
			Description:       v.Description,
			CreatedAt:         v.CreatedAt,
		}
	}
	return res
}
