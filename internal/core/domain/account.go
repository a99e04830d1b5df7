package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Account is a per-user, per-currency wallet balance ("iSwift account").
type Account struct {
	AccountID    string          `json:"accountID"`
	UserID       string          `json:"userID"` // Owner
	Name         string          `json:"name"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	IsDefault    bool            `json:"isDefault"`
	AuditFields
}

// DefaultAccountName is used when an account is created without a name.
func DefaultAccountName(isoCode string) string {
	return fmt.Sprintf("%s Account", NormalizeISOCode(isoCode))
}

// CanDebit reports whether amount can leave the account without the balance going negative.
func (a Account) CanDebit(amount decimal.Decimal) bool {
	return !amount.GreaterThan(a.Balance)
}

// AccountDetail is an account together with its transaction history.
type AccountDetail struct {
	Account
	Currency     Currency
	Transactions []TransactionView
}
