package models

import (
	"github.com/shopspring/decimal"
)

// Account represents an iSwift account row.
type Account struct {
	AccountID    string          `db:"account_id"`
	UserID       string          `db:"user_id"`
	Name         string          `db:"name"`
	CurrencyCode string          `db:"currency_code"`
	Balance      decimal.Decimal `db:"balance"` // numeric(10,2), CHECK >= 0
	IsDefault    bool            `db:"is_default"`
	AuditFields
}
