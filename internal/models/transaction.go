package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// DebitTransaction is a debit_transactions row. RecipientUserID is set iff Kind is "single".
type DebitTransaction struct {
	DebitID         string          `db:"debit_id"`
	AccountID       string          `db:"account_id"`
	CurrencyCode    string          `db:"currency_code"`
	Description     string          `db:"description"`
	AmountSent      decimal.Decimal `db:"amount_sent"`
	Kind            string          `db:"kind"`
	RecipientUserID sql.NullString  `db:"recipient_user_id"`
	CreatedAt       time.Time       `db:"created_at"`
	CreatedBy       string          `db:"created_by"`
}

// CreditTransaction is a credit_transactions row.
type CreditTransaction struct {
	CreditID         string          `db:"credit_id"`
	AccountID        string          `db:"account_id"`
	DebitID          sql.NullString  `db:"debit_id"`
	Description      string          `db:"description"`
	SenderUserID     string          `db:"sender_user_id"`
	AmountSent       decimal.Decimal `db:"amount_sent"`
	CurrencySent     string          `db:"currency_sent"`
	AmountReceived   decimal.Decimal `db:"amount_received"`
	CurrencyReceived string          `db:"currency_received"`
	CreatedAt        time.Time       `db:"created_at"`
}
