package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents a supported currency.
type Currency struct {
	CurrencyID string `db:"currency_id"`
	ISOCode    string `db:"iso_code"` // Unique, upper-case
	Name       string `db:"name"`
	IsActive   bool   `db:"is_active"`
	AuditFields
}

// ConversionRate is the row of an unordered currency pair, base_currency_code < target_currency_code.
type ConversionRate struct {
	RateID             string          `db:"rate_id"`
	BaseCurrencyCode   string          `db:"base_currency_code"`
	TargetCurrencyCode string          `db:"target_currency_code"`
	ConversionRate     decimal.Decimal `db:"conversion_rate"` // numeric(20,10)
	ReverseRate        decimal.Decimal `db:"reverse_rate"`    // numeric(20,10)
	LastUpdatedAt      time.Time       `db:"last_updated_at"`
}
