package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyID string `json:"currencyID"`
	ISOCode    string `json:"isoCode"` // Unique, upper-case (e.g., "USD")
	Name       string `json:"name"`    // e.g., "United States Dollar"
	IsActive   bool   `json:"isActive"`
	AuditFields
}

// NormalizeISOCode trims and upper-cases an ISO 4217 code.
func NormalizeISOCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CurrencyPair is an unordered pair of currencies stored in canonical order,
// Base sorting before Target.
type CurrencyPair struct {
	Base   string
	Target string
}

// NewCurrencyPair normalizes two ISO codes into canonical order. swapped reports
// whether the requested direction (from -> to) is the reverse of the stored one.
func NewCurrencyPair(from, to string) (pair CurrencyPair, swapped bool) {
	from, to = NormalizeISOCode(from), NormalizeISOCode(to)
	if from > to {
		return CurrencyPair{Base: to, Target: from}, true
	}
	return CurrencyPair{Base: from, Target: to}, false
}

// IsIdentity reports whether both sides are the same currency.
func (p CurrencyPair) IsIdentity() bool {
	return p.Base == p.Target
}

// ConversionRate is the single stored row for an unordered currency pair.
// ConversionRate converts Base -> Target, ReverseRate converts Target -> Base.
type ConversionRate struct {
	RateID             string          `json:"rateID"`
	BaseCurrencyCode   string          `json:"baseCurrencyCode"`
	TargetCurrencyCode string          `json:"targetCurrencyCode"`
	ConversionRate     decimal.Decimal `json:"conversionRate"`
	ReverseRate        decimal.Decimal `json:"reverseRate"`
	LastUpdatedAt      time.Time       `json:"lastUpdatedAt"`
}

// NewConversionRate builds the canonical row for a rate quoted as from -> to.
// The reciprocal is rounded to RatePrecision places.
func NewConversionRate(from, to string, rate decimal.Decimal) ConversionRate {
	pair, swapped := NewCurrencyPair(from, to)
	quoted := rate.Round(RatePrecision)
	reciprocal := decimal.NewFromInt(1).DivRound(rate, RatePrecision)

	cr := ConversionRate{
		BaseCurrencyCode:   pair.Base,
		TargetCurrencyCode: pair.Target,
		ConversionRate:     quoted,
		ReverseRate:        reciprocal,
	}
	if swapped {
		cr.ConversionRate, cr.ReverseRate = reciprocal, quoted
	}
	return cr
}

// Pair returns the canonical pair this row is stored under.
func (r ConversionRate) Pair() CurrencyPair {
	return CurrencyPair{Base: r.BaseCurrencyCode, Target: r.TargetCurrencyCode}
}

// RateFrom returns the factor that converts an amount in base into the other
// currency of the pair. ok is false if base is not part of the pair.
func (r ConversionRate) RateFrom(base string) (rate decimal.Decimal, ok bool) {
	switch NormalizeISOCode(base) {
	case r.BaseCurrencyCode:
		return r.ConversionRate, true
	case r.TargetCurrencyCode:
		return r.ReverseRate, true
	default:
		return decimal.Zero, false
	}
}
