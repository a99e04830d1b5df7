package services

import (
	"context"

	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyReaderSvc defines read operations for currencies
type CurrencyReaderSvc interface {
	// ListCurrencies retrieves all currencies, optionally only the active ones.
	ListCurrencies(ctx context.Context, activeOnly bool) ([]domain.Currency, error)

	// GetCurrency retrieves a currency by ISO code in any case.
	GetCurrency(ctx context.Context, isoCode string) (*domain.Currency, error)
}

// RateResolverSvc resolves and applies conversion rates
type RateResolverSvc interface {
	// ResolveRate returns the factor converting base into target, together with the
	// stored row it came from. The row is nil for identity conversions.
	ResolveRate(ctx context.Context, base, target string) (decimal.Decimal, *domain.ConversionRate, error)

	// Convert applies the resolved rate to amount and rounds half-even to 2 places.
	Convert(ctx context.Context, base, target string, amount decimal.Decimal) (decimal.Decimal, error)
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	RateResolverSvc
}
