package repositories

import (
	"context"

	"github.com/iswift/iswift_backend/internal/core/domain"
)

// ExchangeRateReader defines read operations for conversion rates
type ExchangeRateReader interface {
	// FindConversionRate retrieves the single row stored for a canonical pair.
	// Returns apperrors.ErrNotFound if the pair has no row.
	FindConversionRate(ctx context.Context, pair domain.CurrencyPair) (*domain.ConversionRate, error)
}

// ExchangeRateWriter defines write operations for conversion rates
type ExchangeRateWriter interface {
	// UpsertConversionRate inserts or replaces the row of rate.Pair().
	UpsertConversionRate(ctx context.Context, rate domain.ConversionRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
