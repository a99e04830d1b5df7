package repositories

import (
	"context"

	"github.com/iswift/iswift_backend/internal/core/domain"
)

// CurrencyReader defines read operations for currency data
type CurrencyReader interface {
	// FindCurrencyByCode retrieves a currency by its ISO code.
	FindCurrencyByCode(ctx context.Context, isoCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all currencies, optionally only the active ones.
	ListCurrencies(ctx context.Context, activeOnly bool) ([]domain.Currency, error)
}

// CurrencyRepositoryFacade is the currency repository. Currencies are seeded by migrations.
type CurrencyRepositoryFacade interface {
	CurrencyReader
}
