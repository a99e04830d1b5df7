package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateProvider fetches the latest quotes for base against symbols.
type RateProvider interface {
	LatestRates(ctx context.Context, base string, symbols []string) (map[string]decimal.Decimal, error)
}

// RefreshSummary reports the outcome of one refresh run.
type RefreshSummary struct {
	Updated int
	Skipped int
	Failed  int
}

// RateRefreshSvc refreshes stored conversion rates for every active pair.
type RateRefreshSvc interface {
	RefreshRates(ctx context.Context) (RefreshSummary, error)
}
