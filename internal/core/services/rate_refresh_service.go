package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/iswift/iswift_backend/internal/core/domain"
	portsrepo "github.com/iswift/iswift_backend/internal/core/ports/repositories"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/platform/metrics"
	"golang.org/x/sync/errgroup"
)

type rateRefreshService struct {
	BaseService
	currencyRepo portsrepo.CurrencyReader
	rateRepo     portsrepo.ExchangeRateWriter
	provider     portssvc.RateProvider
	concurrency  int
	metrics      *metrics.Metrics
}

// NewRateRefreshService creates the job that pulls rates for every pair of
// active currencies. concurrency bounds the number of provider calls in flight.
func NewRateRefreshService(currencyRepo portsrepo.CurrencyReader, rateRepo portsrepo.ExchangeRateWriter, provider portssvc.RateProvider, concurrency int, m *metrics.Metrics) portssvc.RateRefreshSvc {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &rateRefreshService{
		currencyRepo: currencyRepo,
		rateRepo:     rateRepo,
		provider:     provider,
		concurrency:  concurrency,
		metrics:      m,
	}
}

// RefreshRates fetches, for each active currency in sorted order, the rates to
// every currency after it, so each unordered pair is requested once. Missing,
// zero or negative quotes are skipped; provider failures are counted and do
// not stop the other bases.
func (s *rateRefreshService) RefreshRates(ctx context.Context) (portssvc.RefreshSummary, error) {
	var summary portssvc.RefreshSummary

	currencies, err := s.currencyRepo.ListCurrencies(ctx, true)
	if err != nil {
		return summary, fmt.Errorf("failed to list currencies: %w", err)
	}
	codes := make([]string, 0, len(currencies))
	for _, c := range currencies {
		codes = append(codes, domain.NormalizeISOCode(c.ISOCode))
	}
	sort.Strings(codes)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := 0; i < len(codes)-1; i++ {
		base, symbols := codes[i], codes[i+1:]
		g.Go(func() error {
			rates, err := s.provider.LatestRates(gctx, base, symbols)
			if err != nil {
				s.metrics.IncrRateFetch("error")
				s.LogError(gctx, err, "Failed to fetch rates", slog.String("base", base))
				mu.Lock()
				summary.Failed += len(symbols)
				mu.Unlock()
				return nil
			}
			s.metrics.IncrRateFetch("success")

			var updated, skipped, failed int
			for _, symbol := range symbols {
				rate, ok := rates[symbol]
				if !ok || !rate.IsPositive() {
					s.GetLogger(gctx).Warn("Skipping invalid rate",
						slog.String("base", base),
						slog.String("target", symbol),
						slog.String("rate", rate.String()))
					s.metrics.IncrRateUpsert("skipped")
					skipped++
					continue
				}
				if err := s.rateRepo.UpsertConversionRate(gctx, domain.NewConversionRate(base, symbol, rate)); err != nil {
					s.LogError(gctx, err, "Failed to store rate", slog.String("base", base), slog.String("target", symbol))
					s.metrics.IncrRateUpsert("error")
					failed++
					continue
				}
				s.metrics.IncrRateUpsert("updated")
				updated++
			}

			mu.Lock()
			summary.Updated += updated
			summary.Skipped += skipped
			summary.Failed += failed
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	s.LogInfo(ctx, "Conversion rates refreshed",
		slog.Int("updated", summary.Updated),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed))
	return summary, nil
}
