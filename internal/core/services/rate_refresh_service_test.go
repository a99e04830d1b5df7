package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/iswift/iswift_backend/internal/core/services"
	"github.com/iswift/iswift_backend/internal/platform/metrics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) LatestRates(ctx context.Context, base string, symbols []string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, base, symbols)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

// rateSink records upserts.
type rateSink struct {
	mu    sync.Mutex
	rates map[domain.CurrencyPair]domain.ConversionRate
	fail  map[domain.CurrencyPair]bool
}

func (s *rateSink) UpsertConversionRate(ctx context.Context, rate domain.ConversionRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[rate.Pair()] {
		return errInjected
	}
	s.rates[rate.Pair()] = rate
	return nil
}

func TestRefreshRates(t *testing.T) {
	store := newMemStore()
	for _, iso := range []string{"USD", "EUR", "NGN", "GBP"} {
		store.addCurrency(iso, true)
	}
	store.addCurrency("CAD", false)

	provider := new(MockRateProvider)
	provider.On("LatestRates", mock.Anything, "EUR", []string{"GBP", "NGN", "USD"}).Return(map[string]decimal.Decimal{
		"GBP": decimal.RequireFromString("0.85"),
		"NGN": decimal.Zero, // invalid, skipped
		"USD": decimal.RequireFromString("1.0869565217"),
	}, nil)
	provider.On("LatestRates", mock.Anything, "GBP", []string{"NGN", "USD"}).Return(nil, errors.New("upstream down"))
	provider.On("LatestRates", mock.Anything, "NGN", []string{"USD"}).Return(map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("0.0006666667"),
	}, nil)

	sink := &rateSink{rates: map[domain.CurrencyPair]domain.ConversionRate{}, fail: map[domain.CurrencyPair]bool{}}
	svc := services.NewRateRefreshService(store, sink, provider, 2, metrics.New())

	summary, err := svc.RefreshRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Updated)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 2, summary.Failed)
	provider.AssertExpectations(t)

	eurUSD, ok := sink.rates[domain.CurrencyPair{Base: "EUR", Target: "USD"}]
	require.True(t, ok)
	assert.True(t, eurUSD.ConversionRate.Equal(decimal.RequireFromString("1.0869565217")))
	_, ok = sink.rates[domain.CurrencyPair{Base: "EUR", Target: "NGN"}]
	assert.False(t, ok)
}

func TestRefreshRates_CountsUpsertFailures(t *testing.T) {
	store := newMemStore()
	store.addCurrency("USD", true)
	store.addCurrency("EUR", true)

	provider := new(MockRateProvider)
	provider.On("LatestRates", mock.Anything, "EUR", []string{"USD"}).Return(map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("1.1"),
	}, nil)
	sink := &rateSink{
		rates: map[domain.CurrencyPair]domain.ConversionRate{},
		fail:  map[domain.CurrencyPair]bool{{Base: "EUR", Target: "USD"}: true},
	}

	summary, err := services.NewRateRefreshService(store, sink, provider, 0, nil).RefreshRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Zero(t, summary.Updated)
}
