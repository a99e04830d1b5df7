package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/core/domain"
	portsrepo "github.com/iswift/iswift_backend/internal/core/ports/repositories"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyReader
	rateRepo     portsrepo.ExchangeRateReader
}

// NewCurrencyService creates the currency directory: the currency catalogue plus
// rate resolution and conversion.
func NewCurrencyService(currencyRepo portsrepo.CurrencyReader, rateRepo portsrepo.ExchangeRateReader) portssvc.CurrencySvcFacade {
	return &currencyService{
		currencyRepo: currencyRepo,
		rateRepo:     rateRepo,
	}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) ListCurrencies(ctx context.Context, activeOnly bool) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx, activeOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list currencies")
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	if currencies == nil {
		currencies = []domain.Currency{}
	}
	return currencies, nil
}

func (s *currencyService) GetCurrency(ctx context.Context, isoCode string) (*domain.Currency, error) {
	code := domain.NormalizeISOCode(isoCode)
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency %s", apperrors.ErrNotFound, code)
		}
		s.LogError(ctx, err, "Failed to get currency", slog.String("iso_code", code))
		return nil, fmt.Errorf("failed to get currency %s: %w", code, err)
	}
	return currency, nil
}

// ResolveRate returns the multiplier converting base into target. For identical
// currencies the rate is 1 and no row is returned.
func (s *currencyService) ResolveRate(ctx context.Context, base, target string) (decimal.Decimal, *domain.ConversionRate, error) {
	base, target = domain.NormalizeISOCode(base), domain.NormalizeISOCode(target)
	pair, _ := domain.NewCurrencyPair(base, target)
	if pair.IsIdentity() {
		return decimal.NewFromInt(1), nil, nil
	}

	row, err := s.rateRepo.FindConversionRate(ctx, pair)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.GetLogger(ctx).Warn("Conversion rate missing", slog.String("base", base), slog.String("target", target))
			return decimal.Zero, nil, fmt.Errorf("%w: %s to %s", apperrors.ErrRateNotFound, base, target)
		}
		s.LogError(ctx, err, "Failed to load conversion rate", slog.String("base", base), slog.String("target", target))
		return decimal.Zero, nil, fmt.Errorf("failed to load conversion rate %s/%s: %w", pair.Base, pair.Target, err)
	}

	rate, ok := row.RateFrom(base)
	if !ok {
		return decimal.Zero, nil, fmt.Errorf("%w: rate row %s/%s does not cover %s", apperrors.ErrInternal, row.BaseCurrencyCode, row.TargetCurrencyCode, base)
	}
	return rate, row, nil
}

// Convert multiplies amount by the base->target rate and rounds half-even to
// two places.
func (s *currencyService) Convert(ctx context.Context, base, target string, amount decimal.Decimal) (decimal.Decimal, error) {
	rate, _, err := s.ResolveRate(ctx, base, target)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate).RoundBank(domain.AmountPrecision), nil
}

// ParseAmount parses a user supplied amount such as a query parameter.
func ParseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", apperrors.ErrInvalidAmount, raw)
	}
	return amount, nil
}
