package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/core/domain"
	portsrepo "github.com/iswift/iswift_backend/internal/core/ports/repositories"
	"github.com/iswift/iswift_backend/internal/models"
	"github.com/iswift/iswift_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new repository for conversion rates.
func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

// FindConversionRate retrieves the row stored for a canonical pair.
func (r *PgxExchangeRateRepository) FindConversionRate(ctx context.Context, pair domain.CurrencyPair) (*domain.ConversionRate, error) {
	query := `
		SELECT rate_id, base_currency_code, target_currency_code, conversion_rate, reverse_rate, last_updated_at
		FROM conversion_rates
		WHERE base_currency_code = $1 AND target_currency_code = $2;
	`
	var m models.ConversionRate
	err := r.Pool.QueryRow(ctx, query, pair.Base, pair.Target).Scan(
		&m.RateID,
		&m.BaseCurrencyCode,
		&m.TargetCurrencyCode,
		&m.ConversionRate,
		&m.ReverseRate,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: rate %s/%s", apperrors.ErrNotFound, pair.Base, pair.Target)
		}
		return nil, fmt.Errorf("failed to find rate %s/%s: %w", pair.Base, pair.Target, err)
	}
	rate := mapping.ToDomainConversionRate(m)
	return &rate, nil
}

// UpsertConversionRate inserts or replaces the row of the rate's canonical pair in one statement.
func (r *PgxExchangeRateRepository) UpsertConversionRate(ctx context.Context, rate domain.ConversionRate) error {
	pair := rate.Pair()
	if pair.Base >= pair.Target {
		return fmt.Errorf("%w: rate pair %s/%s is not in canonical order", apperrors.ErrValidation, pair.Base, pair.Target)
	}
	if rate.RateID == "" {
		rate.RateID = uuid.NewString()
	}
	m := mapping.ToModelConversionRate(rate)

	query := `
		INSERT INTO conversion_rates (rate_id, base_currency_code, target_currency_code, conversion_rate, reverse_rate, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (base_currency_code, target_currency_code) DO UPDATE
		SET conversion_rate = EXCLUDED.conversion_rate,
			reverse_rate = EXCLUDED.reverse_rate,
			last_updated_at = EXCLUDED.last_updated_at;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RateID, m.BaseCurrencyCode, m.TargetCurrencyCode, m.ConversionRate, m.ReverseRate, m.LastUpdatedAt,
	)
	if err != nil {
		return translateWriteError(err, fmt.Sprintf("upsert rate %s/%s", m.BaseCurrencyCode, m.TargetCurrencyCode))
	}
	return nil
}
