package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/core/domain"
	portsrepo "github.com/iswift/iswift_backend/internal/core/ports/repositories"
	"github.com/iswift/iswift_backend/internal/models"
	"github.com/iswift/iswift_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new repository for currency data.
func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryFacade {
	return &PgxCurrencyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CurrencyRepositoryFacade = (*PgxCurrencyRepository)(nil)

const currencyColumns = `currency_id, iso_code, name, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanCurrency(row pgx.Row) (models.Currency, error) {
	var m models.Currency
	err := row.Scan(
		&m.CurrencyID,
		&m.ISOCode,
		&m.Name,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindCurrencyByCode retrieves a currency by its ISO code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, isoCode string) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE iso_code = $1;`

	m, err := scanCurrency(r.Pool.QueryRow(ctx, query, domain.NormalizeISOCode(isoCode)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: currency %s", apperrors.ErrNotFound, isoCode)
		}
		return nil, fmt.Errorf("failed to find currency %s: %w", isoCode, err)
	}
	c := mapping.ToDomainCurrency(m)
	return &c, nil
}

// ListCurrencies retrieves all currencies ordered by ISO code.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context, activeOnly bool) ([]domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE (NOT $1::boolean OR is_active) ORDER BY iso_code;`

	rows, err := r.Pool.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	defer rows.Close()

	var currencies []domain.Currency
	for rows.Next() {
		m, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan currency row: %w", err)
		}
		currencies = append(currencies, mapping.ToDomainCurrency(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency rows: %w", err)
	}
	return currencies, nil
}
