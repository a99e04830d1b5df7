package pgsql

import (
	portsrepo "github.com/iswift/iswift_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:      newPgxAccountRepository(dbPool),
		CurrencyRepo:     newPgxCurrencyRepository(dbPool),
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		LedgerEntryRepo:  newPgxLedgerEntryRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
		OTPRepo:          newPgxOTPRepository(dbPool),
	}
}
