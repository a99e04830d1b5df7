package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo      AccountRepositoryWithTx
	CurrencyRepo     CurrencyRepositoryFacade
	ExchangeRateRepo ExchangeRateRepositoryFacade
	LedgerEntryRepo  LedgerEntryRepositoryFacade
	UserRepo         UserRepositoryWithTx
	OTPRepo          OTPRepository
}
