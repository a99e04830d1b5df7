package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iswift/iswift_backend/internal/core/domain"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/core/services"
	"github.com/shopspring/decimal"
)

type ledgerFixture struct {
	store    *memStore
	currency portssvc.CurrencySvcFacade
	history  portssvc.TransactionHistorySvc
	accounts portssvc.AccountSvcFacade
	transfer portssvc.TransferSvc
	clock    *testClock
}

// testClock advances one millisecond per call so creation times are distinct.
type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time {
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func newLedgerFixture(t *testing.T, transferOpts ...services.TransferOption) *ledgerFixture {
	t.Helper()
	store := newMemStore()
	store.addCurrency("USD", true)
	store.addCurrency("EUR", true)
	store.addCurrency("NGN", true)
	store.addCurrency("GBP", false)
	store.addRate("USD", "EUR", "0.92")
	store.addRate("USD", "NGN", "1500")

	clock := &testClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	currency := services.NewCurrencyService(store, store)
	history := services.NewTransactionHistoryService(store, store, store)
	accounts := services.NewAccountService(store,
		services.WithCurrencyRepository(store),
		services.WithLedgerEntryWriter(store),
		services.WithRateResolver(currency),
		services.WithTransactionHistory(history),
		services.WithAccountClock(clock.now),
	)
	opts := append([]services.TransferOption{services.WithTransferClock(clock.now)}, transferOpts...)
	transfer := services.NewTransferService(store, store, store, accounts, opts...)

	return &ledgerFixture{
		store:    store,
		currency: currency,
		history:  history,
		accounts: accounts,
		transfer: transfer,
		clock:    clock,
	}
}

func (f *ledgerFixture) user(first, last string) string {
	id := uuid.NewString()
	f.store.addUser(domain.User{
		UserID:    id,
		Email:     first + "@example.com",
		FirstName: first,
		LastName:  last,
		IsActive:  true,
	})
	return id
}

func (f *ledgerFixture) account(userID, currency, balance string, isDefault bool) string {
	id := uuid.NewString()
	f.store.addAccount(domain.Account{
		AccountID:    id,
		UserID:       userID,
		Name:         domain.DefaultAccountName(currency),
		CurrencyCode: currency,
		Balance:      decimal.RequireFromString(balance),
		IsDefault:    isDefault,
		AuditFields:  domain.AuditFields{CreatedAt: f.clock.now(), CreatedBy: userID},
	})
	return id
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func to(userID, amt string) domain.TransferRecipient {
	return domain.TransferRecipient{UserID: userID, Amount: amount(amt)}
}

var bg = context.Background()
