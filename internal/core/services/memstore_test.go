package services_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/core/domain"
	portsrepo "github.com/iswift/iswift_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// memTx stands in for a pgx transaction. Only identity matters to memStore.
type memTx struct {
	pgx.Tx
	done bool
}

// memStore is an in-memory store whose transactions run one at a time, which
// gives the same guarantees the row locks give in Postgres. Writes apply
// directly and are undone from a snapshot on rollback.
type memStore struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	accounts   map[string]domain.Account
	users      map[string]domain.User
	currencies map[string]domain.Currency
	rates      map[domain.CurrencyPair]domain.ConversionRate
	debits     map[string]domain.DebitTransaction
	credits    map[string]domain.CreditTransaction

	snapshot *memSnapshot

	// failCreditAt makes the n-th SaveCreditInTx call (1-based) fail.
	failCreditAt int
	creditCalls  int
}

type memSnapshot struct {
	accounts map[string]domain.Account
	debits   map[string]domain.DebitTransaction
	credits  map[string]domain.CreditTransaction
}

var (
	_ portsrepo.AccountRepositoryWithTx     = (*memStore)(nil)
	_ portsrepo.UserReader                  = (*memStore)(nil)
	_ portsrepo.LedgerEntryRepositoryFacade = (*memStore)(nil)
	_ portsrepo.CurrencyReader              = (*memStore)(nil)
	_ portsrepo.ExchangeRateReader          = (*memStore)(nil)
)

var errInjected = errors.New("injected failure")

func newMemStore() *memStore {
	return &memStore{
		accounts:   map[string]domain.Account{},
		users:      map[string]domain.User{},
		currencies: map[string]domain.Currency{},
		rates:      map[domain.CurrencyPair]domain.ConversionRate{},
		debits:     map[string]domain.DebitTransaction{},
		credits:    map[string]domain.CreditTransaction{},
	}
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// --- TransactionManager ---

func (s *memStore) Begin(ctx context.Context) (pgx.Tx, error) {
	s.txMu.Lock()
	s.mu.Lock()
	s.snapshot = &memSnapshot{
		accounts: copyMap(s.accounts),
		debits:   copyMap(s.debits),
		credits:  copyMap(s.credits),
	}
	s.mu.Unlock()
	return &memTx{}, nil
}

func (s *memStore) Commit(ctx context.Context, tx pgx.Tx) error {
	t := tx.(*memTx)
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()
	s.txMu.Unlock()
	return nil
}

func (s *memStore) Rollback(ctx context.Context, tx pgx.Tx) error {
	t := tx.(*memTx)
	if t.done {
		return nil
	}
	t.done = true
	s.mu.Lock()
	s.accounts = s.snapshot.accounts
	s.debits = s.snapshot.debits
	s.credits = s.snapshot.credits
	s.snapshot = nil
	s.mu.Unlock()
	s.txMu.Unlock()
	return nil
}

// --- seeding and inspection ---

func (s *memStore) addCurrency(iso string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currencies[iso] = domain.Currency{CurrencyID: "cur-" + iso, ISOCode: iso, Name: iso, IsActive: active}
}

func (s *memStore) addRate(from, to, rate string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cr := domain.NewConversionRate(from, to, decimal.RequireFromString(rate))
	s.rates[cr.Pair()] = cr
}

func (s *memStore) addUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.UserID] = u
}

func (s *memStore) addAccount(a domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.AccountID] = a
}

func (s *memStore) balance(accountID string) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts[accountID].Balance
}

func (s *memStore) defaultsOf(userID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for _, a := range s.accounts {
		if a.UserID == userID && a.IsDefault {
			ids = append(ids, a.AccountID)
		}
	}
	return ids
}

func (s *memStore) ledgerRowCount() (debits, credits int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.debits), len(s.credits)
}

// --- AccountRepository ---

func (s *memStore) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (s *memStore) sortedAccounts(match func(domain.Account) bool) []domain.Account {
	out := []domain.Account{}
	for _, a := range s.accounts {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out
}

func (s *memStore) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedAccounts(func(a domain.Account) bool { return a.UserID == userID }), nil
}

func (s *memStore) FindDefaultAccountByUser(ctx context.Context, userID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.UserID == userID && a.IsDefault {
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *memStore) UpdateAccountNameInTx(ctx context.Context, tx pgx.Tx, accountID string, name string, updatedBy string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	a.Name = name
	a.LastUpdatedAt = now
	a.LastUpdatedBy = updatedBy
	s.accounts[accountID] = a
	return nil
}

func (s *memStore) SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.UserID == account.UserID && a.CurrencyCode == account.CurrencyCode {
			return apperrors.ErrDuplicate
		}
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *memStore) FindAccountsByUserForUpdate(ctx context.Context, tx pgx.Tx, userID string) ([]domain.Account, error) {
	return s.ListAccountsByUser(ctx, userID)
}

func (s *memStore) FindTransferAccountsForUpdate(ctx context.Context, tx pgx.Tx, senderAccountID string, recipientUserIDs []string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := map[string]bool{}
	for _, id := range recipientUserIDs {
		wanted[id] = true
	}
	return s.sortedAccounts(func(a domain.Account) bool {
		return a.AccountID == senderAccountID || wanted[a.UserID]
	}), nil
}

func (s *memStore) UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return decimal.Zero, apperrors.ErrNotFound
	}
	next := a.Balance.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, apperrors.ErrInsufficientFunds
	}
	a.Balance = next
	a.LastUpdatedAt = now
	a.LastUpdatedBy = userID
	s.accounts[accountID] = a
	return next, nil
}

func (s *memStore) SetDefaultAccountInTx(ctx context.Context, tx pgx.Tx, userID string, accountID string, updatedBy string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.accounts[accountID]
	if !ok || target.UserID != userID {
		return apperrors.ErrNotFound
	}
	for id, a := range s.accounts {
		if a.UserID == userID {
			a.IsDefault = id == accountID
			s.accounts[id] = a
		}
	}
	return nil
}

// --- LedgerEntryRepository ---

func (s *memStore) SaveDebitInTx(ctx context.Context, tx pgx.Tx, debit domain.DebitTransaction) error {
	if err := debit.Recipient.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	debit.Credits = nil
	s.debits[debit.DebitID] = debit
	return nil
}

func (s *memStore) SaveCreditInTx(ctx context.Context, tx pgx.Tx, credit domain.CreditTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creditCalls++
	if s.failCreditAt > 0 && s.creditCalls == s.failCreditAt {
		return fmt.Errorf("save credit: %w", errInjected)
	}
	s.credits[credit.CreditID] = credit
	return nil
}

func (s *memStore) FindDebitByID(ctx context.Context, debitID string) (*domain.DebitTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.debits[debitID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	for _, c := range s.credits {
		if c.DebitID != nil && *c.DebitID == debitID {
			d.Credits = append(d.Credits, c)
		}
	}
	return &d, nil
}

func (s *memStore) FindCreditByID(ctx context.Context, creditID string) (*domain.CreditTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.credits[creditID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (s *memStore) ListDebitsByAccount(ctx context.Context, accountID string) ([]domain.DebitTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.DebitTransaction
	for _, d := range s.debits {
		if d.AccountID == accountID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *memStore) ListCreditsByAccount(ctx context.Context, accountID string) ([]domain.CreditTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.CreditTransaction
	for _, c := range s.credits {
		if c.AccountID == accountID {
			out = append(out, c)
		}
	}
	return out, nil
}

// --- Currency and rate readers ---

func (s *memStore) FindCurrencyByCode(ctx context.Context, isoCode string) (*domain.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.currencies[isoCode]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (s *memStore) ListCurrencies(ctx context.Context, activeOnly bool) ([]domain.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Currency
	for _, c := range s.currencies {
		if !activeOnly || c.IsActive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ISOCode < out[j].ISOCode })
	return out, nil
}

func (s *memStore) FindConversionRate(ctx context.Context, pair domain.CurrencyPair) (*domain.ConversionRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rates[pair]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &r, nil
}

// --- UserReader ---

func (s *memStore) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (s *memStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *memStore) FindUserByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.PhoneNumber == phoneNumber {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *memStore) FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.User, len(userIDs))
	for _, id := range userIDs {
		if u, ok := s.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (s *memStore) ListUsers(ctx context.Context, filter portsrepo.UserListFilter) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.User
	for _, u := range s.users {
		if u.UserID != filter.ExcludeUserID {
			out = append(out, u)
		}
	}
	return out, nil
}
