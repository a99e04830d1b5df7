package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/core/domain"
	portsrepo "github.com/iswift/iswift_backend/internal/core/ports/repositories"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryWithTx
	currencyRepo portsrepo.CurrencyReader
	ledgerRepo   portsrepo.LedgerEntryWriter
	rates        portssvc.RateResolverSvc
	history      portssvc.TransactionHistorySvc
	now          Clock
}

// ServiceOption is a functional option for configuring the account service
type ServiceOption func(*accountService)

// WithCurrencyRepository adds currency repository dependency
func WithCurrencyRepository(repo portsrepo.CurrencyReader) ServiceOption {
	return func(s *accountService) {
		s.currencyRepo = repo
	}
}

// WithLedgerEntryWriter sets where credit rows are persisted
func WithLedgerEntryWriter(repo portsrepo.LedgerEntryWriter) ServiceOption {
	return func(s *accountService) {
		s.ledgerRepo = repo
	}
}

// WithRateResolver sets the currency conversion used by Credit
func WithRateResolver(rates portssvc.RateResolverSvc) ServiceOption {
	return func(s *accountService) {
		s.rates = rates
	}
}

// WithTransactionHistory sets the projector used by GetAccountDetail
func WithTransactionHistory(history portssvc.TransactionHistorySvc) ServiceOption {
	return func(s *accountService) {
		s.history = history
	}
}

// WithAccountClock overrides time.Now
func WithAccountClock(now Clock) ServiceOption {
	return func(s *accountService) {
		s.now = now
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryWithTx, options ...ServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
		now:         systemClock,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	isoCode := domain.NormalizeISOCode(req.Currency)
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, isoCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency %s", apperrors.ErrNotFound, isoCode)
		}
		s.LogError(ctx, err, "Failed to look up currency", slog.String("currency_code", isoCode))
		return nil, fmt.Errorf("failed to look up currency: %w", err)
	}
	if !currency.IsActive {
		return nil, fmt.Errorf("%w: currency %s is not active", apperrors.ErrValidation, isoCode)
	}

	name := domain.DefaultAccountName(isoCode)
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		name = strings.TrimSpace(*req.Name)
	}

	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer s.rollbackUnlessCommitted(ctx, s.accountRepo, tx, &committed)

	existing, err := s.accountRepo.FindAccountsByUserForUpdate(ctx, tx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to lock user accounts", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	for _, acc := range existing {
		if acc.CurrencyCode == isoCode {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrDuplicateCurrencyAccount, isoCode)
		}
	}

	now := s.now()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		UserID:       userID,
		Name:         name,
		CurrencyCode: isoCode,
		Balance:      decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.accountRepo.SaveAccountInTx(ctx, tx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Another request created the same currency account concurrently.
			return nil, fmt.Errorf("%w: %s", apperrors.ErrDuplicateCurrencyAccount, isoCode)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	if req.IsDefault || len(existing) == 0 {
		created, err := s.setDefaultInTx(ctx, tx, userID, account.AccountID, append(existing, account))
		if err != nil {
			return nil, err
		}
		account = *created
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	committed = true

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("currency_code", isoCode),
		slog.Bool("is_default", account.IsDefault))
	return &account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

// GetAccount returns ErrNotFound both for missing accounts and for accounts
// owned by someone else.
func (s *accountService) GetAccount(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		s.LogError(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account.UserID != userID {
		s.LogDebug(ctx, "Account belongs to another user", slog.String("account_id", accountID))
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return account, nil
}

func (s *accountService) GetAccountDetail(ctx context.Context, userID string, accountID string) (*domain.AccountDetail, error) {
	account, err := s.GetAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, account.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load account currency: %w", err)
	}
	views, err := s.history.ListForAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	return &domain.AccountDetail{
		Account:      *account,
		Currency:     *currency,
		Transactions: views,
	}, nil
}

func (s *accountService) FindDefault(ctx context.Context, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindDefaultAccountByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s has no default account", apperrors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to find default account: %w", err)
	}
	return account, nil
}

// UpdateAccount renames the account and moves its default flag in one
// transaction, so a rejected default change leaves the name untouched.
func (s *accountService) UpdateAccount(ctx context.Context, userID string, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	var name string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be blank", apperrors.ErrValidation)
		}
	}

	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer s.rollbackUnlessCommitted(ctx, s.accountRepo, tx, &committed)

	locked, err := s.accountRepo.FindAccountsByUserForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	idx := indexOfAccount(locked, accountID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	account := locked[idx]

	if req.Name != nil {
		if err := s.accountRepo.UpdateAccountNameInTx(ctx, tx, accountID, name, userID, s.now()); err != nil {
			s.LogError(ctx, err, "Failed to rename account", slog.String("account_id", accountID))
			return nil, fmt.Errorf("failed to update account: %w", err)
		}
		account.Name = name
	}

	if req.IsDefault != nil && *req.IsDefault != account.IsDefault {
		if *req.IsDefault {
			_, err = s.setDefaultInTx(ctx, tx, userID, accountID, locked)
		} else {
			_, err = s.unsetDefaultInTx(ctx, tx, userID, accountID, locked)
		}
		if err != nil {
			return nil, err
		}
		account.IsDefault = *req.IsDefault
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	committed = true
	return &account, nil
}

// SetDefault makes accountID the owner's only default account. All of the
// owner's accounts are locked in id order for the duration.
func (s *accountService) SetDefault(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer s.rollbackUnlessCommitted(ctx, s.accountRepo, tx, &committed)

	locked, err := s.accountRepo.FindAccountsByUserForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	account, err := s.setDefaultInTx(ctx, tx, userID, accountID, locked)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	committed = true
	s.LogInfo(ctx, "Default account changed", slog.String("account_id", accountID))
	return account, nil
}

// setDefaultInTx expects locked to hold every account of userID, already locked by tx.
func (s *accountService) setDefaultInTx(ctx context.Context, tx pgx.Tx, userID, accountID string, locked []domain.Account) (*domain.Account, error) {
	idx := indexOfAccount(locked, accountID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	target := locked[idx]
	if err := s.accountRepo.SetDefaultAccountInTx(ctx, tx, userID, accountID, userID, s.now()); err != nil {
		s.LogError(ctx, err, "Failed to set default account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to set default account: %w", err)
	}
	target.IsDefault = true
	return &target, nil
}

// UnsetDefault hands the default flag to the oldest sibling account. It fails
// with ErrNoOtherDefault when the account is the owner's only one.
func (s *accountService) UnsetDefault(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer s.rollbackUnlessCommitted(ctx, s.accountRepo, tx, &committed)

	locked, err := s.accountRepo.FindAccountsByUserForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	target, err := s.unsetDefaultInTx(ctx, tx, userID, accountID, locked)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	committed = true
	return target, nil
}

// unsetDefaultInTx expects locked to hold every account of userID, already locked by tx.
func (s *accountService) unsetDefaultInTx(ctx context.Context, tx pgx.Tx, userID, accountID string, locked []domain.Account) (*domain.Account, error) {
	idx := indexOfAccount(locked, accountID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	target := locked[idx]
	if !target.IsDefault {
		return &target, nil
	}

	siblings := make([]domain.Account, 0, len(locked)-1)
	for _, acc := range locked {
		if acc.AccountID != accountID {
			siblings = append(siblings, acc)
		}
	}
	if len(siblings) == 0 {
		return nil, apperrors.ErrNoOtherDefault
	}
	sort.Slice(siblings, func(i, j int) bool {
		if siblings[i].CreatedAt.Equal(siblings[j].CreatedAt) {
			return siblings[i].AccountID < siblings[j].AccountID
		}
		return siblings[i].CreatedAt.Before(siblings[j].CreatedAt)
	})
	if err := s.accountRepo.SetDefaultAccountInTx(ctx, tx, userID, siblings[0].AccountID, userID, s.now()); err != nil {
		return nil, fmt.Errorf("failed to promote default account: %w", err)
	}

	s.LogInfo(ctx, "Default account moved",
		slog.String("from_account_id", accountID),
		slog.String("to_account_id", siblings[0].AccountID))
	target.IsDefault = false
	return &target, nil
}

// Debit takes amount out of account inside tx. The balance on account is
// refreshed from the database.
func (s *accountService) Debit(ctx context.Context, tx pgx.Tx, account *domain.Account, amount decimal.Decimal, actorID string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: debit amount must be positive", apperrors.ErrInvalidAmount)
	}
	if !account.CanDebit(amount) {
		return fmt.Errorf("%w: balance %s, required %s", apperrors.ErrInsufficientFunds,
			account.Balance.StringFixed(domain.AmountPrecision), amount.StringFixed(domain.AmountPrecision))
	}
	balance, err := s.accountRepo.UpdateAccountBalanceInTx(ctx, tx, account.AccountID, amount.Neg(), actorID, s.now())
	if err != nil {
		return err
	}
	account.Balance = balance
	return nil
}

// Credit converts amountInSource from the debit's currency into the account's
// currency, adds it to the balance and records the credit row.
func (s *accountService) Credit(ctx context.Context, tx pgx.Tx, account *domain.Account, debit domain.DebitTransaction, amountInSource decimal.Decimal) (*domain.CreditTransaction, error) {
	if account.AccountID == debit.AccountID {
		return nil, apperrors.ErrSameAccountOperation
	}
	received, err := s.rates.Convert(ctx, debit.CurrencyCode, account.CurrencyCode, amountInSource)
	if err != nil {
		return nil, err
	}

	now := s.now()
	debitID := debit.DebitID
	credit := domain.CreditTransaction{
		CreditID:         uuid.NewString(),
		AccountID:        account.AccountID,
		DebitID:          &debitID,
		Description:      debit.Description,
		SenderUserID:     debit.CreatedBy,
		AmountSent:       amountInSource,
		CurrencySent:     debit.CurrencyCode,
		AmountReceived:   received,
		CurrencyReceived: account.CurrencyCode,
		CreatedAt:        now,
	}

	balance, err := s.accountRepo.UpdateAccountBalanceInTx(ctx, tx, account.AccountID, received, debit.CreatedBy, now)
	if err != nil {
		return nil, err
	}
	account.Balance = balance

	if err := s.ledgerRepo.SaveCreditInTx(ctx, tx, credit); err != nil {
		return nil, err
	}
	return &credit, nil
}

func indexOfAccount(accounts []domain.Account, accountID string) int {
	for i := range accounts {
		if accounts[i].AccountID == accountID {
			return i
		}
	}
	return -1
}
