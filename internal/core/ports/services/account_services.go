package services

import (
	"context"

	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/iswift/iswift_backend/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for account data.
// Accounts owned by another user are reported as not found.
type AccountReaderSvc interface {
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	GetAccount(ctx context.Context, userID string, accountID string) (*domain.Account, error)
	GetAccountDetail(ctx context.Context, userID string, accountID string) (*domain.AccountDetail, error)
	FindDefault(ctx context.Context, userID string) (*domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error)
	UpdateAccount(ctx context.Context, userID string, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// SetDefault makes accountID the only default account of userID.
	SetDefault(ctx context.Context, userID string, accountID string) (*domain.Account, error)

	// UnsetDefault promotes the oldest sibling to default. It fails with
	// apperrors.ErrNoOtherDefault when the account has no sibling.
	UnsetDefault(ctx context.Context, userID string, accountID string) (*domain.Account, error)
}

// LedgerSvc moves balances inside a transaction owned by the caller.
type LedgerSvc interface {
	// Debit decrements the balance, failing with apperrors.ErrInsufficientFunds.
	Debit(ctx context.Context, tx pgx.Tx, account *domain.Account, amount decimal.Decimal, actorID string) error

	// Credit converts amountInSource from the debit currency into the account
	// currency, increments the balance and records the credit.
	Credit(ctx context.Context, tx pgx.Tx, account *domain.Account, debit domain.DebitTransaction, amountInSource decimal.Decimal) (*domain.CreditTransaction, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	LedgerSvc
}
