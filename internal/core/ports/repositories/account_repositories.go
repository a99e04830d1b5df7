package repositories

import (
	"context"
	"time"

	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccountsByUser retrieves all accounts owned by a user, oldest first.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)

	// FindDefaultAccountByUser retrieves the default account of a user.
	FindDefaultAccountByUser(ctx context.Context, userID string) (*domain.Account, error)
}

// AccountTransactionSupport defines operations that run inside a caller-owned transaction.
// Every ...ForUpdate method locks rows in ascending account_id order.
type AccountTransactionSupport interface {
	// SaveAccountInTx persists a new account.
	SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error

	// FindAccountsByUserForUpdate selects and locks every account of a user.
	FindAccountsByUserForUpdate(ctx context.Context, tx pgx.Tx, userID string) ([]domain.Account, error)

	// FindTransferAccountsForUpdate selects and locks the sender account together with
	// every account owned by the recipient users.
	FindTransferAccountsForUpdate(ctx context.Context, tx pgx.Tx, senderAccountID string, recipientUserIDs []string) ([]domain.Account, error)

	// UpdateAccountBalanceInTx applies delta to the balance and returns the new balance.
	UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error)

	// UpdateAccountNameInTx renames an account.
	UpdateAccountNameInTx(ctx context.Context, tx pgx.Tx, accountID string, name string, updatedBy string, now time.Time) error

	// SetDefaultAccountInTx makes accountID the only default account of userID.
	SetDefaultAccountInTx(ctx context.Context, tx pgx.Tx, userID string, accountID string, updatedBy string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
