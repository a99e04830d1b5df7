package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/core/domain"
	portsrepo "github.com/iswift/iswift_backend/internal/core/ports/repositories"
	"github.com/iswift/iswift_backend/internal/models"
	"github.com/iswift/iswift_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryWithTx
var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, user_id, name, currency_code, balance, is_default, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.Name,
		&m.CurrencyCode,
		&m.Balance,
		&m.IsDefault,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()
	var accounts []domain.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// ListAccountsByUser retrieves all accounts of a user, oldest first.
func (r *PgxAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at, account_id;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for user %s: %w", userID, err)
	}
	return collectAccounts(rows)
}

// FindDefaultAccountByUser retrieves the default account of a user.
func (r *PgxAccountRepository) FindDefaultAccountByUser(ctx context.Context, userID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND is_default;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: default account of user %s", apperrors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to find default account of user %s: %w", userID, err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// UpdateAccountNameInTx renames an account.
func (r *PgxAccountRepository) UpdateAccountNameInTx(ctx context.Context, tx pgx.Tx, accountID string, name string, updatedBy string, now time.Time) error {
	query := `
		UPDATE accounts
		SET name = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, accountID, name, now, updatedBy)
	if err != nil {
		return translateWriteError(err, "rename account "+accountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// SaveAccountInTx inserts a new account.
func (r *PgxAccountRepository) SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := tx.Exec(ctx, query,
		m.AccountID,
		m.UserID,
		m.Name,
		m.CurrencyCode,
		m.Balance,
		m.IsDefault,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "save account "+m.AccountID)
	}
	return nil
}

// FindAccountsByUserForUpdate selects and locks every account of a user.
func (r *PgxAccountRepository) FindAccountsByUserForUpdate(ctx context.Context, tx pgx.Tx, userID string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts of user %s: %w", userID, err)
	}
	return collectAccounts(rows)
}

// FindTransferAccountsForUpdate selects and locks the sender account and every
// account of the recipient users in a single ordered statement.
func (r *PgxAccountRepository) FindTransferAccountsForUpdate(ctx context.Context, tx pgx.Tx, senderAccountID string, recipientUserIDs []string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = $1 OR user_id = ANY($2)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, senderAccountID, recipientUserIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock transfer accounts: %w", err)
	}
	return collectAccounts(rows)
}

// UpdateAccountBalanceInTx applies delta and returns the new balance.
func (r *PgxAccountRepository) UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1
		RETURNING balance;
	`
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, query, accountID, delta, now, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountID)
		}
		return decimal.Zero, translateWriteError(err, "update balance of account "+accountID)
	}
	return balance, nil
}

// SetDefaultAccountInTx clears the flag on every sibling before setting it on the
// target so the partial unique index never sees two defaults.
func (r *PgxAccountRepository) SetDefaultAccountInTx(ctx context.Context, tx pgx.Tx, userID string, accountID string, updatedBy string, now time.Time) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		UPDATE accounts
		SET is_default = false, last_updated_at = $3, last_updated_by = $4
		WHERE user_id = $1 AND account_id <> $2 AND is_default;
	`, userID, accountID, now, updatedBy)
	batch.Queue(`
		UPDATE accounts
		SET is_default = true, last_updated_at = $3, last_updated_by = $4
		WHERE user_id = $1 AND account_id = $2;
	`, userID, accountID, now, updatedBy)

	br := tx.SendBatch(ctx, batch)
	if _, err := br.Exec(); err != nil {
		_ = br.Close()
		return translateWriteError(err, "clear default flag for user "+userID)
	}
	ct, err := br.Exec()
	if err != nil {
		_ = br.Close()
		return translateWriteError(err, "set default account "+accountID)
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close default flag batch: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s of user %s", apperrors.ErrNotFound, accountID, userID)
	}
	return nil
}
