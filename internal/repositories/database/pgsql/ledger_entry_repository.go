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

// PgxLedgerEntryRepository stores debit and credit records. Rows are never updated.
type PgxLedgerEntryRepository struct {
	BaseRepository
}

func newPgxLedgerEntryRepository(pool *pgxpool.Pool) portsrepo.LedgerEntryRepositoryFacade {
	return &PgxLedgerEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerEntryRepositoryFacade = (*PgxLedgerEntryRepository)(nil)

const (
	debitColumns  = `debit_id, account_id, currency_code, description, amount_sent, kind, recipient_user_id, created_at, created_by`
	creditColumns = `credit_id, account_id, debit_id, description, sender_user_id, amount_sent, currency_sent, amount_received, currency_received, created_at`
)

func scanDebit(row pgx.Row) (models.DebitTransaction, error) {
	var m models.DebitTransaction
	err := row.Scan(
		&m.DebitID,
		&m.AccountID,
		&m.CurrencyCode,
		&m.Description,
		&m.AmountSent,
		&m.Kind,
		&m.RecipientUserID,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	return m, err
}

func scanCredit(row pgx.Row) (models.CreditTransaction, error) {
	var m models.CreditTransaction
	err := row.Scan(
		&m.CreditID,
		&m.AccountID,
		&m.DebitID,
		&m.Description,
		&m.SenderUserID,
		&m.AmountSent,
		&m.CurrencySent,
		&m.AmountReceived,
		&m.CurrencyReceived,
		&m.CreatedAt,
	)
	return m, err
}

// SaveDebitInTx inserts a debit record.
func (r *PgxLedgerEntryRepository) SaveDebitInTx(ctx context.Context, tx pgx.Tx, debit domain.DebitTransaction) error {
	if err := debit.Recipient.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	m := mapping.ToModelDebit(debit)
	query := `INSERT INTO debit_transactions (` + debitColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	_, err := tx.Exec(ctx, query,
		m.DebitID, m.AccountID, m.CurrencyCode, m.Description, m.AmountSent,
		m.Kind, m.RecipientUserID, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return translateWriteError(err, "save debit "+m.DebitID)
	}
	return nil
}

// SaveCreditInTx inserts a credit record.
func (r *PgxLedgerEntryRepository) SaveCreditInTx(ctx context.Context, tx pgx.Tx, credit domain.CreditTransaction) error {
	m := mapping.ToModelCredit(credit)
	query := `INSERT INTO credit_transactions (` + creditColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	_, err := tx.Exec(ctx, query,
		m.CreditID, m.AccountID, m.DebitID, m.Description, m.SenderUserID,
		m.AmountSent, m.CurrencySent, m.AmountReceived, m.CurrencyReceived, m.CreatedAt,
	)
	if err != nil {
		return translateWriteError(err, "save credit "+m.CreditID)
	}
	return nil
}

// FindDebitByID retrieves a debit together with its credit fan-out.
func (r *PgxLedgerEntryRepository) FindDebitByID(ctx context.Context, debitID string) (*domain.DebitTransaction, error) {
	query := `SELECT ` + debitColumns + ` FROM debit_transactions WHERE debit_id = $1;`
	m, err := scanDebit(r.Pool.QueryRow(ctx, query, debitID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: debit %s", apperrors.ErrNotFound, debitID)
		}
		return nil, fmt.Errorf("failed to find debit %s: %w", debitID, err)
	}
	debit := mapping.ToDomainDebit(m)

	credits, err := r.queryCredits(ctx, `SELECT `+creditColumns+` FROM credit_transactions WHERE debit_id = $1 ORDER BY created_at, credit_id;`, debitID)
	if err != nil {
		return nil, err
	}
	debit.Credits = credits
	return &debit, nil
}

// FindCreditByID retrieves a credit.
func (r *PgxLedgerEntryRepository) FindCreditByID(ctx context.Context, creditID string) (*domain.CreditTransaction, error) {
	query := `SELECT ` + creditColumns + ` FROM credit_transactions WHERE credit_id = $1;`
	m, err := scanCredit(r.Pool.QueryRow(ctx, query, creditID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: credit %s", apperrors.ErrNotFound, creditID)
		}
		return nil, fmt.Errorf("failed to find credit %s: %w", creditID, err)
	}
	credit := mapping.ToDomainCredit(m)
	return &credit, nil
}

// ListDebitsByAccount retrieves debits whose source is accountID, newest first.
func (r *PgxLedgerEntryRepository) ListDebitsByAccount(ctx context.Context, accountID string) ([]domain.DebitTransaction, error) {
	query := `SELECT ` + debitColumns + ` FROM debit_transactions WHERE account_id = $1 ORDER BY created_at DESC, debit_id;`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debits of account %s: %w", accountID, err)
	}
	defer rows.Close()

	var debits []domain.DebitTransaction
	for rows.Next() {
		m, err := scanDebit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debit row: %w", err)
		}
		debits = append(debits, mapping.ToDomainDebit(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating debit rows: %w", err)
	}
	return debits, nil
}

// ListCreditsByAccount retrieves credits whose destination is accountID, newest first.
func (r *PgxLedgerEntryRepository) ListCreditsByAccount(ctx context.Context, accountID string) ([]domain.CreditTransaction, error) {
	return r.queryCredits(ctx, `SELECT `+creditColumns+` FROM credit_transactions WHERE account_id = $1 ORDER BY created_at DESC, credit_id;`, accountID)
}

func (r *PgxLedgerEntryRepository) queryCredits(ctx context.Context, query string, arg string) ([]domain.CreditTransaction, error) {
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query credits: %w", err)
	}
	defer rows.Close()

	var credits []domain.CreditTransaction
	for rows.Next() {
		m, err := scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit row: %w", err)
		}
		credits = append(credits, mapping.ToDomainCredit(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credit rows: %w", err)
	}
	return credits, nil
}
