package repositories

import (
	"context"

	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// LedgerEntryReader defines read operations for debit and credit records
type LedgerEntryReader interface {
	// FindDebitByID retrieves a debit together with its credits.
	FindDebitByID(ctx context.Context, debitID string) (*domain.DebitTransaction, error)

	// FindCreditByID retrieves a credit.
	FindCreditByID(ctx context.Context, creditID string) (*domain.CreditTransaction, error)

	// ListDebitsByAccount retrieves debits whose source is accountID, newest first.
	ListDebitsByAccount(ctx context.Context, accountID string) ([]domain.DebitTransaction, error)

	// ListCreditsByAccount retrieves credits whose destination is accountID, newest first.
	ListCreditsByAccount(ctx context.Context, accountID string) ([]domain.CreditTransaction, error)
}

// LedgerEntryWriter persists ledger records inside a caller-owned transaction
type LedgerEntryWriter interface {
	SaveDebitInTx(ctx context.Context, tx pgx.Tx, debit domain.DebitTransaction) error
	SaveCreditInTx(ctx context.Context, tx pgx.Tx, credit domain.CreditTransaction) error
}

// LedgerEntryRepositoryFacade combines all ledger record repository interfaces
type LedgerEntryRepositoryFacade interface {
	LedgerEntryReader
	LedgerEntryWriter
}
