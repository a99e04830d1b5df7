package services

import (
	"context"

	"github.com/iswift/iswift_backend/internal/core/domain"
)

// TransferSvc executes transfers from one account to one or more users.
type TransferSvc interface {
	// Execute debits senderAccountID once and credits the default account of every
	// recipient, all in one database transaction.
	Execute(ctx context.Context, callerID string, senderAccountID string, recipients []domain.TransferRecipient, description string) (*domain.DebitTransaction, error)
}

// TransactionHistorySvc projects ledger records for the account owner.
type TransactionHistorySvc interface {
	// ListForAccount returns credits into and debits out of the account, unordered.
	ListForAccount(ctx context.Context, userID string, accountID string) ([]domain.TransactionView, error)

	// GetTransaction looks up a single record by its public type name.
	GetTransaction(ctx context.Context, userID string, txType string, transactionID string) (*domain.TransactionRecord, error)
}

// Notifier is told about ledger writes after they commit. Implementations must
// not block the caller for long and report failures only through logs.
type Notifier interface {
	DebitRecorded(ctx context.Context, debit domain.DebitTransaction)
	CreditRecorded(ctx context.Context, credit domain.CreditTransaction)
}
