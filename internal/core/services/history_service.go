package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/core/domain"
	portsrepo "github.com/iswift/iswift_backend/internal/core/ports/repositories"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
)

type historyService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerEntryReader
	userRepo    portsrepo.UserReader
}

// NewTransactionHistoryService creates the read side of the ledger.
func NewTransactionHistoryService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerEntryReader, userRepo portsrepo.UserReader) portssvc.TransactionHistorySvc {
	return &historyService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		userRepo:    userRepo,
	}
}

var _ portssvc.TransactionHistorySvc = (*historyService)(nil)

// ListForAccount projects every credit into and debit out of the account.
// The result is unordered; presentation sorts it.
func (s *historyService) ListForAccount(ctx context.Context, userID string, accountID string) ([]domain.TransactionView, error) {
	if _, err := s.ownedAccount(ctx, userID, accountID); err != nil {
		return nil, err
	}

	credits, err := s.ledgerRepo.ListCreditsByAccount(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list credits", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list credits: %w", err)
	}
	debits, err := s.ledgerRepo.ListDebitsByAccount(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list debits", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list debits: %w", err)
	}

	counterpartyIDs := make([]string, 0, len(credits)+len(debits))
	for _, c := range credits {
		counterpartyIDs = append(counterpartyIDs, c.SenderUserID)
	}
	for _, d := range debits {
		if id, ok := d.Recipient.SingleUserID(); ok {
			counterpartyIDs = append(counterpartyIDs, id)
		}
	}
	users := map[string]domain.User{}
	if len(counterpartyIDs) > 0 {
		users, err = s.userRepo.FindUsersByIDs(ctx, uniqueStrings(counterpartyIDs))
		if err != nil {
			return nil, fmt.Errorf("failed to load counterparties: %w", err)
		}
	}

	views := make([]domain.TransactionView, 0, len(credits)+len(debits))
	for _, c := range credits {
		views = append(views, domain.TransactionView{
			TransactionID:    c.CreditID,
			Type:             domain.TransactionTypeCredit,
			AccountID:        c.AccountID,
			Amount:           c.AmountReceived,
			CurrencyCode:     c.CurrencyReceived,
			CounterpartyName: users[c.SenderUserID].FullName(),
			Description:      c.Description,
			CreatedAt:        c.CreatedAt,
		})
	}
	for _, d := range debits {
		name := domain.BulkTransferLabel
		if id, ok := d.Recipient.SingleUserID(); ok {
			name = users[id].FullName()
		}
		views = append(views, domain.TransactionView{
			TransactionID:    d.DebitID,
			Type:             domain.TransactionTypeDebit,
			AccountID:        d.AccountID,
			Amount:           d.AmountSent,
			CurrencyCode:     d.CurrencyCode,
			CounterpartyName: name,
			Description:      d.Description,
			CreatedAt:        d.CreatedAt,
		})
	}
	return views, nil
}

// GetTransaction looks up one ledger record owned by userID. Debits carry their credits.
func (s *historyService) GetTransaction(ctx context.Context, userID string, txType string, transactionID string) (*domain.TransactionRecord, error) {
	kind, ok := domain.ParseTransactionType(txType)
	if !ok {
		return nil, fmt.Errorf("%w: type must be %s or %s", apperrors.ErrValidation, domain.TransactionTypeCredit, domain.TransactionTypeDebit)
	}

	switch kind {
	case domain.TransactionTypeCredit:
		credit, err := s.ledgerRepo.FindCreditByID(ctx, transactionID)
		if err != nil {
			return nil, notFoundOr(err, "credit transaction", transactionID)
		}
		if _, err := s.ownedAccount(ctx, userID, credit.AccountID); err != nil {
			return nil, fmt.Errorf("%w: credit transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return &domain.TransactionRecord{Type: kind, Credit: credit}, nil
	default:
		debit, err := s.ledgerRepo.FindDebitByID(ctx, transactionID)
		if err != nil {
			return nil, notFoundOr(err, "debit transaction", transactionID)
		}
		if _, err := s.ownedAccount(ctx, userID, debit.AccountID); err != nil {
			return nil, fmt.Errorf("%w: debit transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return &domain.TransactionRecord{Type: kind, Debit: debit}, nil
	}
}

func (s *historyService) ownedAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, notFoundOr(err, "account", accountID)
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return account, nil
}

func notFoundOr(err error, what, id string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, what, id)
	}
	return fmt.Errorf("failed to load %s %s: %w", what, id, err)
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
