package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BulkTransferLabel names the counterparty of a debit that fanned out to several users.
const BulkTransferLabel = "Bulk Transfer"

// DebitKind distinguishes single-recipient debits from bulk ones.
type DebitKind string

const (
	DebitKindSingle DebitKind = "single"
	DebitKindBulk   DebitKind = "bulk"
)

// DebitRecipient is the tagged recipient of a debit: either exactly one user
// (Kind == DebitKindSingle, UserID set) or a bulk fan-out (UserID empty).
type DebitRecipient struct {
	Kind   DebitKind
	UserID string
}

// SingleRecipient builds the recipient of a one-to-one transfer.
func SingleRecipient(userID string) DebitRecipient {
	return DebitRecipient{Kind: DebitKindSingle, UserID: userID}
}

// BulkRecipients builds the recipient of a one-to-many transfer.
func BulkRecipients() DebitRecipient {
	return DebitRecipient{Kind: DebitKindBulk}
}

// RecipientFor picks the variant for a transfer to recipientUserIDs.
func RecipientFor(recipientUserIDs []string) DebitRecipient {
	if len(recipientUserIDs) == 1 {
		return SingleRecipient(recipientUserIDs[0])
	}
	return BulkRecipients()
}

// SingleUserID returns the recipient user when the debit is single-recipient.
func (r DebitRecipient) SingleUserID() (string, bool) {
	if r.Kind == DebitKindSingle && r.UserID != "" {
		return r.UserID, true
	}
	return "", false
}

// Validate checks that the tag and payload agree.
func (r DebitRecipient) Validate() error {
	switch r.Kind {
	case DebitKindSingle:
		if r.UserID == "" {
			return fmt.Errorf("single-recipient debit without recipient")
		}
	case DebitKindBulk:
		if r.UserID != "" {
			return fmt.Errorf("bulk debit with a single recipient %s", r.UserID)
		}
	default:
		return fmt.Errorf("unknown debit kind %q", r.Kind)
	}
	return nil
}

// DebitTransaction is the immutable record of funds leaving one account.
type DebitTransaction struct {
	DebitID      string          `json:"debitID"`
	AccountID    string          `json:"accountID"`    // Source account
	CurrencyCode string          `json:"currencyCode"` // Source currency at time of send
	Description  string          `json:"description"`
	AmountSent   decimal.Decimal `json:"amountSent"`
	Recipient    DebitRecipient  `json:"recipient"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`

	Credits []CreditTransaction `json:"credits,omitempty"` // Fan-out, loaded on demand
}

// CreditTransaction is the immutable record of funds arriving at one account.
type CreditTransaction struct {
	CreditID         string          `json:"creditID"`
	AccountID        string          `json:"accountID"` // Destination account
	DebitID          *string         `json:"debitID,omitempty"`
	Description      string          `json:"description"`
	SenderUserID     string          `json:"senderUserID"`
	AmountSent       decimal.Decimal `json:"amountSent"`
	CurrencySent     string          `json:"currencySent"`
	AmountReceived   decimal.Decimal `json:"amountReceived"`
	CurrencyReceived string          `json:"currencyReceived"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// TransferRecipient is one leg of a transfer request.
type TransferRecipient struct {
	UserID string
	Amount decimal.Decimal
}

// TransactionType is the public name of a ledger record type.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit-transaction"
	TransactionTypeDebit  TransactionType = "debit-transaction"
)

// ParseTransactionType accepts only the two public record names.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(s) {
	case TransactionTypeCredit, TransactionTypeDebit:
		return TransactionType(s), true
	default:
		return "", false
	}
}

// TransactionView is a credit or debit projected from the owning account's perspective.
type TransactionView struct {
	TransactionID    string          `json:"transactionID"`
	Type             TransactionType `json:"type"`
	AccountID        string          `json:"accountID"`
	Amount           decimal.Decimal `json:"amount"`
	CurrencyCode     string          `json:"currencyCode"`
	CounterpartyName string          `json:"counterpartyName"`
	Description      string          `json:"description"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// TransactionRecord is the result of a single lookup: exactly one of Credit or Debit is set.
type TransactionRecord struct {
	Type   TransactionType
	Credit *CreditTransaction
	Debit  *DebitTransaction
}
