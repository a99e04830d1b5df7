package dto

import (
	"time"

	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecipientRequest is one leg of a transfer.
type RecipientRequest struct {
	Recipient string          `json:"recipient" binding:"required,uuid"`
	Amount    decimal.Decimal `json:"amount" binding:"required,money"`
}

// TransferRequest moves funds from one of the caller's accounts to one or more users.
type TransferRequest struct {
	AccountID   string             `json:"iswiftAccount" binding:"required,uuid"`
	Recipients  []RecipientRequest `json:"recipients" binding:"required,min=1,dive"`
	Description string             `json:"description" binding:"max=450"`
}

// ToTransferRecipients converts request legs to domain recipients.
func (r TransferRequest) ToTransferRecipients() []domain.TransferRecipient {
	out := make([]domain.TransferRecipient, len(r.Recipients))
	for i, rec := range r.Recipients {
		out[i] = domain.TransferRecipient{UserID: rec.Recipient, Amount: rec.Amount}
	}
	return out
}

// CreditTransactionResponse defines the data returned for a credit.
type CreditTransactionResponse struct {
	CreditID         string          `json:"uid"`
	Object           string          `json:"object"`
	AccountID        string          `json:"iswiftAccount"`
	DebitID          *string         `json:"debitTransaction,omitempty"`
	Description      string          `json:"description"`
	SenderUserID     string          `json:"sender"`
	AmountSent       decimal.Decimal `json:"amountSent"`
	CurrencySent     string          `json:"currencySent"`
	AmountReceived   decimal.Decimal `json:"amountReceived"`
	CurrencyReceived string          `json:"currencyReceived"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// DebitTransactionResponse defines the data returned for a debit and its fan-out.
type DebitTransactionResponse struct {
	DebitID     string                      `json:"uid"`
	Object      string                      `json:"object"`
	AccountID   string                      `json:"iswiftAccount"`
	Description string                      `json:"description"`
	Currency    string                      `json:"currency"`
	AmountSent  decimal.Decimal             `json:"amountSent"`
	Kind        string                      `json:"kind"`
	Recipient   *string                     `json:"recipient,omitempty"` // Set only for single-recipient debits
	Recipients  []CreditTransactionResponse `json:"recipients"`
	CreatedAt   time.Time                   `json:"createdAt"`
}

func ToCreditTransactionResponse(c domain.CreditTransaction) CreditTransactionResponse {
	return CreditTransactionResponse{
		CreditID:         c.CreditID,
		Object:           string(domain.TransactionTypeCredit),
		AccountID:        c.AccountID,
		DebitID:          c.DebitID,
		Description:      c.Description,
		SenderUserID:     c.SenderUserID,
		AmountSent:       c.AmountSent,
		CurrencySent:     c.CurrencySent,
		AmountReceived:   c.AmountReceived,
		CurrencyReceived: c.CurrencyReceived,
		CreatedAt:        c.CreatedAt,
	}
}

func ToDebitTransactionResponse(d domain.DebitTransaction) DebitTransactionResponse {
	credits := make([]CreditTransactionResponse, len(d.Credits))
	for i, c := range d.Credits {
		credits[i] = ToCreditTransactionResponse(c)
	}
	res := DebitTransactionResponse{
		DebitID:     d.DebitID,
		Object:      string(domain.TransactionTypeDebit),
		AccountID:   d.AccountID,
		Description: d.Description,
		Currency:    d.CurrencyCode,
		AmountSent:  d.AmountSent,
		Kind:        string(d.Recipient.Kind),
		Recipients:  credits,
		CreatedAt:   d.CreatedAt,
	}
	if userID, ok := d.Recipient.SingleUserID(); ok {
		res.Recipient = &userID
	}
	return res
}

// ToTransactionRecordResponse returns the credit or debit DTO held by the record.
func ToTransactionRecordResponse(rec *domain.TransactionRecord) any {
	if rec.Debit != nil {
		return ToDebitTransactionResponse(*rec.Debit)
	}
	return ToCreditTransactionResponse(*rec.Credit)
}
