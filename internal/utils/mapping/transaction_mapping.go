package mapping

import (
	"database/sql"

	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/iswift/iswift_backend/internal/models"
)

// ToModelDebit converts a domain DebitTransaction to a model DebitTransaction.
// The recipient column is only populated for single-recipient debits.
func ToModelDebit(d domain.DebitTransaction) models.DebitTransaction {
	m := models.DebitTransaction{
		DebitID:      d.DebitID,
		AccountID:    d.AccountID,
		CurrencyCode: d.CurrencyCode,
		Description:  d.Description,
		AmountSent:   d.AmountSent,
		Kind:         string(d.Recipient.Kind),
		CreatedAt:    d.CreatedAt,
		CreatedBy:    d.CreatedBy,
	}
	if userID, ok := d.Recipient.SingleUserID(); ok {
		m.RecipientUserID = sql.NullString{String: userID, Valid: true}
	}
	return m
}

// ToDomainDebit converts a model DebitTransaction to a domain DebitTransaction
func ToDomainDebit(m models.DebitTransaction) domain.DebitTransaction {
	recipient := domain.BulkRecipients()
	if domain.DebitKind(m.Kind) == domain.DebitKindSingle {
		recipient = domain.SingleRecipient(m.RecipientUserID.String)
	}
	return domain.DebitTransaction{
		DebitID:      m.DebitID,
		AccountID:    m.AccountID,
		CurrencyCode: m.CurrencyCode,
		Description:  m.Description,
		AmountSent:   m.AmountSent,
		Recipient:    recipient,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
}

// ToModelCredit converts a domain CreditTransaction to a model CreditTransaction
func ToModelCredit(d domain.CreditTransaction) models.CreditTransaction {
	m := models.CreditTransaction{
		CreditID:         d.CreditID,
		AccountID:        d.AccountID,
		Description:      d.Description,
		SenderUserID:     d.SenderUserID,
		AmountSent:       d.AmountSent,
		CurrencySent:     d.CurrencySent,
		AmountReceived:   d.AmountReceived,
		CurrencyReceived: d.CurrencyReceived,
		CreatedAt:        d.CreatedAt,
	}
	if d.DebitID != nil {
		m.DebitID = sql.NullString{String: *d.DebitID, Valid: true}
	}
	return m
}

// ToDomainCredit converts a model CreditTransaction to a domain CreditTransaction
func ToDomainCredit(m models.CreditTransaction) domain.CreditTransaction {
	d := domain.CreditTransaction{
		CreditID:         m.CreditID,
		AccountID:        m.AccountID,
		Description:      m.Description,
		SenderUserID:     m.SenderUserID,
		AmountSent:       m.AmountSent,
		CurrencySent:     m.CurrencySent,
		AmountReceived:   m.AmountReceived,
		CurrencyReceived: m.CurrencyReceived,
		CreatedAt:        m.CreatedAt,
	}
	if m.DebitID.Valid {
		debitID := m.DebitID.String
		d.DebitID = &debitID
	}
	return d
}
