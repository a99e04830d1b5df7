package services

import (
	"context"
	"log/slog"

	"github.com/iswift/iswift_backend/internal/core/domain"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/utils"
)

// logNotifier records ledger writes in the structured log.
type logNotifier struct {
	BaseService
}

// NewLogNotifier returns a Notifier that logs each record.
func NewLogNotifier() portssvc.Notifier {
	return &logNotifier{}
}

func (n *logNotifier) DebitRecorded(ctx context.Context, debit domain.DebitTransaction) {
	n.LogInfo(ctx, "Debit recorded",
		slog.String("debit_id", debit.DebitID),
		slog.String("account_id", debit.AccountID),
		slog.String("kind", string(debit.Recipient.Kind)),
		slog.String("amount", debit.AmountSent.StringFixed(domain.AmountPrecision)),
		slog.String("currency_code", debit.CurrencyCode))
}

func (n *logNotifier) CreditRecorded(ctx context.Context, credit domain.CreditTransaction) {
	n.LogInfo(ctx, "Credit recorded",
		slog.String("credit_id", credit.CreditID),
		slog.String("account_id", credit.AccountID),
		slog.String("amount", credit.AmountReceived.StringFixed(domain.AmountPrecision)),
		slog.String("currency_code", credit.CurrencyReceived))
}

// posthogNotifier sends ledger events to PostHog, keyed by the sending user.
type posthogNotifier struct {
	client *utils.PosthogClientWrapper
}

// NewPosthogNotifier returns a Notifier backed by client; events are dropped
// when client is not initialized.
func NewPosthogNotifier(client *utils.PosthogClientWrapper) portssvc.Notifier {
	return &posthogNotifier{client: client}
}

func (n *posthogNotifier) DebitRecorded(_ context.Context, debit domain.DebitTransaction) {
	if !n.client.IsInitialized() {
		return
	}
	n.client.Enqueue(debit.CreatedBy, "ledger_debit_recorded", map[string]any{
		"debit_id":   debit.DebitID,
		"account_id": debit.AccountID,
		"kind":       string(debit.Recipient.Kind),
		"amount":     debit.AmountSent.StringFixed(domain.AmountPrecision),
		"currency":   debit.CurrencyCode,
		"recipients": len(debit.Credits),
	})
}

func (n *posthogNotifier) CreditRecorded(_ context.Context, credit domain.CreditTransaction) {
	if !n.client.IsInitialized() {
		return
	}
	n.client.Enqueue(credit.SenderUserID, "ledger_credit_recorded", map[string]any{
		"credit_id":         credit.CreditID,
		"account_id":        credit.AccountID,
		"amount_sent":       credit.AmountSent.StringFixed(domain.AmountPrecision),
		"currency_sent":     credit.CurrencySent,
		"amount_received":   credit.AmountReceived.StringFixed(domain.AmountPrecision),
		"currency_received": credit.CurrencyReceived,
	})
}

// MultiNotifier fans every event out to each notifier in order.
type MultiNotifier []portssvc.Notifier

func (m MultiNotifier) DebitRecorded(ctx context.Context, debit domain.DebitTransaction) {
	for _, n := range m {
		n.DebitRecorded(ctx, debit)
	}
}

func (m MultiNotifier) CreditRecorded(ctx context.Context, credit domain.CreditTransaction) {
	for _, n := range m {
		n.CreditRecorded(ctx, credit)
	}
}
