package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/core/domain"
	portsrepo "github.com/iswift/iswift_backend/internal/core/ports/repositories"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/dto"
	"github.com/iswift/iswift_backend/internal/platform/metrics"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// MaxDescriptionLength bounds transfer descriptions, in characters.
const MaxDescriptionLength = 450

type transferService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryWithTx
	userRepo    portsrepo.UserReader
	ledgerRepo  portsrepo.LedgerEntryWriter
	ledger      portssvc.LedgerSvc
	notifier    portssvc.Notifier
	metrics     *metrics.Metrics
	now         Clock
}

// TransferOption configures the transfer service
type TransferOption func(*transferService)

// WithNotifier sets the hook fired after a transfer commits
func WithNotifier(n portssvc.Notifier) TransferOption {
	return func(s *transferService) {
		s.notifier = n
	}
}

// WithTransferMetrics records transfer outcomes and latency
func WithTransferMetrics(m *metrics.Metrics) TransferOption {
	return func(s *transferService) {
		s.metrics = m
	}
}

// WithTransferClock overrides time.Now
func WithTransferClock(now Clock) TransferOption {
	return func(s *transferService) {
		s.now = now
	}
}

// NewTransferService creates the transfer orchestrator.
func NewTransferService(
	accountRepo portsrepo.AccountRepositoryWithTx,
	userRepo portsrepo.UserReader,
	ledgerRepo portsrepo.LedgerEntryWriter,
	ledger portssvc.LedgerSvc,
	options ...TransferOption,
) portssvc.TransferSvc {
	svc := &transferService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		ledgerRepo:  ledgerRepo,
		ledger:      ledger,
		now:         systemClock,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransferSvc = (*transferService)(nil)

// Execute moves funds from one of the caller's accounts to the default account
// of every recipient. One debit and one credit per recipient are written in a
// single database transaction; nothing is written if any step fails.
func (s *transferService) Execute(ctx context.Context, callerID string, senderAccountID string, recipients []domain.TransferRecipient, description string) (*domain.DebitTransaction, error) {
	start := time.Now()
	ctx, span := otel.Tracer("transfer").Start(ctx, "transfer.execute")
	defer span.End()
	span.SetAttributes(
		attribute.String("sender_account_id", senderAccountID),
		attribute.Int("recipients", len(recipients)),
	)

	kind := string(domain.DebitKindBulk)
	if len(recipients) == 1 {
		kind = string(domain.DebitKindSingle)
	}

	debit, err := s.execute(ctx, callerID, senderAccountID, recipients, description)
	s.metrics.ObserveTransfer(transferOutcome(err), kind, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.LogInfo(ctx, "Transfer completed",
		slog.String("debit_id", debit.DebitID),
		slog.String("amount", debit.AmountSent.StringFixed(domain.AmountPrecision)),
		slog.String("currency_code", debit.CurrencyCode),
		slog.Int("recipients", len(debit.Credits)))
	s.notify(ctx, *debit)
	return debit, nil
}

func (s *transferService) execute(ctx context.Context, callerID string, senderAccountID string, recipients []domain.TransferRecipient, description string) (*domain.DebitTransaction, error) {
	recipientIDs, total, err := validateTransferInput(recipients, description)
	if err != nil {
		return nil, err
	}

	sender, err := s.accountRepo.FindAccountByID(ctx, senderAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, senderAccountID)
		}
		return nil, fmt.Errorf("failed to load sender account: %w", err)
	}
	if sender.UserID != callerID {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, senderAccountID)
	}

	users, err := s.userRepo.FindUsersByIDs(ctx, recipientIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipients: %w", err)
	}
	expectedDefaults := make(map[string]string, len(recipientIDs))
	for _, id := range recipientIDs {
		if _, ok := users[id]; !ok {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrRecipientNotFound, id)
		}
		def, err := s.accountRepo.FindDefaultAccountByUser(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s has no default account", apperrors.ErrRecipientNotFound, id)
			}
			return nil, fmt.Errorf("failed to load recipient default account: %w", err)
		}
		if def.AccountID == sender.AccountID {
			return nil, apperrors.ErrSameAccountOperation
		}
		expectedDefaults[id] = def.AccountID
	}
	if !sender.CanDebit(total) {
		return nil, fmt.Errorf("%w: balance %s, required %s", apperrors.ErrInsufficientFunds,
			sender.Balance.StringFixed(domain.AmountPrecision), total.StringFixed(domain.AmountPrecision))
	}

	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer s.rollbackUnlessCommitted(ctx, s.accountRepo, tx, &committed)

	locked, err := s.accountRepo.FindTransferAccountsForUpdate(ctx, tx, senderAccountID, recipientIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock transfer accounts: %w", err)
	}

	// Re-check everything against the locked rows.
	var lockedSender *domain.Account
	defaults := make(map[string]*domain.Account, len(recipientIDs))
	for i := range locked {
		acc := &locked[i]
		if acc.AccountID == senderAccountID {
			lockedSender = acc
		}
		if acc.IsDefault {
			defaults[acc.UserID] = acc
		}
	}
	if lockedSender == nil || lockedSender.UserID != callerID {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, senderAccountID)
	}
	for _, id := range recipientIDs {
		def, ok := defaults[id]
		if !ok || def.AccountID != expectedDefaults[id] {
			return nil, fmt.Errorf("%w: default account of recipient %s changed", apperrors.ErrConflict, id)
		}
	}
	if !lockedSender.CanDebit(total) {
		return nil, fmt.Errorf("%w: balance %s, required %s", apperrors.ErrInsufficientFunds,
			lockedSender.Balance.StringFixed(domain.AmountPrecision), total.StringFixed(domain.AmountPrecision))
	}

	debit := domain.DebitTransaction{
		DebitID:      uuid.NewString(),
		AccountID:    lockedSender.AccountID,
		CurrencyCode: lockedSender.CurrencyCode,
		Description:  description,
		AmountSent:   total,
		Recipient:    domain.RecipientFor(recipientIDs),
		CreatedAt:    s.now(),
		CreatedBy:    callerID,
	}
	if err := s.ledgerRepo.SaveDebitInTx(ctx, tx, debit); err != nil {
		return nil, err
	}

	for _, r := range recipients {
		credit, err := s.ledger.Credit(ctx, tx, defaults[r.UserID], debit, r.Amount)
		if err != nil {
			s.LogError(ctx, err, "Credit leg failed", slog.String("recipient_user_id", r.UserID))
			return nil, err
		}
		debit.Credits = append(debit.Credits, *credit)
	}

	if err := s.ledger.Debit(ctx, tx, lockedSender, total, callerID); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	committed = true
	return &debit, nil
}

// validateTransferInput checks the request shape and returns the recipient IDs
// in request order and the total to debit.
func validateTransferInput(recipients []domain.TransferRecipient, description string) ([]string, decimal.Decimal, error) {
	if len(recipients) == 0 {
		return nil, decimal.Zero, fmt.Errorf("%w: at least one recipient is required", apperrors.ErrValidation)
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return nil, decimal.Zero, fmt.Errorf("%w: description exceeds %d characters", apperrors.ErrValidation, MaxDescriptionLength)
	}

	seen := make(map[string]struct{}, len(recipients))
	ids := make([]string, 0, len(recipients))
	total := decimal.Zero
	for _, r := range recipients {
		if _, err := uuid.Parse(r.UserID); err != nil {
			return nil, decimal.Zero, fmt.Errorf("%w: recipient %q is not a valid id", apperrors.ErrValidation, r.UserID)
		}
		if !dto.ValidAmount(r.Amount) {
			return nil, decimal.Zero, fmt.Errorf("%w: %s must be between %s and %s with at most 2 decimal places",
				apperrors.ErrInvalidAmount, r.Amount.String(),
				dto.MinTransferAmount.StringFixed(2), dto.MaxTransferAmount.StringFixed(2))
		}
		if _, dup := seen[r.UserID]; dup {
			return nil, decimal.Zero, apperrors.ErrDuplicateRecipient
		}
		seen[r.UserID] = struct{}{}
		ids = append(ids, r.UserID)
		total = total.Add(r.Amount)
	}
	return ids, total, nil
}

// notify runs the hook detached from the request so a slow notifier never
// delays the response or sees a cancelled context.
func (s *transferService) notify(ctx context.Context, debit domain.DebitTransaction) {
	if s.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.GetLogger(ctx).Error("Notifier panicked", slog.Any("panic", r))
			}
		}()
		s.notifier.DebitRecorded(ctx, debit)
		for _, credit := range debit.Credits {
			s.notifier.CreditRecorded(ctx, credit)
		}
	}()
}

func transferOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, apperrors.ErrConflict):
		return "conflict"
	case errors.Is(err, apperrors.ErrRateNotFound):
		return "rate_not_found"
	case apperrors.HTTPStatus(err) < 500:
		return "rejected"
	default:
		return "error"
	}
}
