package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/iswift/iswift_backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) DebitRecorded(ctx context.Context, debit domain.DebitTransaction) {
	m.Called(ctx, debit)
}

func (m *MockNotifier) CreditRecorded(ctx context.Context, credit domain.CreditTransaction) {
	m.Called(ctx, credit)
}

func TestTransfer_CrossCurrency(t *testing.T) {
	f := newLedgerFixture(t)
	alice, bob := f.user("Alice", "Ade"), f.user("Bob", "Bello")
	aliceUSD := f.account(alice, "USD", "1000.00", true)
	bobEUR := f.account(bob, "EUR", "10.00", true)

	debit, err := f.transfer.Execute(bg, alice, aliceUSD, []domain.TransferRecipient{to(bob, "100.00")}, "rent")
	require.NoError(t, err)

	assert.True(t, f.store.balance(aliceUSD).Equal(amount("900.00")))
	assert.True(t, f.store.balance(bobEUR).Equal(amount("102.00")))

	assert.True(t, debit.AmountSent.Equal(amount("100.00")))
	assert.Equal(t, "USD", debit.CurrencyCode)
	id, ok := debit.Recipient.SingleUserID()
	assert.True(t, ok)
	assert.Equal(t, bob, id)

	require.Len(t, debit.Credits, 1)
	credit := debit.Credits[0]
	assert.Equal(t, bobEUR, credit.AccountID)
	assert.True(t, credit.AmountSent.Equal(amount("100.00")))
	assert.True(t, credit.AmountReceived.Equal(amount("92.00")))
	assert.Equal(t, "USD", credit.CurrencySent)
	assert.Equal(t, "EUR", credit.CurrencyReceived)
	require.NotNil(t, credit.DebitID)
	assert.Equal(t, debit.DebitID, *credit.DebitID)

	debits, credits := f.store.ledgerRowCount()
	assert.Equal(t, 1, debits)
	assert.Equal(t, 1, credits)
}

func TestTransfer_BulkInsufficientFunds(t *testing.T) {
	f := newLedgerFixture(t)
	alice := f.user("Alice", "Ade")
	aliceUSD := f.account(alice, "USD", "1000.00", true)
	var recipients []domain.TransferRecipient
	var recipientAccounts []string
	for _, name := range []string{"Bob", "Chi", "Dayo"} {
		u := f.user(name, "X")
		recipientAccounts = append(recipientAccounts, f.account(u, "USD", "0.00", true))
		recipients = append(recipients, to(u, "400.00"))
	}

	_, err := f.transfer.Execute(bg, alice, aliceUSD, recipients, "")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	assert.True(t, f.store.balance(aliceUSD).Equal(amount("1000.00")))
	for _, acc := range recipientAccounts {
		assert.True(t, f.store.balance(acc).IsZero())
	}
	debits, credits := f.store.ledgerRowCount()
	assert.Zero(t, debits)
	assert.Zero(t, credits)
}

func TestTransfer_BulkIsAllOrNothing(t *testing.T) {
	f := newLedgerFixture(t)
	f.store.failCreditAt = 3
	alice := f.user("Alice", "Ade")
	aliceUSD := f.account(alice, "USD", "1000.00", true)
	var recipients []domain.TransferRecipient
	var recipientAccounts []string
	for _, cur := range []string{"USD", "EUR", "NGN"} {
		u := f.user("R"+cur, "X")
		recipientAccounts = append(recipientAccounts, f.account(u, cur, "5.00", true))
		recipients = append(recipients, to(u, "100.00"))
	}

	_, err := f.transfer.Execute(bg, alice, aliceUSD, recipients, "payroll")
	assert.ErrorIs(t, err, errInjected)

	assert.True(t, f.store.balance(aliceUSD).Equal(amount("1000.00")))
	for _, acc := range recipientAccounts {
		assert.True(t, f.store.balance(acc).Equal(amount("5.00")))
	}
	debits, credits := f.store.ledgerRowCount()
	assert.Zero(t, debits)
	assert.Zero(t, credits)
}

func TestTransfer_BulkSuccess(t *testing.T) {
	f := newLedgerFixture(t)
	alice := f.user("Alice", "Ade")
	aliceUSD := f.account(alice, "USD", "1000.00", true)
	bob, chi := f.user("Bob", "B"), f.user("Chi", "C")
	bobNGN := f.account(bob, "NGN", "0.00", true)
	chiUSD := f.account(chi, "USD", "0.00", true)

	debit, err := f.transfer.Execute(bg, alice, aliceUSD, []domain.TransferRecipient{to(bob, "10.00"), to(chi, "25.50")}, "split")
	require.NoError(t, err)

	assert.Equal(t, domain.DebitKindBulk, debit.Recipient.Kind)
	assert.True(t, debit.AmountSent.Equal(amount("35.50")))
	assert.True(t, f.store.balance(aliceUSD).Equal(amount("964.50")))
	assert.True(t, f.store.balance(bobNGN).Equal(amount("15000.00")))
	assert.True(t, f.store.balance(chiUSD).Equal(amount("25.50")))
	assert.Len(t, debit.Credits, 2)
}

func TestTransfer_SelfTransferToSameAccount(t *testing.T) {
	f := newLedgerFixture(t)
	alice := f.user("Alice", "Ade")
	aliceUSD := f.account(alice, "USD", "100.00", true)

	_, err := f.transfer.Execute(bg, alice, aliceUSD, []domain.TransferRecipient{to(alice, "10.00")}, "")
	assert.ErrorIs(t, err, apperrors.ErrSameAccountOperation)
	assert.True(t, f.store.balance(aliceUSD).Equal(amount("100.00")))
}

func TestTransfer_SelfTransferBetweenOwnAccounts(t *testing.T) {
	f := newLedgerFixture(t)
	alice := f.user("Alice", "Ade")
	aliceUSD := f.account(alice, "USD", "100.00", true)
	aliceEUR := f.account(alice, "EUR", "100.00", false)

	_, err := f.transfer.Execute(bg, alice, aliceEUR, []domain.TransferRecipient{to(alice, "46.00")}, "")
	require.NoError(t, err)
	assert.True(t, f.store.balance(aliceEUR).Equal(amount("54.00")))
	assert.True(t, f.store.balance(aliceUSD).Equal(amount("150.00")))
}

func TestTransfer_Validation(t *testing.T) {
	f := newLedgerFixture(t)
	alice, bob := f.user("Alice", "Ade"), f.user("Bob", "Bello")
	mallory := f.user("Mallory", "M")
	aliceUSD := f.account(alice, "USD", "1000.00", true)
	f.account(bob, "USD", "0.00", true)
	noDefault := f.user("Nodef", "N")
	f.account(noDefault, "USD", "0.00", false)
	longDescription := string(make([]byte, services.MaxDescriptionLength+1))

	tests := []struct {
		name       string
		caller     string
		recipients []domain.TransferRecipient
		desc       string
		want       error
	}{
		{"no recipients", alice, nil, "", apperrors.ErrValidation},
		{"amount below minimum", alice, []domain.TransferRecipient{to(bob, "0.99")}, "", apperrors.ErrInvalidAmount},
		{"amount above maximum", alice, []domain.TransferRecipient{to(bob, "10000000.01")}, "", apperrors.ErrInvalidAmount},
		{"three decimal places", alice, []domain.TransferRecipient{to(bob, "1.005")}, "", apperrors.ErrInvalidAmount},
		{"description too long", alice, []domain.TransferRecipient{to(bob, "1.00")}, longDescription, apperrors.ErrValidation},
		{"duplicate recipient", alice, []domain.TransferRecipient{to(bob, "1.00"), to(bob, "2.00")}, "", apperrors.ErrDuplicateRecipient},
		{"foreign sender account", mallory, []domain.TransferRecipient{to(bob, "1.00")}, "", apperrors.ErrNotFound},
		{"unknown recipient", alice, []domain.TransferRecipient{to("8d5e2f53-0c2d-4b55-9d5c-6f0b4f3f9a11", "1.00")}, "", apperrors.ErrRecipientNotFound},
		{"recipient without default", alice, []domain.TransferRecipient{to(noDefault, "1.00")}, "", apperrors.ErrRecipientNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.transfer.Execute(bg, tt.caller, aliceUSD, tt.recipients, tt.desc)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.True(t, f.store.balance(aliceUSD).Equal(amount("1000.00")))
}

func TestTransfer_MissingRateFailsHard(t *testing.T) {
	f := newLedgerFixture(t)
	alice, bob := f.user("Alice", "Ade"), f.user("Bob", "Bello")
	aliceEUR := f.account(alice, "EUR", "100.00", true)
	f.account(bob, "NGN", "0.00", true) // no EUR/NGN row

	_, err := f.transfer.Execute(bg, alice, aliceEUR, []domain.TransferRecipient{to(bob, "10.00")}, "")
	assert.ErrorIs(t, err, apperrors.ErrRateNotFound)
	assert.True(t, f.store.balance(aliceEUR).Equal(amount("100.00")))
}

func TestTransfer_ConcurrentTransfersConserveBalance(t *testing.T) {
	f := newLedgerFixture(t)
	alice, bob := f.user("Alice", "Ade"), f.user("Bob", "Bello")
	aliceUSD := f.account(alice, "USD", "1000.00", true)
	bobUSD := f.account(bob, "USD", "0.00", true)

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.transfer.Execute(bg, alice, aliceUSD, []domain.TransferRecipient{to(bob, "12.50")}, "")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	assert.True(t, f.store.balance(aliceUSD).Equal(amount("500.00")))
	assert.True(t, f.store.balance(bobUSD).Equal(amount("500.00")))
	debits, credits := f.store.ledgerRowCount()
	assert.Equal(t, n, debits)
	assert.Equal(t, n, credits)
}

func TestTransfer_ConcurrentOverdraftNeverGoesNegative(t *testing.T) {
	f := newLedgerFixture(t)
	alice, bob := f.user("Alice", "Ade"), f.user("Bob", "Bello")
	aliceUSD := f.account(alice, "USD", "100.00", true)
	bobUSD := f.account(bob, "USD", "0.00", true)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.transfer.Execute(bg, alice, aliceUSD, []domain.TransferRecipient{to(bob, "30.00")}, "")
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.True(t, f.store.balance(aliceUSD).Equal(amount("10.00")))
	assert.True(t, f.store.balance(bobUSD).Equal(amount("90.00")))
}

func TestTransfer_NotifiesAfterCommit(t *testing.T) {
	notifier := new(MockNotifier)
	done := make(chan struct{})
	notifier.On("DebitRecorded", mock.Anything, mock.AnythingOfType("domain.DebitTransaction")).Return()
	notifier.On("CreditRecorded", mock.Anything, mock.AnythingOfType("domain.CreditTransaction")).
		Run(func(mock.Arguments) { close(done) }).Return()

	f := newLedgerFixture(t, services.WithNotifier(notifier))
	alice, bob := f.user("Alice", "Ade"), f.user("Bob", "Bello")
	aliceUSD := f.account(alice, "USD", "50.00", true)
	f.account(bob, "USD", "0.00", true)

	_, err := f.transfer.Execute(bg, alice, aliceUSD, []domain.TransferRecipient{to(bob, "5.00")}, "")
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
	}
	notifier.AssertNumberOfCalls(t, "DebitRecorded", 1)
}
