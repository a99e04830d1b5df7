package handlers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/iswift/iswift_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func transferBody(accountID string, legs ...map[string]any) map[string]any {
	return map[string]any{
		"iswiftAccount": accountID,
		"recipients":    legs,
		"description":   "rent",
	}
}

func leg(userID, amount string) map[string]any {
	return map[string]any{"recipient": userID, "amount": amount}
}

func (suite *HandlerTestSuite) TestTransfer_SingleRecipientCreated() {
	callerID := uuid.NewString()
	accountID := uuid.NewString()
	recipientID := uuid.NewString()
	debitID := uuid.NewString()

	debit := &domain.DebitTransaction{
		DebitID:      debitID,
		AccountID:    accountID,
		CurrencyCode: "USD",
		Description:  "rent",
		AmountSent:   decimal.RequireFromString("100.00"),
		Recipient:    domain.SingleRecipient(recipientID),
		CreatedAt:    time.Now().UTC(),
		Credits: []domain.CreditTransaction{{
			CreditID:         uuid.NewString(),
			DebitID:          &debitID,
			SenderUserID:     callerID,
			AmountSent:       decimal.RequireFromString("100.00"),
			CurrencySent:     "USD",
			AmountReceived:   decimal.RequireFromString("92.00"),
			CurrencyReceived: "EUR",
		}},
	}
	suite.mockTransferService.On("Execute", mock.Anything, callerID, accountID,
		mock.MatchedBy(func(recipients []domain.TransferRecipient) bool {
			return len(recipients) == 1 &&
				recipients[0].UserID == recipientID &&
				recipients[0].Amount.Equal(decimal.RequireFromString("100.00"))
		}),
		"rent",
	).Return(debit, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/finance/transfer", callerID, transferBody(accountID, leg(recipientID, "100.00")))

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.DebitTransactionResponse
	suite.decode(w, &res)
	suite.Equal("single", res.Kind)
	suite.Require().NotNil(res.Recipient)
	suite.Equal(recipientID, *res.Recipient)
	suite.Require().Len(res.Recipients, 1)
	suite.True(res.Recipients[0].AmountReceived.Equal(decimal.RequireFromString("92.00")))
}

func (suite *HandlerTestSuite) TestTransfer_RejectsBadAmountsBeforeTheService() {
	callerID := uuid.NewString()
	accountID := uuid.NewString()

	for _, amount := range []string{"0.99", "10000000.01", "1.001"} {
		w := suite.do(http.MethodPost, "/api/v1/finance/transfer", callerID, transferBody(accountID, leg(uuid.NewString(), amount)))
		suite.Equal(http.StatusBadRequest, w.Code, amount)
	}
	w := suite.do(http.MethodPost, "/api/v1/finance/transfer", callerID, transferBody(accountID))
	suite.Equal(http.StatusBadRequest, w.Code, "no recipients")

	suite.mockTransferService.AssertNotCalled(suite.T(), "Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestTransfer_ErrorStatuses() {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"insufficient funds", fmt.Errorf("%w: balance 5.00", apperrors.ErrInsufficientFunds), http.StatusBadRequest, ""},
		{"same account", apperrors.ErrSameAccountOperation, http.StatusForbidden, ""},
		{"sender not found", apperrors.ErrNotFound, http.StatusNotFound, ""},
		{"concurrent update", apperrors.ErrConflict, http.StatusConflict, ""},
		{"duplicate recipient", apperrors.ErrDuplicateRecipient, http.StatusBadRequest, ""},
		{"missing rate hides details", fmt.Errorf("%w: USD to XOF", apperrors.ErrRateNotFound), http.StatusInternalServerError, "Failed to complete transfer"},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			callerID := uuid.NewString()
			accountID := uuid.NewString()
			suite.mockTransferService.On("Execute", mock.Anything, callerID, accountID, mock.Anything, mock.Anything).
				Return(nil, tt.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/finance/transfer", callerID, transferBody(accountID, leg(uuid.NewString(), "10.00")))

			suite.Equal(tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				var res map[string]string
				suite.decode(w, &res)
				suite.Equal(tt.wantBody, res["error"])
			}
		})
	}
}

func (suite *HandlerTestSuite) TestGetTransaction_Credit() {
	userID := uuid.NewString()
	creditID := uuid.NewString()
	record := &domain.TransactionRecord{
		Type: domain.TransactionTypeCredit,
		Credit: &domain.CreditTransaction{
			CreditID:         creditID,
			AmountReceived:   decimal.RequireFromString("1500.00"),
			CurrencyReceived: "NGN",
		},
	}
	suite.mockHistoryService.On("GetTransaction", mock.Anything, userID, "credit-transaction", creditID).Return(record, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/finance/transactions/credit-transaction/"+creditID, userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.CreditTransactionResponse
	suite.decode(w, &res)
	suite.Equal(creditID, res.CreditID)
	suite.Equal("credit-transaction", res.Object)
}

func (suite *HandlerTestSuite) TestGetTransaction_UnknownType() {
	userID := uuid.NewString()

	w := suite.do(http.MethodGet, "/api/v1/finance/transactions/refund/"+uuid.NewString(), userID, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockHistoryService.AssertNotCalled(suite.T(), "GetTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestGetTransaction_MalformedIDIsNotFound() {
	userID := uuid.NewString()

	w := suite.do(http.MethodGet, "/api/v1/finance/transactions/debit-transaction/xyz", userID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockHistoryService.AssertNotCalled(suite.T(), "GetTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
