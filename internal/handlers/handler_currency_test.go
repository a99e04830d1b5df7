package handlers_test

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/iswift/iswift_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestListCurrencies_IsPublic() {
	currencies := []domain.Currency{
		{CurrencyID: uuid.NewString(), ISOCode: "EUR", Name: "Euro", IsActive: true},
		{CurrencyID: uuid.NewString(), ISOCode: "USD", Name: "US Dollar", IsActive: true},
	}
	suite.mockCurrencyService.On("ListCurrencies", mock.Anything, true).Return(currencies, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/finance/currencies", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res []dto.CurrencyResponse
	suite.decode(w, &res)
	suite.Len(res, 2)
	suite.Equal("EUR", res[0].ISOCode)
}

func (suite *HandlerTestSuite) TestListCurrencies_IncludeInactive() {
	suite.mockCurrencyService.On("ListCurrencies", mock.Anything, false).Return([]domain.Currency{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/finance/currencies?includeInactive=true", "", nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestGetRate_WithAmount() {
	userID := uuid.NewString()
	rate := decimal.RequireFromString("0.92")
	suite.mockCurrencyService.On("ResolveRate", mock.Anything, "USD", "EUR").Return(rate, nil, nil).Once()
	suite.mockCurrencyService.On("Convert", mock.Anything, "USD", "EUR",
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(100)) }),
	).Return(decimal.RequireFromString("92.00"), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/finance/rates/usd/eur?amount=100", userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.RateResponse
	suite.decode(w, &res)
	suite.Equal("USD", res.Base)
	suite.True(res.Rate.Equal(rate))
	suite.Require().NotNil(res.ConvertedAmount)
	suite.True(res.ConvertedAmount.Equal(decimal.RequireFromString("92.00")))
}

func (suite *HandlerTestSuite) TestGetRate_InvalidAmount() {
	userID := uuid.NewString()
	suite.mockCurrencyService.On("ResolveRate", mock.Anything, "USD", "EUR").Return(decimal.RequireFromString("0.92"), nil, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/finance/rates/USD/EUR?amount=ten", userID, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetRate_Missing() {
	userID := uuid.NewString()
	suite.mockCurrencyService.On("ResolveRate", mock.Anything, "USD", "XOF").Return(decimal.Zero, nil, apperrors.ErrRateNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/finance/rates/USD/XOF", userID, nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
}
