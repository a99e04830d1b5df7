package dto

import (
	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyID string `json:"uid"`
	Name       string `json:"name"`
	ISOCode    string `json:"isoCode"`
}

// ListCurrenciesParams defines query parameters for listing currencies.
type ListCurrenciesParams struct {
	IncludeInactive bool `form:"includeInactive"`
}

// RateResponse is a resolved conversion rate, optionally applied to an amount.
type RateResponse struct {
	Base            string           `json:"base"`
	Target          string           `json:"target"`
	Rate            decimal.Decimal  `json:"rate"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	ConvertedAmount *decimal.Decimal `json:"convertedAmount,omitempty"`
}

func ToCurrencyResponse(c domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyID: c.CurrencyID,
		Name:       c.Name,
		ISOCode:    c.ISOCode,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, c := range currencies {
		res[i] = ToCurrencyResponse(c)
	}
	return res
}
