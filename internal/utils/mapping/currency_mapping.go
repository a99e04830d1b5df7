package mapping

import (
	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/iswift/iswift_backend/internal/models"
)

// ToDomainCurrency converts a model Currency to a domain Currency
func ToDomainCurrency(m models.Currency) domain.Currency {
	return domain.Currency{
		CurrencyID:  m.CurrencyID,
		ISOCode:     m.ISOCode,
		Name:        m.Name,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelConversionRate converts a domain ConversionRate to a model ConversionRate
func ToModelConversionRate(d domain.ConversionRate) models.ConversionRate {
	return models.ConversionRate{
		RateID:             d.RateID,
		BaseCurrencyCode:   d.BaseCurrencyCode,
		TargetCurrencyCode: d.TargetCurrencyCode,
		ConversionRate:     d.ConversionRate,
		ReverseRate:        d.ReverseRate,
		LastUpdatedAt:      d.LastUpdatedAt,
	}
}

// ToDomainConversionRate converts a model ConversionRate to a domain ConversionRate
func ToDomainConversionRate(m models.ConversionRate) domain.ConversionRate {
	return domain.ConversionRate{
		RateID:             m.RateID,
		BaseCurrencyCode:   m.BaseCurrencyCode,
		TargetCurrencyCode: m.TargetCurrencyCode,
		ConversionRate:     m.ConversionRate,
		ReverseRate:        m.ReverseRate,
		LastUpdatedAt:      m.LastUpdatedAt,
	}
}
