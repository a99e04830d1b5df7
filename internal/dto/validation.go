package dto

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Transfer amount limits.
var (
	MinTransferAmount = decimal.RequireFromString("1.00")
	MaxTransferAmount = decimal.RequireFromString("10000000.00")
)

var isoCodePattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// RegisterValidators adds the custom binding tags used by the request DTOs:
//
//	money   - decimal within [MinTransferAmount, MaxTransferAmount] with at most 2 places
//	isocode - three-letter currency code, any case
func RegisterValidators(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	if err := v.RegisterValidation("money", validateMoney); err != nil {
		return fmt.Errorf("register money validator: %w", err)
	}
	if err := v.RegisterValidation("isocode", validateISOCode); err != nil {
		return fmt.Errorf("register isocode validator: %w", err)
	}
	return nil
}

// decimalValue exposes decimal.Decimal fields to tag validation as strings.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// ValidAmount reports whether amount is within the transfer limits and has at
// most domain.AmountPrecision decimal places.
func ValidAmount(amount decimal.Decimal) bool {
	if amount.LessThan(MinTransferAmount) || amount.GreaterThan(MaxTransferAmount) {
		return false
	}
	return amount.Equal(amount.Truncate(domain.AmountPrecision))
}

func validateMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return ValidAmount(d)
}

func validateISOCode(fl validator.FieldLevel) bool {
	return isoCodePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

// ValidationErrorMessages flattens binding errors into field -> message pairs.
func ValidationErrorMessages(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": "invalid request payload"}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "money":
		return fmt.Sprintf("must be between %s and %s with at most 2 decimal places",
			MinTransferAmount.StringFixed(2), MaxTransferAmount.StringFixed(2))
	case "isocode":
		return "must be a three-letter currency code"
	case "max", "min", "len":
		return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
