package apperrors

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a concurrent modification; the caller may retry.
var ErrConflict = errors.New("conflicting concurrent update")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected server-side failure.
var ErrInternal = errors.New("internal error")

// Ledger errors.
var (
	ErrInsufficientFunds        = errors.New("insufficient funds in selected account for transaction")
	ErrSameAccountOperation     = errors.New("cannot perform operation on the same account")
	ErrDuplicateRecipient       = errors.New("cannot include the same user more than once")
	ErrRecipientNotFound        = errors.New("recipient not found")
	ErrDuplicateCurrencyAccount = errors.New("user already has an account in this currency")
	ErrNoOtherDefault           = errors.New("no other account can become the default")
	ErrRateNotFound             = errors.New("conversion rate not found")
	ErrInvalidAmount            = errors.New("invalid amount")
)

// OTP errors.
var (
	ErrInvalidOTP      = errors.New("expired or incorrect OTP")
	ErrOTPMaxTries     = errors.New("max OTP try reached")
	ErrInactiveUser    = errors.New("user account is not active")
	ErrAlreadyActive   = errors.New("user account is already active")
	ErrPasswordsDiffer = errors.New("passwords do not match")
)

// AppError is an error that carries the HTTP status it should be reported with.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

func NewUnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

func NewInternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, message, ErrInternal)
}

func NewGatewayTimeoutError(message string) *AppError {
	return NewAppError(http.StatusGatewayTimeout, message, ErrInternal)
}

// HTTPStatus maps an error to the status code the transport layer reports it with.
// Unknown errors map to 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr.Code
	case errors.Is(err, ErrSameAccountOperation):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInactiveUser):
		return http.StatusUnauthorized
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrDuplicateRecipient),
		errors.Is(err, ErrRecipientNotFound),
		errors.Is(err, ErrDuplicateCurrencyAccount),
		errors.Is(err, ErrNoOtherDefault),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInvalidOTP),
		errors.Is(err, ErrOTPMaxTries),
		errors.Is(err, ErrAlreadyActive),
		errors.Is(err, ErrPasswordsDiffer):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
