package handlers_test

import (
	"context"
	"time"

	"github.com/iswift/iswift_backend/internal/core/domain"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccount(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, userID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountDetail(ctx context.Context, userID string, accountID string) (*domain.AccountDetail, error) {
	args := m.Called(ctx, userID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountDetail), args.Error(1)
}
func (m *MockAccountService) FindDefault(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, userID string, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, userID, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) SetDefault(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, userID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UnsetDefault(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, userID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) Debit(ctx context.Context, tx pgx.Tx, account *domain.Account, amount decimal.Decimal, actorID string) error {
	args := m.Called(ctx, tx, account, amount, actorID)
	return args.Error(0)
}
func (m *MockAccountService) Credit(ctx context.Context, tx pgx.Tx, account *domain.Account, debit domain.DebitTransaction, amountInSource decimal.Decimal) (*domain.CreditTransaction, error) {
	args := m.Called(ctx, tx, account, debit, amountInSource)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditTransaction), args.Error(1)
}

// --- Mock TransferService ---
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Execute(ctx context.Context, callerID string, senderAccountID string, recipients []domain.TransferRecipient, description string) (*domain.DebitTransaction, error) {
	args := m.Called(ctx, callerID, senderAccountID, recipients, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebitTransaction), args.Error(1)
}

// --- Mock TransactionHistoryService ---
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) ListForAccount(ctx context.Context, userID string, accountID string) ([]domain.TransactionView, error) {
	args := m.Called(ctx, userID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionView), args.Error(1)
}
func (m *MockHistoryService) GetTransaction(ctx context.Context, userID string, txType string, transactionID string) (*domain.TransactionRecord, error) {
	args := m.Called(ctx, userID, txType, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionRecord), args.Error(1)
}

// --- Mock CurrencyService ---
type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) ListCurrencies(ctx context.Context, activeOnly bool) ([]domain.Currency, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}
func (m *MockCurrencyService) GetCurrency(ctx context.Context, isoCode string) (*domain.Currency, error) {
	args := m.Called(ctx, isoCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}
func (m *MockCurrencyService) ResolveRate(ctx context.Context, base, target string) (decimal.Decimal, *domain.ConversionRate, error) {
	args := m.Called(ctx, base, target)
	var row *domain.ConversionRate
	if r := args.Get(1); r != nil {
		row = r.(*domain.ConversionRate)
	}
	return args.Get(0).(decimal.Decimal), row, args.Error(2)
}
func (m *MockCurrencyService) Convert(ctx context.Context, base, target string, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, base, target, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) ListUsers(ctx context.Context, callerID string, params dto.ListUsersParams) ([]domain.User, *string, error) {
	args := m.Called(ctx, callerID, params)
	var next *string
	if n := args.Get(1); n != nil {
		next = n.(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.User), next, args.Error(2)
}
func (m *MockUserService) Signup(ctx context.Context, req dto.SignupRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock OTPService ---
type MockOTPService struct {
	mock.Mock
}

func (m *MockOTPService) RegenerateOTP(ctx context.Context, phoneNumber string) error {
	args := m.Called(ctx, phoneNumber)
	return args.Error(0)
}
func (m *MockOTPService) VerifyOTP(ctx context.Context, phoneNumber string, otp string) (*domain.User, error) {
	args := m.Called(ctx, phoneNumber, otp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// --- Mock GoogleOAuthService ---
type MockGoogleOAuthService struct {
	mock.Mock
}

func (m *MockGoogleOAuthService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}
func (m *MockGoogleOAuthService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*domain.GoogleUserInfo, error) {
	args := m.Called(ctx, idTokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GoogleUserInfo), args.Error(1)
}
func (m *MockGoogleOAuthService) SignIn(ctx context.Context, code string) (*domain.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// Ensure mocks implement the interfaces
var (
	_ portssvc.AccountSvcFacade            = (*MockAccountService)(nil)
	_ portssvc.TransferSvc                 = (*MockTransferService)(nil)
	_ portssvc.TransactionHistorySvc       = (*MockHistoryService)(nil)
	_ portssvc.CurrencySvcFacade           = (*MockCurrencyService)(nil)
	_ portssvc.UserSvcFacade               = (*MockUserService)(nil)
	_ portssvc.OTPSvc                      = (*MockOTPService)(nil)
	_ portssvc.TokenSvcFacade              = (*MockTokenService)(nil)
	_ portssvc.GoogleOAuthHandlerSvcFacade = (*MockGoogleOAuthService)(nil)
)
