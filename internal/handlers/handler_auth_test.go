package handlers_test

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/core/domain"
	"github.com/iswift/iswift_backend/internal/dto"
	"github.com/stretchr/testify/mock"
)

func testUser(active bool) *domain.User {
	return &domain.User{
		UserID:      uuid.NewString(),
		Email:       "ada@example.com",
		FirstName:   "Ada",
		LastName:    "Obi",
		PhoneNumber: "08012345678",
		CountryCode: "234",
		IsActive:    active,
	}
}

func (suite *HandlerTestSuite) TestSignup_Created() {
	user := testUser(false)
	body := dto.SignupRequest{
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		PhoneNumber:     user.PhoneNumber,
		CountryCode:     user.CountryCode,
		Password:        "correct-horse",
		ConfirmPassword: "correct-horse",
	}
	suite.mockUserService.On("Signup", mock.Anything, body).Return(user, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/signup", "", body)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.UserResponse
	suite.decode(w, &res)
	suite.False(res.IsActive)
}

func (suite *HandlerTestSuite) TestSignup_ShortPhoneNumber() {
	w := suite.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]any{
		"email": "ada@example.com", "firstName": "Ada", "lastName": "Obi",
		"phoneNumber": "0801", "countryCode": "234",
		"password": "correct-horse", "confirmPassword": "correct-horse",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestLogin_ReturnsToken() {
	user := testUser(true)
	expiresAt := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	suite.mockUserService.On("AuthenticateUser", mock.Anything, user.Email, "correct-horse").Return(user, nil).Once()
	suite.mockTokenService.On("GenerateAccessToken", mock.Anything, user).Return("signed.jwt.token", expiresAt, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: user.Email, Password: "correct-horse"})

	suite.Equal(http.StatusOK, w.Code)
	var res dto.LoginResponse
	suite.decode(w, &res)
	suite.Equal("signed.jwt.token", res.Token)
	suite.Equal(user.UserID, res.User.UserID)
	suite.True(expiresAt.Equal(res.ExpiresAt))
}

func (suite *HandlerTestSuite) TestLogin_InactiveUser() {
	suite.mockUserService.On("AuthenticateUser", mock.Anything, "ada@example.com", "correct-horse").
		Return(nil, apperrors.ErrInactiveUser).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: "ada@example.com", Password: "correct-horse"})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockTokenService.AssertNotCalled(suite.T(), "GenerateAccessToken", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestVerifyOTP_Rejected() {
	suite.mockOTPService.On("VerifyOTP", mock.Anything, "08012345678", "123456").Return(nil, apperrors.ErrInvalidOTP).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/verify-otp", "", dto.VerifyOTPRequest{PhoneNumber: "08012345678", OTP: "123456"})

	suite.Equal(http.StatusBadRequest, w.Code)
	var res map[string]string
	suite.decode(w, &res)
	suite.Equal(apperrors.ErrInvalidOTP.Error(), res["error"])
}

func (suite *HandlerTestSuite) TestRegenerateOTP() {
	suite.mockOTPService.On("RegenerateOTP", mock.Anything, "08012345678").Return(nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/regenerate-otp", "", dto.PhoneNumberRequest{PhoneNumber: "08012345678"})

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestMe() {
	user := testUser(true)
	suite.mockUserService.On("GetUserByID", mock.Anything, user.UserID).Return(user, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/auth/me", user.UserID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.UserResponse
	suite.decode(w, &res)
	suite.Equal(user.Email, res.Email)
}

func (suite *HandlerTestSuite) TestGoogleExchangeCode_UnknownUser() {
	suite.mockGoogleService.On("SignIn", mock.Anything, "auth-code").Return(nil, apperrors.ErrUnauthorized).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/google/exchange-code", "", dto.GoogleExchangeCodeRequest{Code: "auth-code"})

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestListUsers_PassesPaging() {
	callerID := uuid.NewString()
	next := "next-page"
	suite.mockUserService.On("ListUsers", mock.Anything, callerID,
		mock.MatchedBy(func(p dto.ListUsersParams) bool { return p.Limit == 5 && p.Search == "ada" }),
	).Return([]domain.User{*testUser(true)}, &next, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/finance/users?limit=5&search=ada", callerID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ListUsersResponse
	suite.decode(w, &res)
	suite.Len(res.Users, 1)
	suite.Require().NotNil(res.NextToken)
	suite.Equal(next, *res.NextToken)
}
