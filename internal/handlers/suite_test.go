package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/dto"
	"github.com/iswift/iswift_backend/internal/handlers"
	"github.com/iswift/iswift_backend/internal/platform/config"
	"github.com/stretchr/testify/suite"
)

const (
	testJWTSecret = "test-secret-for-handler-tests"
	testJWTIssuer = "iswift-test"
)

// HandlerTestSuite serves the full route table against mocked services.
type HandlerTestSuite struct {
	suite.Suite
	router *gin.Engine

	mockAccountService  *MockAccountService
	mockTransferService *MockTransferService
	mockHistoryService  *MockHistoryService
	mockCurrencyService *MockCurrencyService
	mockUserService     *MockUserService
	mockOTPService      *MockOTPService
	mockTokenService    *MockTokenService
	mockGoogleService   *MockGoogleOAuthService
}

func (suite *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	v, ok := binding.Validator.Engine().(*validator.Validate)
	suite.Require().True(ok)
	suite.Require().NoError(dto.RegisterValidators(v))
}

func (suite *HandlerTestSuite) SetupTest() {
	suite.mockAccountService = new(MockAccountService)
	suite.mockTransferService = new(MockTransferService)
	suite.mockHistoryService = new(MockHistoryService)
	suite.mockCurrencyService = new(MockCurrencyService)
	suite.mockUserService = new(MockUserService)
	suite.mockOTPService = new(MockOTPService)
	suite.mockTokenService = new(MockTokenService)
	suite.mockGoogleService = new(MockGoogleOAuthService)

	cfg := &config.Config{
		JWTSecret:    testJWTSecret,
		JWTIssuer:    testJWTIssuer,
		IsProduction: true,
	}
	services := &portssvc.ServiceContainer{
		Currency:    suite.mockCurrencyService,
		Account:     suite.mockAccountService,
		Transfer:    suite.mockTransferService,
		History:     suite.mockHistoryService,
		User:        suite.mockUserService,
		OTP:         suite.mockOTPService,
		Token:       suite.mockTokenService,
		GoogleOAuth: suite.mockGoogleService,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, services, handlers.RateLimits{})
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.mockAccountService.AssertExpectations(suite.T())
	suite.mockTransferService.AssertExpectations(suite.T())
	suite.mockHistoryService.AssertExpectations(suite.T())
	suite.mockCurrencyService.AssertExpectations(suite.T())
	suite.mockUserService.AssertExpectations(suite.T())
	suite.mockOTPService.AssertExpectations(suite.T())
	suite.mockTokenService.AssertExpectations(suite.T())
	suite.mockGoogleService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    testJWTIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	suite.Require().NoError(err)
	return signed
}

// do serves a request; userID == "" sends it without a token.
func (suite *HandlerTestSuite) do(method, url, userID string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}
