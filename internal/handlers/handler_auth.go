package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iswift/iswift_backend/internal/core/domain"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/dto"
	"github.com/iswift/iswift_backend/internal/middleware"
)

// AuthHandler handles signup, OTP activation and password login.
type AuthHandler struct {
	userService  portssvc.UserSvcFacade
	otpService   portssvc.OTPSvc
	tokenService portssvc.TokenSvcFacade
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us portssvc.UserSvcFacade, otp portssvc.OTPSvc, ts portssvc.TokenSvcFacade) *AuthHandler {
	return &AuthHandler{
		userService:  us,
		otpService:   otp,
		tokenService: ts,
	}
}

// registerAuthRoutes sets up the public authentication routes. loginLimit and
// otpLimit guard the endpoints that can be brute forced.
func registerAuthRoutes(auth *gin.RouterGroup, services *portssvc.ServiceContainer, loginLimit, otpLimit gin.HandlerFunc) {
	h := NewAuthHandler(services.User, services.OTP, services.Token)

	auth.POST("/signup", h.Signup)
	auth.POST("/login", loginLimit, h.Login)
	auth.POST("/verify-otp", h.VerifyOTP)
	auth.POST("/regenerate-otp", otpLimit, h.RegenerateOTP)
}

// registerMeRoute exposes the profile of the authenticated user.
func registerMeRoute(auth *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := &AuthHandler{userService: userService}
	auth.GET("/me", h.Me)
}

// Signup godoc
// @Summary Register new user
// @Description Creates an inactive user and sends an OTP to the phone number.
// @Tags auth
// @Accept json
// @Produce json
// @Param signup body dto.SignupRequest true "User registration info"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email or phone number already registered"
// @Failure 500 {object} ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("User registered", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// Login godoc
// @Summary User login
// @Description Authenticates an active user and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}
	respondWithToken(c, h.tokenService, user)
}

// VerifyOTP godoc
// @Summary Verify OTP
// @Description Checks the code sent at signup and activates the user.
// @Tags auth
// @Accept json
// @Produce json
// @Param otp body dto.VerifyOTPRequest true "Phone number and code"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse "Expired or incorrect OTP"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.otpService.VerifyOTP(c.Request.Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		respondError(c, err, "Failed to verify OTP")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// RegenerateOTP godoc
// @Summary Regenerate OTP
// @Description Sends a new code to an inactive user, subject to the try limit.
// @Tags auth
// @Accept json
// @Produce json
// @Param phone body dto.PhoneNumberRequest true "Phone number"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse "Max OTP try reached"
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/regenerate-otp [post]
func (h *AuthHandler) RegenerateOTP(c *gin.Context) {
	var req dto.PhoneNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.otpService.RegenerateOTP(c.Request.Context(), req.PhoneNumber); err != nil {
		respondError(c, err, "Failed to regenerate OTP")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "OTP sent"})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// respondWithToken issues an access token for user and writes the login response.
func respondWithToken(c *gin.Context, tokens portssvc.TokenSvcFacade, user *domain.User) {
	token, expiresAt, err := tokens.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "Failed to generate token")
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{
		User:      dto.ToUserResponse(user),
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
