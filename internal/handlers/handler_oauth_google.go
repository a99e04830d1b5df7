package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/dto"
	"github.com/iswift/iswift_backend/internal/middleware"
)

// GoogleOAuthHandler handles Google OAuth related requests.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	tokenService       portssvc.TokenSvcFacade
}

// NewGoogleOAuthHandler creates a new instance of GoogleOAuthHandler.
func NewGoogleOAuthHandler(googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade, tokenService portssvc.TokenSvcFacade) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		googleOAuthService: googleOAuthService,
		tokenService:       tokenService,
	}
}

func registerGoogleOAuthRoutes(auth *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := NewGoogleOAuthHandler(services.GoogleOAuth, services.Token)
	auth.POST("/google/exchange-code", h.ExchangeCodeGoogle)
}

// ExchangeCodeGoogle handles the authorization code the frontend received from Google.
// The code is exchanged for Google tokens, the ID token is validated and its verified
// email is mapped to an existing active user, who gets an application JWT.
// @Summary Exchange Google authorization code for an access token
// @Tags oauth
// @Accept  json
// @Produce  json
// @Param   code body dto.GoogleExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse "Missing authorization code"
// @Failure 401 {object} ErrorResponse "Code rejected or no active user for the Google email"
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/exchange-code [post]
func (h *GoogleOAuthHandler) ExchangeCodeGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.GoogleExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	logger.InfoContext(ctx, "Received authorization code, attempting Google sign-in")
	user, err := h.googleOAuthService.SignIn(ctx, req.Code)
	if err != nil {
		respondError(c, err, "Failed to sign in with Google")
		return
	}

	logger.InfoContext(ctx, "Google sign-in succeeded", slog.String("user_id", user.UserID))
	respondWithToken(c, h.tokenService, user)
}
